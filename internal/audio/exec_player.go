package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/golang/glog"
)

// Known command-line players, tried in order when none is configured.
// Each entry holds the flags that make the player audio-only and quiet.
var knownPlayers = []struct {
	name string
	args []string
}{
	{"mpv", []string{"--no-video", "--really-quiet", "--no-terminal"}},
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{"mpg123", []string{"-q"}},
	{"cvlc", []string{"--play-and-exit", "--quiet"}},
}

// ErrNoPlayer is returned by Play when no player binary is available
var ErrNoPlayer = errors.New("no audio player found (install mpv, ffplay or mpg123, or set \"player\")")

// ErrNoSource is returned by Play before any source was set
var ErrNoSource = errors.New("no audio source set")

// lookPath is swapped in tests
var lookPath = exec.LookPath

// ExecPlayer plays clips by running an external command-line player.
// One process runs at a time; starting or pausing kills the previous one.
type ExecPlayer struct {
	command string
	args    []string

	mu      sync.Mutex
	source  string
	cancel  context.CancelFunc
	current uint64 // sequence number of the running process, 0 when idle
	seq     uint64
	events  chan Event
	closed  bool
}

// Ensure ExecPlayer implements Player
var _ Player = (*ExecPlayer)(nil)

// NewExecPlayer creates a player around command. An empty command picks the
// first known player found on PATH; extra args are appended before the URL.
func NewExecPlayer(command string, extraArgs ...string) *ExecPlayer {
	p := &ExecPlayer{
		events: make(chan Event, 8),
	}

	if command != "" {
		p.command = command
		for _, known := range knownPlayers {
			if known.name == command {
				p.args = append(p.args, known.args...)
			}
		}
	} else {
		for _, known := range knownPlayers {
			if path, err := lookPath(known.name); err == nil {
				p.command = path
				p.args = append(p.args, known.args...)
				break
			}
		}
	}
	p.args = append(p.args, extraArgs...)

	return p
}

// Command returns the player binary, or "" when none was found
func (p *ExecPlayer) Command() string {
	return p.command
}

// SetSource replaces the clip, stopping the running one silently
func (p *ExecPlayer) SetSource(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.source = url
}

// Play starts the current source in a new player process
func (p *ExecPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("player is closed")
	}
	if p.source == "" {
		return ErrNoSource
	}
	if p.command == "" {
		return ErrNoPlayer
	}

	p.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	args := append(append([]string{}, p.args...), p.source)
	cmd := exec.CommandContext(ctx, p.command, args...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start %s: %w", p.command, err)
	}

	p.seq++
	seq := p.seq
	source := p.source
	p.current = seq
	p.cancel = cancel

	glog.V(1).Infof("audio: playing %s with %s (pid %d)", source, p.command, cmd.Process.Pid)

	go p.wait(cmd, seq, source)
	return nil
}

// wait reports the natural end of process seq unless it was stopped meanwhile
func (p *ExecPlayer) wait(cmd *exec.Cmd, seq uint64, source string) {
	err := cmd.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != seq || p.closed {
		return
	}
	p.current = 0
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	ev := Event{Kind: EventEnded, Source: source}
	if err != nil {
		ev.Kind = EventError
		ev.Err = err
	}

	select {
	case p.events <- ev:
	default:
		glog.Warningf("audio: dropped %s event for %s", ev.Kind, source)
	}
}

// Pause stops the running clip without emitting an event
func (p *ExecPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// stopLocked kills the running process; p.mu must be held
func (p *ExecPlayer) stopLocked() {
	p.current = 0
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Events returns the ended/error notification channel
func (p *ExecPlayer) Events() <-chan Event {
	return p.events
}

// Close stops playback; no events are sent afterwards
func (p *ExecPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.stopLocked()
	p.closed = true
	return nil
}
