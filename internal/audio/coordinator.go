package audio

import (
	"sync"

	"github.com/golang/glog"

	apierrors "github.com/diogo/webhookchat/internal/errors"
)

// Coordinator makes sure at most one message is marked as playing.
// It drives the single shared Player and is safe for concurrent use.
type Coordinator struct {
	player Player

	mu      sync.Mutex
	playing string // message id, "" when nothing plays
	source  string // url handed to the player for playing
}

// NewCoordinator creates a coordinator around player
func NewCoordinator(player Player) *Coordinator {
	return &Coordinator{player: player}
}

// Toggle pauses messageID if it is the one playing, otherwise plays url for it.
// A rejected start clears the playing state; the returned error is for logging only.
func (c *Coordinator) Toggle(url, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing != "" && c.playing == messageID {
		c.player.Pause()
		glog.V(1).Infof("audio: paused message %s", messageID)
		c.playing = ""
		c.source = ""
		return nil
	}

	return c.startLocked(url, messageID)
}

// Start plays url for messageID, replacing whatever was playing.
// Unlike Toggle it never pauses.
func (c *Coordinator) Start(url, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(url, messageID)
}

func (c *Coordinator) startLocked(url, messageID string) error {
	c.player.SetSource(url)
	c.playing = messageID
	c.source = url

	if err := c.player.Play(); err != nil {
		c.playing = ""
		c.source = ""
		perr := apierrors.NewPlaybackError(url, err)
		glog.Warningf("audio: %v", perr)
		return perr
	}
	return nil
}

// Stop pauses any playback and clears the state
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing == "" {
		return
	}
	c.player.Pause()
	c.playing = ""
	c.source = ""
}

// HandleEvent clears the playing state when the current clip ended or failed.
// Events for a source that is no longer current are ignored.
func (c *Coordinator) HandleEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing == "" || ev.Source != c.source {
		glog.V(2).Infof("audio: ignoring stale %s event for %s", ev.Kind, ev.Source)
		return
	}

	if ev.Kind == EventError {
		glog.Warningf("audio: playback of %s failed: %v", ev.Source, ev.Err)
	} else {
		glog.V(1).Infof("audio: message %s finished", c.playing)
	}
	c.playing = ""
	c.source = ""
}

// Events exposes the player's notifications so callers can feed HandleEvent
func (c *Coordinator) Events() <-chan Event {
	return c.player.Events()
}

// Playing returns the id of the playing message, or ""
func (c *Coordinator) Playing() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// IsPlaying reports whether messageID is the one playing
func (c *Coordinator) IsPlaying(messageID string) bool {
	if messageID == "" {
		return false
	}
	return c.Playing() == messageID
}

// Close stops playback and releases the player
func (c *Coordinator) Close() error {
	c.Stop()
	return c.player.Close()
}
