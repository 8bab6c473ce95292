// Package audio plays the clips linked from bot replies and keeps track of
// which message is currently playing.
package audio

// EventKind tells how a clip stopped on its own
type EventKind int

const (
	// EventEnded is sent when a clip played to its end
	EventEnded EventKind = iota
	// EventError is sent when the player failed while playing
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is emitted by a Player when the current clip stops without being paused
type Event struct {
	Kind   EventKind
	Source string
	Err    error
}

// Player is the single shared playback handle.
//
// SetSource replaces the clip; a clip that is still playing stops without
// emitting an event. Play starts the current source and reports whether the
// start was accepted. Pause stops playback without emitting an event.
// Events delivers ended/error notifications for the current source only.
type Player interface {
	SetSource(url string)
	Play() error
	Pause()
	Events() <-chan Event
	Close() error
}
