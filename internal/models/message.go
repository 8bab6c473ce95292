package models

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message represents a chat message for display.
// Messages are values: once created they are only ever removed or replaced as a whole.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	AudioURL  string    `json:"audioUrl,omitempty"` // empty when the reply carried no clip
	Timestamp time.Time `json:"timestamp"`
}

// NewID returns a time-ordered unique message identifier (UUIDv7)
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does
		return uuid.NewString()
	}
	return id.String()
}

// NewUserMessage creates a user message; text is stored exactly as typed
func NewUserMessage(text string) Message {
	return Message{
		ID:        NewID(),
		Sender:    SenderUser,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewBotMessage creates a bot message with an optional audio clip
func NewBotMessage(text, audioURL string) Message {
	return Message{
		ID:        NewID(),
		Sender:    SenderBot,
		Text:      text,
		AudioURL:  audioURL,
		Timestamp: time.Now(),
	}
}

// NewPlaceholderMessage creates the transient "Thinking..." bot message
func NewPlaceholderMessage() Message {
	return NewBotMessage(PlaceholderText, "")
}

// NewErrorMessage creates the bot message reporting a failed request
func NewErrorMessage(err error) Message {
	msg := "Unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return NewBotMessage(ErrorPrefix+msg, "")
}

// HasAudio reports whether the message carries a playable clip
func (m Message) HasAudio() bool {
	return m.Sender == SenderBot && m.AudioURL != ""
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Clock formats the timestamp as HH:MM for display
func (m Message) Clock() string {
	return m.Timestamp.Format("15:04")
}
