package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsUniqueAndOrdered(t *testing.T) {
	const n = 500
	seen := make(map[string]bool, n)
	prev := ""
	for i := 0; i < n; i++ {
		id := NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		if prev != "" {
			assert.Greater(t, id, prev, "ids should sort in creation order")
		}
		prev = id
	}
}

func TestNewUserMessageKeepsRawText(t *testing.T) {
	before := time.Now()
	msg := NewUserMessage("  hello  ")

	assert.Equal(t, SenderUser, msg.Sender)
	assert.Equal(t, "  hello  ", msg.Text)
	assert.Empty(t, msg.AudioURL)
	assert.True(t, msg.IsUser())
	assert.False(t, msg.Timestamp.Before(before))
}

func TestBotMessages(t *testing.T) {
	placeholder := NewPlaceholderMessage()
	assert.Equal(t, SenderBot, placeholder.Sender)
	assert.Equal(t, "Thinking...", placeholder.Text)
	assert.False(t, placeholder.HasAudio())

	withAudio := NewBotMessage("Hi", "https://x/a.mp3")
	assert.True(t, withAudio.HasAudio())
	assert.False(t, withAudio.IsUser())
}

func TestNewErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"with message", errors.New("webhook URL not set"), "Error: webhook URL not set"},
		{"nil error", nil, "Error: Unknown error"},
		{"empty message", errors.New(""), "Error: Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewErrorMessage(tt.err)
			assert.Equal(t, tt.want, msg.Text)
			assert.Equal(t, SenderBot, msg.Sender)
			assert.Empty(t, msg.AudioURL)
		})
	}
}

func TestClock(t *testing.T) {
	msg := Message{Timestamp: time.Date(2024, 5, 1, 9, 7, 30, 0, time.Local)}
	assert.Equal(t, "09:07", msg.Clock())
}

func TestUserMessageNeverHasAudio(t *testing.T) {
	msg := Message{Sender: SenderUser, AudioURL: "https://x/a.mp3"}
	assert.False(t, msg.HasAudio())
}
