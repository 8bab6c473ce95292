// Package models contains data types and constants for the webhook chat client.
package models

// Fixed texts shown in the conversation
const (
	// PlaceholderText is the transient bot message shown while a webhook request is in flight
	PlaceholderText = "Thinking..."

	// DefaultGreeting is the bot message a new conversation starts with
	DefaultGreeting = "Hello! I'm your AI assistant. How can I help you today?"

	// ErrorPrefix prefixes the bot message produced by a failed request
	ErrorPrefix = "Error: "
)

// AudioMarker separates the audio link from the text in a webhook reply.
// The webhook answers "<url>.mp3,<text>"; the marker keeps the ".mp3" on the URL side.
const AudioMarker = ".mp3,"

// DefaultHeaders returns the default headers for webhook requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "text/plain, */*",
		"User-Agent":   "webhookchat/" + Version,
	}
}

// Version is reported in the User-Agent header (set at build time)
var Version = "0.1.0"
