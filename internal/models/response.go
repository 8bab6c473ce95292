package models

// Reply is a decoded webhook response
type Reply struct {
	Text     string
	AudioURL string // empty when no ".mp3," marker was present
	Raw      string // body exactly as received
}

// HasAudio reports whether the reply carried an audio link
func (r Reply) HasAudio() bool {
	return r.AudioURL != ""
}

// Message builds the bot message for this reply
func (r Reply) Message() Message {
	return NewBotMessage(r.Text, r.AudioURL)
}
