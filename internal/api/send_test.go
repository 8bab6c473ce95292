package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantText  string
		wantAudio string
	}{
		{
			name:      "audio and text",
			raw:       "https://x/a.mp3, Hi there",
			wantText:  "Hi there",
			wantAudio: "https://x/a.mp3",
		},
		{
			name:      "no marker",
			raw:       "Hi there",
			wantText:  "Hi there",
			wantAudio: "",
		},
		{
			name:      "empty body",
			raw:       "",
			wantText:  "",
			wantAudio: "",
		},
		{
			name:      "whitespace around both parts",
			raw:       "\n  https://cdn.example/clip.mp3,\n\tHello\n",
			wantText:  "Hello",
			wantAudio: "https://cdn.example/clip.mp3",
		},
		{
			name:      "audio only",
			raw:       "https://x/a.mp3,",
			wantText:  "",
			wantAudio: "https://x/a.mp3",
		},
		{
			name:      "only first marker splits",
			raw:       "https://x/a.mp3,see also b.mp3,c",
			wantText:  "see also b.mp3,c",
			wantAudio: "https://x/a.mp3",
		},
		{
			name:      "mp3 without comma is text",
			raw:       "listen to https://x/a.mp3 later",
			wantText:  "listen to https://x/a.mp3 later",
			wantAudio: "",
		},
		{
			name:      "comma inside text",
			raw:       "https://x/a.mp3,Well, hello, friend",
			wantText:  "Well, hello, friend",
			wantAudio: "https://x/a.mp3",
		},
		{
			name:      "uppercase extension is not a marker",
			raw:       "https://x/A.MP3,Hi",
			wantText:  "https://x/A.MP3,Hi",
			wantAudio: "",
		},
		{
			name:      "multibyte text",
			raw:       "https://x/a.mp3,こんにちは 👋",
			wantText:  "こんにちは 👋",
			wantAudio: "https://x/a.mp3",
		},
		{
			name:      "marker at start",
			raw:       ".mp3,text",
			wantText:  "text",
			wantAudio: ".mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := ParseReply(tt.raw)
			assert.Equal(t, tt.wantText, reply.Text)
			assert.Equal(t, tt.wantAudio, reply.AudioURL)
			assert.Equal(t, tt.raw, reply.Raw)
		})
	}
}

func TestParseReplyRoundTrip(t *testing.T) {
	urls := []string{"https://x/a", "  https://cdn.example/voice/123", "", "http://h/with space"}
	texts := []string{"Hi there", "  padded  ", "", "multi\nline\ntext", "comma, inside"}

	for _, u := range urls {
		for _, text := range texts {
			raw := u + ".mp3," + text
			reply := ParseReply(raw)
			assert.Equal(t, strings.TrimSpace(text), reply.Text, "raw=%q", raw)
			assert.Equal(t, strings.TrimSpace(u+".mp3"), reply.AudioURL, "raw=%q", raw)
		}
	}
}

func TestParseReplyFallback(t *testing.T) {
	inputs := []string{"Hi there", "  spaced out \n", "mp3, but no dot", "a.mp3 , b", "\t"}

	for _, in := range inputs {
		reply := ParseReply(in)
		assert.Equal(t, strings.TrimSpace(in), reply.Text, "in=%q", in)
		assert.Empty(t, reply.AudioURL, "in=%q", in)
	}
}
