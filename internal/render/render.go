package render

import (
	"strings"

	"github.com/golang/glog"
)

// Markdown renders markdown content for terminal display.
// Results are cached per content and option set.
func Markdown(content string, opts Options) (string, error) {
	return defaultCache.render(content, opts)
}

// MarkdownWithWidth renders with the default options at width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// BotText renders a bot reply for the chat screen. Glamour's outer padding
// is trimmed, and the raw text is returned when rendering fails.
func BotText(text string, opts Options) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	out, err := Markdown(text, opts)
	if err != nil {
		glog.V(1).Infof("render: falling back to plain text: %v", err)
		return text
	}
	return strings.Trim(out, "\n")
}
