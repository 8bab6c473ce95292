// Package render turns bot replies into styled terminal output and holds
// the color themes of the chat screen.
package render

import (
	"os"

	"github.com/diogo/webhookchat/internal/config"
)

// Options configures the markdown renderer behavior.
type Options struct {
	// Width defines the maximum output width (default: 80)
	Width int

	// Style is a glamour style name ("dark", "light", "dracula", "notty",
	// "ascii") or the path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// glamourStyles are the style names glamour resolves without a file
var glamourStyles = []string{"dark", "light", "dracula", "tokyo-night", "pink", "notty", "ascii"}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            config.ThemeDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// OptionsFromConfig builds options from the user's markdown settings.
// An empty markdown style follows the TUI theme; GLAMOUR_STYLE wins over both.
func OptionsFromConfig(cfg config.Config, width int) Options {
	md := cfg.Markdown
	opts := Options{
		Width:            width,
		Style:            md.Style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
	if opts.Style == "" {
		opts.Style = cfg.Theme
	}
	if opts.Style == "" {
		opts.Style = config.ThemeDark
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	return opts
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithEmoji returns Options with emoji support enabled/disabled.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

// IsBuiltinStyle reports whether style is resolved by glamour without a file
func IsBuiltinStyle(style string) bool {
	for _, s := range glamourStyles {
		if s == style {
			return true
		}
	}
	return false
}

// StyleNames returns the built-in markdown style names
func StyleNames() []string {
	out := make([]string, len(glamourStyles))
	copy(out, glamourStyles)
	return out
}
