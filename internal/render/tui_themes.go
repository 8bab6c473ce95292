package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/webhookchat/internal/config"
)

// TUITheme defines the color scheme of the chat screen
type TUITheme struct {
	Name        string
	Description string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color

	// Bubbles
	UserBubble lipgloss.Color
	BotBubble  lipgloss.Color

	// MarkdownStyle is the glamour style matching this theme
	MarkdownStyle string
}

// Built-in TUI themes
var (
	// DarkTheme is the default theme
	DarkTheme = TUITheme{
		Name:        config.ThemeDark,
		Description: "Dark background with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),

		UserBubble: lipgloss.Color("#3d59a1"),
		BotBubble:  lipgloss.Color("#24283b"),

		MarkdownStyle: "dark",
	}

	// LightTheme suits bright terminals
	LightTheme = TUITheme{
		Name:        config.ThemeLight,
		Description: "Light background with blue accents",

		Background: lipgloss.Color("#f8fafc"),
		Surface:    lipgloss.Color("#e2e8f0"),
		Border:     lipgloss.Color("#cbd5e1"),

		Primary:   lipgloss.Color("#2563eb"),
		Secondary: lipgloss.Color("#16a34a"),
		Accent:    lipgloss.Color("#7c3aed"),
		Warning:   lipgloss.Color("#b45309"),
		Error:     lipgloss.Color("#dc2626"),

		Text:     lipgloss.Color("#0f172a"),
		TextDim:  lipgloss.Color("#64748b"),
		TextMute: lipgloss.Color("#94a3b8"),

		UserBubble: lipgloss.Color("#bfdbfe"),
		BotBubble:  lipgloss.Color("#e2e8f0"),

		MarkdownStyle: "light",
	}
)

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	switch name {
	case config.ThemeDark:
		return DarkTheme, true
	case config.ThemeLight:
		return LightTheme, true
	default:
		return TUITheme{}, false
	}
}

// ThemeOrDefault returns the named theme, or DarkTheme for unknown names
func ThemeOrDefault(name string) TUITheme {
	if theme, ok := GetTUIThemeByName(name); ok {
		return theme
	}
	return DarkTheme
}

// Toggle returns the other theme
func (t TUITheme) Toggle() TUITheme {
	if t.Name == config.ThemeLight {
		return DarkTheme
	}
	return LightTheme
}

// AvailableTUIThemes returns all TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{DarkTheme, LightTheme}
}
