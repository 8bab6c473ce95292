// Package tui provides the terminal chat screen for webhookchat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/webhookchat/internal/errors"
	"github.com/diogo/webhookchat/internal/render"
)

// Styles holds every lipgloss style of the chat screen for one theme.
// It is rebuilt whenever the theme changes.
type Styles struct {
	Theme render.TUITheme

	// Header
	Header   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Hint     lipgloss.Style

	// Messages
	MessagesArea lipgloss.Style
	UserLabel    lipgloss.Style
	UserBubble   lipgloss.Style
	BotLabel     lipgloss.Style
	BotBubble    lipgloss.Style
	ErrorBubble  lipgloss.Style
	Timestamp    lipgloss.Style
	Thinking     lipgloss.Style

	// Audio indicator
	AudioIdle     lipgloss.Style
	AudioPlaying  lipgloss.Style
	AudioSelected lipgloss.Style

	// Input
	InputPanel lipgloss.Style
	InputLabel lipgloss.Style
	InputText  lipgloss.Style
	InputHint  lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusDesc lipgloss.Style

	// Toasts
	Toast        lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastBody    lipgloss.Style

	Error lipgloss.Style
}

// NewStyles builds the styles for theme
func NewStyles(theme render.TUITheme) Styles {
	s := Styles{Theme: theme}

	s.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2)

	s.Title = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	s.Hint = lipgloss.NewStyle().
		Foreground(theme.TextMute).
		Italic(true)

	s.MessagesArea = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	s.UserLabel = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	s.UserBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.UserBubble).
		Foreground(theme.Text).
		Padding(0, 1)

	s.BotLabel = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	s.BotBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.BotBubble).
		Foreground(theme.Text).
		Padding(0, 1)

	s.ErrorBubble = s.BotBubble.
		BorderForeground(theme.Error).
		Foreground(theme.Error)

	s.Timestamp = lipgloss.NewStyle().
		Foreground(theme.TextMute)

	s.Thinking = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Italic(true)

	s.AudioIdle = lipgloss.NewStyle().
		Foreground(theme.Accent)

	s.AudioPlaying = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	s.AudioSelected = lipgloss.NewStyle().
		Foreground(theme.Background).
		Background(theme.Accent).
		Bold(true)

	s.InputPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	s.InputLabel = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	s.InputText = lipgloss.NewStyle().
		Foreground(theme.Text)

	s.InputHint = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	s.StatusBar = lipgloss.NewStyle().
		Foreground(theme.TextMute)

	s.StatusKey = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Bold(true)

	s.StatusDesc = lipgloss.NewStyle().
		Foreground(theme.TextMute)

	s.Toast = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Foreground(theme.Text).
		Padding(0, 1)

	s.ToastSuccess = s.Toast.BorderForeground(theme.Secondary)
	s.ToastError = s.Toast.BorderForeground(theme.Error)

	s.ToastBody = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	s.Error = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true)

	return s
}

// FormatError returns a styled error message with a hint for the error kind.
func FormatError(err error, theme render.TUITheme) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(theme.Error)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if detail := apierrors.GetDetail(err); detail != "" {
		sb.WriteString(dimStyle.Render("\n  " + strings.ReplaceAll(detail, "\n", "\n  ")))
		return sb.String()
	}

	switch {
	case apierrors.IsConfigError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: set MAKE_WEBHOOK_URL or run 'webhookchat config init'"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: check your connection and the webhook URL"))
	}

	return sb.String()
}

// MenuStyles holds the styles of the settings screen
type MenuStyles struct {
	Header   lipgloss.Style
	Panel    lipgloss.Style
	Section  lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Value    lipgloss.Style
	Enabled  lipgloss.Style
	Disabled lipgloss.Style
	Path     lipgloss.Style
	Feedback lipgloss.Style
}

// NewMenuStyles builds the settings screen styles for theme
func NewMenuStyles(theme render.TUITheme) MenuStyles {
	return MenuStyles{
		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
		Section: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true),
		Item: lipgloss.NewStyle().
			Foreground(theme.Text),
		Selected: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(theme.Accent),
		Value: lipgloss.NewStyle().
			Foreground(theme.TextDim),
		Enabled: lipgloss.NewStyle().
			Foreground(theme.Secondary),
		Disabled: lipgloss.NewStyle().
			Foreground(theme.Error),
		Path: lipgloss.NewStyle().
			Foreground(theme.TextMute).
			Italic(true),
		Feedback: lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true),
	}
}
