package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// toastDuration is how long a notification stays on screen
const toastDuration = 3 * time.Second

// toastKind selects the border color of a toast
type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

// toast is a short-lived notification shown above the input.
// Only one is visible; a newer toast replaces the current one.
type toast struct {
	id          int
	kind        toastKind
	title       string
	description string
}

// toastExpiredMsg hides the toast with id if it is still shown
type toastExpiredMsg struct {
	id int
}

// showToast displays a toast and schedules its removal
func (m *Model) showToast(kind toastKind, title, description string) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	m.toast = &toast{
		id:          id,
		kind:        kind,
		title:       title,
		description: description,
	}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// dismissToast hides the toast if it is the one that expired
func (m *Model) dismissToast(id int) {
	if m.toast != nil && m.toast.id == id {
		m.toast = nil
	}
}

// renderToast renders the current toast, or ""
func (m Model) renderToast() string {
	if m.toast == nil {
		return ""
	}

	style := m.styles.Toast
	switch m.toast.kind {
	case toastSuccess:
		style = m.styles.ToastSuccess
	case toastError:
		style = m.styles.ToastError
	}

	content := m.toast.title
	if m.toast.description != "" {
		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			m.styles.ToastBody.Render(m.toast.description),
		)
	}
	return style.Render(content)
}
