package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang/glog"

	"github.com/diogo/webhookchat/internal/api"
	"github.com/diogo/webhookchat/internal/audio"
	"github.com/diogo/webhookchat/internal/chat"
	"github.com/diogo/webhookchat/internal/config"
	"github.com/diogo/webhookchat/internal/models"
	"github.com/diogo/webhookchat/internal/render"
)

// writeClipboard is swapped in tests
var writeClipboard = clipboard.WriteAll

// Message types for the TUI
type (
	// turnResolvedMsg carries a finished webhook turn
	turnResolvedMsg struct {
		outcome chat.Outcome
	}
	// playerEventMsg carries an ended/error notification from the player
	playerEventMsg struct {
		event audio.Event
	}
)

// AudioControl is the playback surface the chat screen drives.
// *audio.Coordinator implements it.
type AudioControl interface {
	Toggle(url, messageID string) error
	IsPlaying(messageID string) bool
	HandleEvent(ev audio.Event)
	Events() <-chan audio.Event
}

// Model represents the TUI state
type Model struct {
	ctx        context.Context
	controller *chat.Controller
	player     AudioControl

	theme    render.TUITheme
	styles   Styles
	mdOpts   render.Options
	endpoint string // masked, for the header
	autoCopy bool

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	pending      map[string]bool // placeholder ids of turns in flight
	failed       map[string]bool // ids of "Error: ..." messages
	selected     string          // id of the audio message tab selected, "" for latest
	toast        *toast
	toastSeq     int
	ready        bool
	lastMsgCount int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(ctx context.Context, controller *chat.Controller, player AudioControl, cfg config.Config) Model {
	theme := render.ThemeOrDefault(cfg.Theme)
	styles := NewStyles(theme)

	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()
	applyTextareaStyles(&ta, styles)

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = styles.Thinking

	mdOpts := render.OptionsFromConfig(cfg, 80)

	return Model{
		ctx:        ctx,
		controller: controller,
		player:     player,
		theme:      theme,
		styles:     styles,
		mdOpts:     mdOpts,
		endpoint:   api.MaskEndpoint(cfg.WebhookURL),
		autoCopy:   cfg.CopyToClipboard,
		textarea:   ta,
		spinner:    s,
		pending:    make(map[string]bool),
		failed:     make(map[string]bool),
	}
}

func applyTextareaStyles(ta *textarea.Model, styles Styles) {
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = styles.InputText
	ta.FocusedStyle.Placeholder = styles.InputHint
	ta.BlurredStyle = ta.FocusedStyle
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.waitForPlayerEvent(),
	)
}

// waitForPlayerEvent blocks until the player reports a clip stopping on its own
func (m Model) waitForPlayerEvent() tea.Cmd {
	if m.player == nil {
		return nil
	}
	events := m.player.Events()
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return playerEventMsg{event: ev}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3 // Header panel with border
		inputHeight := 5  // Input panel with border
		statusHeight := 1 // Status bar

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 2)
		m.mdOpts.Width = m.bubbleWidth() - 4
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.selected != "" {
				m.selected = ""
				m.updateViewport()
				return m, nil
			}
			return m, tea.Quit

		case "enter":
			return m, m.submit()

		case "ctrl+p":
			m.toggleAudio()
			m.updateViewport()
			return m, nil

		case "tab":
			m.moveSelection(1)
			m.updateViewport()
			return m, nil

		case "shift+tab":
			m.moveSelection(-1)
			m.updateViewport()
			return m, nil

		case "ctrl+y":
			return m, m.copyReply()

		case "ctrl+t":
			return m, m.toggleTheme()

		case "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)

	case turnResolvedMsg:
		delete(m.pending, msg.outcome.Turn.PlaceholderID)
		if msg.outcome.Failed() {
			m.failed[msg.outcome.Message.ID] = true
		} else if m.autoCopy {
			if err := writeClipboard(msg.outcome.Message.Text); err != nil {
				glog.Warningf("tui: clipboard: %v", err)
			}
		}
		m.updateViewport()

	case playerEventMsg:
		if m.player != nil {
			m.player.HandleEvent(msg.event)
		}
		m.updateViewport()
		cmds = append(cmds, m.waitForPlayerEvent())

	case toastExpiredMsg:
		m.dismissToast(msg.id)

	case spinner.TickMsg:
		if len(m.pending) > 0 {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.updateViewport()
		}

	default:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit starts a turn for the input text. Blank input does nothing.
func (m *Model) submit() tea.Cmd {
	turn, err := m.controller.Begin(m.textarea.Value())
	if err != nil {
		return nil
	}
	m.textarea.Reset()

	m.pending[turn.PlaceholderID] = true
	m.updateViewport()

	cmds := []tea.Cmd{m.resolveTurn(turn)}
	if len(m.pending) == 1 {
		// restart the spinner; a running one keeps ticking on its own
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// resolveTurn sends the query off the event loop
func (m Model) resolveTurn(turn chat.Turn) tea.Cmd {
	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	controller := m.controller
	return func() tea.Msg {
		return turnResolvedMsg{outcome: controller.Resolve(ctx, turn)}
	}
}

// audioMessages returns the bot messages that carry a clip, oldest first
func (m Model) audioMessages() []models.Message {
	var out []models.Message
	for _, msg := range m.controller.Messages() {
		if msg.HasAudio() {
			out = append(out, msg)
		}
	}
	return out
}

// audioTarget returns the selected audio message, or the latest one
func (m Model) audioTarget() (models.Message, bool) {
	if m.selected != "" {
		if msg, ok := m.controller.Store().Get(m.selected); ok && msg.HasAudio() {
			return msg, true
		}
	}
	return m.controller.Store().LastWithAudio()
}

// toggleAudio plays or pauses the target message's clip.
// A rejected start is logged by the coordinator and only resets playback.
func (m *Model) toggleAudio() {
	if m.player == nil {
		return
	}
	target, ok := m.audioTarget()
	if !ok {
		return
	}
	_ = m.player.Toggle(target.AudioURL, target.ID)
}

// moveSelection cycles through audio messages; wraps to "latest" at either end
func (m *Model) moveSelection(delta int) {
	list := m.audioMessages()
	if len(list) == 0 {
		m.selected = ""
		return
	}

	idx := -1
	for i, msg := range list {
		if msg.ID == m.selected {
			idx = i
			break
		}
	}

	switch {
	case idx == -1 && delta < 0:
		idx = len(list) - 1
	case idx == -1:
		idx = 0
	default:
		idx += delta
	}

	if idx < 0 || idx >= len(list) {
		m.selected = ""
		return
	}
	m.selected = list[idx].ID
}

// copyReply copies the selected or latest bot reply to the clipboard
func (m *Model) copyReply() tea.Cmd {
	text := ""
	if m.selected != "" {
		if msg, ok := m.controller.Store().Get(m.selected); ok {
			text = msg.Text
		}
	}
	if text == "" {
		for _, msg := range m.controller.Messages() {
			if msg.Sender == models.SenderBot && !m.pending[msg.ID] {
				text = msg.Text
			}
		}
	}
	if text == "" {
		return m.showToast(toastInfo, "Nothing to copy", "")
	}

	if err := writeClipboard(text); err != nil {
		glog.Warningf("tui: clipboard: %v", err)
		return m.showToast(toastError, "Copy failed", err.Error())
	}
	return m.showToast(toastSuccess, "Copied to clipboard", truncate(text, 60))
}

// toggleTheme switches between the dark and light themes
func (m *Model) toggleTheme() tea.Cmd {
	wasThemeStyle := m.mdOpts.Style == m.theme.MarkdownStyle

	m.theme = m.theme.Toggle()
	m.styles = NewStyles(m.theme)
	applyTextareaStyles(&m.textarea, m.styles)
	m.spinner.Style = m.styles.Thinking
	if wasThemeStyle {
		m.mdOpts.Style = m.theme.MarkdownStyle
	}
	m.updateViewport()

	title := "Dark theme"
	if m.theme.Name == config.ThemeLight {
		title = "Light theme"
	}
	return m.showToast(toastInfo, title, "")
}

func (m Model) bubbleWidth() int {
	w := m.viewport.Width * 4 / 5
	if w < 20 {
		w = 20
	}
	return w
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	msgs := m.controller.Messages()
	var content strings.Builder

	for i, msg := range msgs {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(m.renderMessage(msg))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
	if len(msgs) != m.lastMsgCount {
		m.viewport.GotoBottom()
		m.lastMsgCount = len(msgs)
	}
}

// renderMessage renders one message bubble with its label and timestamp
func (m Model) renderMessage(msg models.Message) string {
	width := m.bubbleWidth()
	stamp := m.styles.Timestamp.Render(msg.Clock())

	if msg.IsUser() {
		label := m.styles.UserLabel.Render("You") + "  " + stamp
		bubble := m.styles.UserBubble.Width(width).Render(msg.Text)
		block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
		return lipgloss.PlaceHorizontal(m.viewport.Width-2, lipgloss.Right, block)
	}

	label := m.styles.BotLabel.Render("Assistant") + "  " + stamp

	var body string
	switch {
	case m.pending[msg.ID]:
		body = m.spinner.View() + " " + m.styles.Thinking.Render(msg.Text)
	case m.failed[msg.ID]:
		body = msg.Text
	default:
		body = render.BotText(msg.Text, m.mdOpts)
	}

	if msg.HasAudio() {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", m.renderAudioButton(msg))
	}

	bubbleStyle := m.styles.BotBubble
	if m.failed[msg.ID] {
		bubbleStyle = m.styles.ErrorBubble
	}
	bubble := bubbleStyle.Width(width).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// renderAudioButton renders the "Play Audio"/"Playing..." indicator
func (m Model) renderAudioButton(msg models.Message) string {
	playing := m.player != nil && m.player.IsPlaying(msg.ID)

	text := "▶ Play Audio"
	style := m.styles.AudioIdle
	if playing {
		text = "♪ Playing..."
		style = m.styles.AudioPlaying
	}
	if msg.ID == m.selected {
		style = m.styles.AudioSelected
	}
	return style.Render(text)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return m.styles.Thinking.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	// Header
	themeIcon := "☾"
	if m.theme.Name == config.ThemeLight {
		themeIcon = "☀"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Title.Render("AI Chatbot"),
		m.styles.Hint.Render("  •  "),
		m.styles.Subtitle.Render(m.endpoint),
		m.styles.Hint.Render("  •  "),
		m.styles.Subtitle.Render(themeIcon+" "+m.theme.Name),
	)
	sections = append(sections, m.styles.Header.Width(contentWidth).Render(header))

	// Messages
	sections = append(sections, m.styles.MessagesArea.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View()))

	if t := m.renderToast(); t != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(contentWidth, lipgloss.Right, t))
	}

	// Input
	label := m.styles.InputLabel.Render("You")
	if n := len(m.pending); n > 0 {
		label += m.styles.Hint.Render(fmt.Sprintf("  (%d waiting)", n))
	}
	input := lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
	sections = append(sections, m.styles.InputPanel.Width(contentWidth).Render(input))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"^P", "Play/Pause"},
		{"Tab", "Select audio"},
		{"^Y", "Copy"},
		{"^T", "Theme"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, m.styles.StatusKey.Render(s.key)+m.styles.StatusDesc.Render(" "+s.desc))
	}

	return m.styles.StatusBar.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(ctx context.Context, controller *chat.Controller, player AudioControl, cfg config.Config) error {
	m := NewChatModel(ctx, controller, player, cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
