package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/webhookchat/internal/api"
	"github.com/diogo/webhookchat/internal/config"
	"github.com/diogo/webhookchat/internal/models"
	"github.com/diogo/webhookchat/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewStyleSelect
)

// settingKind says what enter does on a menu row
type settingKind int

const (
	settingToggle settingKind = iota
	settingSubmenu
	settingExit
)

// setting is one row of the settings menu
type setting struct {
	label string
	kind  settingKind
	value func(cfg config.Config) string
	apply func(cfg *config.Config) string // returns feedback
}

func boolLabel(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// settings lists the editable options in menu order
var settings = []setting{
	{
		label: "Theme",
		kind:  settingToggle,
		value: func(cfg config.Config) string { return cfg.Theme },
		apply: func(cfg *config.Config) string {
			cfg.Theme = render.ThemeOrDefault(cfg.Theme).Toggle().Name
			return "Theme set to " + cfg.Theme
		},
	},
	{
		label: "Markdown Style",
		kind:  settingSubmenu,
		value: func(cfg config.Config) string {
			if cfg.Markdown.Style == "" {
				return "follow theme"
			}
			return cfg.Markdown.Style
		},
	},
	{
		label: "Autoplay Audio",
		kind:  settingToggle,
		value: func(cfg config.Config) string { return boolLabel(cfg.Autoplay) },
		apply: func(cfg *config.Config) string {
			cfg.Autoplay = !cfg.Autoplay
			return "Autoplay " + boolLabel(cfg.Autoplay)
		},
	},
	{
		label: "Copy to Clipboard",
		kind:  settingToggle,
		value: func(cfg config.Config) string { return boolLabel(cfg.CopyToClipboard) },
		apply: func(cfg *config.Config) string {
			cfg.CopyToClipboard = !cfg.CopyToClipboard
			return "Copy to clipboard " + boolLabel(cfg.CopyToClipboard)
		},
	},
	{
		label: "Greeting",
		kind:  settingToggle,
		value: func(cfg config.Config) string { return boolLabel(cfg.Greeting != "") },
		apply: func(cfg *config.Config) string {
			if cfg.Greeting == "" {
				cfg.Greeting = models.DefaultGreeting
			} else {
				cfg.Greeting = ""
			}
			return "Greeting " + boolLabel(cfg.Greeting != "")
		},
	},
	{
		label: "Emoji",
		kind:  settingToggle,
		value: func(cfg config.Config) string { return boolLabel(cfg.Markdown.EnableEmoji) },
		apply: func(cfg *config.Config) string {
			cfg.Markdown.EnableEmoji = !cfg.Markdown.EnableEmoji
			return "Emoji " + boolLabel(cfg.Markdown.EnableEmoji)
		},
	},
	{
		label: "Exit",
		kind:  settingExit,
	},
}

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel is the interactive settings editor
type ConfigModel struct {
	config     config.Config
	configPath string
	player     string
	save       func(config.Config) error
	styles     MenuStyles

	// Navigation
	view        configView
	cursor      int
	styleCursor int

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates the settings editor for cfg. player is the
// detected audio player command, shown for reference.
func NewConfigModel(cfg config.Config, player string) ConfigModel {
	configPath, _ := config.GetConfigPath()

	styleCursor := 0
	for i, name := range render.StyleNames() {
		if name == cfg.Markdown.Style {
			styleCursor = i
			break
		}
	}

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		player:          player,
		save:            config.SaveConfig,
		styles:          NewMenuStyles(render.ThemeOrDefault(cfg.Theme)),
		styleCursor:     styleCursor,
		feedbackTimeout: 2 * time.Second,
	}
}

// Config returns the edited configuration
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view == viewStyleSelect {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.moveCursor(-1)

		case "down", "j":
			m.moveCursor(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *ConfigModel) moveCursor(delta int) {
	if m.view == viewStyleSelect {
		n := len(render.StyleNames())
		m.styleCursor = (m.styleCursor + delta + n) % n
		return
	}
	n := len(settings)
	m.cursor = (m.cursor + delta + n) % n
}

// handleSelect applies the row under the cursor and saves
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view == viewStyleSelect {
		m.config.Markdown.Style = render.StyleNames()[m.styleCursor]
		m.view = viewMain
		return m, m.persist("Markdown style set to " + m.config.Markdown.Style)
	}

	row := settings[m.cursor]
	switch row.kind {
	case settingExit:
		return m, tea.Quit
	case settingSubmenu:
		m.view = viewStyleSelect
		return m, nil
	}

	feedback := row.apply(&m.config)
	m.styles = NewMenuStyles(render.ThemeOrDefault(m.config.Theme))
	return m, m.persist(feedback)
}

func (m *ConfigModel) persist(feedback string) tea.Cmd {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = feedback
	}
	return clearFeedback(m.feedbackTimeout)
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return m.styles.Value.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, m.styles.Header.Render("✦ Configuration"))

	webhook := m.styles.Disabled.Render("not set")
	if m.config.WebhookURL != "" {
		webhook = m.styles.Enabled.Render(api.MaskEndpoint(m.config.WebhookURL))
	}
	player := m.styles.Disabled.Render("none found")
	if m.player != "" {
		player = m.styles.Value.Render(m.player)
	}
	paths := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Section.Render("Environment"),
		"   Config:  "+m.styles.Path.Render(m.configPath),
		"   Webhook: "+webhook,
		"   Player:  "+player,
	)
	sections = append(sections, m.styles.Panel.Width(contentWidth).Render(paths))

	var body string
	if m.view == viewStyleSelect {
		body = m.renderStyleSelect()
	} else {
		body = m.renderMainMenu()
	}
	sections = append(sections, m.styles.Panel.Width(contentWidth).Render(body))

	if m.feedback != "" {
		sections = append(sections, m.styles.Feedback.Render("✓ "+m.feedback))
	}

	back := "Exit"
	if m.view == viewStyleSelect {
		back = "Back"
	}
	sections = append(sections, m.styles.Value.Render("↑↓ Navigate  │  Enter Select  │  Esc "+back))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) row(selected bool, text string) string {
	if selected {
		return m.styles.Cursor.Render("▸ ") + m.styles.Selected.Render(text)
	}
	return "  " + m.styles.Item.Render(text)
}

// renderMainMenu renders the settings list
func (m ConfigModel) renderMainMenu() string {
	lines := []string{m.styles.Section.Render("Settings"), ""}
	for i, s := range settings {
		if s.kind == settingExit {
			lines = append(lines, "", m.row(m.cursor == i, s.label))
			continue
		}
		label := s.label + strings.Repeat(" ", 20-len(s.label))
		lines = append(lines, m.row(m.cursor == i, label)+m.styles.Value.Render(s.value(m.config)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderStyleSelect renders the markdown style list
func (m ConfigModel) renderStyleSelect() string {
	lines := []string{m.styles.Section.Render("Select Markdown Style"), ""}
	for i, name := range render.StyleNames() {
		line := m.row(m.styleCursor == i, name)
		if name == m.config.Markdown.Style {
			line += m.styles.Enabled.Render(" (current)")
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RunConfig starts the settings editor
func RunConfig(cfg config.Config, player string) error {
	p := tea.NewProgram(
		NewConfigModel(cfg, player),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
