package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/webhookchat/internal/api"
	"github.com/diogo/webhookchat/internal/audio"
	"github.com/diogo/webhookchat/internal/chat"
	"github.com/diogo/webhookchat/internal/config"
	"github.com/diogo/webhookchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, controller *chat.Controller, player tui.AudioControl, cfg config.Config) error
	RunConfig(cfg config.Config, player string) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// LoadConfig returns the effective configuration before flags are applied.
	LoadConfig func() (config.Config, error)

	// NewClient builds the webhook client.
	NewClient func(cfg config.Config) (api.WebhookClientInterface, error)

	// NewPlayer builds the audio player shared by every clip of a run.
	NewPlayer func(cfg config.Config) audio.Player

	// TUI is the terminal user interface.
	TUI TUIInterface

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinIsPipe reports whether stdin carries piped input.
	StdinIsPipe func() bool
	// StdoutIsTerminal reports whether replies can be decorated.
	StdoutIsTerminal func() bool
	// TerminalWidth returns the stdout width in columns.
	TerminalWidth func() int

	WriteClipboard func(text string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, controller *chat.Controller, player tui.AudioControl, cfg config.Config) error {
	return tui.RunChat(ctx, controller, player, cfg)
}

func (d *DefaultTUI) RunConfig(cfg config.Config, player string) error {
	return tui.RunConfig(cfg, player)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig:       config.Load,
		NewClient:        newWebhookClient,
		NewPlayer:        newExecPlayer,
		TUI:              &DefaultTUI{},
		Stdin:            os.Stdin,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		StdinIsPipe:      stdinIsPipe,
		StdoutIsTerminal: isStdoutTTY,
		TerminalWidth:    getTerminalWidth,
		WriteClipboard:   clipboard.WriteAll,
	}
}

func newWebhookClient(cfg config.Config) (api.WebhookClientInterface, error) {
	opts := []api.ClientOption{api.WithTimeout(cfg.TimeoutSeconds)}
	for key, value := range cfg.Headers {
		opts = append(opts, api.WithHeader(key, value))
	}
	return api.NewClient(cfg.WebhookURL, opts...)
}

func newExecPlayer(cfg config.Config) audio.Player {
	return audio.NewExecPlayer(cfg.Player, cfg.PlayerArgs...)
}

// playerCommand returns the binary the configured player resolves to, or ""
func playerCommand(cfg config.Config) string {
	return audio.NewExecPlayer(cfg.Player, cfg.PlayerArgs...).Command()
}

func stdinIsPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
