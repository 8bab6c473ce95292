// Package commands provides CLI commands for webhookchat.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/diogo/webhookchat/internal/config"
	"github.com/diogo/webhookchat/internal/models"
)

// BuildTime is set at build time
var BuildTime = "unknown"

// globalOptions holds the flags shared by every command.
// Non-empty values override the config file and the environment.
type globalOptions struct {
	webhook string
	player  string
	theme   string
}

// load returns the effective configuration with the flags applied
func (o *globalOptions) load(deps *Dependencies) (config.Config, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return cfg, err
	}
	o.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (o *globalOptions) apply(cfg *config.Config) {
	if o.webhook != "" {
		cfg.WebhookURL = o.webhook
	}
	if o.player != "" {
		cfg.Player = o.player
	}
	if o.theme != "" {
		// a markdown style that follows the theme keeps following it
		if cfg.Markdown.Style == cfg.Theme {
			cfg.Markdown.Style = o.theme
		}
		cfg.Theme = o.theme
	}
}

// reportedError marks an error already printed to the user
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	opts := &globalOptions{}
	ask := &askOptions{}

	cmd := &cobra.Command{
		Use:   "webhookchat [message]",
		Short: "Chat with an AI assistant behind an automation webhook",
		Long: `webhookchat sends your messages to an automation webhook (for example a
Make.com scenario) and shows its replies. Replies of the form
"<url>.mp3,<text>" carry a spoken version that can be played.

Examples:
  webhookchat                           Start interactive chat
  webhookchat chat                      Start interactive chat
  webhookchat "What is Go?"             Send a single message
  webhookchat -f prompt.md              Read the message from a file
  cat prompt.md | webhookchat           Read the message from stdin
  webhookchat ask --play "Hello"        Ask and play the spoken reply
  webhookchat config init               Write a default config file`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "webhookchat %s (built %s)\n", models.Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, ask.file, args)
			if err != nil {
				return err
			}

			cfg, err := opts.load(deps)
			if err != nil {
				return err
			}

			if ok {
				return runAsk(cmd.Context(), deps, cfg, ask, prompt)
			}
			return runChat(cmd.Context(), deps, cfg)
		},
	}

	// glog registers -v, -logtostderr, -log_dir... on the standard flag set
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cmd.PersistentFlags().StringVar(&opts.webhook, "webhook", "", "Webhook URL (overrides MAKE_WEBHOOK_URL and the config file)")
	cmd.PersistentFlags().StringVar(&opts.player, "player", "", "Audio player command (mpv, ffplay, mpg123, cvlc...)")
	cmd.PersistentFlags().StringVar(&opts.theme, "theme", "", "Color theme (dark, light)")
	cmd.Flags().Bool("version", false, "Show version and exit")
	ask.bind(cmd)

	cmd.AddCommand(newChatCmd(deps, opts))
	cmd.AddCommand(newAskCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps, opts))

	return cmd
}

// readPrompt returns the message to send from -f, the argument or piped
// stdin, in that order. ok is false when none was given.
func readPrompt(deps *Dependencies, file string, args []string) (prompt string, ok bool, err error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if deps.StdinIsPipe != nil && deps.StdinIsPipe() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	glog.Flush()
	os.Exit(1)
}
