package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/diogo/webhookchat/internal/api"
	"github.com/diogo/webhookchat/internal/audio"
	"github.com/diogo/webhookchat/internal/chat"
	"github.com/diogo/webhookchat/internal/config"
	apierrors "github.com/diogo/webhookchat/internal/errors"
	"github.com/diogo/webhookchat/internal/render"
	"github.com/diogo/webhookchat/internal/tui"
)

// askOptions holds the flags of a one-shot query
type askOptions struct {
	file      string
	output    string
	saveAudio string
	raw       bool
	play      bool
	copy      bool
}

func (o *askOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Read the message from file")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Save the reply text to file")
	cmd.Flags().StringVar(&o.saveAudio, "save-audio", "", "Save the spoken reply into this directory")
	cmd.Flags().BoolVar(&o.raw, "raw", false, "Print only the reply text, without decoration")
	cmd.Flags().BoolVar(&o.play, "play", false, "Play the spoken reply and wait for it to end")
	cmd.Flags().BoolVar(&o.copy, "copy", false, "Copy the reply text to the clipboard")
}

func newAskCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	ask := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send a single message and print the reply",
		Long: `Send one message to the webhook and print the reply.

The message is taken from the argument, from --file, or from stdin.
On a terminal the reply is rendered as markdown; use --raw for scripts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, ok, err := readPrompt(deps, ask.file, args)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no message given: pass it as an argument, with --file, or on stdin")
			}

			cfg, err := opts.load(deps)
			if err != nil {
				return err
			}
			return runAsk(cmd.Context(), deps, cfg, ask, prompt)
		},
	}
	ask.bind(cmd)

	return cmd
}

// runAsk sends prompt through a conversation without greeting and prints the reply
func runAsk(ctx context.Context, deps *Dependencies, cfg config.Config, opts *askOptions, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	theme := render.ThemeOrDefault(cfg.Theme)
	decorate := !opts.raw && deps.StdoutIsTerminal()

	controllerOpts := []chat.Option{
		chat.WithGreeting(""),
		chat.WithAutoplay(opts.play),
	}
	var coord *audio.Coordinator
	if opts.play {
		coord = audio.NewCoordinator(deps.NewPlayer(cfg))
		defer coord.Close()
		controllerOpts = append(controllerOpts, chat.WithPlayback(coord))
	}
	controller := chat.NewController(client, controllerOpts...)

	var spin *spinner
	if decorate {
		spin = newSpinner(deps.Stderr, "Waiting for the assistant")
		spin.start()
	}

	out, err := controller.Submit(ctx, prompt)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		return err
	}
	if out.Failed() {
		if spin != nil {
			spin.stopWithError()
		}
		if !decorate {
			return out.Err
		}
		fmt.Fprintln(deps.Stderr, tui.FormatError(out.Err, theme))
		return reportedError{out.Err}
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	msg := out.Message
	text := msg.Text

	if opts.copy || cfg.CopyToClipboard {
		if err := deps.WriteClipboard(text); err != nil {
			glog.Warningf("clipboard: %v", err)
			if !opts.raw {
				warn := lipgloss.NewStyle().Foreground(colorWarning).Render(
					fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
				)
				fmt.Fprintln(deps.Stderr, warn)
			}
		} else if !opts.raw {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	switch {
	case opts.output != "":
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !opts.raw {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Reply saved to %s", opts.output),
			))
		}
	case opts.raw:
		fmt.Fprint(deps.Stdout, text)
	case decorate:
		printBubble(deps, cfg, theme, text)
	default:
		fmt.Fprintln(deps.Stdout, text)
	}

	if !msg.HasAudio() {
		return nil
	}
	if !opts.raw {
		fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(theme.TextDim).Render("♪ "+msg.AudioURL))
	}
	if opts.saveAudio != "" {
		saveClip(ctx, deps, client, opts, msg.AudioURL)
	}
	if !opts.play {
		return nil
	}

	if !coord.IsPlaying(msg.ID) {
		warnPlayback(deps, opts, errors.New("the audio player could not start (install mpv or set WEBHOOKCHAT_PLAYER)"))
		return nil
	}
	if err := waitForClip(ctx, coord); err != nil {
		warnPlayback(deps, opts, err)
	}
	return nil
}

// saveClip downloads the reply clip; a failure is only a warning
func saveClip(ctx context.Context, deps *Dependencies, client api.WebhookClientInterface, opts *askOptions, url string) {
	path, err := client.DownloadClip(ctx, url, api.ClipDownloadOptions{Directory: opts.saveAudio})
	if err != nil {
		glog.Warningf("audio: download %s: %v", url, err)
		if !opts.raw {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorWarning).Render("⚠ Failed to save audio: "+err.Error()))
		}
		return
	}
	if !opts.raw {
		fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Audio saved to "+path))
	}
}

// printBubble renders text as markdown inside the assistant bubble
func printBubble(deps *Dependencies, cfg config.Config, theme render.TUITheme, text string) {
	termWidth := deps.TerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	styles := tui.NewStyles(theme)
	fmt.Fprintln(deps.Stdout, styles.BotLabel.Render("✦ Assistant"))

	rendered := render.BotText(text, render.OptionsFromConfig(cfg, contentWidth))
	fmt.Fprintln(deps.Stdout, styles.BotBubble.Width(bubbleWidth).Render(rendered))
}

// waitForClip blocks until the playing clip ends, fails, or ctx is done
func waitForClip(ctx context.Context, coord *audio.Coordinator) error {
	for coord.Playing() != "" {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-coord.Events():
			coord.HandleEvent(ev)
			if ev.Kind == audio.EventError && coord.Playing() == "" {
				return apierrors.NewPlaybackError(ev.Source, ev.Err)
			}
		}
	}
	return nil
}

func warnPlayback(deps *Dependencies, opts *askOptions, err error) {
	glog.Warningf("audio: %v", err)
	if opts.raw {
		return
	}
	fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorWarning).Render("⚠ "+err.Error()))
}
