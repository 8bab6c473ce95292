package commands

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/diogo/webhookchat/internal/api"
	"github.com/diogo/webhookchat/internal/audio"
	"github.com/diogo/webhookchat/internal/chat"
	"github.com/diogo/webhookchat/internal/config"
)

func newChatCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the webhook assistant.

Replies that carry audio show a play indicator; ctrl+p plays the latest one
and tab selects another. Press Esc or Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(deps)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), deps, cfg)
		},
	}
}

// runChat wires client, player and conversation together and runs the TUI
func runChat(ctx context.Context, deps *Dependencies, cfg config.Config) error {
	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	if !client.IsConfigured() {
		glog.Warning("chat: no webhook URL configured; every message will fail")
	} else {
		glog.Infof("chat: using webhook %s", api.MaskEndpoint(client.Endpoint()))
	}

	coord := audio.NewCoordinator(deps.NewPlayer(cfg))
	defer coord.Close()

	controller := chat.NewController(client,
		chat.WithPlayback(coord),
		chat.WithGreeting(cfg.Greeting),
		chat.WithAutoplay(cfg.Autoplay),
	)

	return deps.TUI.RunChat(ctx, controller, coord, cfg)
}
