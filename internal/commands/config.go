package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/webhookchat/internal/api"
	"github.com/diogo/webhookchat/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	if opts == nil {
		opts = &globalOptions{}
	}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long: `Interactive menu to configure webhookchat settings.

The webhook URL is read from MAKE_WEBHOOK_URL, a .env file or the
"webhook_url" field of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the menu edits the file only, never values from the environment
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			effective, err := opts.load(deps)
			if err != nil {
				return err
			}
			return deps.TUI.RunConfig(cfg, playerCommand(effective))
		},
	}

	cmd.AddCommand(newConfigShowCmd(deps, opts))
	cmd.AddCommand(newConfigPathCmd(deps))
	cmd.AddCommand(newConfigInitCmd(deps, opts))

	return cmd
}

func newConfigShowCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(deps)
			if err != nil {
				return err
			}
			cfg.WebhookURL = api.MaskEndpoint(cfg.WebhookURL)
			if len(cfg.Headers) > 0 {
				masked := make(map[string]string, len(cfg.Headers))
				for key := range cfg.Headers {
					masked[key] = "********"
				}
				cfg.Headers = masked
			}

			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(deps.Stdout, string(data))
			return nil
		},
	}
}

func newConfigPathCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	}
}

func newConfigInitCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write a config file with the default settings.

Global flags are stored too, so
  webhookchat config init --webhook https://hook.example/abc
records the webhook URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()
			opts.apply(&cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := config.ValidateWebhookURL(cfg.WebhookURL); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(deps.Stdout, "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
