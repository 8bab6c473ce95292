// Package config handles configuration loading for webhookchat.
//
// Settings are layered: built-in defaults, then ~/.webhookchat/config.json,
// then a .env file in the working directory, then the process environment.
// Command-line flags are applied last by the commands package.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/diogo/webhookchat/internal/models"
)

// Theme names accepted by the TUI and the markdown renderer
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// WebhookURL is the automation endpoint every query is POSTed to.
	// It usually embeds a secret token and is masked whenever it is printed.
	WebhookURL string `json:"webhook_url" env:"MAKE_WEBHOOK_URL"`
	// Player is the command-line audio player; empty picks the first of
	// mpv, ffplay, mpg123 or cvlc found on PATH.
	Player     string   `json:"player,omitempty" env:"WEBHOOKCHAT_PLAYER"`
	PlayerArgs []string `json:"player_args,omitempty" env:"WEBHOOKCHAT_PLAYER_ARGS" envSeparator:" "`
	Theme      string   `json:"theme" env:"WEBHOOKCHAT_THEME"`
	// TimeoutSeconds bounds each webhook request; 0 keeps the transport default.
	TimeoutSeconds int `json:"timeout_seconds" env:"WEBHOOKCHAT_TIMEOUT"`
	// Greeting is the bot message a conversation opens with; "" disables it.
	Greeting        string         `json:"greeting" env:"WEBHOOKCHAT_GREETING"`
	Autoplay        bool           `json:"autoplay" env:"WEBHOOKCHAT_AUTOPLAY"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	// Headers are added to every webhook request, e.g. an API key the
	// scenario checks. WEBHOOKCHAT_HEADERS takes "Name:value,Name:value".
	Headers  map[string]string `json:"headers,omitempty" env:"WEBHOOKCHAT_HEADERS"`
	Markdown MarkdownConfig    `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            ThemeDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Theme:           ThemeDark,
		TimeoutSeconds:  0,
		Greeting:        models.DefaultGreeting,
		Autoplay:        true,
		CopyToClipboard: false,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Validate checks values a typo could silently break.
// The webhook URL is not checked here: a bad endpoint fails its request instead.
func (c Config) Validate() error {
	switch c.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("invalid theme %q (want %q or %q)", c.Theme, ThemeDark, ThemeLight)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid timeout_seconds %d", c.TimeoutSeconds)
	}
	return nil
}

// ValidateWebhookURL reports a webhook URL that cannot be POSTed to.
// An empty URL is accepted.
func ValidateWebhookURL(raw string) error {
	if raw != "" && !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return fmt.Errorf("webhook_url must start with http:// or https://")
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".webhookchat")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the config holds the webhook secret
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration file on top of the defaults
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from the given files (default ".env")
// into the environment. Variables already set win; missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables on cfg. Unset variables leave
// the field untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// Load returns the effective configuration: defaults, config file, .env, environment
func Load() (Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return cfg, err
	}
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Markdown.Style == "" {
		cfg.Markdown.Style = cfg.Theme
	}
	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// AvailableThemes returns the theme names the TUI understands
func AvailableThemes() []string {
	return []string{ThemeDark, ThemeLight}
}
