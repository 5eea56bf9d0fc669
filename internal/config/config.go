package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"gopkg.in/yaml.v3"

	"showsearch/internal/theme"
	"showsearch/internal/tvmaze"
)

// Config represents the persisted application configuration.
type Config struct {
	BaseURL         string `yaml:"base_url"`
	UserAgent       string `yaml:"user_agent"`
	Proxy           string `yaml:"proxy,omitempty"`
	TLSVerify       bool   `yaml:"tls_verify"`
	RequestTimeout  int    `yaml:"request_timeout_seconds"`
	ColorTheme      string `yaml:"color_theme"`
	MaxListRows     int    `yaml:"max_list_rows"`
	MaxSummaryLines int    `yaml:"max_summary_lines"`
	SummaryWidth    int    `yaml:"summary_width"`
}

// Defaults returns the baseline configuration used on first run.
func Defaults() Config {
	return Config{
		BaseURL:         tvmaze.DefaultBaseURL,
		UserAgent:       "showsearch/dev",
		TLSVerify:       true,
		RequestTimeout:  15,
		ColorTheme:      theme.Default,
		MaxListRows:     12,
		MaxSummaryLines: 12,
		SummaryWidth:    80,
	}
}

// Ensure loads configuration from the provided path, prompting the user to
// create one if it does not yet exist.
func Ensure(ctx context.Context, path string) (Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cfg = Defaults()
	if err := bootstrap(ctx, &cfg); err != nil {
		return Config{}, err
	}

	if err := Save(path, cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads configuration from disk. Missing or non-positive display limits
// fall back to their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	defaults := Defaults()
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if strings.TrimSpace(cfg.ColorTheme) == "" {
		cfg.ColorTheme = theme.Default
	}
	if cfg.RequestTimeout < 0 {
		cfg.RequestTimeout = 0
	}
	if cfg.MaxListRows <= 0 {
		cfg.MaxListRows = defaults.MaxListRows
	}
	if cfg.MaxSummaryLines <= 0 {
		cfg.MaxSummaryLines = defaults.MaxSummaryLines
	}
	if cfg.SummaryWidth <= 0 {
		cfg.SummaryWidth = defaults.SummaryWidth
	}
	return cfg, nil
}

// Save writes configuration back to disk, ensuring directory permissions are restrictive.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	temp := path + ".tmp"
	if err := os.WriteFile(temp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(temp, path)
}

func bootstrap(ctx context.Context, cfg *Config) error {
	if fromEnv := strings.TrimSpace(os.Getenv("SHOWSEARCH_THEME")); fromEnv != "" {
		cfg.ColorTheme = theme.Canonical(fromEnv)
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	prompt := &survey.Select{
		Message: "Choose a color theme",
		Options: theme.Names(),
		Default: cfg.ColorTheme,
	}

	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return fmt.Errorf("initialisation interrupted")
		}
		return err
	}

	cfg.ColorTheme = theme.Canonical(answer)
	return nil
}

// EditableKeys returns the ordered list of configuration keys exposed via the
// interactive editor.
func EditableKeys() []string {
	return []string{
		"base_url",
		"user_agent",
		"proxy",
		"tls_verify",
		"request_timeout_seconds",
		"color_theme",
		"max_list_rows",
		"max_summary_lines",
		"summary_width",
	}
}

// EditInteractive opens an interactive survey session allowing the user to
// update configuration values.
func EditInteractive(ctx context.Context, cfg Config) (Config, error) {
	questions := []*survey.Question{
		{
			Name: "base_url",
			Prompt: &survey.Input{
				Message: "Show directory API URL",
				Default: cfg.BaseURL,
			},
			Validate: survey.Required,
		},
		{
			Name: "user_agent",
			Prompt: &survey.Input{
				Message: "User agent",
				Default: cfg.UserAgent,
			},
		},
		{
			Name: "proxy",
			Prompt: &survey.Input{
				Message: "HTTP proxy (optional)",
				Default: cfg.Proxy,
			},
		},
		{
			Name: "tls_verify",
			Prompt: &survey.Confirm{
				Message: "Verify TLS certificates",
				Default: cfg.TLSVerify,
			},
		},
		{
			Name: "request_timeout_seconds",
			Prompt: &survey.Input{
				Message: "Request timeout in seconds (0 waits forever)",
				Default: fmt.Sprintf("%d", cfg.RequestTimeout),
			},
			Validate: validateNonNegativeInt,
		},
		{
			Name: "color_theme",
			Prompt: &survey.Select{
				Message: "Color theme",
				Options: theme.Names(),
				Default: cfg.ColorTheme,
			},
		},
		{
			Name: "max_list_rows",
			Prompt: &survey.Input{
				Message: "Rows visible in the result list",
				Default: fmt.Sprintf("%d", cfg.MaxListRows),
			},
			Validate: validatePositiveInt,
		},
		{
			Name: "max_summary_lines",
			Prompt: &survey.Input{
				Message: "Lines visible in the show view",
				Default: fmt.Sprintf("%d", cfg.MaxSummaryLines),
			},
			Validate: validatePositiveInt,
		},
		{
			Name: "summary_width",
			Prompt: &survey.Input{
				Message: "Summary wrap width",
				Default: fmt.Sprintf("%d", cfg.SummaryWidth),
			},
			Validate: validatePositiveInt,
		},
	}

	answers := map[string]interface{}{}
	select {
	case <-ctx.Done():
		return Config{}, ctx.Err()
	default:
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return Config{}, err
	}

	cfg.BaseURL = strings.TrimSpace(answers["base_url"].(string))
	cfg.UserAgent = strings.TrimSpace(answers["user_agent"].(string))
	cfg.Proxy = strings.TrimSpace(answers["proxy"].(string))
	cfg.TLSVerify = answers["tls_verify"].(bool)
	cfg.RequestTimeout = toInt(answers["request_timeout_seconds"])
	switch choice := answers["color_theme"].(type) {
	case survey.OptionAnswer:
		cfg.ColorTheme = choice.Value
	case string:
		cfg.ColorTheme = choice
	}
	cfg.MaxListRows = toInt(answers["max_list_rows"])
	cfg.MaxSummaryLines = toInt(answers["max_summary_lines"])
	cfg.SummaryWidth = toInt(answers["summary_width"])

	return cfg, nil
}

func validatePositiveInt(ans interface{}) error {
	i, err := requiredInt(ans)
	if err != nil {
		return err
	}
	if i <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

func validateNonNegativeInt(ans interface{}) error {
	i, err := requiredInt(ans)
	if err != nil {
		return err
	}
	if i < 0 {
		return errors.New("must be zero or positive")
	}
	return nil
}

func requiredInt(ans interface{}) (int, error) {
	v := strings.TrimSpace(fmt.Sprint(ans))
	if v == "" {
		return 0, errors.New("value required")
	}
	return parseInt(v)
}

func parseInt(value string) (int, error) {
	var i int
	_, err := fmt.Sscanf(value, "%d", &i)
	if err != nil {
		return 0, errors.New("must be a number")
	}
	return i, nil
}

func toInt(value interface{}) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case string:
		i, _ := parseInt(v)
		return i
	default:
		return 0
	}
}
