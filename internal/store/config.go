package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type GlobalConfig struct {
	// CurrentArticleID is used by commands when no article id is given.
	CurrentArticleID string `json:"currentArticleId,omitempty"`

	Generator GeneratorConfig `json:"generator"`

	// TUI holds optional user preferences for the interactive editor.
	TUI *TUIConfig `json:"tui,omitempty"`
}

// GeneratorConfig configures the chat-completions endpoint. The API key is read
// from the environment only and is never written to config.json.
type GeneratorConfig struct {
	BaseURL       string  `json:"baseUrl,omitempty"`
	Model         string  `json:"model,omitempty"`
	Temperature   float64 `json:"temperature,omitempty"`
	OutlineTokens int     `json:"outlineTokens,omitempty"`
	ContentTokens int     `json:"contentTokens,omitempty"`
	Timeout       string  `json:"timeout,omitempty"`

	APIKey string `json:"-"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// MarkdownStyle is a glamour standard style ("dark", "light", "notty").
	MarkdownStyle string `json:"markdownStyle,omitempty"`
}

const (
	DefaultBaseURL       = "https://api.deepseek.com/beta"
	DefaultModel         = "deepseek-chat"
	DefaultTemperature   = 0.7
	DefaultOutlineTokens = 1000
	DefaultContentTokens = 2000
	DefaultTimeout       = 120 * time.Second
)

// WithDefaults fills unset fields and applies environment overrides.
func (g GeneratorConfig) WithDefaults() GeneratorConfig {
	g.BaseURL = envOr("OUTLINER_BASE_URL", g.BaseURL)
	g.Model = envOr("OUTLINER_MODEL", g.Model)
	g.APIKey = envOr("OUTLINER_API_KEY", os.Getenv("DEEPSEEK_API_KEY"))
	if v := os.Getenv("OUTLINER_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			g.Temperature = f
		}
	}

	if strings.TrimSpace(g.BaseURL) == "" {
		g.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(g.Model) == "" {
		g.Model = DefaultModel
	}
	if g.Temperature <= 0 {
		g.Temperature = DefaultTemperature
	}
	if g.OutlineTokens <= 0 {
		g.OutlineTokens = DefaultOutlineTokens
	}
	if g.ContentTokens <= 0 {
		g.ContentTokens = DefaultContentTokens
	}
	return g
}

// TimeoutDuration parses Timeout, falling back to DefaultTimeout.
func (g GeneratorConfig) TimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(g.Timeout)); err == nil && d > 0 {
		return d
	}
	return DefaultTimeout
}

func (g GeneratorConfig) Validate() error {
	if strings.TrimSpace(g.APIKey) == "" {
		return errors.New("OUTLINER_API_KEY (or DEEPSEEK_API_KEY) is required")
	}
	return nil
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.outliner).
	if v := strings.TrimSpace(os.Getenv("OUTLINER_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".outliner"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp name + rename so the CLI, TUI and server never see a torn file.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
