package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_LoadMissingReturnsEmpty(t *testing.T) {
	t.Setenv("OUTLINER_CONFIG_DIR", t.TempDir())
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CurrentArticleID != "" {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestConfig_SaveLoadNeverPersistsKey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OUTLINER_CONFIG_DIR", dir)

	cfg := &GlobalConfig{
		CurrentArticleID: "art-1234",
		Generator:        GeneratorConfig{Model: "custom-model", APIKey: "sk-secret"},
	}
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(b), "sk-secret") {
		t.Fatalf("api key must not be written to config.json: %s", b)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CurrentArticleID != "art-1234" || got.Generator.Model != "custom-model" {
		t.Fatalf("unexpected config: %+v", got)
	}
	if got.Generator.APIKey != "" {
		t.Fatalf("expected api key to stay empty after load")
	}
}

func TestGeneratorConfig_Defaults(t *testing.T) {
	t.Setenv("OUTLINER_BASE_URL", "")
	t.Setenv("OUTLINER_MODEL", "")
	t.Setenv("OUTLINER_API_KEY", "")
	t.Setenv("OUTLINER_TEMPERATURE", "")
	t.Setenv("DEEPSEEK_API_KEY", "ds-key")

	g := GeneratorConfig{}.WithDefaults()
	if g.BaseURL != DefaultBaseURL || g.Model != DefaultModel {
		t.Fatalf("unexpected defaults: %+v", g)
	}
	if g.Temperature != DefaultTemperature || g.OutlineTokens != 1000 || g.ContentTokens != 2000 {
		t.Fatalf("unexpected numeric defaults: %+v", g)
	}
	if g.APIKey != "ds-key" {
		t.Fatalf("expected DEEPSEEK_API_KEY fallback, got %q", g.APIKey)
	}
	if g.TimeoutDuration() != DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", g.TimeoutDuration())
	}
}

func TestGeneratorConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OUTLINER_BASE_URL", "http://localhost:9999/v1")
	t.Setenv("OUTLINER_MODEL", "local")
	t.Setenv("OUTLINER_API_KEY", "ol-key")
	t.Setenv("OUTLINER_TEMPERATURE", "0.2")
	t.Setenv("DEEPSEEK_API_KEY", "ds-key")

	g := GeneratorConfig{Model: "from-file", Timeout: "5s"}.WithDefaults()
	if g.BaseURL != "http://localhost:9999/v1" || g.Model != "local" {
		t.Fatalf("expected env to win: %+v", g)
	}
	if g.APIKey != "ol-key" {
		t.Fatalf("expected OUTLINER_API_KEY to win, got %q", g.APIKey)
	}
	if g.Temperature != 0.2 {
		t.Fatalf("expected temperature 0.2, got %v", g.Temperature)
	}
	if g.TimeoutDuration() != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", g.TimeoutDuration())
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestGeneratorConfig_ValidateRequiresKey(t *testing.T) {
	if err := (GeneratorConfig{}).Validate(); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestWriteFileAtomic_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "article.md")
	if err := WriteFileAtomic(path, []byte("# hi\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "# hi\n" {
		t.Fatalf("unexpected content %q", b)
	}
}
