package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yaklabco/mdnotes/pkg/config"
)

// isolated returns options that ignore every source outside the test.
func isolated() LoadOptions {
	return LoadOptions{
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor %q, got %q", config.FlavorGFM, result.Config.Flavor)
	}
	if got := result.Config.QuietPeriod.Std(); got != 300*time.Millisecond {
		t.Errorf("expected quiet period 300ms, got %s", got)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no files loaded, got %v", result.LoadedFrom)
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, `
flavor: commonmark
quiet_period: 500ms
font:
  size: 20
`)

	opts := isolated()
	opts.ExplicitPath = path

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Flavor != config.FlavorCommonMark {
		t.Errorf("expected flavor commonmark, got %q", cfg.Flavor)
	}
	if cfg.QuietPeriod.Std() != 500*time.Millisecond {
		t.Errorf("expected quiet period 500ms, got %s", cfg.QuietPeriod)
	}
	if cfg.Font.Size != 20 {
		t.Errorf("expected font size 20, got %d", cfg.Font.Size)
	}
	if cfg.Font.Family == "" {
		t.Error("expected default font family to survive the merge")
	}
	if len(result.LoadedFrom) != 1 || result.LoadedFrom[0] != path {
		t.Errorf("expected LoadedFrom = [%s], got %v", path, result.LoadedFrom)
	}
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	t.Parallel()

	opts := isolated()
	opts.ExplicitPath = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := Load(context.Background(), opts); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_InvalidFileNamesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "flavor: rst\n")

	opts := isolated()
	opts.ExplicitPath = path

	_, err := Load(context.Background(), opts)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.FilePath != path || verr.Field != "flavor" {
		t.Errorf("unexpected error location: %+v", verr)
	}
}

func TestLoad_UserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	writeFile(t, filepath.Join(home, "mdnotes", "config.yaml"), "log_level: debug\n")

	opts := isolated()
	opts.IgnoreUserConfig = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", result.Config.LogLevel)
	}
	if result.Paths.User == "" {
		t.Error("expected user config path to be discovered")
	}
}

func TestLoad_Precedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	writeFile(t, filepath.Join(home, "mdnotes", "config.yaml"), "flavor: commonmark\nlog_level: info\nnotes_dir: /user\n")

	explicit := filepath.Join(t.TempDir(), "explicit.yml")
	writeFile(t, explicit, "log_level: error\nnotes_dir: /explicit\n")

	t.Setenv("MDNOTES_NOTES_DIR", "/env")
	t.Setenv("MDNOTES_FONT_SIZE", "11")

	result, err := Load(context.Background(), LoadOptions{
		IgnoreSystemConfig: true,
		ExplicitPath:       explicit,
		CLIConfig:          &config.Config{Font: config.FontConfig{Size: 13}},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Flavor != config.FlavorCommonMark {
		t.Errorf("user config flavor lost: %q", cfg.Flavor)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("explicit config should beat user config, got %q", cfg.LogLevel)
	}
	if cfg.NotesDir != "/env" {
		t.Errorf("env should beat files, got %q", cfg.NotesDir)
	}
	if cfg.Font.Size != 13 {
		t.Errorf("CLI should beat env, got %d", cfg.Font.Size)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("MDNOTES_QUIET_PERIOD", "later")

	opts := isolated()
	opts.IgnoreEnv = false

	_, err := Load(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "MDNOTES_QUIET_PERIOD") {
		t.Fatalf("expected env error naming the variable, got %v", err)
	}
}

func TestLoad_ExpandsHomeInNotesDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	opts := isolated()
	opts.CLIConfig = &config.Config{NotesDir: "~/my-notes"}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(home, "my-notes"); result.Config.NotesDir != want {
		t.Errorf("expected %q, got %q", want, result.Config.NotesDir)
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolated()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	off := false
	on := true
	base := config.NewConfig()
	base.Preview.DetectLanguages = &on

	merged := merge(base, &config.Config{
		Font:    config.FontConfig{MarkerForeground: "#888888"},
		Preview: config.PreviewConfig{DetectLanguages: &off},
	})

	if merged.Font.MarkerForeground != "#888888" {
		t.Errorf("marker color not merged: %q", merged.Font.MarkerForeground)
	}
	if merged.Font.Size != base.Font.Size {
		t.Errorf("unset font size overrode base: %d", merged.Font.Size)
	}
	if merged.DetectLanguages() {
		t.Error("explicit false should override true")
	}
	if !base.DetectLanguages() {
		t.Error("merge mutated base")
	}

	if got := MergeAll(); got != nil {
		t.Errorf("MergeAll() = %v, want nil", got)
	}
	if got := merge(base, nil); got != base {
		t.Error("merge with nil override should return base")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*config.Config)
		field    string
		warnOnly bool
	}{
		{"bad flavor", func(c *config.Config) { c.Flavor = "rst" }, "flavor", false},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }, "log_level", false},
		{"negative quiet period", func(c *config.Config) { c.QuietPeriod = config.Duration(-time.Second) }, "quiet_period", false},
		{"tiny quiet period", func(c *config.Config) { c.QuietPeriod = config.Duration(time.Millisecond) }, "quiet_period", true},
		{"huge quiet period", func(c *config.Config) { c.QuietPeriod = config.Duration(time.Minute) }, "quiet_period", true},
		{"negative font size", func(c *config.Config) { c.Font.Size = -1 }, "font.size", false},
		{"bad color", func(c *config.Config) { c.Font.Foreground = "red" }, "font.foreground", false},
		{"bad marker color", func(c *config.Config) { c.Font.MarkerForeground = "#12345" }, "font.marker_foreground", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)
			result := Validate(cfg)

			findings := result.Errors
			if tt.warnOnly {
				if !result.Valid() {
					t.Fatalf("expected only warnings, got errors %v", result.AllMessages())
				}
				findings = result.Warnings
			}
			if len(findings) != 1 || findings[0].Field != tt.field {
				t.Errorf("expected one finding on %s, got %v", tt.field, result.AllMessages())
			}
		})
	}

	if result := Validate(config.NewConfig()); !result.Valid() || result.HasWarnings() {
		t.Errorf("defaults should validate cleanly: %v", result.AllMessages())
	}
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteConfig(path, []byte("flavor: gfm\n"), false); err != nil {
		t.Fatalf("WriteConfig() error = %v", err)
	}
	if err := WriteConfig(path, []byte("flavor: gfm\n"), false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("expected ErrConfigExists, got %v", err)
	}
	if err := WriteConfig(path, []byte("flavor: commonmark\n"), true); err != nil {
		t.Errorf("forced WriteConfig() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "flavor: commonmark\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	if len(vars) != len(envVars) {
		t.Fatalf("expected %d vars, got %d", len(envVars), len(vars))
	}
	for i := 1; i < len(vars); i++ {
		if vars[i-1].Name >= vars[i].Name {
			t.Errorf("not sorted: %s before %s", vars[i-1].Name, vars[i].Name)
		}
	}
	if EnvVarName("font.size") != "MDNOTES_FONT_SIZE" {
		t.Errorf("EnvVarName(font.size) = %q", EnvVarName("font.size"))
	}
	if EnvVarName("nope") != "" {
		t.Error("unknown keys have no variable")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MDNOTES_DETECT_LANGUAGES", "false")
	t.Setenv("MDNOTES_QUIET_PERIOD", "150ms")
	t.Setenv("MDNOTES_FLAVOR", "commonmark")

	cfg := config.NewConfig()
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Preview.DetectLanguages == nil || *cfg.Preview.DetectLanguages {
		t.Error("DETECT_LANGUAGES=false not applied")
	}
	if cfg.QuietPeriod.Std() != 150*time.Millisecond {
		t.Errorf("QuietPeriod = %v", cfg.QuietPeriod)
	}
	if cfg.Flavor != config.FlavorCommonMark {
		t.Errorf("Flavor = %q", cfg.Flavor)
	}

	t.Setenv("MDNOTES_FONT_SIZE", "big")
	if err := LoadFromEnv(cfg); err == nil || !strings.Contains(err.Error(), "MDNOTES_FONT_SIZE") {
		t.Errorf("expected error naming MDNOTES_FONT_SIZE, got %v", err)
	}
}
