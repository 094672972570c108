package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnotes/pkg/config"
	"github.com/yaklabco/mdnotes/pkg/style"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	assert.Equal(t, 300*time.Millisecond, cfg.QuietPeriod.Std())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.NotesDir)
	assert.False(t, cfg.DetectLanguages())
	assert.Equal(t, style.DefaultBaseFont(), cfg.BaseFont())
}

func TestConfigBaseFont(t *testing.T) {
	t.Parallel()

	t.Run("nil config uses defaults", func(t *testing.T) {
		t.Parallel()
		var cfg *config.Config
		assert.Equal(t, style.DefaultBaseFont(), cfg.BaseFont())
	})

	t.Run("set fields override defaults", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{Font: config.FontConfig{Size: 18, Foreground: "#000000"}}
		font := cfg.BaseFont()
		assert.Equal(t, 18, font.Size)
		assert.Equal(t, "#000000", font.Foreground)
		assert.Equal(t, style.DefaultFamily, font.Family)
		assert.Equal(t, style.DefaultMarkerForeground, font.MarkerForeground)
	})
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies preview flag", func(t *testing.T) {
		t.Parallel()
		original := config.NewConfig()
		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, original, clone)

		*clone.Preview.DetectLanguages = true
		assert.False(t, original.DetectLanguages())
		assert.True(t, clone.DetectLanguages())
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("defaults serialize", func(t *testing.T) {
		t.Parallel()
		data, err := config.NewConfig().ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "flavor: gfm")
		assert.Contains(t, string(data), "quiet_period: 300ms")
		assert.Contains(t, string(data), "  size: 14")
		assert.NotContains(t, string(data), "notes_dir")
	})

	t.Run("header is prepended", func(t *testing.T) {
		t.Parallel()
		data, err := config.NewConfig().ToYAMLWithHeader("# hello")
		require.NoError(t, err)
		assert.Regexp(t, `^# hello\n\nnotes_dir|^# hello\n\nflavor`, string(data))
	})

	t.Run("round trips", func(t *testing.T) {
		t.Parallel()
		original := config.NewConfig()
		original.NotesDir = "/tmp/notes"
		data, err := original.ToYAML()
		require.NoError(t, err)

		parsed, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("parses valid YAML", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.FromYAML([]byte(`
notes_dir: /srv/notes
flavor: commonmark
quiet_period: 1s
font:
  family: Menlo
  size: 16
preview:
  detect_languages: true
log_level: debug
`))
		require.NoError(t, err)
		assert.Equal(t, "/srv/notes", cfg.NotesDir)
		assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
		assert.Equal(t, time.Second, cfg.QuietPeriod.Std())
		assert.Equal(t, "Menlo", cfg.Font.Family)
		assert.Equal(t, 16, cfg.Font.Size)
		assert.True(t, cfg.DetectLanguages())
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("absent fields stay zero", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.FromYAML([]byte(`flavor: gfm`))
		require.NoError(t, err)
		assert.Zero(t, cfg.QuietPeriod)
		assert.Nil(t, cfg.Preview.DetectLanguages)
		assert.Empty(t, cfg.LogLevel)
	})

	t.Run("integer quiet period is milliseconds", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.FromYAML([]byte(`quiet_period: 250`))
		require.NoError(t, err)
		assert.Equal(t, 250*time.Millisecond, cfg.QuietPeriod.Std())
	})

	t.Run("bad duration fails", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte(`quiet_period: soon`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid duration")
	})
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	d, err := config.ParseDuration("150ms")
	require.NoError(t, err)
	assert.Equal(t, "150ms", d.String())

	_, err = config.ParseDuration("")
	require.Error(t, err)
}
