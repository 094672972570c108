// Package config defines core configuration types for mdnotes.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

import (
	"time"

	"github.com/yaklabco/mdnotes/pkg/style"
)

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// Default values for a fresh configuration.
const (
	DefaultFlavor      = FlavorGFM
	DefaultQuietPeriod = Duration(300 * time.Millisecond)
	DefaultLogLevel    = "warn"
)

// FontConfig describes the base font of the editable buffer.
type FontConfig struct {
	Family           string `mapstructure:"family" yaml:"family,omitempty"`
	Size             int    `mapstructure:"size" yaml:"size,omitempty"`
	Foreground       string `mapstructure:"foreground" yaml:"foreground,omitempty"`
	MarkerForeground string `mapstructure:"marker_foreground" yaml:"marker_foreground,omitempty"`
}

// PreviewConfig controls the HTML preview.
type PreviewConfig struct {
	// DetectLanguages guesses a language for fenced code blocks without an
	// info string. Nil means unset.
	DetectLanguages *bool `mapstructure:"detect_languages" yaml:"detect_languages,omitempty"`
}

// Config is the root configuration structure for mdnotes.
type Config struct {
	// NotesDir is the directory notes are stored in. Empty means the
	// default directory under the user's home.
	NotesDir string `mapstructure:"notes_dir" yaml:"notes_dir,omitempty"`

	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `mapstructure:"flavor" yaml:"flavor,omitempty"`

	// QuietPeriod is how long typing must pause before a render.
	QuietPeriod Duration `mapstructure:"quiet_period" yaml:"quiet_period,omitempty"`

	Font    FontConfig    `mapstructure:"font" yaml:"font,omitempty"`
	Preview PreviewConfig `mapstructure:"preview" yaml:"preview,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level,omitempty"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	detect := false
	font := style.DefaultBaseFont()
	return &Config{
		Flavor:      DefaultFlavor,
		QuietPeriod: DefaultQuietPeriod,
		Font: FontConfig{
			Family:           font.Family,
			Size:             font.Size,
			Foreground:       font.Foreground,
			MarkerForeground: font.MarkerForeground,
		},
		Preview:  PreviewConfig{DetectLanguages: &detect},
		LogLevel: DefaultLogLevel,
	}
}

// BaseFont converts the font section to the buffer's base font, filling
// unset fields from the defaults.
func (c *Config) BaseFont() style.BaseFont {
	font := style.DefaultBaseFont()
	if c == nil {
		return font
	}
	if c.Font.Family != "" {
		font.Family = c.Font.Family
	}
	if c.Font.Size > 0 {
		font.Size = c.Font.Size
	}
	if c.Font.Foreground != "" {
		font.Foreground = c.Font.Foreground
	}
	if c.Font.MarkerForeground != "" {
		font.MarkerForeground = c.Font.MarkerForeground
	}
	return font
}

// DetectLanguages reports whether code block language detection is on.
func (c *Config) DetectLanguages() bool {
	return c != nil && c.Preview.DetectLanguages != nil && *c.Preview.DetectLanguages
}

// Duration is a time.Duration that reads and writes as a string such as
// "300ms" in YAML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}
