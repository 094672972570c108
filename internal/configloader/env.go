package configloader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/yaklabco/mdnotes/pkg/config"
)

const envPrefix = "MDNOTES_"

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Key         string // config file key it overrides
	Description string

	apply func(cfg *config.Config, value string) error
}

// envVars is sorted by name.
//
//nolint:gochecknoglobals // read-only table
var envVars = []EnvVar{
	{
		Name: envPrefix + "DETECT_LANGUAGES", Key: "preview.detect_languages",
		Description: "Guess code block languages: true or false",
		apply: func(cfg *config.Config, value string) error {
			detect, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("want true or false, got %q", value)
			}
			cfg.Preview.DetectLanguages = &detect
			return nil
		},
	},
	{
		Name: envPrefix + "FLAVOR", Key: "flavor",
		Description: "Markdown flavor: commonmark or gfm",
		apply: func(cfg *config.Config, value string) error {
			cfg.Flavor = config.Flavor(value)
			return nil
		},
	},
	{
		Name: envPrefix + "FONT_SIZE", Key: "font.size",
		Description: "Base font size in points",
		apply: func(cfg *config.Config, value string) error {
			size, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("want an integer, got %q", value)
			}
			cfg.Font.Size = size
			return nil
		},
	},
	{
		Name: envPrefix + "LOG_LEVEL", Key: "log_level",
		Description: "Log level: debug, info, warn or error",
		apply: func(cfg *config.Config, value string) error {
			cfg.LogLevel = value
			return nil
		},
	},
	{
		Name: envPrefix + "NOTES_DIR", Key: "notes_dir",
		Description: "Directory holding the notes",
		apply: func(cfg *config.Config, value string) error {
			cfg.NotesDir = value
			return nil
		},
	},
	{
		Name: envPrefix + "QUIET_PERIOD", Key: "quiet_period",
		Description: "Render debounce, e.g. 300ms",
		apply: func(cfg *config.Config, value string) error {
			d, err := config.ParseDuration(value)
			if err != nil {
				return err
			}
			cfg.QuietPeriod = d
			return nil
		},
	},
}

// LoadFromEnv applies every non-empty MDNOTES_* variable to cfg.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, env := range envVars {
		value := os.Getenv(env.Name)
		if value == "" {
			continue
		}
		if err := env.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", env.Name, err)
		}
	}
	return nil
}

// EnvVarName returns the variable that overrides a config key, or "".
func EnvVarName(key string) string {
	for _, env := range envVars {
		if env.Key == key {
			return env.Name
		}
	}
	return ""
}

// ListEnvVars returns the supported variables sorted by name.
func ListEnvVars() []EnvVar {
	return append([]EnvVar(nil), envVars...)
}
