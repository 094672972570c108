package configloader

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "font.size").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown fields).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownFlavors lists valid flavor values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFlavors = map[config.Flavor]bool{
	config.FlavorCommonMark: true,
	config.FlavorGFM:        true,
}

// colorPattern matches #RGB and #RRGGBB colors.
var colorPattern = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// Quiet periods outside this range are legal but probably a mistake.
const (
	minSensibleQuietPeriod = 20 * time.Millisecond
	maxSensibleQuietPeriod = 5 * time.Second
)

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.Flavor != "" && !knownFlavors[cfg.Flavor] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "flavor",
			Value:   cfg.Flavor,
			Message: fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor),
		})
	}

	if cfg.LogLevel != "" && !logging.ValidLevel(cfg.LogLevel) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	validateQuietPeriod(cfg, result)
	validateFont(cfg, result)

	return result
}

// validateQuietPeriod rejects negative debounce delays and warns about odd ones.
func validateQuietPeriod(cfg *config.Config, result *ValidationResult) {
	period := cfg.QuietPeriod.Std()
	switch {
	case period < 0:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "quiet_period",
			Value:   cfg.QuietPeriod.String(),
			Message: "quiet_period must be >= 0 (0 means the default)",
		})
	case period > 0 && period < minSensibleQuietPeriod:
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "quiet_period",
			Value:   cfg.QuietPeriod.String(),
			Message: fmt.Sprintf("quiet_period %s will re-render on almost every keystroke", cfg.QuietPeriod),
		})
	case period > maxSensibleQuietPeriod:
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "quiet_period",
			Value:   cfg.QuietPeriod.String(),
			Message: fmt.Sprintf("quiet_period %s will make the preview lag behind typing", cfg.QuietPeriod),
		})
	}
}

// validateFont checks font size and colors.
func validateFont(cfg *config.Config, result *ValidationResult) {
	if cfg.Font.Size < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "font.size",
			Value:   cfg.Font.Size,
			Message: "font size must be >= 0 (0 means the default)",
		})
	}

	colors := []struct {
		field string
		value string
	}{
		{"font.foreground", cfg.Font.Foreground},
		{"font.marker_foreground", cfg.Font.MarkerForeground},
	}
	for _, c := range colors {
		if c.value != "" && !colorPattern.MatchString(c.value) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   c.field,
				Value:   c.value,
				Message: fmt.Sprintf("invalid color %q; expected #RGB or #RRGGBB", c.value),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f config.Flavor) bool {
	return knownFlavors[f]
}
