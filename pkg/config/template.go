package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value.
	// If false, generates a minimal template with settings commented out.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// templateField documents one setting in a generated template.
type templateField struct {
	key     string
	doc     string
	value   func(*Config) string
	section string
}

// templateFields lists the documented settings in output order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var templateFields = []templateField{
	{
		key:   "notes_dir",
		doc:   "Directory holding one .md file per note. Empty uses ~/.mdnotes/notes.",
		value: func(c *Config) string { return fmt.Sprintf("%q", c.NotesDir) },
	},
	{
		key:   "flavor",
		doc:   "Markdown flavor: commonmark or gfm. GFM adds tables, strikethrough, task lists and bare URL links.",
		value: func(c *Config) string { return string(c.Flavor) },
	},
	{
		key:   "quiet_period",
		doc:   "How long typing must pause before the note is re-styled and the preview refreshed.",
		value: func(c *Config) string { return c.QuietPeriod.String() },
	},
	{
		key:   "log_level",
		doc:   "Log level: debug, info, warn, or error.",
		value: func(c *Config) string { return c.LogLevel },
	},
	{
		section: "font",
		key:     "family",
		doc:     "Base font family of the editor.",
		value:   func(c *Config) string { return fmt.Sprintf("%q", c.Font.Family) },
	},
	{
		section: "font",
		key:     "size",
		doc:     "Base font size in points. Headings add 6, 4 and 2 points for levels 1 to 3.",
		value:   func(c *Config) string { return fmt.Sprintf("%d", c.Font.Size) },
	},
	{
		section: "font",
		key:     "foreground",
		doc:     "Text color as #RRGGBB. Empty uses the terminal or widget default.",
		value:   func(c *Config) string { return fmt.Sprintf("%q", c.Font.Foreground) },
	},
	{
		section: "font",
		key:     "marker_foreground",
		doc:     "Color of dimmed markup such as ** and #.",
		value:   func(c *Config) string { return fmt.Sprintf("%q", c.Font.MarkerForeground) },
	},
	{
		section: "preview",
		key:     "detect_languages",
		doc:     "Guess the language of fenced code blocks that have no info string.",
		value:   func(c *Config) string { return fmt.Sprintf("%t", c.DetectLanguages()) },
	},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(NewConfig())
	}

	defaults := NewConfig()
	prefix := "# "
	var buf bytes.Buffer

	if opts.Full {
		prefix = ""
		buf.WriteString(DefaultTemplateHeader() + " - Full Template\n#\n")
		buf.WriteString("# Every setting is listed with its default value.\n")
	} else {
		buf.WriteString(DefaultTemplateHeader() + "\n#\n")
		buf.WriteString("# Uncomment and modify settings as needed.\n")
	}

	section := ""
	for _, field := range templateFields {
		indent := ""
		if field.section != "" {
			indent = "  "
			if field.section != section {
				buf.WriteString(fmt.Sprintf("\n%s%s:\n", prefix, field.section))
			}
		}
		section = field.section

		buf.WriteString(fmt.Sprintf("\n%s# %s\n", indent, wrapComment(field.doc, commentWrapWidth, indent)))
		buf.WriteString(fmt.Sprintf("%s%s%s: %s\n", prefix, indent, field.key, field.value(defaults)))
	}

	return buf.Bytes(), nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int, indent string) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent+"# ")
}

// templateToJSON renders the defaults as indented JSON.
func templateToJSON(cfg *Config) ([]byte, error) {
	doc := map[string]any{
		"notes_dir":    cfg.NotesDir,
		"flavor":       cfg.Flavor,
		"quiet_period": cfg.QuietPeriod.String(),
		"log_level":    cfg.LogLevel,
		"font": map[string]any{
			"family":            cfg.Font.Family,
			"size":              cfg.Font.Size,
			"foreground":        cfg.Font.Foreground,
			"marker_foreground": cfg.Font.MarkerForeground,
		},
		"preview": map[string]any{
			"detect_languages": cfg.DetectLanguages(),
		},
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdnotes configuration
# See: https://github.com/yaklabco/mdnotes`
}
