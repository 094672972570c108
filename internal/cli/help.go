package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdnotes/internal/ui/pretty"
)

// HelpStyles are the lipgloss styles of the help output.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style // Usage:, Flags:, Environment:
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style // flag and environment variable names
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles bound to r. A renderer without color
// support yields plain text.
func NewHelpStyles(r *lipgloss.Renderer) *HelpStyles {
	dim := r.NewStyle().Foreground(lipgloss.Color("8"))
	return &HelpStyles{
		Command:     r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  r.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        r.NewStyle().Foreground(lipgloss.Color("12")),
		Description: r.NewStyle(),
		Example:     dim,
		Dim:         dim,
	}
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a new help formatter with the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	colorEnabled := pretty.IsColorEnabled(colorMode, writer)
	return &HelpFormatter{
		styles: NewHelpStyles(pretty.NewRenderer(writer, colorEnabled)),
	}
}

// templateFuncs returns template functions for styled help rendering.
func (h *HelpFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"styleCommand":            h.styles.Command.Render,
		"styleHeading":            h.styles.Heading.Render,
		"styleSubcommand":         h.styles.Subcommand.Render,
		"styleFlag":               h.styles.Flag.Render,
		"styleDescription":        h.styles.Description.Render,
		"styleExample":            h.styles.Example.Render,
		"styleDim":                h.styles.Dim.Render,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
		"styleLong":               h.styleLong,
	}
}

// usageTemplate returns the styled usage template.
func (h *HelpFormatter) usageTemplate() string {
	return `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleExample (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlagsUsage .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlagsUsage .InheritedFlags }}
{{- end}}

{{- if .HasHelpSubCommands}}

{{ styleHeading "Additional help topics:" }}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{ styleSubcommand (rpad .CommandPath .CommandPathPadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`
}

// helpTemplate returns the styled help template.
func (h *HelpFormatter) helpTemplate() string {
	return `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces | styleLong }}

{{end}}` + h.usageTemplate()
}

// flagLinePattern splits a pflag usage line such as
// "  -w, --watch   keep running" into indent, flags, gap, and description.
var flagLinePattern = regexp.MustCompile(`^(\s*)(-\S.*?)(\s{2,})(\S.*)$`)

// styleFlagsUsage formats flag usage with styling.
func (h *HelpFormatter) styleFlagsUsage(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine colors flag names, dims value types, and keeps the column
// alignment pflag computed.
func (h *HelpFormatter) styleFlagLine(line string) string {
	m := flagLinePattern.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	indent, flagPart, gap, desc := m[1], m[2], m[3], m[4]

	tokens := strings.Fields(flagPart)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = h.styles.Dim.Render(token)
			continue
		}
		name, comma := strings.CutSuffix(token, ",")
		tokens[i] = h.styles.Flag.Render(name)
		if comma {
			tokens[i] += ","
		}
	}

	return indent + strings.Join(tokens, " ") + gap + h.styles.Description.Render(desc)
}

// envLinePattern matches an entry of the Environment section in long help.
var envLinePattern = regexp.MustCompile(`^(\s+)(MDNOTES_\w+)(\s+.*)$`)

// styleLong highlights the Environment heading and variable names of a long
// description and leaves the prose alone.
func (h *HelpFormatter) styleLong(long string) string {
	lines := strings.Split(long, "\n")
	for i, line := range lines {
		switch m := envLinePattern.FindStringSubmatch(line); {
		case line == "Environment:":
			lines[i] = h.styles.Heading.Render(line)
		case m != nil:
			lines[i] = m[1] + h.styles.Flag.Render(m[2]) + h.styles.Description.Render(m[3])
		}
	}
	return strings.Join(lines, "\n")
}

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.templateFuncs()
	funcs["styleFlagsUsage"] = h.styleFlagsUsage
	funcs["join"] = strings.Join

	usageTmpl := template.Must(template.New("usage").Funcs(funcs).Parse(h.usageTemplate()))
	helpTmpl := template.Must(template.New("help").Funcs(funcs).Parse(h.helpTemplate()))

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		if err := usageTmpl.Execute(command.OutOrStdout(), command); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := helpTmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
