// Package cli provides the Cobra command structure for mdnotes.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdnotes/internal/configloader"
	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/internal/ui/pretty"
	"github.com/yaklabco/mdnotes/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// rootFlags are the global flags shared by every subcommand.
type rootFlags struct {
	debug      bool
	configPath string
	color      string
	notesDir   string
	flavor     string
}

// app carries the state resolved before a subcommand runs.
type app struct {
	info  BuildInfo
	flags rootFlags

	cfg          *config.Config
	logger       *log.Logger
	styles       *pretty.Styles
	colorEnabled bool
}

// NewRootCommand creates the root mdnotes command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{info: info}

	rootCmd := &cobra.Command{
		Use:   "mdnotes",
		Short: "A markdown note panel with live styling and a safe HTML preview",
		Long: `mdnotes keeps a directory of markdown notes, one file per note.

Every note is shown the way the panel shows it: headings grow, emphasis is
bold or italic, and markup characters are dimmed but never hidden. The preview
renders sanitized HTML with no images and no raw HTML.

Notes live in ~/.mdnotes/notes unless --notes-dir or notes_dir says otherwise.

` + envHelp(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&a.flags.debug, "debug", false, "enable debug logging")
	flags.StringVar(&a.flags.configPath, "config", "", "path to config file")
	flags.StringVar(&a.flags.color, "color", "auto", "colorize output: auto, always, never")
	flags.StringVar(&a.flags.notesDir, "notes-dir", "", "directory holding the notes")
	flags.StringVar(&a.flags.flavor, "flavor", "", "markdown flavor: commonmark or gfm")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%w", err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newShowCommand(a))
	rootCmd.AddCommand(newPreviewCommand(a))
	rootCmd.AddCommand(newSaveCommand(a))
	rootCmd.AddCommand(newDeleteCommand(a))
	rootCmd.AddCommand(newRenderCommand(a))
	rootCmd.AddCommand(newTreeCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(a.flags.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// setup resolves color, logging, and configuration for cmd.
func (a *app) setup(cmd *cobra.Command) error {
	a.colorEnabled = pretty.IsColorEnabled(a.flags.color, cmd.OutOrStdout())
	a.styles = pretty.NewStyles(a.colorEnabled)

	level := config.DefaultLogLevel
	if a.flags.debug {
		level = "debug"
	}
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	logging.SetDefault(a.logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	if cmd.Annotations[annotationSkipConfig] != "" {
		a.cfg = config.NewConfig()
		return nil
	}

	cliCfg := &config.Config{
		NotesDir: a.flags.notesDir,
		Flavor:   config.Flavor(a.flags.flavor),
	}
	if a.flags.debug {
		cliCfg.LogLevel = "debug"
	}

	result, err := configloader.Load(cmd.Context(), configloader.LoadOptions{
		ExplicitPath: a.flags.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	a.cfg = result.Config
	a.logger.SetLevel(logging.ParseLevel(a.cfg.LogLevel))
	for _, path := range result.LoadedFrom {
		a.logger.Debug("loaded config", logging.FieldConfig, path)
	}
	for _, warning := range result.Warnings {
		a.logger.Warn(warning)
	}
	a.logger.Debug("configuration resolved",
		logging.FieldFlavor, a.cfg.Flavor,
		logging.FieldQuietPeriod, a.cfg.QuietPeriod,
		logging.FieldDir, a.cfg.NotesDir,
	)

	return nil
}

// annotationSkipConfig marks commands that run without loading config.
const annotationSkipConfig = "mdnotes/skip-config"

// envHelp lists the environment overrides for the root help text.
func envHelp() string {
	var sb strings.Builder
	sb.WriteString("Environment:")
	for _, env := range configloader.ListEnvVars() {
		fmt.Fprintf(&sb, "\n  %-26s %s", env.Name, env.Description)
	}
	return sb.String()
}
