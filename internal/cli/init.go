package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdnotes/internal/configloader"
	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand(a *app) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a user configuration file",
		Long: `Create $XDG_CONFIG_HOME/mdnotes/config.yaml (usually ~/.config/mdnotes)
with every setting documented. The file can be customized to move the notes
directory, change the flavor, the render delay, or the editor font.

Examples:
  mdnotes init                      Create a commented-out template
  mdnotes init --full               Write every setting with its default
  mdnotes init --format json -o -   Print the defaults as JSON`,
		Args:        noArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Write every setting with its default value")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", `Output file path, or "-" for stdout (default: user config path)`)

	return cmd
}

func (a *app) runInit(cmd *cobra.Command, flags *initFlags) error {
	if flags.format != "yaml" && flags.format != "json" {
		return usageErrorf("invalid format %q: must be yaml or json", flags.format)
	}

	if flags.format == "json" && flags.output == "" {
		return usageErrorf("--format json needs --output; mdnotes only reads YAML config")
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if flags.output == "-" {
		_, err := cmd.OutOrStdout().Write(content)
		return err
	}

	outputPath := flags.output
	if outputPath == "" {
		if outputPath, err = configloader.UserConfigPath(); err != nil {
			return err
		}
	}

	if err := configloader.WriteConfig(outputPath, content, flags.force); err != nil {
		if errors.Is(err, configloader.ErrConfigExists) {
			return usageErrorf("file %q already exists; use --force to overwrite", outputPath)
		}
		return err
	}

	a.logger.Info("created configuration file", logging.FieldPath, outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", a.styles.Success.Render("created"), outputPath)

	return nil
}
