package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdnotes/pkg/export"
	"github.com/yaklabco/mdnotes/pkg/notes"
	"github.com/yaklabco/mdnotes/pkg/parser/goldmark"
	"github.com/yaklabco/mdnotes/pkg/preview"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		match   []string
		exclude []string
		jobs    int
	)

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Render every note to an HTML file",
		Long: `Render the notes in the notes directory to standalone HTML files in dir,
one file per note. The HTML is the same sanitized output the preview pane
shows. Files that already hold the same document are left untouched.

--match and --exclude take glob patterns matched against note titles.`,
		Example: `  mdnotes export site
  mdnotes export site --match 'work-*' --exclude '*-draft'`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := export.Options{OutDir: args[0], Match: match, Exclude: exclude, Jobs: jobs}
			if err := opts.Validate(); err != nil {
				return usageErrorf("%w", err)
			}

			store, err := notes.OpenFileStore(a.cfg.NotesDir, a.logger)
			if err != nil {
				return fmt.Errorf("open notes: %w", err)
			}

			exporter := export.New(
				store,
				goldmark.New(string(a.cfg.Flavor)),
				preview.New(preview.WithLanguageDetection(a.cfg.DetectLanguages())),
				nil,
			)
			result, err := exporter.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, outcome := range result.Notes {
				switch {
				case outcome.Error != nil:
					continue
				case outcome.Written:
					fmt.Fprintf(out, "wrote %s\n", outcome.Path)
				default:
					fmt.Fprintf(out, "unchanged %s\n", outcome.Path)
				}
			}
			fmt.Fprintf(out, "%d of %d notes exported\n",
				result.Stats.NotesSelected-result.Stats.NotesErrored, result.Stats.NotesListed)

			return errors.Join(result.Errors()...)
		},
	}

	cmd.Flags().StringSliceVarP(&match, "match", "m", nil, "only export notes whose title matches a glob (repeatable)")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "skip notes whose title matches a glob (repeatable)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of concurrent workers (0 = number of CPUs)")

	return cmd
}
