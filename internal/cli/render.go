package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdnotes/internal/panel"
	"github.com/yaklabco/mdnotes/internal/ui/pretty"
	"github.com/yaklabco/mdnotes/pkg/buffer"
	"github.com/yaklabco/mdnotes/pkg/parser/goldmark"
	"github.com/yaklabco/mdnotes/pkg/pipeline"
)

// renderFlags holds the flags for the render command.
type renderFlags struct {
	html  bool
	stats bool
}

func newRenderCommand(a *app) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Run one render cycle over a markdown file",
		Long: `Load markdown from file, or stdin when file is omitted or "-", run a single
render cycle, and print the styled source. Nothing is read from or written to
the notes directory.

Examples:
  mdnotes render README.md            Print the styled source
  mdnotes render --html README.md     Print the sanitized HTML preview
  mdnotes render --stats < note.md    Also report the cycle on stderr`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := a.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer s.close()

			var (
				text  string
				runs  []buffer.Run
				html  string
				stats pipeline.CycleStats
			)
			err = s.do(ctx, func(p *panel.Panel) {
				sched := p.Scheduler()
				sched.Suppress(func() { p.Buffer().SetText(content) })
				sched.ForceRenderNow()

				text = p.Buffer().Text()
				runs = p.Buffer().Runs()
				html = p.Preview().HTML()
				stats = p.LastCycle()
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.html {
				_, err = io.WriteString(out, withNewline(html))
			} else {
				_, err = io.WriteString(out, withNewline(pretty.RenderBuffer(pretty.NewRenderer(out, a.colorEnabled), text, runs)))
			}
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			if flags.stats {
				fmt.Fprint(cmd.ErrOrStderr(), a.styles.FormatCycleSummary(stats))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.html, "html", false, "print the HTML preview instead of the styled source")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print render cycle statistics to stderr")

	return cmd
}

func newTreeCommand(a *app) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the parsed syntax tree of a markdown file",
		Long: `Parse markdown from file, or stdin when file is omitted or "-", and print one
line per node with its source position and byte spans. Opening and closing
spans are the markup markers the editor dims.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if depth < 0 {
				return usageErrorf("--depth must be >= 0, got %d", depth)
			}

			snapshot := goldmark.New(string(a.cfg.Flavor)).Parse(content)
			_, err = io.WriteString(cmd.OutOrStdout(), a.styles.FormatTree(snapshot.Root, depth))
			return err
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum depth to print (0 = unlimited)")

	return cmd
}
