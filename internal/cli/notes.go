package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/internal/panel"
	"github.com/yaklabco/mdnotes/internal/ui/pretty"
	"github.com/yaklabco/mdnotes/pkg/buffer"
	"github.com/yaklabco/mdnotes/pkg/notediff"
	"github.com/yaklabco/mdnotes/pkg/notes"
)

// watchPoll is how often list --watch compares the note list.
const watchPoll = 250 * time.Millisecond

func newListCommand(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved notes",
		Long: `List the notes in the notes directory, sorted by title. The first note is
selected, as the panel does when it opens.

With --watch the list is printed again whenever note files change on disk.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, true)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.do(ctx, func(p *panel.Panel) { p.Refresh() }); err != nil {
				return err
			}
			if err := s.settle(ctx); err != nil {
				return err
			}

			titles, selected, err := s.titles(ctx)
			if err != nil {
				return err
			}
			a.printNotes(cmd.OutOrStdout(), s.store, titles, selected)

			if !watch {
				return nil
			}
			return a.watchNotes(ctx, cmd.OutOrStdout(), s, titles)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and reprint the list when notes change")

	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	var rendered bool

	cmd := &cobra.Command{
		Use:   "show <title>",
		Short: "Print a note with editor styling",
		Long: `Load a note and print it the way the editor shows it: headings bold and
underlined, emphasis in italics, and markup characters dimmed.

With --rendered the note is printed as a reading view wrapped to the
terminal width instead.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, runs, _, err := a.loadNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			view := pretty.RenderBuffer(pretty.NewRenderer(out, a.colorEnabled), text, runs)
			if rendered {
				view, err = pretty.RenderMarkdown(text, pretty.TerminalWidth(out), a.colorEnabled)
				if err != nil {
					return err
				}
			}

			_, err = io.WriteString(out, withNewline(view))
			return err
		},
	}

	cmd.Flags().BoolVarP(&rendered, "rendered", "r", false, "print a wrapped reading view instead of the styled source")

	return cmd
}

func newPreviewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <title>",
		Short: "Print the sanitized HTML preview of a note",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, html, err := a.loadNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), withNewline(html))
			return err
		},
	}
}

func newSaveCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "save <title> [file]",
		Short: "Save markdown from a file or stdin as a note",
		Long: `Save markdown under a title. The content is read from file, or from stdin
when file is omitted or "-". Titles that sanitize to the same file name
overwrite each other.

With --dry-run nothing is written; the diff against the stored note is
printed instead.`,
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args[1:])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if dryRun {
				return a.diffNote(ctx, cmd.OutOrStdout(), args[0], content)
			}

			s, err := a.openSession(ctx, true)
			if err != nil {
				return err
			}
			defer s.close()

			var saveErr error
			err = s.do(ctx, func(p *panel.Panel) {
				p.NewNote()
				p.Buffer().SetText(content)
				saveErr = p.Save(args[0])
			})
			if err != nil {
				return err
			}
			if saveErr != nil {
				return usageErrorf("%w", saveErr)
			}
			if err := s.settle(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				a.styles.Success.Render("saved"), s.store.Path(args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the diff against the stored note without saving")

	return cmd
}

// diffNote prints how saving content under title would change the stored
// note.
func (a *app) diffNote(ctx context.Context, w io.Writer, title, content string) error {
	if strings.TrimSpace(title) == "" {
		return usageErrorf("%w", notes.ErrEmptyTitle)
	}

	store, err := notes.OpenFileStore(a.cfg.NotesDir, a.logger)
	if err != nil {
		return fmt.Errorf("open notes: %w", err)
	}

	var stored string
	note, err := store.Load(ctx, title)
	switch {
	case err == nil:
		stored = note.Content
	case !errors.Is(err, notes.ErrNotFound):
		return err
	}

	_, err = io.WriteString(w, a.styles.FormatDiff(notediff.Compare(notes.FileName(title), stored, content)))
	return err
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <title>",
		Aliases: []string{"rm"},
		Short:   "Delete a note",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, true)
			if err != nil {
				return err
			}
			defer s.close()

			var deleteErr error
			if err := s.do(ctx, func(p *panel.Panel) { deleteErr = p.Delete(args[0]) }); err != nil {
				return err
			}
			if deleteErr != nil {
				return usageErrorf("%w", deleteErr)
			}
			if err := s.settle(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", a.styles.Success.Render("deleted"), args[0])
			return nil
		},
	}
}

// loadNote selects title in a fresh panel and returns the styled buffer and
// the preview once the load has rendered.
func (a *app) loadNote(ctx context.Context, title string) (string, []buffer.Run, string, error) {
	s, err := a.openSession(ctx, true)
	if err != nil {
		return "", nil, "", err
	}
	defer s.close()

	if err := s.do(ctx, func(p *panel.Panel) { p.Select(title) }); err != nil {
		return "", nil, "", err
	}
	if err := s.settle(ctx); err != nil {
		return "", nil, "", err
	}

	var (
		text string
		runs []buffer.Run
		html string
	)
	err = s.do(ctx, func(p *panel.Panel) {
		text = p.Buffer().Text()
		runs = p.Buffer().Runs()
		html = p.Preview().HTML()
	})
	return text, runs, html, err
}

// titles returns the panel's note list and selection.
func (s *session) titles(ctx context.Context) ([]string, string, error) {
	var (
		titles   []string
		selected string
	)
	err := s.do(ctx, func(p *panel.Panel) {
		titles = p.Titles()
		selected = p.Selected()
	})
	return titles, selected, err
}

func (a *app) printNotes(w io.Writer, store *notes.FileStore, titles []string, selected string) {
	if len(titles) == 0 {
		fmt.Fprintln(w, a.styles.Dim.Render("no notes in "+store.Dir()))
		return
	}

	rows := make([]pretty.NoteRow, 0, len(titles))
	for _, title := range titles {
		row := pretty.NoteRow{Title: title, Selected: title == selected}
		if info, err := os.Stat(store.Path(title)); err == nil {
			row.Size = info.Size()
			row.Modified = info.ModTime()
		}
		rows = append(rows, row)
	}

	formatter := pretty.NewTableFormatter(a.styles, pretty.TerminalWidth(w))
	fmt.Fprint(w, formatter.FormatNotes(rows))
}

// watchNotes reprints the list whenever the watcher reloads it, until ctx
// is cancelled.
func (a *app) watchNotes(ctx context.Context, w io.Writer, s *session, last []string) error {
	var watchErr error
	if err := s.do(ctx, func(p *panel.Panel) { watchErr = p.WatchDir(s.store.Dir()) }); err != nil {
		return err
	}
	if watchErr != nil {
		return watchErr
	}
	a.logger.Info("watching for changes", logging.FieldDir, s.store.Dir())

	ticker := time.NewTicker(watchPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		titles, selected, err := s.titles(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if slices.Equal(titles, last) {
			continue
		}
		last = titles
		fmt.Fprintln(w)
		a.printNotes(w, s.store, titles, selected)
	}
}

// readInput reads the named file, or stdin when args is empty or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
