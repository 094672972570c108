package export

import (
	"context"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/pkg/fsutil"
	"github.com/yaklabco/mdnotes/pkg/mdast"
	"github.com/yaklabco/mdnotes/pkg/notes"
)

// ErrNoOutDir is returned when Options.OutDir is empty.
var ErrNoOutDir = errors.New("export directory is required")

// Parser turns note text into an mdast snapshot.
type Parser interface {
	Parse(text string) *mdast.Snapshot
}

// Renderer turns an mdast tree into sanitized HTML.
type Renderer interface {
	Render(root *mdast.Node) string
}

// Exporter renders the notes of a store to HTML files. The parser and
// renderer are shared by every worker and must be safe for concurrent use.
// A nil Logger means the logger carried by the Run context.
type Exporter struct {
	Store    notes.Store
	Parser   Parser
	Renderer Renderer
	Logger   *log.Logger
}

// New creates an Exporter.
func New(store notes.Store, parser Parser, renderer Renderer, logger *log.Logger) *Exporter {
	return &Exporter{
		Store:    store,
		Parser:   parser,
		Renderer: renderer,
		Logger:   logger,
	}
}

// Run lists the store, keeps the notes selected by opts and exports them
// concurrently. Per-note failures are reported in the Result; the returned
// error covers listing, the output directory and cancellation.
func (e *Exporter) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := e.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	titles, err := e.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	selected := Select(titles, opts.Match, opts.Exclude)

	result := &Result{Notes: make([]Outcome, 0, len(selected))}
	result.Stats.NotesListed = len(titles)
	result.Stats.NotesSelected = len(selected)

	if len(selected) == 0 {
		return result, nil
	}

	if err := fsutil.EnsureDir(opts.OutDir); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(selected))

	logger.Debug("exporting notes",
		logging.FieldDir, opts.OutDir,
		logging.FieldNotes, len(selected),
	)

	workCh := make(chan string)
	outCh := make(chan Outcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.worker(ctx, logger, workCh, outCh, opts.OutDir)
		}()
	}

	go func() {
		defer close(workCh)
		for _, title := range selected {
			select {
			case <-ctx.Done():
				return
			case workCh <- title:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]Outcome, len(selected))
	for outcome := range outCh {
		outcomes[outcome.Title] = outcome
	}

	for _, title := range selected {
		if outcome, ok := outcomes[title]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("export cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (e *Exporter) worker(
	ctx context.Context,
	logger *log.Logger,
	workCh <-chan string,
	outCh chan<- Outcome,
	outDir string,
) {
	for title := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := e.exportNote(ctx, title, outDir)
		if outcome.Error != nil {
			logger.Warn("export failed", logging.FieldTitle, title, logging.FieldError, outcome.Error)
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

func (e *Exporter) exportNote(ctx context.Context, title, outDir string) Outcome {
	outcome := Outcome{
		Title: title,
		Path:  filepath.Join(outDir, notes.SanitizeTitle(title)+Extension),
	}

	note, err := e.Store.Load(ctx, title)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	snapshot := e.Parser.Parse(note.Content)
	doc := Document(note.Title, e.Renderer.Render(snapshot.Root))
	outcome.Bytes = len(doc)

	written, err := fsutil.WriteAtomicIfChanged(ctx, outcome.Path, []byte(doc), fsutil.DefaultFileMode)
	if err != nil {
		outcome.Error = fmt.Errorf("export note %q: %w", title, err)
		return outcome
	}
	outcome.Written = written

	return outcome
}

// Document wraps a rendered fragment in a minimal HTML page.
func Document(title, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n</head>\n<body>\n")
	b.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
