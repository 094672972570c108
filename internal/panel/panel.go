// Package panel wires the editor, the render pipeline, the scheduler and the
// notes store into the note panel and implements its actions.
//
// Every Panel method must be called on the goroutine behind the dispatcher.
// Store results come back through the same dispatcher.
package panel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/pkg/buffer"
	"github.com/yaklabco/mdnotes/pkg/notes"
	"github.com/yaklabco/mdnotes/pkg/parser/goldmark"
	"github.com/yaklabco/mdnotes/pkg/pipeline"
	"github.com/yaklabco/mdnotes/pkg/preview"
	"github.com/yaklabco/mdnotes/pkg/scheduler"
	"github.com/yaklabco/mdnotes/pkg/style"
)

// UntitledTitle is the title of a note that has never been saved.
const UntitledTitle = "Untitled Note"

var (
	// ErrTitleRequired is returned when saving without a real title.
	ErrTitleRequired = errors.New("note title required")

	// ErrNoSelection is returned when deleting with no title.
	ErrNoSelection = errors.New("no note selected")

	// ErrNotDeleted is reported when the store had nothing to delete.
	ErrNotDeleted = errors.New("note could not be deleted")
)

// Dispatcher runs functions on the panel's goroutine.
type Dispatcher interface {
	Post(fn func())
}

// Options configures a Panel. Store and Dispatcher are required.
type Options struct {
	Store      notes.Store
	Dispatcher Dispatcher

	Flavor          string
	Font            style.BaseFont
	QuietPeriod     time.Duration
	DetectLanguages bool

	// Clock drives the render debounce; nil means the wall clock.
	Clock scheduler.Clock

	Notifier Notifier
	Logger   *log.Logger
}

// Panel is the note panel.
type Panel struct {
	buf      *buffer.Buffer
	preview  *buffer.Preview
	pipeline *pipeline.Context
	sched    *scheduler.Scheduler
	async    *notes.Async

	dispatcher Dispatcher
	notifier   Notifier
	logger     *log.Logger

	title    string
	titles   []string
	selected string
	inflight int

	watcher     *notes.Watcher
	unsubscribe func()
	ctx         context.Context
	cancel      context.CancelFunc
}

// New builds a panel with an empty untitled note.
func New(opts Options) *Panel {
	logger := logging.Or(opts.Logger)
	font := opts.Font
	if font == (style.BaseFont{}) {
		font = style.DefaultBaseFont()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Panel{
		buf:        buffer.New(""),
		preview:    buffer.NewPreview(),
		async:      notes.NewAsync(opts.Store, opts.Dispatcher),
		dispatcher: opts.Dispatcher,
		notifier:   notifier,
		logger:     logger,
		title:      UntitledTitle,
		ctx:        ctx,
		cancel:     cancel,
	}

	p.pipeline = &pipeline.Context{
		Parser:   goldmark.New(opts.Flavor),
		Renderer: preview.New(preview.WithLanguageDetection(opts.DetectLanguages)),
		Editor:   p.buf,
		Preview:  p.preview,
		Base:     font,
		Logger:   logger,
	}

	schedOpts := []scheduler.Option{
		scheduler.WithQuietPeriod(opts.QuietPeriod),
		scheduler.WithDispatcher(opts.Dispatcher),
		scheduler.WithLogger(logger),
	}
	if opts.Clock != nil {
		schedOpts = append(schedOpts, scheduler.WithClock(opts.Clock))
	}
	p.sched = scheduler.New(func() { p.pipeline.RunCycle() }, schedOpts...)

	p.unsubscribe = p.buf.OnChange(p.HandleChange)
	return p
}

// Buffer returns the source editor.
func (p *Panel) Buffer() *buffer.Buffer { return p.buf }

// Preview returns the HTML pane.
func (p *Panel) Preview() *buffer.Preview { return p.preview }

// Scheduler returns the render scheduler.
func (p *Panel) Scheduler() *scheduler.Scheduler { return p.sched }

// LastCycle returns the stats of the latest render.
func (p *Panel) LastCycle() pipeline.CycleStats { return p.pipeline.LastCycle() }

// Title returns the title field.
func (p *Panel) Title() string { return p.title }

// SetTitle edits the title field.
func (p *Panel) SetTitle(title string) { p.title = title }

// Titles returns the note list.
func (p *Panel) Titles() []string { return slices.Clone(p.titles) }

// Selected returns the selected title, or "" when nothing is selected.
func (p *Panel) Selected() string { return p.selected }

// Busy reports whether store operations are still outstanding.
func (p *Panel) Busy() bool { return p.inflight > 0 }

// Wait blocks until outstanding store operations have posted their
// results. The results still have to be run by the dispatcher.
func (p *Panel) Wait() { p.async.Wait() }

// HandleChange is the buffer listener. Any change, styling included, counts
// as an edit; the scheduler ignores the ones made during a render.
func (p *Panel) HandleChange(buffer.Change) {
	p.sched.NotifyEdit()
}

// NewNote clears the editor for a new untitled note.
func (p *Panel) NewNote() {
	p.clear()
	p.selected = ""
}

// Save stores the editor content under title. A blank or untitled title is
// rejected before anything is written. On success the title is added to the
// list and selected; on failure the editor keeps its content.
func (p *Panel) Save(title string) error {
	title = strings.TrimSpace(title)
	if title == "" || title == UntitledTitle {
		return ErrTitleRequired
	}

	p.title = title
	content := p.buf.Text()

	p.start()
	p.async.Save(p.ctx, title, content, func(err error) {
		defer p.finish()
		if err != nil {
			p.notifier.Error("error saving note", title, err)
			return
		}
		if !slices.Contains(p.titles, title) {
			p.titles = append(p.titles, title)
		}
		p.selected = title
		p.notifier.Info("note saved", title)
	})
	return nil
}

// Select loads title into the editor. On failure the editor is untouched.
func (p *Panel) Select(title string) {
	if title == "" {
		return
	}

	p.start()
	p.async.Load(p.ctx, title, func(note notes.Note, err error) {
		defer p.finish()
		if err != nil {
			p.notifier.Error("error loading note", title, err)
			return
		}
		p.replace(note.Content)
		p.title = note.Title
		p.selected = title
		p.logger.Debug("note loaded", logging.FieldTitle, title)
	})
}

// Delete removes title from the store. The editor is cleared when it held
// that note, and the first remaining note is selected.
func (p *Panel) Delete(title string) error {
	if title == "" {
		return ErrNoSelection
	}

	p.start()
	p.async.Delete(p.ctx, title, func(removed bool, err error) {
		defer p.finish()
		switch {
		case err != nil:
			p.notifier.Error("error deleting note", title, err)
			return
		case !removed:
			p.notifier.Error("could not delete note", title, fmt.Errorf("%w: %q", ErrNotDeleted, title))
			return
		}

		p.notifier.Info("note deleted", title)
		p.titles = slices.DeleteFunc(p.titles, func(t string) bool { return t == title })
		if p.selected == title {
			p.selected = ""
		}
		if title == p.title {
			p.clear()
		}
		p.selectFirst()
	})
	return nil
}

// Refresh reloads the note list and selects the first note.
func (p *Panel) Refresh() {
	p.start()
	p.async.List(p.ctx, func(titles []string, err error) {
		defer p.finish()
		if err != nil {
			p.notifier.Error("error loading note list", "", err)
			p.clear()
			return
		}
		p.titles = titles
		p.selectFirst()
	})
}

// WatchDir refreshes the note list, without touching the editor, whenever
// note files in dir change on disk.
func (p *Panel) WatchDir(dir string) error {
	if p.watcher != nil {
		return nil
	}
	w, err := notes.Watch(dir, p.dispatcher, p.reloadList, notes.WithWatchLogger(p.logger))
	if err != nil {
		return fmt.Errorf("watch notes: %w", err)
	}
	p.watcher = w
	return nil
}

// Close cancels any pending render and stops background work.
func (p *Panel) Close() error {
	p.sched.CancelPending()
	p.unsubscribe()
	p.cancel()

	var err error
	if p.watcher != nil {
		err = p.watcher.Close()
		p.watcher = nil
	}
	return err
}

func (p *Panel) reloadList() {
	p.start()
	p.async.List(p.ctx, func(titles []string, err error) {
		defer p.finish()
		if err != nil {
			p.logger.Warn("reload note list", logging.FieldError, err)
			return
		}
		p.titles = titles
		p.logger.Debug("note list reloaded", logging.FieldNotes, len(titles))
	})
}

func (p *Panel) selectFirst() {
	if len(p.titles) == 0 {
		p.clear()
		p.selected = ""
		return
	}
	p.Select(p.titles[0])
}

// clear empties the editor and preview and renders the empty document.
func (p *Panel) clear() {
	p.title = UntitledTitle
	p.replace("")
}

// replace swaps the editor text without arming a debounced render, then
// renders right away.
func (p *Panel) replace(content string) {
	p.sched.CancelPending()
	p.sched.Suppress(func() {
		p.buf.SetText(content)
	})
	p.sched.ForceRenderNow()
}

func (p *Panel) start()  { p.inflight++ }
func (p *Panel) finish() { p.inflight-- }
