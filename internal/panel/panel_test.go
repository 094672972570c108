package panel_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/internal/panel"
	"github.com/yaklabco/mdnotes/pkg/notes"
	"github.com/yaklabco/mdnotes/pkg/scheduler"
)

// queue is the panel's event loop in tests: posted functions run when the
// test drains it.
type queue struct {
	mu  sync.Mutex
	fns []func()
}

func (q *queue) Post(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.fns = append(q.fns, fn)
}

func (q *queue) drain() {
	for {
		q.mu.Lock()
		if len(q.fns) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.fns[0]
		q.fns = q.fns[1:]
		q.mu.Unlock()
		fn()
	}
}

type manualTimer struct {
	at   time.Duration
	fn   func()
	done bool
}

func (t *manualTimer) Stop() bool {
	wasActive := !t.done
	t.done = true
	return wasActive
}

type manualClock struct {
	now    time.Duration
	timers []*manualTimer
}

//nolint:ireturn // implements scheduler.Clock
func (c *manualClock) AfterFunc(d time.Duration, f func()) scheduler.Timer {
	t := &manualTimer{at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) advance(d time.Duration) {
	c.now += d
	for _, t := range c.timers {
		if !t.done && t.at <= c.now {
			t.done = true
			t.fn()
		}
	}
}

type notice struct {
	msg   string
	title string
	err   error
}

type recordingNotifier struct {
	infos  []notice
	errors []notice
}

func (n *recordingNotifier) Info(msg, title string) {
	n.infos = append(n.infos, notice{msg: msg, title: title})
}

func (n *recordingNotifier) Error(msg, title string, err error) {
	n.errors = append(n.errors, notice{msg: msg, title: title, err: err})
}

type fixture struct {
	panel    *panel.Panel
	store    *notes.FileStore
	queue    *queue
	clock    *manualClock
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := notes.OpenFileStore(t.TempDir(), logging.Discard())
	require.NoError(t, err)
	return newFixtureWithStore(t, store, store)
}

func newFixtureWithStore(t *testing.T, store notes.Store, files *notes.FileStore) *fixture {
	t.Helper()

	f := &fixture{
		store:    files,
		queue:    &queue{},
		clock:    &manualClock{},
		notifier: &recordingNotifier{},
	}
	f.panel = panel.New(panel.Options{
		Store:      store,
		Dispatcher: f.queue,
		Flavor:     "gfm",
		Clock:      f.clock,
		Notifier:   f.notifier,
		Logger:     logging.Discard(),
	})
	t.Cleanup(func() { _ = f.panel.Close() })
	return f
}

// settle runs posted results until no store operation is outstanding.
func (f *fixture) settle() {
	for {
		f.panel.Wait()
		f.queue.drain()
		if !f.panel.Busy() {
			return
		}
	}
}

func (f *fixture) advance(d time.Duration) {
	f.clock.advance(d)
	f.queue.drain()
}

func (f *fixture) write(t *testing.T, title, content string) {
	t.Helper()
	require.NoError(t, f.store.Save(context.Background(), title, content))
}

func TestNew(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	assert.Equal(t, panel.UntitledTitle, f.panel.Title())
	assert.Empty(t, f.panel.Buffer().Text())
	assert.Empty(t, f.panel.Titles())
	assert.Empty(t, f.panel.Selected())
	assert.False(t, f.panel.Busy())
}

func TestTyping_DebouncedRender(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	buf := f.panel.Buffer()

	for i, ch := range "# Hi *there*" {
		require.NoError(t, buf.Insert(i, string(ch)))
		f.advance(50 * time.Millisecond)
	}
	assert.Zero(t, f.panel.Scheduler().Cycles(), "typing faster than the quiet period")
	assert.Empty(t, f.panel.Preview().HTML())

	f.advance(300 * time.Millisecond)
	assert.Equal(t, 1, f.panel.Scheduler().Cycles())
	assert.Contains(t, f.panel.Preview().HTML(), "<h1>Hi <em>there</em></h1>")
	assert.True(t, buf.AttributesAt(0).HiddenMarker)
	assert.True(t, buf.AttributesAt(2).Bold)

	assert.False(t, f.panel.Scheduler().Pending(), "styling does not re-arm the render")
	f.advance(time.Hour)
	assert.Equal(t, 1, f.panel.Scheduler().Cycles())
}

func TestTyping_CaretSurvivesRender(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	buf := f.panel.Buffer()

	require.NoError(t, buf.Insert(0, "**bold** text"))
	buf.SetCaret(4)
	f.advance(300 * time.Millisecond)

	assert.Equal(t, 1, f.panel.Scheduler().Cycles())
	assert.Equal(t, 4, buf.Caret())
}

func TestSave_RequiresTitle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	for _, title := range []string{"", "   ", panel.UntitledTitle, "  " + panel.UntitledTitle + " "} {
		require.ErrorIs(t, f.panel.Save(title), panel.ErrTitleRequired, "title %q", title)
	}
	assert.False(t, f.panel.Busy())

	titles, err := f.store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestSave(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.panel.Buffer().Insert(0, "# Plan\n"))

	require.NoError(t, f.panel.Save("  Plan "))
	f.settle()

	assert.Equal(t, "Plan", f.panel.Title())
	assert.Equal(t, []string{"Plan"}, f.panel.Titles())
	assert.Equal(t, "Plan", f.panel.Selected())
	require.Len(t, f.notifier.infos, 1)
	assert.Equal(t, "note saved", f.notifier.infos[0].msg)

	note, err := f.store.Load(context.Background(), "Plan")
	require.NoError(t, err)
	assert.Equal(t, "# Plan\n", note.Content)

	require.NoError(t, f.panel.Save("Plan"))
	f.settle()
	assert.Equal(t, []string{"Plan"}, f.panel.Titles(), "no duplicate list entries")
}

type failingStore struct {
	notes.Store
}

var errDiskFull = errors.New("disk full")

func (failingStore) Save(context.Context, string, string) error { return errDiskFull }

func TestSave_FailureKeepsBuffer(t *testing.T) {
	t.Parallel()

	files, err := notes.OpenFileStore(t.TempDir(), logging.Discard())
	require.NoError(t, err)
	f := newFixtureWithStore(t, failingStore{Store: files}, files)

	require.NoError(t, f.panel.Buffer().Insert(0, "precious"))
	require.NoError(t, f.panel.Save("doc"))
	f.settle()

	assert.Equal(t, "precious", f.panel.Buffer().Text())
	assert.Empty(t, f.panel.Titles())
	require.Len(t, f.notifier.errors, 1)
	require.ErrorIs(t, f.notifier.errors[0].err, errDiskFull)
	assert.Equal(t, "doc", f.notifier.errors[0].title)
}

func TestSelect(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "groceries", "- **eggs**\n- milk\n")

	require.NoError(t, f.panel.Buffer().Insert(0, "draft"))
	assert.True(t, f.panel.Scheduler().Pending())

	f.panel.Select("groceries")
	f.settle()

	assert.Equal(t, "- **eggs**\n- milk\n", f.panel.Buffer().Text())
	assert.Equal(t, "groceries", f.panel.Title())
	assert.Equal(t, "groceries", f.panel.Selected())
	assert.Contains(t, f.panel.Preview().HTML(), "<strong>eggs</strong>")
	assert.Equal(t, 1, f.panel.Scheduler().Cycles())
	assert.False(t, f.panel.Scheduler().Pending(), "loading replaced the pending render")

	f.advance(time.Hour)
	assert.Equal(t, 1, f.panel.Scheduler().Cycles())
}

func TestSelect_MissingKeepsBuffer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.panel.Buffer().Insert(0, "keep me"))

	f.panel.Select("ghost")
	f.settle()

	assert.Equal(t, "keep me", f.panel.Buffer().Text())
	assert.Equal(t, panel.UntitledTitle, f.panel.Title())
	require.Len(t, f.notifier.errors, 1)
	require.ErrorIs(t, f.notifier.errors[0].err, notes.ErrNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "a", "first")
	f.write(t, "b", "second")

	f.panel.Refresh()
	f.settle()
	require.Equal(t, []string{"a", "b"}, f.panel.Titles())
	require.Equal(t, "a", f.panel.Selected())

	require.NoError(t, f.panel.Delete("a"))
	f.settle()

	assert.Equal(t, []string{"b"}, f.panel.Titles())
	assert.Equal(t, "b", f.panel.Selected())
	assert.Equal(t, "second", f.panel.Buffer().Text())

	require.NoError(t, f.panel.Delete("b"))
	f.settle()

	assert.Empty(t, f.panel.Titles())
	assert.Empty(t, f.panel.Selected())
	assert.Empty(t, f.panel.Buffer().Text())
	assert.Equal(t, panel.UntitledTitle, f.panel.Title())
	assert.NoFileExists(t, f.store.Path("b"))
}

func TestDelete_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.ErrorIs(t, f.panel.Delete(""), panel.ErrNoSelection)

	require.NoError(t, f.panel.Buffer().Insert(0, "text"))
	require.NoError(t, f.panel.Delete("ghost"))
	f.settle()

	require.Len(t, f.notifier.errors, 1)
	require.ErrorIs(t, f.notifier.errors[0].err, panel.ErrNotDeleted)
	assert.Equal(t, "text", f.panel.Buffer().Text())
}

func TestRefresh_Empty(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.panel.Buffer().Insert(0, "scratch"))

	f.panel.Refresh()
	f.settle()

	assert.Empty(t, f.panel.Titles())
	assert.Empty(t, f.panel.Buffer().Text())
	assert.Equal(t, panel.UntitledTitle, f.panel.Title())
}

func TestNewNote(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "n", "*x*")
	f.panel.Select("n")
	f.settle()

	require.NoError(t, f.panel.Buffer().Insert(0, "more "))
	f.panel.NewNote()

	assert.Empty(t, f.panel.Buffer().Text())
	assert.Empty(t, f.panel.Preview().HTML())
	assert.Equal(t, panel.UntitledTitle, f.panel.Title())
	assert.Empty(t, f.panel.Selected())
	assert.False(t, f.panel.Scheduler().Pending())
}

func TestClose_CancelsPending(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.panel.Buffer().Insert(0, "x"))
	require.True(t, f.panel.Scheduler().Pending())

	require.NoError(t, f.panel.Close())
	assert.False(t, f.panel.Scheduler().Pending())

	f.advance(time.Hour)
	assert.Zero(t, f.panel.Scheduler().Cycles())
}

func TestWatchDir_ReloadsList(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.panel.WatchDir(f.store.Dir()))

	require.NoError(t, os.WriteFile(f.store.Path("external"), []byte("hi"), 0o644))

	require.Eventually(t, func() bool {
		f.queue.drain()
		f.panel.Wait()
		f.queue.drain()
		return len(f.panel.Titles()) == 1
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, []string{"external"}, f.panel.Titles())
	assert.Empty(t, f.panel.Buffer().Text(), "a list reload leaves the editor alone")
}
