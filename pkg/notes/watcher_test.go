package notes_test

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/pkg/notes"
)

type directDispatcher struct{}

func (directDispatcher) Post(fn func()) { fn() }

func TestWatcher_ReportsNoteChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var changes atomic.Int32

	w, err := notes.Watch(dir, directDispatcher{}, func() { changes.Add(1) },
		notes.WithWatchDebounce(20*time.Millisecond),
		notes.WithWatchLogger(logging.Discard()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte{byte('a' + i)}, 0o644))
	}

	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var changes atomic.Int32

	w, err := notes.Watch(dir, directDispatcher{}, func() { changes.Add(1) },
		notes.WithWatchDebounce(10*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md.tmp.123"), []byte("x"), 0o644))

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, changes.Load())
}

func TestWatch_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := notes.Watch(filepath.Join(t.TempDir(), "nope"), directDispatcher{}, func() {})
	require.Error(t, err)
}

func TestWatcher_CloseTwiceSafe(t *testing.T) {
	t.Parallel()

	w, err := notes.Watch(t.TempDir(), directDispatcher{}, func() {})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NotPanics(t, func() { _ = w.Close() })
}
