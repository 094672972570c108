package notes

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/mdnotes/internal/logging"
)

// WatchDebounce is how long the directory must stay quiet before the
// watcher reports a change.
const WatchDebounce = 100 * time.Millisecond

// Watcher reports changes to note files made outside the panel.
type Watcher struct {
	watcher    *fsnotify.Watcher
	dispatcher Dispatcher
	onChange   func()
	delay      time.Duration
	logger     *log.Logger

	mu    sync.Mutex
	timer *time.Timer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithWatchDebounce overrides WatchDebounce.
func WithWatchDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithWatchLogger sets the logger.
func WithWatchLogger(logger *log.Logger) WatchOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Watch starts watching dir. After a burst of create, write, remove or
// rename events on ".md" files, onChange is posted once to dispatcher.
func Watch(dir string, dispatcher Dispatcher, onChange func(), opts ...WatchOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:    fw,
		dispatcher: dispatcher,
		onChange:   onChange,
		delay:      WatchDebounce,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.Or(w.logger)

	w.wg.Add(1)
	go w.run(ctx)

	return w, nil
}

// Close stops watching and cancels a pending notification.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("notes watcher error", logging.FieldError, err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	// Atomic writes go through "<name>.md.tmp.*" files first.
	if !strings.HasSuffix(filepath.Base(event.Name), Extension) {
		return
	}

	w.logger.Debug("notes directory changed", logging.FieldPath, event.Name, logging.FieldEvent, event.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		if ctx.Err() != nil {
			return
		}
		w.dispatcher.Post(w.onChange)
	})
}
