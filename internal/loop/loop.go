// Package loop provides the single goroutine that owns the editor state.
// Timers and storage goroutines never touch the buffer directly; they Post
// closures that the loop runs one after another.
package loop

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdnotes/internal/logging"
)

var (
	// ErrStopped is returned by Do once the loop has exited.
	ErrStopped = errors.New("event loop stopped")

	// ErrRunning is returned when Run is called on a loop that is already
	// running or has finished.
	ErrRunning = errors.New("event loop already started")
)

// Loop runs posted functions in order on the goroutine that called Run.
type Loop struct {
	logger *log.Logger

	mu      sync.Mutex
	queue   []func()
	started bool
	stopped bool

	wake chan struct{}
	done chan struct{}
}

// New creates a loop. A nil logger uses the default logger.
func New(logger *log.Logger) *Loop {
	return &Loop{
		logger: logging.Or(logger),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Post queues fn. It never blocks. Functions posted after the loop stopped
// are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		l.logger.Debug("dropping function posted to stopped loop")
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes posted functions until ctx is cancelled. Functions still
// queued at that point are discarded.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return ErrRunning
	}
	l.started = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		for _, fn := range l.take() {
			if ctx.Err() != nil {
				return nil
			}
			l.call(fn)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})

	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fns := l.queue
	l.queue = nil
	return fns
}

func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("posted function panicked", logging.FieldPanic, r)
		}
	}()
	fn()
}
