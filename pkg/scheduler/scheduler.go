// Package scheduler debounces edits into render cycles.
//
// Every edit re-arms a single quiet-period timer. When it expires the cycle
// is posted to the owning dispatcher and runs there, at most one at a time.
// Edits reported while a cycle runs, such as the attribute changes the cycle
// itself makes, are ignored so styling never schedules another render.
package scheduler

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdnotes/internal/logging"
)

// DefaultQuietPeriod is how long the text must stay unchanged before a
// render cycle runs.
const DefaultQuietPeriod = 300 * time.Millisecond

// Scheduler decides when the render cycle runs. All methods are safe for
// concurrent use; the cycle itself only ever runs through the dispatcher or
// on the goroutine calling ForceRenderNow.
type Scheduler struct {
	cycle func()

	quiet      time.Duration
	clock      Clock
	dispatcher Dispatcher
	logger     *log.Logger

	mu         sync.Mutex
	timer      Timer
	seq        uint64 // invalidates timers that fired before being re-armed
	pending    bool
	rendering  bool
	suppressed int
	cycles     int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithQuietPeriod sets the debounce delay. Non-positive values are ignored.
func WithQuietPeriod(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.quiet = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithDispatcher sets where expired timers deliver the cycle. The default
// runs it on the timer goroutine.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Scheduler) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// New creates a scheduler for cycle.
func New(cycle func(), opts ...Option) *Scheduler {
	s := &Scheduler{
		cycle:      cycle,
		quiet:      DefaultQuietPeriod,
		clock:      SystemClock{},
		dispatcher: Inline,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Or(s.logger)
	return s
}

// QuietPeriod returns the debounce delay.
func (s *Scheduler) QuietPeriod() time.Duration {
	return s.quiet
}

// NotifyEdit reports a change to the text. It re-arms the quiet-period
// timer unless a cycle is running or notifications are suppressed.
func (s *Scheduler) NotifyEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rendering || s.suppressed > 0 {
		return
	}

	s.disarmLocked()
	s.pending = true
	seq := s.seq
	s.timer = s.clock.AfterFunc(s.quiet, func() {
		s.dispatcher.Post(func() { s.fire(seq) })
	})
}

// CancelPending disarms the pending cycle, if any. It is idempotent.
func (s *Scheduler) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
}

// ForceRenderNow disarms any pending cycle and runs one immediately. It
// reports false without running anything when a cycle is already in
// progress.
func (s *Scheduler) ForceRenderNow() bool {
	s.mu.Lock()
	s.disarmLocked()
	s.mu.Unlock()

	return s.run()
}

// Suppress runs fn with edit notifications ignored. Programmatic text
// replacement goes through here so it does not arm a cycle of its own.
func (s *Scheduler) Suppress(fn func()) {
	s.mu.Lock()
	s.suppressed++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.suppressed--
		s.mu.Unlock()
	}()

	fn()
}

// Pending reports whether a cycle is armed.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Rendering reports whether a cycle is running.
func (s *Scheduler) Rendering() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendering
}

// Cycles returns how many cycles have started.
func (s *Scheduler) Cycles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycles
}

func (s *Scheduler) disarmLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
	s.pending = false
}

// fire runs on the dispatcher when the timer armed with seq expires.
func (s *Scheduler) fire(seq uint64) {
	s.mu.Lock()
	if seq != s.seq || !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.timer = nil
	s.mu.Unlock()

	s.run()
}

func (s *Scheduler) run() bool {
	s.mu.Lock()
	if s.rendering {
		s.mu.Unlock()
		return false
	}
	s.rendering = true
	s.cycles++
	cycle := s.cycles
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("render cycle panicked", logging.FieldCycle, cycle, logging.FieldPanic, r)
		}
		s.mu.Lock()
		s.rendering = false
		s.mu.Unlock()
	}()

	s.cycle()
	return true
}
