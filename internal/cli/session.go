package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/internal/loop"
	"github.com/yaklabco/mdnotes/internal/panel"
	"github.com/yaklabco/mdnotes/pkg/notes"
)

// settlePoll is how often settle checks for outstanding store operations.
const settlePoll = 5 * time.Millisecond

// session is a headless panel driven from the command line. The panel is
// only touched from the loop goroutine.
type session struct {
	store    *notes.FileStore
	loop     *loop.Loop
	panel    *panel.Panel
	notifier *cliNotifier
	cancel   context.CancelFunc
}

// openSession starts a loop and builds a panel on it. withStore opens the
// configured notes directory; without it the panel can only render.
func (a *app) openSession(ctx context.Context, withStore bool) (*session, error) {
	s := &session{notifier: &cliNotifier{logger: a.logger}}

	var store notes.Store
	if withStore {
		fileStore, err := notes.OpenFileStore(a.cfg.NotesDir, a.logger)
		if err != nil {
			return nil, fmt.Errorf("open notes: %w", err)
		}
		s.store = fileStore
		store = fileStore
	}

	s.loop = loop.New(a.logger)
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go func() {
		if err := s.loop.Run(runCtx); err != nil {
			a.logger.Error("event loop", logging.FieldError, err)
		}
	}()

	s.panel = panel.New(panel.Options{
		Store:           store,
		Dispatcher:      s.loop,
		Flavor:          string(a.cfg.Flavor),
		Font:            a.cfg.BaseFont(),
		QuietPeriod:     a.cfg.QuietPeriod.Std(),
		DetectLanguages: a.cfg.DetectLanguages(),
		Notifier:        s.notifier,
		Logger:          a.logger,
	})

	return s, nil
}

// do runs fn with the panel on the loop goroutine and waits for it.
func (s *session) do(ctx context.Context, fn func(p *panel.Panel)) error {
	if err := s.loop.Do(ctx, func() { fn(s.panel) }); err != nil {
		return fmt.Errorf("panel: %w", err)
	}
	return nil
}

// settle waits until no store operation is outstanding, then returns the
// errors the panel reported meanwhile.
func (s *session) settle(ctx context.Context) error {
	ticker := time.NewTicker(settlePoll)
	defer ticker.Stop()

	for {
		busy := false
		if err := s.do(ctx, func(p *panel.Panel) { busy = p.Busy() }); err != nil {
			return err
		}
		if !busy {
			return s.notifier.take()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// close stops the panel and the loop.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_ = s.do(ctx, func(p *panel.Panel) {
		if err := p.Close(); err != nil {
			s.notifier.logger.Debug("close panel", logging.FieldError, err)
		}
	})
	s.cancel()
	<-s.loop.Done()
}

// cliNotifier logs notices and keeps errors for the command to return.
type cliNotifier struct {
	logger *log.Logger

	mu  sync.Mutex
	err error
}

func (n *cliNotifier) Info(msg, title string) {
	n.logger.Info(msg, logging.FieldTitle, title)
}

func (n *cliNotifier) Error(msg, title string, err error) {
	if title != "" {
		err = fmt.Errorf("%s %q: %w", msg, title, err)
	} else {
		err = fmt.Errorf("%s: %w", msg, err)
	}

	n.mu.Lock()
	n.err = errors.Join(n.err, err)
	n.mu.Unlock()
}

// take returns and clears the collected errors.
func (n *cliNotifier) take() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.err
	n.err = nil
	return err
}
