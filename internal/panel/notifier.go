package panel

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdnotes/internal/logging"
)

// Notifier receives messages meant for the user, the panel's stand-in for
// dialog boxes.
type Notifier interface {
	Info(msg, title string)
	Error(msg, title string, err error)
}

// LogNotifier writes notices to a logger.
type LogNotifier struct {
	Logger *log.Logger
}

// Info logs msg at info level.
func (n LogNotifier) Info(msg, title string) {
	logging.Or(n.Logger).Info(msg, logging.FieldTitle, title)
}

// Error logs msg at error level.
func (n LogNotifier) Error(msg, title string, err error) {
	logging.Or(n.Logger).Error(msg, logging.FieldTitle, title, logging.FieldError, err)
}
