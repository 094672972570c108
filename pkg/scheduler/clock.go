package scheduler

import "time"

// Timer is a pending clock callback.
type Timer interface {
	// Stop prevents the callback from running. It reports false when the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Dispatcher runs a function on the goroutine that owns the editor.
type Dispatcher interface {
	Post(fn func())
}

// DispatchFunc adapts a function to the Dispatcher interface.
type DispatchFunc func(fn func())

// Post calls f(fn).
func (f DispatchFunc) Post(fn func()) { f(fn) }

// SystemClock is the wall clock.
type SystemClock struct{}

// AfterFunc wraps time.AfterFunc.
//
//nolint:ireturn // Clock implementations return the Timer interface
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Inline runs posted functions immediately on the calling goroutine.
var Inline = DispatchFunc(func(fn func()) { fn() })
