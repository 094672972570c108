package notes

import (
	"context"
	"sync"
)

// Dispatcher runs callbacks on the goroutine that owns the UI state.
type Dispatcher interface {
	Post(fn func())
}

// Async runs store operations off the owning goroutine and posts each result
// back through the dispatcher.
type Async struct {
	store      Store
	dispatcher Dispatcher
	wg         sync.WaitGroup
}

// NewAsync wraps store.
func NewAsync(store Store, dispatcher Dispatcher) *Async {
	return &Async{store: store, dispatcher: dispatcher}
}

// Store returns the wrapped store.
//
//nolint:ireturn // the wrapped value is any Store
func (a *Async) Store() Store {
	return a.store
}

// Save saves in the background and posts done with the result.
func (a *Async) Save(ctx context.Context, title, content string, done func(error)) {
	a.spawn(func() {
		err := a.store.Save(ctx, title, content)
		a.dispatcher.Post(func() { done(err) })
	})
}

// Load loads in the background and posts done with the result.
func (a *Async) Load(ctx context.Context, title string, done func(Note, error)) {
	a.spawn(func() {
		note, err := a.store.Load(ctx, title)
		a.dispatcher.Post(func() { done(note, err) })
	})
}

// List lists in the background and posts done with the result.
func (a *Async) List(ctx context.Context, done func([]string, error)) {
	a.spawn(func() {
		titles, err := a.store.List(ctx)
		a.dispatcher.Post(func() { done(titles, err) })
	})
}

// Delete deletes in the background and posts done with the result.
func (a *Async) Delete(ctx context.Context, title string, done func(bool, error)) {
	a.spawn(func() {
		removed, err := a.store.Delete(ctx, title)
		a.dispatcher.Post(func() { done(removed, err) })
	})
}

// Wait blocks until every started operation has posted its result.
func (a *Async) Wait() {
	a.wg.Wait()
}

func (a *Async) spawn(fn func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn()
	}()
}
