// Package mirror holds the authoritative local copy of a remote
// collection, derived purely from snapshot pushes. Every push replaces
// the whole set; there is no diffing or partial merge.
package mirror

import (
	"sync"

	"forkful/datastore"
)

// Mirror is the in-memory replica of one collection. A pushed error
// leaves the last-known documents in place and is surfaced through Err,
// so transient transport failures never blank the display.
type Mirror[T any] struct {
	mu       sync.RWMutex
	docs     []T
	err      error
	ready    bool
	watchers []func()

	sub *datastore.Subscription[T]
}

func New[T any]() *Mirror[T] {
	return &Mirror[T]{}
}

// Attach consumes events from sub until it is closed. Any previously
// attached subscription is released first so a reload never leaves two
// live feeds delivering duplicate snapshots.
func (m *Mirror[T]) Attach(sub *datastore.Subscription[T]) {
	m.mu.Lock()
	if m.sub != nil {
		m.sub.Close()
	}
	m.sub = sub
	m.mu.Unlock()

	go func() {
		for ev := range sub.Events {
			m.Apply(ev)
		}
	}()
}

// Apply folds one snapshot event into the mirror and notifies watchers.
func (m *Mirror[T]) Apply(ev datastore.Event[T]) {
	m.mu.Lock()
	if ev.Err != nil {
		m.err = ev.Err
	} else {
		m.docs = ev.Docs
		m.err = nil
		m.ready = true
	}
	watchers := make([]func(), len(m.watchers))
	copy(watchers, m.watchers)
	m.mu.Unlock()

	for _, fn := range watchers {
		fn()
	}
}

// Snapshot returns a copy of the current document set.
func (m *Mirror[T]) Snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.docs))
	copy(out, m.docs)
	return out
}

// Err reports the error from the most recent push, if that push failed.
func (m *Mirror[T]) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// Ready reports whether at least one successful snapshot has arrived.
func (m *Mirror[T]) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

// Watch registers fn to run after every applied event.
func (m *Mirror[T]) Watch(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, fn)
}

// Close releases the attached subscription, if any.
func (m *Mirror[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sub != nil {
		m.sub.Close()
		m.sub = nil
	}
}
