package datastore

import (
	"context"
	"time"

	"forkful/mq"
)

// Event is one delivery on a snapshot subscription: either a full
// replacement document set or an error. An error event never carries
// documents; consumers keep their last-known set.
type Event[T any] struct {
	Docs []T
	Err  error
}

// Subscription yields whole-collection snapshots for one named
// collection: an initial snapshot on attach, then a fresh one after
// every change notification. Close releases it; callers must close the
// previous subscription before opening a replacement to avoid duplicate
// deliveries.
type Subscription[T any] struct {
	Events <-chan Event[T]
	cancel context.CancelFunc
}

func (s *Subscription[T]) Close() {
	s.cancel()
}

// NewSubscription wraps an externally driven event channel; cancel runs
// on Close. Used by consumers that bring their own delivery loop.
func NewSubscription[T any](events <-chan Event[T], cancel func()) *Subscription[T] {
	return &Subscription[T]{Events: events, cancel: cancel}
}

const loadTimeout = 10 * time.Second

// Subscribe starts a snapshot subscription for the named collection,
// reloading via load on every matching change notification. Rapid
// notifications coalesce into a single reload.
func Subscribe[T any](ctx context.Context, name string, load func(context.Context) ([]T, error)) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	events := make(chan Event[T], 1)

	notify := make(chan struct{}, 1)
	mq.Listen(ctx, func(collection string) {
		if collection != name {
			return
		}
		select {
		case notify <- struct{}{}:
		default:
		}
	})

	push := func() {
		lctx, lcancel := context.WithTimeout(ctx, loadTimeout)
		docs, err := load(lctx)
		lcancel()
		ev := Event[T]{Docs: docs, Err: err}
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(events)
		push()
		for {
			select {
			case <-ctx.Done():
				return
			case <-notify:
				push()
			}
		}
	}()

	return &Subscription[T]{Events: events, cancel: cancel}
}
