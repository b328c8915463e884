// Package mq carries change notifications between the mutation path and
// the snapshot subscribers. Every successful document write publishes the
// name of the touched collection to a Redis channel; each subscriber
// reloads that collection wholesale and pushes a fresh snapshot.
package mq

import (
	"context"
	"log"

	"forkful/rdx"
)

const changeChannel = "collection-changes"

// publish delivers one change notification; swapped in tests. It uses a
// background context so a mutation that already settled notifies even
// when the request that caused it has gone away.
var publish = func(collection string) error {
	return rdx.Conn.Publish(context.Background(), changeChannel, collection).Err()
}

// Emit publishes a change notification for collection. Failures are
// logged and swallowed: the write already succeeded, and a missed
// notification only delays the next snapshot until the following change.
func Emit(collection string) {
	if err := publish(collection); err != nil {
		log.Printf("[mq] failed to publish change for %q: %v", collection, err)
	}
}

// Listen invokes fn with the collection name of every change notification
// until ctx is done. It runs in its own goroutine per caller.
func Listen(ctx context.Context, fn func(collection string)) {
	sub := rdx.Conn.Subscribe(ctx, changeChannel)
	ch := sub.Channel()

	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fn(msg.Payload)
			}
		}
	}()
}
