package events

import (
	"sync"

	"github.com/pkg/errors"
)

// EventHandler defines a function type where its input type is the generic type.
type EventHandler[T any] func(T) error

// EventEmitter describes a provider which can subscribe EventHandler methods for callback when the event type (generic)
// is published. It additionally provides methods for publishing events. The zero value is ready to use, and an
// emitter with no subscribers is a no-op, so owners can publish unconditionally.
type EventEmitter[T any] struct {
	// subscriptions defines the EventHandler methods which should be invoked when a new event is published to this
	// emitter.
	subscriptions []EventHandler[T]

	// subscriptionsLock guards subscriptions against concurrent Subscribe/Publish calls.
	subscriptionsLock sync.RWMutex
}

// Publish emits the provided event by calling every EventHandler subscribed, in subscription order. Every handler is
// called even if an earlier one fails; the first error encountered is returned.
func (e *EventEmitter[T]) Publish(event T) error {
	e.subscriptionsLock.RLock()
	subscriptions := make([]EventHandler[T], len(e.subscriptions))
	copy(subscriptions, e.subscriptions)
	e.subscriptionsLock.RUnlock()

	var firstErr error
	for _, subscription := range subscriptions {
		if err := subscription(event); err != nil && firstErr == nil {
			firstErr = errors.WithStack(err)
		}
	}
	return firstErr
}

// Subscribe adds an EventHandler to the list of subscribed EventHandler objects for this emitter. When an event is
// published, the callback will be triggered with the event data.
func (e *EventEmitter[T]) Subscribe(callback EventHandler[T]) {
	e.subscriptionsLock.Lock()
	defer e.subscriptionsLock.Unlock()
	e.subscriptions = append(e.subscriptions, callback)
}

// SubscriberCount returns the number of handlers currently subscribed.
func (e *EventEmitter[T]) SubscriberCount() int {
	e.subscriptionsLock.RLock()
	defer e.subscriptionsLock.RUnlock()
	return len(e.subscriptions)
}
