package gocollection

import (
	"sync"

	"github.com/samber/lo"
)

// EventHandler handles a single event.
type EventHandler[T Record] func(event Event[T])

type subscription[T Record] struct {
	id      uint64
	kind    EventKind
	all     bool
	handler EventHandler[T]
}

// Bus is a thread-safe in-process publish/subscribe Notifier. Handlers are
// invoked synchronously in subscription order.
type Bus[T Record] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription[T]
}

// NewBus returns an empty Bus.
func NewBus[T Record]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers handler for events of the given kind. The returned
// function removes the subscription.
func (b *Bus[T]) Subscribe(kind EventKind, handler EventHandler[T]) func() {
	return b.subscribe(subscription[T]{kind: kind, handler: handler})
}

// SubscribeAll registers handler for every event.
func (b *Bus[T]) SubscribeAll(handler EventHandler[T]) func() {
	return b.subscribe(subscription[T]{all: true, handler: handler})
}

func (b *Bus[T]) subscribe(sub subscription[T]) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub.id = b.nextID
	b.subs = append(b.subs, sub)

	id := sub.id
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.subs = lo.Reject(b.subs, func(s subscription[T], _ int) bool {
			return s.id == id
		})
	}
}

// Notify - implements Notifier.
func (b *Bus[T]) Notify(event Event[T]) {
	b.mu.RLock()
	handlers := lo.FilterMap(b.subs, func(s subscription[T], _ int) (EventHandler[T], bool) {
		return s.handler, s.all || s.kind == event.Kind
	})
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

var _ Notifier[Record] = (*Bus[Record])(nil)
