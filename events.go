package gocollection

// EventKind identifies a record set notification.
type EventKind string

const (
	// EventAdd is announced for each record added to the set.
	EventAdd EventKind = "add"
	// EventRemove is announced for each record removed from the set.
	EventRemove EventKind = "remove"
	// EventUpdate is announced once after a batch of adds and removes.
	EventUpdate EventKind = "update"
	// EventReset is announced when the record list is wholly replaced.
	EventReset EventKind = "reset"
	// EventSync is announced after a fetch completed successfully.
	EventSync EventKind = "sync"
)

// Changes summarizes an add/remove batch.
type Changes[T Record] struct {
	Added   []T
	Removed []T
}

// Event is a single notification. Record is set for EventAdd and EventRemove,
// Changes for EventUpdate, Request for EventSync.
type Event[T Record] struct {
	Kind       EventKind
	EntityType string
	Record     T
	Changes    Changes[T]
	Request    *Request
}

// Notifier receives record set notifications. Notify is called outside the
// record set lock, so handlers may call back into the set.
type Notifier[T Record] interface {
	Notify(event Event[T])
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc[T Record] func(event Event[T])

// Notify - implements Notifier.
func (f NotifierFunc[T]) Notify(event Event[T]) {
	f(event)
}

type nopNotifier[T Record] struct{}

func (nopNotifier[T]) Notify(Event[T]) {}

var (
	_ Notifier[Record] = NotifierFunc[Record](nil)
	_ Notifier[Record] = nopNotifier[Record]{}
)
