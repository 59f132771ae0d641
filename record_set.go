package gocollection

import (
	"slices"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// RecordSet is the locally loaded window of a server-side, paginated, sorted
// and filtered record list.
//
// All state mutations happen synchronously under an internal lock. Only the
// network round trip runs asynchronously: fetch-triggering methods return a
// *Request the caller may wait on. Several fetches may be in flight, but only
// the latest one is tracked for cancellation. By default the last request to
// settle wins, see WithStrictOrdering.
type RecordSet[T Record] struct {
	mu sync.Mutex

	entityType string
	transport  Transport[T]
	notifier   Notifier[T]
	logger     *zap.Logger
	encoding   SortEncoding
	strict     bool

	records          []T
	total            int
	offset           int
	maxSize          int
	maxMaxSize       int
	order            orderState
	filter           filterComposer
	lengthCorrection int
	data             map[string]any
	dataAdditional   map[string]any
	lastRequest      *Request
}

// New creates an empty record set of the given entity type fetched through
// transport.
func New[T Record](entityType string, transport Transport[T]) *RecordSet[T] {
	return &RecordSet[T]{
		entityType: entityType,
		transport:  transport,
		notifier:   nopNotifier[T]{},
		logger:     zap.NewNop(),
		encoding:   ModernSortEncoding{},
		records:    []T{},
		maxSize:    DefaultMaxSize,
		order:      newOrderState("", DirectionASC),
		data:       map[string]any{},
	}
}

// WithOrder sets the initial sort state. It becomes the default restored by
// ResetOrderToDefault.
func (rs *RecordSet[T]) WithOrder(orderBy string, order Direction) *RecordSet[T] {
	rs.SetOrder(orderBy, order, true)

	return rs
}

// WithMaxSize sets the page size. Non-positive values fall back to
// DefaultMaxSize.
func (rs *RecordSet[T]) WithMaxSize(maxSize int) *RecordSet[T] {
	rs.SetMaxSize(maxSize)

	return rs
}

// WithMaxMaxSize caps every page size sent to the server. NoMaxMaxSize
// disables the cap.
func (rs *RecordSet[T]) WithMaxMaxSize(maxMaxSize int) *RecordSet[T] {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.maxMaxSize = lo.Max([]int{maxMaxSize, NoMaxMaxSize})

	return rs
}

// WithWhere sets the base filter criteria.
func (rs *RecordSet[T]) WithWhere(criteria ...any) *RecordSet[T] {
	rs.SetWhere(criteria)

	return rs
}

// WithWhereAdditional sets the supplementary filter criteria.
func (rs *RecordSet[T]) WithWhereAdditional(criteria ...any) *RecordSet[T] {
	rs.SetWhereAdditional(criteria)

	return rs
}

// WithWhereFunction sets the dynamic filter criteria source.
func (rs *RecordSet[T]) WithWhereFunction(fn WhereFunction) *RecordSet[T] {
	rs.SetWhereFunction(fn)

	return rs
}

// WithLegacySortEncoding switches outbound sort parameters to sortBy/asc.
func (rs *RecordSet[T]) WithLegacySortEncoding() *RecordSet[T] {
	return rs.WithSortEncoding(LegacySortEncoding{})
}

// WithSortEncoding sets the outbound sort parameters encoding.
func (rs *RecordSet[T]) WithSortEncoding(encoding SortEncoding) *RecordSet[T] {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.encoding = lo.Ternary[SortEncoding](encoding == nil, ModernSortEncoding{}, encoding)

	return rs
}

// WithStrictOrdering makes responses of superseded requests be dropped
// instead of overwriting the state. Such requests settle with ErrSuperseded.
func (rs *RecordSet[T]) WithStrictOrdering() *RecordSet[T] {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.strict = true

	return rs
}

// WithNotifier sets the receiver of add/remove/update/reset/sync events.
func (rs *RecordSet[T]) WithNotifier(notifier Notifier[T]) *RecordSet[T] {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.notifier = lo.Ternary[Notifier[T]](notifier == nil, nopNotifier[T]{}, notifier)

	return rs
}

// WithLogger sets the logger used for debug traces of fetches.
func (rs *RecordSet[T]) WithLogger(logger *zap.Logger) *RecordSet[T] {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if logger == nil {
		logger = zap.NewNop()
	}
	rs.logger = logger.With(zap.String("entity_type", rs.entityType))

	return rs
}

// EntityType returns the entity type name.
func (rs *RecordSet[T]) EntityType() string {
	return rs.entityType
}

// Records returns a copy of the loaded records.
func (rs *RecordSet[T]) Records() []T {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return slices.Clone(rs.records)
}

// Len returns the number of loaded records.
func (rs *RecordSet[T]) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return len(rs.records)
}

// At returns the record at index i.
func (rs *RecordSet[T]) At(i int) (T, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if i < 0 || i >= len(rs.records) {
		return lo.Empty[T](), false
	}

	return rs.records[i], true
}

// Get returns the record with the given identifier.
func (rs *RecordSet[T]) Get(id string) (T, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return lo.Find(rs.records, func(r T) bool {
		return r.GetID() == id
	})
}

// Total returns the server-side count of matching records, or TotalUnknown.
func (rs *RecordSet[T]) Total() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.total
}

// Offset returns the index of the first loaded record in the server ordering.
func (rs *RecordSet[T]) Offset() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.offset
}

// MaxSize returns the page size.
func (rs *RecordSet[T]) MaxSize() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.maxSize
}

// SetMaxSize sets the page size. Non-positive values fall back to
// DefaultMaxSize. No fetch is triggered.
func (rs *RecordSet[T]) SetMaxSize(maxSize int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.maxSize = NormalizeMaxSize(maxSize)
}

// MaxMaxSize returns the page size cap, NoMaxMaxSize if uncapped.
func (rs *RecordSet[T]) MaxMaxSize() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.maxMaxSize
}

// DataAdditional returns the side-channel payload of the last applied
// response, nil if it carried none.
func (rs *RecordSet[T]) DataAdditional() map[string]any {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.dataAdditional == nil {
		return nil
	}

	return lo.Assign(rs.dataAdditional)
}

// Data returns a copy of the persistent extra parameters.
func (rs *RecordSet[T]) Data() map[string]any {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return lo.Assign(rs.data)
}

// SetData stores an extra parameter sent with every subsequent fetch.
func (rs *RecordSet[T]) SetData(key string, value any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.data[key] = value
}

// LastRequest returns the most recently issued request, nil before the first
// fetch.
func (rs *RecordSet[T]) LastRequest() *Request {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.lastRequest
}

// LengthCorrection returns the pending local delta: the net count of local
// record additions and removals not yet reflected in Total.
func (rs *RecordSet[T]) LengthCorrection() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.lengthCorrection
}

// AdjustLengthCorrection adds delta to the pending local delta. Call it with
// +1 for a record inserted locally and -1 for a record removed locally.
func (rs *RecordSet[T]) AdjustLengthCorrection(delta int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.lengthCorrection += delta
}

// MutationOptions control notifications of local mutations.
type MutationOptions struct {
	// Silent suppresses every event of the mutation.
	Silent bool
}

// Add appends records whose identifiers are not in the set yet. An add event
// is announced per added record, then a single update event.
func (rs *RecordSet[T]) Add(opts MutationOptions, records ...T) []T {
	rs.mu.Lock()
	added := make([]T, 0, len(records))
	for _, r := range records {
		if rs.indexOfLocked(r.GetID()) != -1 {
			continue
		}

		rs.records = append(rs.records, r)
		added = append(added, r)
	}
	rs.mu.Unlock()

	if !opts.Silent {
		rs.emit(rs.changeEvents(added, nil))
	}

	return added
}

// Push appends a single record.
func (rs *RecordSet[T]) Push(opts MutationOptions, record T) bool {
	return len(rs.Add(opts, record)) == 1
}

// Remove removes records by identifier. A remove event is announced per
// removed record, then a single update event.
func (rs *RecordSet[T]) Remove(opts MutationOptions, ids ...string) []T {
	rs.mu.Lock()
	removed := make([]T, 0, len(ids))
	for _, id := range ids {
		idx := rs.indexOfLocked(id)
		if idx == -1 {
			continue
		}

		removed = append(removed, rs.records[idx])
		rs.records = slices.Delete(rs.records, idx, idx+1)
	}
	rs.mu.Unlock()

	if !opts.Silent {
		rs.emit(rs.changeEvents(nil, removed))
	}

	return removed
}

// Pop removes and returns the last record.
func (rs *RecordSet[T]) Pop(opts MutationOptions) (T, bool) {
	rs.mu.Lock()
	if len(rs.records) == 0 {
		rs.mu.Unlock()
		return lo.Empty[T](), false
	}
	last := lo.LastOrEmpty(rs.records)
	rs.mu.Unlock()

	removed := rs.Remove(opts, last.GetID())

	return last, len(removed) == 1
}

// Reset wholly replaces the record list and clears the pending local delta.
// A single reset event is announced.
func (rs *RecordSet[T]) Reset(opts MutationOptions, records ...T) {
	rs.mu.Lock()
	rs.resetLocked(records)
	rs.mu.Unlock()

	if !opts.Silent {
		rs.emit([]Event[T]{{Kind: EventReset, EntityType: rs.entityType}})
	}
}

func (rs *RecordSet[T]) resetLocked(records []T) {
	rs.records = append(make([]T, 0, len(records)), records...)
	rs.lengthCorrection = 0
}

func (rs *RecordSet[T]) indexOfLocked(id string) int {
	return slices.IndexFunc(rs.records, func(r T) bool {
		return r.GetID() == id
	})
}

// changeEvents builds remove events, add events and a trailing update event.
// An empty batch produces no events.
func (rs *RecordSet[T]) changeEvents(added, removed []T) []Event[T] {
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	events := make([]Event[T], 0, len(added)+len(removed)+1)
	for _, r := range removed {
		events = append(events, Event[T]{Kind: EventRemove, EntityType: rs.entityType, Record: r})
	}
	for _, r := range added {
		events = append(events, Event[T]{Kind: EventAdd, EntityType: rs.entityType, Record: r})
	}

	return append(events, Event[T]{
		Kind:       EventUpdate,
		EntityType: rs.entityType,
		Changes:    Changes[T]{Added: added, Removed: removed},
	})
}

// emit delivers events in order. It must be called without holding the lock.
func (rs *RecordSet[T]) emit(events []Event[T]) {
	rs.mu.Lock()
	notifier := rs.notifier
	rs.mu.Unlock()

	for _, event := range events {
		notifier.Notify(event)
	}
}
