package gocollection

import "context"

// Sort sets the sort field and direction and fetches. The direction is
// normalized with NormalizeDirection.
func (rs *RecordSet[T]) Sort(ctx context.Context, orderBy string, order any) (*Request, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.order.set(orderBy, NormalizeDirection(order), false)

	return rs.issueLocked(ctx, FetchOptions{})
}

// SetOrder sets the sort state as-is without fetching. With setDefault the
// state also becomes the default restored by ResetOrderToDefault.
func (rs *RecordSet[T]) SetOrder(orderBy string, order Direction, setDefault bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.order.set(orderBy, order, setDefault)
}

// ResetOrderToDefault restores the default sort state without fetching.
func (rs *RecordSet[T]) ResetOrderToDefault() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.order.reset()
}

// Order returns the current sort state.
func (rs *RecordSet[T]) Order() OrderBy {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.order.current
}

// DefaultOrder returns the default sort state.
func (rs *RecordSet[T]) DefaultOrder() OrderBy {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.order.fallback
}
