package gocollection

import "github.com/samber/lo"

// WhereFunction produces filter criteria at fetch time. It is invoked on every
// call and may return nil. It runs under the record set lock and must not call
// back into the set.
type WhereFunction func() []any

// filterComposer keeps the three criteria sources. Criteria are opaque and are
// never inspected, reordered or deduplicated.
type filterComposer struct {
	where      []any
	additional []any
	function   WhereFunction
}

// compose returns where ++ additional ++ function().
func (f *filterComposer) compose() []any {
	var dynamic []any
	if f.function != nil {
		dynamic = f.function()
	}

	ret := lo.Flatten([][]any{f.where, f.additional, dynamic})
	if ret == nil {
		ret = []any{}
	}

	return ret
}

// GetWhere returns the merged filter criteria: the base criteria, then the
// supplementary ones, then the result of the where function evaluated now.
func (rs *RecordSet[T]) GetWhere() []any {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.filter.compose()
}

// SetWhere replaces the base filter criteria.
func (rs *RecordSet[T]) SetWhere(criteria []any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.filter.where = criteria
}

// SetWhereAdditional replaces the supplementary filter criteria.
func (rs *RecordSet[T]) SetWhereAdditional(criteria []any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.filter.additional = criteria
}

// SetWhereFunction replaces the dynamic filter criteria source. nil removes
// it.
func (rs *RecordSet[T]) SetWhereFunction(fn WhereFunction) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.filter.function = fn
}
