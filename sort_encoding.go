package gocollection

// Outbound parameter names.
const (
	ParamOffset  = "offset"
	ParamMaxSize = "maxSize"
	ParamWhere   = "where"
	ParamOrderBy = "orderBy"
	ParamOrder   = "order"
	ParamSortBy  = "sortBy"
	ParamAsc     = "asc"
)

// SortEncoding writes the sort state into the outbound parameters. Exactly
// one pair of sort parameters is ever written.
type SortEncoding interface {
	Encode(params map[string]any, order OrderBy)
}

type (
	// ModernSortEncoding writes {orderBy: string, order: "asc"|"desc"}.
	ModernSortEncoding struct{}
	// LegacySortEncoding writes {sortBy: string, asc: bool}.
	LegacySortEncoding struct{}
)

// Encode - implements SortEncoding.
func (ModernSortEncoding) Encode(params map[string]any, order OrderBy) {
	delete(params, ParamSortBy)
	delete(params, ParamAsc)

	params[ParamOrderBy] = order.Field
	params[ParamOrder] = order.Direction
}

// Encode - implements SortEncoding.
func (LegacySortEncoding) Encode(params map[string]any, order OrderBy) {
	delete(params, ParamOrderBy)
	delete(params, ParamOrder)

	params[ParamSortBy] = order.Field
	params[ParamAsc] = order.Direction.IsASC()
}

var (
	_ SortEncoding = ModernSortEncoding{}
	_ SortEncoding = LegacySortEncoding{}
)
