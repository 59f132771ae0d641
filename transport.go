package gocollection

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// Record is a server-side entity instance. The identifier must be stable and
// unique within a record set.
type Record interface {
	GetID() string
}

// Transport performs the network call for a record set. Do blocks until the
// response is available or ctx is done; canceling ctx aborts the call.
type Transport[T Record] interface {
	Do(ctx context.Context, query Query) (*Response[T], error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc[T Record] func(ctx context.Context, query Query) (*Response[T], error)

// Do - implements Transport.
func (f TransportFunc[T]) Do(ctx context.Context, query Query) (*Response[T], error) {
	return f(ctx, query)
}

// Query is the outbound request assembled by a record set.
type Query struct {
	// EntityType is the name of the requested entity type.
	EntityType string
	Offset     int
	MaxSize    int
	Order      OrderBy
	// Where is the merged list of opaque filter criteria.
	Where []any
	// Data holds the extra parameters accumulated by the record set.
	Data map[string]any

	encoding SortEncoding
}

// Params returns the key/value map sent to the server: the extra data,
// overwritten by offset, maxSize, where and one pair of sort parameters.
func (q Query) Params() map[string]any {
	params := lo.Assign(q.Data)
	params[ParamOffset] = q.Offset
	params[ParamMaxSize] = q.MaxSize
	params[ParamWhere] = lo.Ternary(q.Where == nil, []any{}, q.Where)

	encoding := q.encoding
	if encoding == nil {
		encoding = ModernSortEncoding{}
	}
	encoding.Encode(params, q.Order)

	return params
}

// Response is the inbound shape expected from the server:
//
//	{ "total": int, "list": [...], "additionalData": {...} }
type Response[T Record] struct {
	Total          *int           `json:"total"`
	List           []T            `json:"list"`
	AdditionalData map[string]any `json:"additionalData,omitempty"`
}

// NewResponse builds a well-formed response.
func NewResponse[T Record](total int, list []T) *Response[T] {
	if list == nil {
		list = []T{}
	}

	return &Response[T]{
		Total: &total,
		List:  list,
	}
}

// WithAdditionalData sets the side-channel payload and returns the response.
func (r *Response[T]) WithAdditionalData(data map[string]any) *Response[T] {
	if r == nil {
		r = new(Response[T])
	}

	r.AdditionalData = data

	return r
}

func (r *Response[T]) validate() error {
	if r == nil {
		return fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	if r.Total == nil {
		return fmt.Errorf("%w: missing total", ErrMalformedResponse)
	}

	if r.List == nil {
		return fmt.Errorf("%w: missing list", ErrMalformedResponse)
	}

	return nil
}
