package gocollection

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// FetchOptions override the stored state for a single fetch. Pointer fields
// distinguish "not set" from zero values. Overrides of offset, order and
// where are written back, so after the fetch the set reflects the parameters
// actually used.
type FetchOptions struct {
	// Data is merged into the persistent extra parameters. Re-supplied keys
	// replace stored values.
	Data map[string]any

	Offset  *int
	OrderBy *string
	Order   *Direction
	MaxSize *int

	// Where replaces the base filter criteria.
	Where []any

	// More continues loading after the already loaded window.
	More bool

	// Reset applies the response through Reset: the list is replaced, the
	// pending local delta is cleared and a single reset event is announced.
	Reset bool
	// KeepExisting keeps loaded records missing from the response, so the
	// response is appended to the window.
	KeepExisting bool
	// Silent suppresses add/remove/update/reset events. Sync is still
	// announced.
	Silent bool
}

// Fetch issues a request built from the stored state and opts. The request
// runs asynchronously; the returned *Request settles once the response is
// applied or the request failed. Failures never modify total, records or
// additional data.
func (rs *RecordSet[T]) Fetch(ctx context.Context, opts FetchOptions) (*Request, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.issueLocked(ctx, opts)
}

// FetchMore loads the next page after the loaded window and appends it.
func (rs *RecordSet[T]) FetchMore(ctx context.Context) (*Request, error) {
	return rs.Fetch(ctx, FetchOptions{More: true, KeepExisting: true})
}

// AbortLastFetch cancels the most recently issued request if it is still
// pending. Earlier requests are not affected.
func (rs *RecordSet[T]) AbortLastFetch() {
	rs.mu.Lock()
	last := rs.lastRequest
	rs.mu.Unlock()

	if last != nil {
		last.Abort()
	}
}

// BuildQuery returns the query the next fetch with opts would send, without
// issuing it or touching the stored state.
func (rs *RecordSet[T]) BuildQuery(opts FetchOptions) Query {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	offset, order, filter := rs.offset, rs.order.current, rs.filter
	if opts.Offset != nil {
		offset = *opts.Offset
	}
	if opts.OrderBy != nil {
		order.Field = *opts.OrderBy
	}
	if opts.Order != nil {
		order.Direction = *opts.Order
	}
	if opts.Where != nil {
		filter.where = opts.Where
	}

	return rs.buildQueryLocked(opts, offset, order, filter, lo.Assign(rs.data, opts.Data))
}

func (rs *RecordSet[T]) issueLocked(ctx context.Context, opts FetchOptions) (*Request, error) {
	if opts.Offset != nil {
		if err := ValidateOffset(*opts.Offset, rs.total); err != nil {
			return nil, err
		}
	}
	if opts.MaxSize != nil && *opts.MaxSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", *opts.MaxSize)
	}

	rs.data = lo.Assign(rs.data, opts.Data)
	if opts.Offset != nil {
		rs.offset = *opts.Offset
	}
	if opts.OrderBy != nil {
		rs.order.current.Field = *opts.OrderBy
	}
	if opts.Order != nil {
		rs.order.current.Direction = *opts.Order
	}
	if opts.Where != nil {
		rs.filter.where = opts.Where
	}

	query := rs.buildQueryLocked(opts, rs.offset, rs.order.current, rs.filter, rs.data)

	reqCtx, cancel := context.WithCancel(ctx)
	req := newRequest(query, cancel)
	rs.lastRequest = req

	rs.logger.Debug("fetch issued",
		zap.String("request_id", req.ID()),
		zap.Int("offset", query.Offset),
		zap.Int("max_size", query.MaxSize),
		zap.String("order_by", query.Order.Field),
		zap.Bool("more", opts.More),
	)

	go rs.run(reqCtx, req, opts)

	return req, nil
}

func (rs *RecordSet[T]) buildQueryLocked(
	opts FetchOptions,
	offset int,
	order OrderBy,
	filter filterComposer,
	data map[string]any,
) Query {
	knownLength := len(rs.records) + rs.lengthCorrection

	return Query{
		EntityType: rs.entityType,
		Offset:     lo.Ternary(opts.More, lo.Max([]int{knownLength, 0}), offset),
		MaxSize:    requestedMaxSize(opts.MaxSize, opts.More, knownLength, rs.maxSize, rs.maxMaxSize),
		Order:      order,
		Where:      filter.compose(),
		Data:       lo.Assign(data),
		encoding:   rs.encoding,
	}
}

func (rs *RecordSet[T]) run(ctx context.Context, req *Request, opts FetchOptions) {
	resp, err := rs.transport.Do(ctx, req.Query())
	switch {
	case err != nil:
		err = asTransportError(err)
	case ctx.Err() != nil:
		// Aborted while the transport was already completing.
		err = asTransportError(ctx.Err())
	default:
		err = resp.validate()
	}

	var events []Event[T]
	if err == nil {
		events, err = rs.apply(req, resp, opts)
	}

	rs.logger.Debug("fetch settled",
		zap.String("request_id", req.ID()),
		zap.Bool("failed", err != nil),
	)

	rs.emit(events)
	req.settle(err)
}

// apply writes a successful response into the set and returns the events to
// announce.
func (rs *RecordSet[T]) apply(req *Request, resp *Response[T], opts FetchOptions) ([]Event[T], error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.strict && rs.lastRequest != req {
		return nil, ErrSuperseded
	}

	rs.total = *resp.Total
	rs.dataAdditional = resp.AdditionalData

	synced := Event[T]{Kind: EventSync, EntityType: rs.entityType, Request: req}

	if opts.Reset {
		rs.resetLocked(resp.List)
		if opts.Silent {
			return []Event[T]{synced}, nil
		}

		return []Event[T]{{Kind: EventReset, EntityType: rs.entityType}, synced}, nil
	}

	added, removed := rs.setLocked(resp.List, opts.KeepExisting)
	if opts.Silent {
		return []Event[T]{synced}, nil
	}

	return append(rs.changeEvents(added, removed), synced), nil
}

// setLocked merges list into the loaded records by identifier. Records
// already present are updated in place, new ones are appended in response
// order. Unless keepExisting is set, records missing from list are removed
// and the response order is taken as-is.
func (rs *RecordSet[T]) setLocked(list []T, keepExisting bool) (added []T, removed []T) {
	incoming := lo.SliceToMap(list, func(r T) (string, T) {
		return r.GetID(), r
	})
	existing := lo.SliceToMap(rs.records, func(r T) (string, struct{}) {
		return r.GetID(), struct{}{}
	})

	added = lo.Filter(list, func(r T, _ int) bool {
		_, ok := existing[r.GetID()]
		return !ok
	})

	if !keepExisting {
		removed = lo.Filter(rs.records, func(r T, _ int) bool {
			_, ok := incoming[r.GetID()]
			return !ok
		})
		rs.records = append(make([]T, 0, len(list)), list...)

		return added, removed
	}

	rs.records = lo.Map(rs.records, func(r T, _ int) T {
		if updated, ok := incoming[r.GetID()]; ok {
			return updated
		}

		return r
	})
	rs.records = append(rs.records, added...)

	return added, nil
}
