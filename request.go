package gocollection

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var _settled = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)

	return ch
}()

// Request is the handle of one issued fetch. It settles exactly once, either
// successfully or with an error.
type Request struct {
	id     string
	query  Query
	cancel context.CancelFunc
	done   chan struct{}

	once sync.Once
	err  error
}

func newRequest(query Query, cancel context.CancelFunc) *Request {
	return &Request{
		id:     uuid.NewString(),
		query:  query,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID returns the unique request identifier.
func (r *Request) ID() string {
	if r == nil {
		return ""
	}

	return r.id
}

// Query returns the query the request was issued with.
func (r *Request) Query() Query {
	if r == nil {
		return Query{}
	}

	return r.query
}

// Done returns a channel closed when the request settles.
func (r *Request) Done() <-chan struct{} {
	if r == nil {
		return _settled
	}

	return r.done
}

// Pending reports whether the request has not settled yet.
func (r *Request) Pending() bool {
	if r == nil {
		return false
	}

	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the request settles or ctx is done. It returns the
// request outcome, or ctx.Err() if ctx finished first.
func (r *Request) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}

	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the outcome of a settled request, nil while pending.
func (r *Request) Err() error {
	if r.Pending() {
		return nil
	}

	return r.err
}

// Abort cancels the underlying transport operation. It is a no-op once the
// request has settled and is safe to call more than once.
func (r *Request) Abort() {
	if !r.Pending() {
		return
	}

	r.cancel()
}

func (r *Request) settle(err error) {
	r.once.Do(func() {
		r.err = err
		r.cancel()
		close(r.done)
	})
}
