package gocollection

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned synchronously when an offset violates
	// 0 <= offset <= total (TotalUnknown lifts the upper bound). No request is
	// issued.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrMalformedResponse is returned when a response lacks the total or list
	// field.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrSuperseded is returned by requests dropped under strict ordering
	// because a newer request was issued before they settled.
	ErrSuperseded = errors.New("request superseded")
)

// TransportError wraps any failure reported by a Transport.
type TransportError struct {
	// StatusCode is the response status, 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error: status %d: %v", e.StatusCode, e.Err)
	}

	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func asTransportError(err error) error {
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return err
	}

	return &TransportError{Err: err}
}
