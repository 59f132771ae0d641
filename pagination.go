package gocollection

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// SetOffset moves the loaded window to offset and fetches it.
//
// Returns ErrOutOfRange without issuing a request if offset is negative, or
// exceeds a known total.
func (rs *RecordSet[T]) SetOffset(ctx context.Context, offset int) (*Request, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.setOffsetLocked(ctx, offset)
}

// NextPage fetches the page following the current one.
func (rs *RecordSet[T]) NextPage(ctx context.Context) (*Request, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.setOffsetLocked(ctx, rs.offset+rs.maxSize)
}

// PreviousPage fetches the page preceding the current one.
func (rs *RecordSet[T]) PreviousPage(ctx context.Context) (*Request, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.setOffsetLocked(ctx, rs.offset-rs.maxSize)
}

// FirstPage fetches the first page.
func (rs *RecordSet[T]) FirstPage(ctx context.Context) (*Request, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.setOffsetLocked(ctx, 0)
}

// LastPage fetches the last page, see LastPageOffset.
func (rs *RecordSet[T]) LastPage(ctx context.Context) (*Request, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.setOffsetLocked(ctx, LastPageOffset(rs.total, rs.maxSize))
}

func (rs *RecordSet[T]) setOffsetLocked(ctx context.Context, offset int) (*Request, error) {
	err := ValidateOffset(offset, rs.total)
	if err != nil {
		return nil, err
	}

	rs.offset = offset

	return rs.issueLocked(ctx, FetchOptions{})
}

// ValidateOffset checks 0 <= offset <= total. TotalUnknown lifts the upper
// bound, and offset 0 is always accepted.
func ValidateOffset(offset int, total int) error {
	if offset < 0 {
		return fmt.Errorf("%w: offset can not be less than 0, got %d", ErrOutOfRange, offset)
	}

	if offset > total && total != TotalUnknown && offset > 0 {
		return fmt.Errorf("%w: offset %d can not be larger than total count %d", ErrOutOfRange, offset, total)
	}

	return nil
}

// LastPageOffset returns the start of the last page for a fixed page size.
// When total is an exact multiple of maxSize the last page starts one full
// page before total, so it is never empty:
//
//	LastPageOffset(45, 20) == 40
//	LastPageOffset(40, 20) == 20
//	LastPageOffset(0, 20)  == 0
func LastPageOffset(total int, maxSize int) int {
	maxSize = NormalizeMaxSize(maxSize)

	offset := total - total%maxSize
	if offset == total {
		offset = total - maxSize
	}

	return lo.Max([]int{offset, 0})
}
