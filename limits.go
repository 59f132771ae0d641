package gocollection

import "github.com/samber/lo"

const (
	// TotalUnknown marks a total that is not determined yet or cannot be
	// determined at all (unbounded sources).
	TotalUnknown = -1

	DefaultMaxSize = 20
	// NoMaxMaxSize disables the page size cap.
	NoMaxMaxSize = 0
)

// IsNormalizedMaxSize returns a usable page size and whether the input was
// already valid. Non-positive sizes fall back to DefaultMaxSize.
func IsNormalizedMaxSize(maxSize int) (int, bool) {
	if maxSize <= 0 {
		return DefaultMaxSize, false
	}

	return maxSize, true
}

func NormalizeMaxSize(maxSize int) int {
	ret, _ := IsNormalizedMaxSize(maxSize)
	return ret
}

// ClampMaxSize caps the requested page size by maxMaxSize. NoMaxMaxSize (and
// any negative cap) leaves the size untouched.
func ClampMaxSize(size int, maxMaxSize int) int {
	if maxMaxSize <= NoMaxMaxSize {
		return size
	}

	return lo.Min([]int{size, maxMaxSize})
}

// requestedMaxSize computes the page size sent to the server:
//   - an explicit override is used as-is;
//   - in append mode the configured page size is used;
//   - otherwise the larger of the locally known length and the page size, so
//     a refetch never requests fewer records than are already shown.
//
// The result is always capped by maxMaxSize.
func requestedMaxSize(override *int, more bool, knownLength int, maxSize int, maxMaxSize int) int {
	var size int
	switch {
	case override != nil:
		size = *override
	case more:
		size = maxSize
	default:
		size = lo.Max([]int{knownLength, maxSize})
	}

	return ClampMaxSize(size, maxMaxSize)
}
