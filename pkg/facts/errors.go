package facts

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrStoreUnavailable means the store could not be reached at all
	// (connection refused, timeout). Callers may keep going without facts.
	ErrStoreUnavailable = errors.New("fact store unavailable")
	// ErrQueryFailed means the store answered but the query itself failed.
	ErrQueryFailed = errors.New("fact query failed")
)

// classify maps a raw repository error onto the two caller-visible kinds.
// Connectivity problems surface as ErrStoreUnavailable, everything else
// as ErrQueryFailed. The error is never swallowed into an empty result.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrStoreUnavailable
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrStoreUnavailable
	}
	return ErrQueryFailed
}
