package port

import (
	"context"
	"time"
)

// RateLimitStore records request attempts inside a sliding window, keyed by an
// arbitrary scope string (endpoint + client identifier).
type RateLimitStore interface {
	CountAttempts(ctx context.Context, key string, window time.Duration, now time.Time) (int, error)
	RecordAttempt(ctx context.Context, key string, now time.Time) error
	OldestAttempt(ctx context.Context, key string, window time.Duration, now time.Time) (time.Time, bool, error)
	TrimWindow(ctx context.Context, key string, window time.Duration, now time.Time) error
}
