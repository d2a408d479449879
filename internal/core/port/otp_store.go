package port

import (
	"context"
	"time"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
)

// OTPStore persists one-time passcodes in a short-TTL store, keyed by slot and
// identity so the two OTP channels never observe each other's codes. A second
// Store call for the same key overwrites the prior code (last writer wins).
type OTPStore interface {
	Store(ctx context.Context, slot domain.OTPSlot, identityID, code string, ttl time.Duration) (*domain.OTPIssue, error)
	Fetch(ctx context.Context, slot domain.OTPSlot, identityID string) (*domain.OTPIssue, error)
	IncrementAttempts(ctx context.Context, slot domain.OTPSlot, identityID string) (int, error)
	// Delete clears the slot, enforcing single-use semantics.
	Delete(ctx context.Context, slot domain.OTPSlot, identityID string) error
}
