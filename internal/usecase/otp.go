package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository"
)

// otpChecker implements the shared redemption rules for both OTP slots.
// Failure reasons are deliberately collapsed: the caller learns only that the
// code did not redeem, never which rule rejected it.
type otpChecker struct {
	store       port.OTPStore
	maxAttempts int
}

// check validates the code against the slot without consuming it. A failed
// match burns an attempt; exhausting the attempt limit clears the slot.
func (c otpChecker) check(ctx context.Context, slot domain.OTPSlot, identityID, code string, now time.Time) error {
	issue, err := c.store.Fetch(ctx, slot, identityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredOTP
		}
		return fmt.Errorf("fetch otp: %w", err)
	}

	if issue.IsExpired(now) {
		_ = c.store.Delete(ctx, slot, identityID)
		return ErrInvalidOrExpiredOTP
	}

	if issue.Attempts >= c.maxAttempts {
		_ = c.store.Delete(ctx, slot, identityID)
		return ErrInvalidOrExpiredOTP
	}

	if subtle.ConstantTimeCompare([]byte(issue.Code), []byte(code)) != 1 {
		attempts, incErr := c.store.IncrementAttempts(ctx, slot, identityID)
		if incErr == nil && attempts >= c.maxAttempts {
			_ = c.store.Delete(ctx, slot, identityID)
		}
		return ErrInvalidOrExpiredOTP
	}

	return nil
}

// consume validates the code and deletes the slot on success, enforcing
// single use.
func (c otpChecker) consume(ctx context.Context, slot domain.OTPSlot, identityID, code string, now time.Time) error {
	if err := c.check(ctx, slot, identityID, code, now); err != nil {
		return err
	}

	if err := c.store.Delete(ctx, slot, identityID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("consume otp: %w", err)
	}

	return nil
}
