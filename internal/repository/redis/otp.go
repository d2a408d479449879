package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository"
)

const (
	defaultOTPPrefix = "otp"

	fieldCode      = "code"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
	fieldAttempts  = "attempts"
)

// OTPRepository keeps short-lived verification codes in Redis hashes. Each
// identity holds at most one live code per slot; storing again overwrites it.
type OTPRepository struct {
	client *red.Client
	prefix string
	now    func() time.Time
}

// NewOTPRepository constructs an OTP repository with the provided Redis client
// and key prefix.
func NewOTPRepository(client *red.Client, keyPrefix string) *OTPRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultOTPPrefix
	}

	return &OTPRepository{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Store persists a code under the slot/identity pair with the supplied TTL.
func (r *OTPRepository) Store(ctx context.Context, slot domain.OTPSlot, identityID, code string, ttl time.Duration) (*domain.OTPIssue, error) {
	identityID = strings.TrimSpace(identityID)
	code = strings.TrimSpace(code)

	switch {
	case !slot.IsValid():
		return nil, fmt.Errorf("unknown otp slot %q", slot)
	case identityID == "":
		return nil, errors.New("identity id is required")
	case code == "":
		return nil, errors.New("code is required")
	case ttl <= 0:
		return nil, errors.New("ttl must be positive")
	}

	now := r.now().UTC()
	expiresAt := now.Add(ttl)

	key := r.key(slot, identityID)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		fieldCode:      code,
		fieldCreatedAt: strconv.FormatInt(now.Unix(), 10),
		fieldExpiresAt: strconv.FormatInt(expiresAt.Unix(), 10),
		fieldAttempts:  "0",
	})
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis store otp: %w", err)
	}

	return &domain.OTPIssue{
		Slot:       slot,
		IdentityID: identityID,
		Code:       code,
		IssuedAt:   now,
		ExpiresAt:  expiresAt,
	}, nil
}

// Fetch retrieves the live code for the slot/identity pair.
func (r *OTPRepository) Fetch(ctx context.Context, slot domain.OTPSlot, identityID string) (*domain.OTPIssue, error) {
	key := r.key(slot, strings.TrimSpace(identityID))
	if key == "" {
		return nil, errors.New("slot and identity id are required")
	}

	values, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall otp: %w", err)
	}
	if len(values) == 0 {
		return nil, repository.ErrNotFound
	}

	code := strings.TrimSpace(values[fieldCode])
	if code == "" {
		return nil, repository.ErrNotFound
	}

	issuedAt, err := parseUnix(values[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	expiresAt, err := parseUnix(values[fieldExpiresAt])
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}

	attempts := 0
	if raw := values[fieldAttempts]; raw != "" {
		if v, convErr := strconv.Atoi(raw); convErr == nil {
			attempts = v
		}
	}

	return &domain.OTPIssue{
		Slot:       slot,
		IdentityID: strings.TrimSpace(identityID),
		Code:       code,
		Attempts:   attempts,
		IssuedAt:   issuedAt,
		ExpiresAt:  expiresAt,
	}, nil
}

// IncrementAttempts bumps the failed-attempt counter and returns the new value.
func (r *OTPRepository) IncrementAttempts(ctx context.Context, slot domain.OTPSlot, identityID string) (int, error) {
	if _, err := r.Fetch(ctx, slot, identityID); err != nil {
		return 0, err
	}

	key := r.key(slot, strings.TrimSpace(identityID))
	count, err := r.client.HIncrBy(ctx, key, fieldAttempts, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("redis hincrby otp attempts: %w", err)
	}

	return int(count), nil
}

// Delete removes the code, enforcing single-use semantics.
func (r *OTPRepository) Delete(ctx context.Context, slot domain.OTPSlot, identityID string) error {
	key := r.key(slot, strings.TrimSpace(identityID))
	if key == "" {
		return errors.New("slot and identity id are required")
	}

	deleted, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis delete otp: %w", err)
	}
	if deleted == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// WithClock overrides the internal clock, used in tests.
func (r *OTPRepository) WithClock(clock func() time.Time) {
	if clock != nil {
		r.now = clock
	}
}

func (r *OTPRepository) key(slot domain.OTPSlot, identityID string) string {
	if !slot.IsValid() || identityID == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s:%s", r.prefix, slot, identityID)
}

func parseUnix(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, errors.New("timestamp is empty")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v, 0).UTC(), nil
}

var _ port.OTPStore = (*OTPRepository)(nil)
