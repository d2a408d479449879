package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository"
)

func newTestRedis(t *testing.T) *red.Client {
	t.Helper()

	srv, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(srv.Close)

	client := red.NewClient(&red.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestOTPRepositoryStoreAndFetch(t *testing.T) {
	client := newTestRedis(t)
	repo := NewOTPRepository(client, "identity:otp")

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.WithClock(func() time.Time { return now })

	issue, err := repo.Store(context.Background(), domain.OTPSlotPasswordReset, "identity-1", "482913", 10*time.Minute)
	if err != nil {
		t.Fatalf("store otp: %v", err)
	}
	if issue.ExpiresAt != now.Add(10*time.Minute) {
		t.Fatalf("unexpected expiry %v", issue.ExpiresAt)
	}

	fetched, err := repo.Fetch(context.Background(), domain.OTPSlotPasswordReset, "identity-1")
	if err != nil {
		t.Fatalf("fetch otp: %v", err)
	}
	if fetched.Code != "482913" {
		t.Fatalf("expected code 482913, got %s", fetched.Code)
	}
	if fetched.Attempts != 0 {
		t.Fatalf("expected zero attempts, got %d", fetched.Attempts)
	}
}

func TestOTPRepositorySlotsAreIsolated(t *testing.T) {
	client := newTestRedis(t)
	repo := NewOTPRepository(client, "identity:otp")

	if _, err := repo.Store(context.Background(), domain.OTPSlotPasswordReset, "identity-1", "111111", time.Minute); err != nil {
		t.Fatalf("store reset otp: %v", err)
	}

	if _, err := repo.Fetch(context.Background(), domain.OTPSlotMobileVerify, "identity-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("mobile slot should be empty, got %v", err)
	}

	if _, err := repo.Store(context.Background(), domain.OTPSlotMobileVerify, "identity-1", "222222", time.Minute); err != nil {
		t.Fatalf("store mobile otp: %v", err)
	}

	reset, err := repo.Fetch(context.Background(), domain.OTPSlotPasswordReset, "identity-1")
	if err != nil {
		t.Fatalf("fetch reset otp: %v", err)
	}
	if reset.Code != "111111" {
		t.Fatalf("reset slot clobbered by mobile store: %s", reset.Code)
	}
}

func TestOTPRepositoryStoreOverwritesPrevious(t *testing.T) {
	client := newTestRedis(t)
	repo := NewOTPRepository(client, "identity:otp")

	if _, err := repo.Store(context.Background(), domain.OTPSlotPasswordReset, "identity-1", "111111", time.Minute); err != nil {
		t.Fatalf("store first otp: %v", err)
	}
	if _, err := repo.IncrementAttempts(context.Background(), domain.OTPSlotPasswordReset, "identity-1"); err != nil {
		t.Fatalf("increment attempts: %v", err)
	}
	if _, err := repo.Store(context.Background(), domain.OTPSlotPasswordReset, "identity-1", "333333", time.Minute); err != nil {
		t.Fatalf("store second otp: %v", err)
	}

	fetched, err := repo.Fetch(context.Background(), domain.OTPSlotPasswordReset, "identity-1")
	if err != nil {
		t.Fatalf("fetch otp: %v", err)
	}
	if fetched.Code != "333333" {
		t.Fatalf("expected newest code, got %s", fetched.Code)
	}
	if fetched.Attempts != 0 {
		t.Fatalf("attempt counter should reset on overwrite, got %d", fetched.Attempts)
	}
}

func TestOTPRepositoryDeleteEnforcesSingleUse(t *testing.T) {
	client := newTestRedis(t)
	repo := NewOTPRepository(client, "identity:otp")

	if _, err := repo.Store(context.Background(), domain.OTPSlotMobileVerify, "identity-1", "654321", time.Minute); err != nil {
		t.Fatalf("store otp: %v", err)
	}
	if err := repo.Delete(context.Background(), domain.OTPSlotMobileVerify, "identity-1"); err != nil {
		t.Fatalf("delete otp: %v", err)
	}
	if err := repo.Delete(context.Background(), domain.OTPSlotMobileVerify, "identity-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
	if _, err := repo.Fetch(context.Background(), domain.OTPSlotMobileVerify, "identity-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("fetch after delete should report not found, got %v", err)
	}
}

func TestOTPRepositoryIncrementAttempts(t *testing.T) {
	client := newTestRedis(t)
	repo := NewOTPRepository(client, "identity:otp")

	if _, err := repo.Store(context.Background(), domain.OTPSlotPasswordReset, "identity-1", "999000", time.Minute); err != nil {
		t.Fatalf("store otp: %v", err)
	}

	for want := 1; want <= 3; want++ {
		got, err := repo.IncrementAttempts(context.Background(), domain.OTPSlotPasswordReset, "identity-1")
		if err != nil {
			t.Fatalf("increment attempts: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d attempts, got %d", want, got)
		}
	}
}

func TestOTPRepositoryRejectsInvalidInput(t *testing.T) {
	client := newTestRedis(t)
	repo := NewOTPRepository(client, "identity:otp")

	if _, err := repo.Store(context.Background(), domain.OTPSlot("bogus"), "identity-1", "123456", time.Minute); err == nil {
		t.Fatal("expected error for unknown slot")
	}
	if _, err := repo.Store(context.Background(), domain.OTPSlotPasswordReset, "", "123456", time.Minute); err == nil {
		t.Fatal("expected error for missing identity id")
	}
	if _, err := repo.Store(context.Background(), domain.OTPSlotPasswordReset, "identity-1", "123456", 0); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}
}
