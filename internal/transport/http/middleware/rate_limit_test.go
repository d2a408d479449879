package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type memRateStore struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

func newMemRateStore() *memRateStore {
	return &memRateStore{attempts: make(map[string][]time.Time)}
}

func (s *memRateStore) TrimWindow(_ context.Context, identifier string, window time.Duration, reference time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := reference.Add(-window)
	var kept []time.Time
	for _, at := range s.attempts[identifier] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	s.attempts[identifier] = kept
	return nil
}

func (s *memRateStore) CountAttempts(_ context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := reference.Add(-window)
	count := 0
	for _, at := range s.attempts[identifier] {
		if at.After(cutoff) && !at.After(reference) {
			count++
		}
	}
	return count, nil
}

func (s *memRateStore) RecordAttempt(_ context.Context, identifier string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[identifier] = append(s.attempts[identifier], at)
	return nil
}

func (s *memRateStore) OldestAttempt(_ context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := reference.Add(-window)
	var oldest time.Time
	found := false
	for _, at := range s.attempts[identifier] {
		if at.After(cutoff) && !at.After(reference) {
			if !found || at.Before(oldest) {
				oldest = at
				found = true
			}
		}
	}
	return oldest, found, nil
}

func newLimitedRouter(t *testing.T, limit int, window time.Duration) (*gin.Engine, *RateLimiter) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(newMemRateStore(), zap.NewNop())
	router := gin.New()
	router.Use(EnrichContext())
	router.POST("/login", limiter.RateLimit(RateLimitRule{
		Name:       "login",
		Limit:      limit,
		Window:     window,
		Identifier: ClientIPIdentifier(),
	}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router, limiter
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	router, _ := newLimitedRouter(t, 3, 15*time.Minute)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on 429")
	}
}

func TestRateLimitWindowSlides(t *testing.T) {
	router, limiter := newLimitedRouter(t, 2, time.Minute)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter.WithClock(func() time.Time { return base })

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 inside window, got %d", rec.Code)
	}

	limiter.WithClock(func() time.Time { return base.Add(2 * time.Minute) })
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after window passed, got %d", rec.Code)
	}
}

func TestRateLimitHeaders(t *testing.T) {
	router, _ := newLimitedRouter(t, 5, time.Minute)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rec.Header().Get("X-RateLimit-Limit") != "5" {
		t.Fatalf("unexpected limit header %q", rec.Header().Get("X-RateLimit-Limit"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "4" {
		t.Fatalf("unexpected remaining header %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}
