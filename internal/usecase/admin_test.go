package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
)

func TestAdminServiceListStripsHashes(t *testing.T) {
	repo := newMemoryIdentityRepo()
	seedIdentity(t, repo, "a@example.com", "secret1", domain.RoleSeeker)
	seedIdentity(t, repo, "b@example.com", "secret1", domain.RoleEmployer)
	svc := NewAdminService(repo, &recordingPublisher{}, zap.NewNop())

	identities, err := svc.ListIdentities(context.Background())
	if err != nil {
		t.Fatalf("list identities: %v", err)
	}
	if len(identities) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(identities))
	}
	for _, identity := range identities {
		if identity.PasswordHash != "" {
			t.Fatal("password hash leaked from list")
		}
	}
}

func TestAdminServiceListByRole(t *testing.T) {
	repo := newMemoryIdentityRepo()
	seedIdentity(t, repo, "a@example.com", "secret1", domain.RoleSeeker)
	seedIdentity(t, repo, "b@example.com", "secret1", domain.RoleEmployer)
	svc := NewAdminService(repo, &recordingPublisher{}, zap.NewNop())

	employers, err := svc.ListByRole(context.Background(), domain.RoleEmployer)
	if err != nil {
		t.Fatalf("list employers: %v", err)
	}
	if len(employers) != 1 || employers[0].Role != domain.RoleEmployer {
		t.Fatalf("unexpected employers: %+v", employers)
	}

	if _, err := svc.ListByRole(context.Background(), domain.Role("owner")); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown role, got %v", err)
	}
}

func TestAdminServiceDeleteIdentity(t *testing.T) {
	repo := newMemoryIdentityRepo()
	seeded := seedIdentity(t, repo, "a@example.com", "secret1", domain.RoleSeeker)
	events := &recordingPublisher{}
	svc := NewAdminService(repo, events, zap.NewNop())

	if err := svc.DeleteIdentity(context.Background(), seeded.ID, "admin-1"); err != nil {
		t.Fatalf("delete identity: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), seeded.ID); err == nil {
		t.Fatal("identity should be gone")
	}
	if err := svc.DeleteIdentity(context.Background(), seeded.ID, "admin-1"); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}

	if len(events.deleted) != 1 || events.deleted[0].DeletedBy != "admin-1" {
		t.Fatalf("expected one deletion event by admin-1, got %+v", events.deleted)
	}
}
