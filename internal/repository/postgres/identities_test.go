package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository"
)

func newTestIdentity() domain.Identity {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.Identity{
		ID:           "8b6c9f6a-0f6e-4f1a-9a34-1d2c3b4a5e6f",
		Name:         "Asha Kurian",
		Email:        "asha@example.com",
		PasswordHash: "argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Role:         domain.RoleSeeker,
		Skills:       []string{"go", "sql"},
		SavedJobIDs:  []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestIdentityRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)
	identity := newTestIdentity()

	mock.ExpectExec(`INSERT INTO identities`).
		WithArgs(
			identity.ID,
			identity.Name,
			identity.Email,
			identity.PasswordHash,
			identity.Role,
			identity.Phone,
			identity.MobileVerified,
			identity.Headline,
			identity.Skills,
			identity.ResumePath,
			identity.CompanyName,
			identity.CompanyWebsite,
			identity.CompanyDescription,
			identity.SavedJobIDs,
			identity.CreatedAt,
			identity.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), identity); err != nil {
		t.Fatalf("create identity: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIdentityRepositoryCreateDuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)
	identity := newTestIdentity()

	mock.ExpectExec(`INSERT INTO identities`).
		WithArgs(
			identity.ID,
			identity.Name,
			identity.Email,
			identity.PasswordHash,
			identity.Role,
			identity.Phone,
			identity.MobileVerified,
			identity.Headline,
			identity.Skills,
			identity.ResumePath,
			identity.CompanyName,
			identity.CompanyWebsite,
			identity.CompanyDescription,
			identity.SavedJobIDs,
			identity.CreatedAt,
			identity.UpdatedAt,
		).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "identities_email_key"})

	err = repo.Create(context.Background(), identity)
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestIdentityRepositoryGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)
	identity := newTestIdentity()

	rows := pgxmock.NewRows(identityColumns).AddRow(
		identity.ID,
		identity.Name,
		identity.Email,
		identity.PasswordHash,
		identity.Role,
		identity.Phone,
		identity.MobileVerified,
		identity.Headline,
		identity.Skills,
		identity.ResumePath,
		identity.CompanyName,
		identity.CompanyWebsite,
		identity.CompanyDescription,
		identity.SavedJobIDs,
		identity.CreatedAt,
		identity.UpdatedAt,
	)

	mock.ExpectQuery(`SELECT .+ FROM identities WHERE email =`).
		WithArgs(identity.Email).
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), identity.Email)
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != identity.ID {
		t.Fatalf("expected id %s, got %s", identity.ID, got.ID)
	}
	if got.Role != domain.RoleSeeker {
		t.Fatalf("expected role seeker, got %s", got.Role)
	}
}

func TestIdentityRepositoryGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM identities WHERE id =`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIdentityRepositoryUpdatePasswordMissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)
	changedAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE identities SET`).
		WithArgs("hash", changedAt, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdatePassword(context.Background(), "missing", "hash", changedAt)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIdentityRepositoryUpdateProfilePhoneResetsVerification(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)
	phone := "+14155550133"
	updatedAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE identities SET .*mobile_verified = \(mobile_verified AND phone IS NOT DISTINCT FROM`).
		WithArgs(updatedAt, phone, phone, "id-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateProfile(context.Background(), "id-1", port.ProfilePatch{Phone: &phone}, updatedAt)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIdentityRepositoryUpdateProfileEmptyPatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)

	if err := repo.UpdateProfile(context.Background(), "id-1", port.ProfilePatch{}, time.Now()); err != nil {
		t.Fatalf("empty patch should be a no-op, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statements should run for an empty patch: %v", err)
	}
}

func TestIdentityRepositoryDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)

	mock.ExpectExec(`DELETE FROM identities`).
		WithArgs("id-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), "id-1"); err != nil {
		t.Fatalf("delete identity: %v", err)
	}
}

func TestIdentityRepositoryListByRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)
	identity := newTestIdentity()
	identity.Role = domain.RoleEmployer

	rows := pgxmock.NewRows(identityColumns).AddRow(
		identity.ID,
		identity.Name,
		identity.Email,
		identity.PasswordHash,
		identity.Role,
		identity.Phone,
		identity.MobileVerified,
		identity.Headline,
		identity.Skills,
		identity.ResumePath,
		identity.CompanyName,
		identity.CompanyWebsite,
		identity.CompanyDescription,
		identity.SavedJobIDs,
		identity.CreatedAt,
		identity.UpdatedAt,
	)

	mock.ExpectQuery(`SELECT .+ FROM identities WHERE role =`).
		WithArgs(domain.RoleEmployer).
		WillReturnRows(rows)

	got, err := repo.ListByRole(context.Background(), domain.RoleEmployer)
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if len(got) != 1 || got[0].Role != domain.RoleEmployer {
		t.Fatalf("unexpected result: %+v", got)
	}
}
