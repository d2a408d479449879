package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const identitiesTable = "identities"

var identityColumns = []string{
	"id",
	"name",
	"email",
	"password_hash",
	"role",
	"phone",
	"mobile_verified",
	"headline",
	"skills",
	"resume_path",
	"company_name",
	"company_website",
	"company_description",
	"saved_job_ids",
	"created_at",
	"updated_at",
}

// IdentityRepository implements port.IdentityRepository using PostgreSQL.
type IdentityRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewIdentityRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewIdentityRepository(exec pgExecutor) *IdentityRepository {
	return &IdentityRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new identity row. A duplicate email surfaces as
// repository.ErrDuplicate.
func (r *IdentityRepository) Create(ctx context.Context, identity domain.Identity) error {
	skills := identity.Skills
	if skills == nil {
		skills = []string{}
	}
	savedJobs := identity.SavedJobIDs
	if savedJobs == nil {
		savedJobs = []string{}
	}

	query := r.builder.Insert(identitiesTable).
		Columns(identityColumns...).
		Values(
			identity.ID,
			identity.Name,
			identity.Email,
			identity.PasswordHash,
			identity.Role,
			identity.Phone,
			identity.MobileVerified,
			identity.Headline,
			skills,
			identity.ResumePath,
			identity.CompanyName,
			identity.CompanyWebsite,
			identity.CompanyDescription,
			savedJobs,
			identity.CreatedAt,
			identity.UpdatedAt,
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert identity sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert identity: %w", err)
	}

	return nil
}

// GetByID retrieves an identity by identifier.
func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves an identity by its exact email.
func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *IdentityRepository) getOne(ctx context.Context, pred any) (*domain.Identity, error) {
	stmt, args, err := r.builder.
		Select(identityColumns...).
		From(identitiesTable).
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select identity sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	identity, err := scanIdentity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select identity: %w", err)
	}

	return identity, nil
}

// List returns all identities ordered by creation time.
func (r *IdentityRepository) List(ctx context.Context) ([]domain.Identity, error) {
	return r.list(ctx, nil)
}

// ListByRole returns all identities holding the supplied role.
func (r *IdentityRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.Identity, error) {
	return r.list(ctx, squirrel.Eq{"role": role})
}

func (r *IdentityRepository) list(ctx context.Context, pred any) ([]domain.Identity, error) {
	query := r.builder.
		Select(identityColumns...).
		From(identitiesTable).
		OrderBy("created_at ASC")
	if pred != nil {
		query = query.Where(pred)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list identities sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, *identity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}

	return identities, nil
}

// UpdatePassword replaces the stored hash. Hashing is the caller's concern;
// this method never re-hashes.
func (r *IdentityRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	stmt, args, err := r.builder.
		Update(identitiesTable).
		Set("password_hash", passwordHash).
		Set("updated_at", changedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateProfile applies the non-credential mutations in the patch. A phone
// change resets mobile_verified in the same statement so a verified flag can
// never outlive the number it was verified against; resubmitting the stored
// number keeps the flag.
func (r *IdentityRepository) UpdateProfile(ctx context.Context, id string, patch port.ProfilePatch, updatedAt time.Time) error {
	query := r.builder.Update(identitiesTable).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id})

	changed := false
	if patch.Name != nil {
		query = query.Set("name", *patch.Name)
		changed = true
	}
	if patch.Phone != nil {
		// The right-hand phone reference resolves to the pre-update value,
		// so the flag survives only when the number is unchanged.
		query = query.
			Set("phone", *patch.Phone).
			Set("mobile_verified", squirrel.Expr("(mobile_verified AND phone IS NOT DISTINCT FROM ?)", *patch.Phone))
		changed = true
	}
	if patch.Headline != nil {
		query = query.Set("headline", *patch.Headline)
		changed = true
	}
	if patch.Skills != nil {
		query = query.Set("skills", patch.Skills)
		changed = true
	}
	if patch.ResumePath != nil {
		query = query.Set("resume_path", *patch.ResumePath)
		changed = true
	}
	if patch.CompanyName != nil {
		query = query.Set("company_name", *patch.CompanyName)
		changed = true
	}
	if patch.CompanyWebsite != nil {
		query = query.Set("company_website", *patch.CompanyWebsite)
		changed = true
	}
	if patch.CompanyDescription != nil {
		query = query.Set("company_description", *patch.CompanyDescription)
		changed = true
	}
	if patch.SavedJobIDs != nil {
		query = query.Set("saved_job_ids", patch.SavedJobIDs)
		changed = true
	}

	if !changed {
		return nil
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update profile sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetPhone stores a new phone number and unconditionally resets the
// verification flag.
func (r *IdentityRepository) SetPhone(ctx context.Context, id, phone string, updatedAt time.Time) error {
	stmt, args, err := r.builder.
		Update(identitiesTable).
		Set("phone", phone).
		Set("mobile_verified", false).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set phone sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("set phone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetMobileVerified flips the verification flag.
func (r *IdentityRepository) SetMobileVerified(ctx context.Context, id string, verified bool, updatedAt time.Time) error {
	stmt, args, err := r.builder.
		Update(identitiesTable).
		Set("mobile_verified", verified).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set mobile verified sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("set mobile verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete hard-deletes the identity. Cascades are the caller's responsibility.
func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.
		Delete(identitiesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete identity sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*domain.Identity, error) {
	var identity domain.Identity
	if err := row.Scan(
		&identity.ID,
		&identity.Name,
		&identity.Email,
		&identity.PasswordHash,
		&identity.Role,
		&identity.Phone,
		&identity.MobileVerified,
		&identity.Headline,
		&identity.Skills,
		&identity.ResumePath,
		&identity.CompanyName,
		&identity.CompanyWebsite,
		&identity.CompanyDescription,
		&identity.SavedJobIDs,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &identity, nil
}
