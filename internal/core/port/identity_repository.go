package port

import (
	"context"
	"time"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
)

// ProfilePatch carries the optional profile mutations applied by UpdateProfile.
// Nil pointers leave the stored value untouched.
type ProfilePatch struct {
	Name               *string
	Phone              *string
	Headline           *string
	Skills             []string
	ResumePath         *string
	CompanyName        *string
	CompanyWebsite     *string
	CompanyDescription *string
	SavedJobIDs        []string
}

// IdentityRepository exposes persistence behavior for identities.
type IdentityRepository interface {
	Create(ctx context.Context, identity domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	List(ctx context.Context) ([]domain.Identity, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.Identity, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	// UpdateProfile applies the patch; a phone change always resets
	// mobile_verified to false in the same statement.
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch, updatedAt time.Time) error
	SetPhone(ctx context.Context, id, phone string, updatedAt time.Time) error
	SetMobileVerified(ctx context.Context, id string, verified bool, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
