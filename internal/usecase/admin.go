package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository"
)

// AdminService exposes the administrative identity directory.
type AdminService struct {
	identities port.IdentityRepository
	events     port.EventPublisher
	log        *zap.Logger
	now        func() time.Time
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(identities port.IdentityRepository, events port.EventPublisher, log *zap.Logger) *AdminService {
	return &AdminService{
		identities: identities,
		events:     events,
		log:        log,
		now:        time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *AdminService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// ListIdentities returns every identity with password hashes stripped.
func (s *AdminService) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	identities, err := s.identities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}

	return sanitizeAll(identities), nil
}

// ListByRole returns every identity holding the role, sanitized. Used for the
// public employer directory.
func (s *AdminService) ListByRole(ctx context.Context, role domain.Role) ([]domain.Identity, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	identities, err := s.identities.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list identities by role: %w", err)
	}

	return sanitizeAll(identities), nil
}

// GetIdentity loads a single identity, sanitized.
func (s *AdminService) GetIdentity(ctx context.Context, id string) (*domain.Identity, error) {
	identity, err := s.identities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	sanitized := identity.Sanitized()
	return &sanitized, nil
}

// DeleteIdentity hard-deletes an identity. Outstanding session tokens keep
// verifying cryptographically but fail authentication once the row is gone.
func (s *AdminService) DeleteIdentity(ctx context.Context, id, deletedBy string) error {
	if err := s.identities.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return fmt.Errorf("delete identity: %w", err)
	}

	now := s.now().UTC()
	if s.events != nil {
		event := domain.IdentityDeletedEvent{
			EventID:    uuid.NewString(),
			IdentityID: id,
			DeletedBy:  deletedBy,
			DeletedAt:  now,
		}
		if err := s.events.PublishIdentityDeleted(ctx, event); err != nil {
			s.log.Warn("publish identity deleted event failed",
				zap.String("identity_id", id),
				zap.Error(err))
		}
	}

	s.log.Info("identity deleted",
		zap.String("identity_id", id),
		zap.String("deleted_by", deletedBy))

	return nil
}

func sanitizeAll(identities []domain.Identity) []domain.Identity {
	out := make([]domain.Identity, len(identities))
	for i, identity := range identities {
		out[i] = identity.Sanitized()
	}
	return out
}
