package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository"
)

// ProfileService applies non-credential profile mutations.
type ProfileService struct {
	identities port.IdentityRepository
	log        *zap.Logger
	now        func() time.Time
}

// NewProfileService constructs a ProfileService instance.
func NewProfileService(identities port.IdentityRepository, log *zap.Logger) *ProfileService {
	return &ProfileService{
		identities: identities,
		log:        log,
		now:        time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *ProfileService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Update applies the patch and returns the refreshed identity. Supplying a
// phone different from the stored one drops the verified flag; the owner must
// redo mobile verification.
func (s *ProfileService) Update(ctx context.Context, identityID string, patch port.ProfilePatch) (*domain.Identity, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}

	if err := s.identities.UpdateProfile(ctx, identityID, patch, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("reload identity: %w", err)
	}

	s.log.Info("profile updated",
		zap.String("identity_id", identityID),
		zap.Bool("phone_changed", patch.Phone != nil))

	sanitized := identity.Sanitized()
	return &sanitized, nil
}
