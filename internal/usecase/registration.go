package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/logger"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/security"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegisterInput carries the fields accepted at registration time.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        domain.Role
	Phone       string
	CompanyName string
}

// RegistrationService creates new identities and signs them in immediately.
type RegistrationService struct {
	identities port.IdentityRepository
	tokens     *security.TokenIssuer
	events     port.EventPublisher
	log        *zap.Logger
	now        func() time.Time
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(identities port.IdentityRepository, tokens *security.TokenIssuer, events port.EventPublisher, log *zap.Logger) *RegistrationService {
	return &RegistrationService{
		identities: identities,
		tokens:     tokens,
		events:     events,
		log:        log,
		now:        time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *RegistrationService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Register validates the input, persists the identity with a freshly hashed
// password, and returns the identity together with a session token.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (string, *domain.Identity, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if err := validateRegisterInput(input); err != nil {
		return "", nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleSeeker
	}
	if !role.IsValid() {
		return "", nil, fmt.Errorf("%w: unknown role %q", ErrValidation, input.Role)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	identity := domain.Identity{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		Skills:       []string{},
		SavedJobIDs:  []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if company := strings.TrimSpace(input.CompanyName); company != "" {
		identity.CompanyName = &company
	}
	// A phone supplied at registration is stored unverified; the mobile
	// verification flow is the only path that flips the flag.
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		identity.Phone = &phone
	}

	if err := s.identities.Create(ctx, identity); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, ErrEmailTaken
		}
		return "", nil, fmt.Errorf("create identity: %w", err)
	}

	token, err := s.tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	if s.events != nil {
		event := domain.IdentityRegisteredEvent{
			EventID:      uuid.NewString(),
			IdentityID:   identity.ID,
			Name:         identity.Name,
			Email:        identity.Email,
			Role:         identity.Role,
			RegisteredAt: now,
		}
		if err := s.events.PublishIdentityRegistered(ctx, event); err != nil {
			s.log.Warn("publish identity registered event failed",
				zap.String("identity_id", identity.ID),
				zap.Error(err))
		}
	}

	s.log.Info("identity registered",
		zap.String("identity_id", identity.ID),
		zap.String("email", logger.MaskEmail(identity.Email)),
		zap.String("role", string(identity.Role)))

	sanitized := identity.Sanitized()
	return token, &sanitized, nil
}

func validateRegisterInput(input RegisterInput) error {
	switch {
	case input.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case input.Email == "":
		return fmt.Errorf("%w: email is required", ErrValidation)
	case !emailPattern.MatchString(input.Email):
		return fmt.Errorf("%w: email is malformed", ErrValidation)
	case input.Password == "":
		return fmt.Errorf("%w: password is required", ErrValidation)
	case len(input.Password) < minPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	return nil
}
