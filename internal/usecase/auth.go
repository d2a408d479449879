package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/security"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository"
)

// AuthService coordinates login and session token verification.
type AuthService struct {
	identities port.IdentityRepository
	tokens     *security.TokenIssuer
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(identities port.IdentityRepository, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{identities: identities, tokens: tokens}
}

// Login validates credentials and issues a session token. Unknown email and
// wrong password both collapse to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup identity: %w", err)
	}

	ok, err := security.VerifyPassword(password, identity.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	sanitized := identity.Sanitized()
	return token, &sanitized, nil
}

// GetIdentity loads an identity by id with the password hash stripped.
func (s *AuthService) GetIdentity(ctx context.Context, id string) (*domain.Identity, error) {
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

// ResolveToken verifies a bearer token and loads the identity it names. A
// valid token over a deleted identity fails the same way a bad signature does.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, security.ErrInvalidToken
	}

	identity, err := s.identities.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, security.ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	sanitized := identity.Sanitized()
	return &sanitized, nil
}
