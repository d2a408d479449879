package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/config"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/logger"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/security"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository"
)

// ForgotPasswordResult reports the outcome of a reset-code request. Delivery
// describes the best-effort email send; the code is live regardless.
type ForgotPasswordResult struct {
	IdentityID string
	ExpiresAt  time.Time
	Delivery   port.DeliveryResult
}

// ResetPasswordResult carries the fresh session token issued after a
// successful reset.
type ResetPasswordResult struct {
	Token    string
	Identity domain.Identity
}

// PasswordResetService owns the password-reset OTP lifecycle and both
// password mutation paths.
type PasswordResetService struct {
	identities port.IdentityRepository
	otps       port.OTPStore
	gateway    port.DeliveryGateway
	tokens     *security.TokenIssuer
	events     port.EventPublisher
	checker    otpChecker
	otpTTL     time.Duration
	log        *zap.Logger
	now        func() time.Time
	generate   func() (string, error)
}

// NewPasswordResetService constructs a PasswordResetService instance.
func NewPasswordResetService(
	identities port.IdentityRepository,
	otps port.OTPStore,
	gateway port.DeliveryGateway,
	tokens *security.TokenIssuer,
	events port.EventPublisher,
	cfg config.OTPSettings,
	log *zap.Logger,
) *PasswordResetService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	return &PasswordResetService{
		identities: identities,
		otps:       otps,
		gateway:    gateway,
		tokens:     tokens,
		events:     events,
		checker:    otpChecker{store: otps, maxAttempts: maxAttempts},
		otpTTL:     ttl,
		log:        log,
		now:        time.Now,
		generate:   security.GenerateOTPCode,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *PasswordResetService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// WithCodeGenerator overrides code generation, used in tests.
func (s *PasswordResetService) WithCodeGenerator(generate func() (string, error)) {
	if generate != nil {
		s.generate = generate
	}
}

// ForgotPassword issues a reset code for the account owning the email and
// sends it over the gateway. An unknown email returns ErrIdentityNotFound.
// Requesting again replaces any earlier live code for the slot.
func (s *PasswordResetService) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("generate reset code: %w", err)
	}

	issue, err := s.otps.Store(ctx, domain.OTPSlotPasswordReset, identity.ID, code, s.otpTTL)
	if err != nil {
		return nil, fmt.Errorf("store reset code: %w", err)
	}

	subject := "Your password reset code"
	body := fmt.Sprintf("Hello %s,\n\nYour password reset code is %s. It expires in %d minutes.\n\nIf you did not request a reset, you can ignore this message.",
		identity.Name, code, int(s.otpTTL.Minutes()))
	delivery := s.gateway.SendEmail(ctx, identity.Email, subject, body)

	if s.events != nil {
		event := domain.PasswordResetRequestedEvent{
			EventID:           uuid.NewString(),
			IdentityID:        identity.ID,
			MaskedDestination: logger.MaskEmail(identity.Email),
			RequestedAt:       issue.IssuedAt,
			ExpiresAt:         issue.ExpiresAt,
		}
		if err := s.events.PublishPasswordResetRequested(ctx, event); err != nil {
			s.log.Warn("publish password reset requested event failed",
				zap.String("identity_id", identity.ID),
				zap.Error(err))
		}
	}

	s.log.Info("password reset code issued",
		zap.String("identity_id", identity.ID),
		zap.String("email", logger.MaskEmail(identity.Email)),
		zap.Time("expires_at", issue.ExpiresAt),
		zap.Bool("delivered", delivery.Delivered))

	return &ForgotPasswordResult{
		IdentityID: identity.ID,
		ExpiresAt:  issue.ExpiresAt,
		Delivery:   delivery,
	}, nil
}

// VerifyResetOTP confirms a reset code is live and correct without consuming
// it. A wrong code still burns an attempt.
func (s *PasswordResetService) VerifyResetOTP(ctx context.Context, email, code string) error {
	identity, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return err
	}

	return s.checker.check(ctx, domain.OTPSlotPasswordReset, identity.ID, strings.TrimSpace(code), s.now().UTC())
}

// ResetPassword redeems the code, replaces the password, and issues a fresh
// session token. The code is consumed whether or not the caller keeps the
// token.
func (s *PasswordResetService) ResetPassword(ctx context.Context, email, code, newPassword string) (*ResetPasswordResult, error) {
	if len(newPassword) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	identity, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.checker.consume(ctx, domain.OTPSlotPasswordReset, identity.ID, strings.TrimSpace(code), now); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.identities.UpdatePassword(ctx, identity.ID, hash, now); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	token, err := s.tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.publishPasswordChanged(ctx, identity.ID, now, "reset")

	s.log.Info("password reset completed",
		zap.String("identity_id", identity.ID),
		zap.String("email", logger.MaskEmail(identity.Email)))

	sanitized := identity.Sanitized()
	return &ResetPasswordResult{Token: token, Identity: sanitized}, nil
}

// ChangePassword rotates the password for an authenticated identity after
// re-checking the current one. The session token stays valid; there is no
// revocation.
func (s *PasswordResetService) ChangePassword(ctx context.Context, identityID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return fmt.Errorf("lookup identity: %w", err)
	}

	ok, err := security.VerifyPassword(currentPassword, identity.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return ErrCurrentPasswordInvalid
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	if err := s.identities.UpdatePassword(ctx, identity.ID, hash, now); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.publishPasswordChanged(ctx, identity.ID, now, "authenticated_change")

	s.log.Info("password changed",
		zap.String("identity_id", identity.ID))

	return nil
}

func (s *PasswordResetService) lookupByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	return identity, nil
}

func (s *PasswordResetService) publishPasswordChanged(ctx context.Context, identityID string, changedAt time.Time, source string) {
	if s.events == nil {
		return
	}

	event := domain.PasswordChangedEvent{
		EventID:    uuid.NewString(),
		IdentityID: identityID,
		ChangedAt:  changedAt,
		Source:     source,
	}
	if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
		s.log.Warn("publish password changed event failed",
			zap.String("identity_id", identityID),
			zap.Error(err))
	}
}
