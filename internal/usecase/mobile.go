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

// SendMobileOTPResult reports an issued mobile verification code and the
// best-effort SMS outcome.
type SendMobileOTPResult struct {
	Phone     string
	ExpiresAt time.Time
	Delivery  port.DeliveryResult
}

// MobileVerificationService owns the mobile-verification OTP lifecycle.
type MobileVerificationService struct {
	identities port.IdentityRepository
	otps       port.OTPStore
	gateway    port.DeliveryGateway
	events     port.EventPublisher
	checker    otpChecker
	otpTTL     time.Duration
	log        *zap.Logger
	now        func() time.Time
	generate   func() (string, error)
}

// NewMobileVerificationService constructs a MobileVerificationService instance.
func NewMobileVerificationService(
	identities port.IdentityRepository,
	otps port.OTPStore,
	gateway port.DeliveryGateway,
	events port.EventPublisher,
	cfg config.OTPSettings,
	log *zap.Logger,
) *MobileVerificationService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	return &MobileVerificationService{
		identities: identities,
		otps:       otps,
		gateway:    gateway,
		events:     events,
		checker:    otpChecker{store: otps, maxAttempts: maxAttempts},
		otpTTL:     ttl,
		log:        log,
		now:        time.Now,
		generate:   security.GenerateOTPCode,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *MobileVerificationService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// WithCodeGenerator overrides code generation, used in tests.
func (s *MobileVerificationService) WithCodeGenerator(generate func() (string, error)) {
	if generate != nil {
		s.generate = generate
	}
}

// SendOTP stores the phone number on the identity, drops any earlier verified
// flag, issues a fresh code, and sends it by SMS. Passing an empty phone
// reuses the number already on file.
func (s *MobileVerificationService) SendOTP(ctx context.Context, identityID, phone string) (*SendMobileOTPResult, error) {
	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	phone = strings.TrimSpace(phone)
	if phone == "" {
		if identity.Phone == nil || strings.TrimSpace(*identity.Phone) == "" {
			return nil, ErrPhoneMissing
		}
		phone = *identity.Phone
	}

	now := s.now().UTC()
	if identity.Phone == nil || *identity.Phone != phone || identity.MobileVerified {
		if err := s.identities.SetPhone(ctx, identity.ID, phone, now); err != nil {
			return nil, fmt.Errorf("set phone: %w", err)
		}
	}

	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	issue, err := s.otps.Store(ctx, domain.OTPSlotMobileVerify, identity.ID, code, s.otpTTL)
	if err != nil {
		return nil, fmt.Errorf("store verification code: %w", err)
	}

	message := fmt.Sprintf("Your mobile verification code is %s. It expires in %d minutes.", code, int(s.otpTTL.Minutes()))
	delivery := s.gateway.SendSMS(ctx, phone, message)

	s.log.Info("mobile verification code issued",
		zap.String("identity_id", identity.ID),
		zap.String("phone", logger.MaskPhone(phone)),
		zap.Time("expires_at", issue.ExpiresAt),
		zap.Bool("delivered", delivery.Delivered))

	return &SendMobileOTPResult{
		Phone:     phone,
		ExpiresAt: issue.ExpiresAt,
		Delivery:  delivery,
	}, nil
}

// VerifyOTP redeems a mobile verification code and marks the stored phone as
// verified. The code is single use.
func (s *MobileVerificationService) VerifyOTP(ctx context.Context, identityID, code string) error {
	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return fmt.Errorf("lookup identity: %w", err)
	}

	now := s.now().UTC()
	if err := s.checker.consume(ctx, domain.OTPSlotMobileVerify, identity.ID, strings.TrimSpace(code), now); err != nil {
		return err
	}

	if err := s.identities.SetMobileVerified(ctx, identity.ID, true, now); err != nil {
		return fmt.Errorf("set mobile verified: %w", err)
	}

	if s.events != nil {
		phone := ""
		if identity.Phone != nil {
			phone = *identity.Phone
		}
		event := domain.MobileVerifiedEvent{
			EventID:     uuid.NewString(),
			IdentityID:  identity.ID,
			MaskedPhone: logger.MaskPhone(phone),
			VerifiedAt:  now,
		}
		if err := s.events.PublishMobileVerified(ctx, event); err != nil {
			s.log.Warn("publish mobile verified event failed",
				zap.String("identity_id", identity.ID),
				zap.Error(err))
		}
	}

	s.log.Info("mobile number verified",
		zap.String("identity_id", identity.ID))

	return nil
}
