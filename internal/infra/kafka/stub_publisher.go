package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, identityID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("identity_id", identityID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishIdentityRegistered logs identity.registered events.
func (p *StubPublisher) PublishIdentityRegistered(_ context.Context, event domain.IdentityRegisteredEvent) error {
	payload := map[string]any{
		"name":          event.Name,
		"email":         event.Email,
		"role":          event.Role,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("identity.registered", event.IdentityID, event.RegisteredAt, payload)
	return nil
}

// PublishPasswordResetRequested logs identity.password.reset_requested events.
func (p *StubPublisher) PublishPasswordResetRequested(_ context.Context, event domain.PasswordResetRequestedEvent) error {
	payload := map[string]any{
		"masked_destination": event.MaskedDestination,
		"requested_at":       event.RequestedAt,
		"expires_at":         event.ExpiresAt,
	}
	p.logEvent("identity.password.reset_requested", event.IdentityID, event.RequestedAt, payload)
	return nil
}

// PublishPasswordChanged logs identity.password.changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"changed_at": event.ChangedAt,
		"source":     event.Source,
	}
	p.logEvent("identity.password.changed", event.IdentityID, event.ChangedAt, payload)
	return nil
}

// PublishMobileVerified logs identity.mobile.verified events.
func (p *StubPublisher) PublishMobileVerified(_ context.Context, event domain.MobileVerifiedEvent) error {
	payload := map[string]any{
		"masked_phone": event.MaskedPhone,
		"verified_at":  event.VerifiedAt,
	}
	p.logEvent("identity.mobile.verified", event.IdentityID, event.VerifiedAt, payload)
	return nil
}

// PublishIdentityDeleted logs identity.deleted events.
func (p *StubPublisher) PublishIdentityDeleted(_ context.Context, event domain.IdentityDeletedEvent) error {
	payload := map[string]any{
		"deleted_by": event.DeletedBy,
		"deleted_at": event.DeletedAt,
	}
	p.logEvent("identity.deleted", event.IdentityID, event.DeletedAt, payload)
	return nil
}
