package port

import (
	"context"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
)

// EventPublisher publishes identity lifecycle events to the message bus.
type EventPublisher interface {
	PublishIdentityRegistered(ctx context.Context, event domain.IdentityRegisteredEvent) error
	PublishPasswordResetRequested(ctx context.Context, event domain.PasswordResetRequestedEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
	PublishMobileVerified(ctx context.Context, event domain.MobileVerifiedEvent) error
	PublishIdentityDeleted(ctx context.Context, event domain.IdentityDeletedEvent) error
}
