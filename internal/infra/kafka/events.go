package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID    string           `json:"event_id"`
	EventType  string           `json:"event_type"`
	IdentityID string           `json:"identity_id,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
	Version    string           `json:"version"`
	Payload    any              `json:"payload"`
	Metadata   envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, identityID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:    id,
		EventType:  eventType,
		IdentityID: identityID,
		Timestamp:  ts.UTC(),
		Version:    schemaVersion,
		Payload:    payload,
		Metadata:   metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishIdentityRegistered publishes identity.registered events.
func (p *EventPublisher) PublishIdentityRegistered(ctx context.Context, event domain.IdentityRegisteredEvent) error {
	payload := struct {
		IdentityID   string      `json:"identity_id"`
		Name         string      `json:"name"`
		Email        string      `json:"email"`
		Role         domain.Role `json:"role"`
		RegisteredAt time.Time   `json:"registered_at"`
	}{
		IdentityID:   event.IdentityID,
		Name:         event.Name,
		Email:        event.Email,
		Role:         event.Role,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "identity.registered", event.IdentityID, event.RegisteredAt, payload)
}

// PublishPasswordResetRequested publishes identity.password.reset_requested events.
func (p *EventPublisher) PublishPasswordResetRequested(ctx context.Context, event domain.PasswordResetRequestedEvent) error {
	payload := struct {
		IdentityID        string    `json:"identity_id"`
		MaskedDestination string    `json:"masked_destination"`
		RequestedAt       time.Time `json:"requested_at"`
		ExpiresAt         time.Time `json:"expires_at"`
	}{
		IdentityID:        event.IdentityID,
		MaskedDestination: event.MaskedDestination,
		RequestedAt:       event.RequestedAt.UTC(),
		ExpiresAt:         event.ExpiresAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "identity.password.reset_requested", event.IdentityID, event.RequestedAt, payload)
}

// PublishPasswordChanged publishes identity.password.changed events.
func (p *EventPublisher) PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error {
	payload := struct {
		IdentityID string    `json:"identity_id"`
		ChangedAt  time.Time `json:"changed_at"`
		Source     string    `json:"source"`
	}{
		IdentityID: event.IdentityID,
		ChangedAt:  event.ChangedAt.UTC(),
		Source:     event.Source,
	}

	return p.publish(ctx, event.EventID, "identity.password.changed", event.IdentityID, event.ChangedAt, payload)
}

// PublishMobileVerified publishes identity.mobile.verified events.
func (p *EventPublisher) PublishMobileVerified(ctx context.Context, event domain.MobileVerifiedEvent) error {
	payload := struct {
		IdentityID  string    `json:"identity_id"`
		MaskedPhone string    `json:"masked_phone"`
		VerifiedAt  time.Time `json:"verified_at"`
	}{
		IdentityID:  event.IdentityID,
		MaskedPhone: event.MaskedPhone,
		VerifiedAt:  event.VerifiedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "identity.mobile.verified", event.IdentityID, event.VerifiedAt, payload)
}

// PublishIdentityDeleted publishes identity.deleted events.
func (p *EventPublisher) PublishIdentityDeleted(ctx context.Context, event domain.IdentityDeletedEvent) error {
	payload := struct {
		IdentityID string    `json:"identity_id"`
		DeletedBy  string    `json:"deleted_by"`
		DeletedAt  time.Time `json:"deleted_at"`
	}{
		IdentityID: event.IdentityID,
		DeletedBy:  event.DeletedBy,
		DeletedAt:  event.DeletedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "identity.deleted", event.IdentityID, event.DeletedAt, payload)
}
