package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/config"
)

// EmailProvider delivers a message to an email address.
type EmailProvider interface {
	Configured() bool
	Send(ctx context.Context, to, subject, body string) error
}

// SMSProvider delivers a message to a phone number.
type SMSProvider interface {
	Configured() bool
	Send(ctx context.Context, phone, message string) error
}

// Gateway implements port.DeliveryGateway. Every send writes an audit log
// entry containing the recipient and the content; that entry is the manual
// fallback channel when no provider is configured. Provider errors are
// swallowed and downgraded to a degraded result: a code counts as issued once
// persisted, whether or not the provider accepted it.
type Gateway struct {
	email  EmailProvider
	sms    SMSProvider
	logger *zap.Logger
}

// NewGateway builds the delivery gateway from provider settings. Unconfigured
// providers short-circuit to logged-only delivery.
func NewGateway(smtpCfg config.SMTPSettings, smsCfg config.SMSSettings, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gateway{
		email:  NewSMTPProvider(smtpCfg),
		sms:    NewHTTPSMSProvider(smsCfg),
		logger: logger,
	}
}

// NewGatewayWithProviders wires explicit providers, used in tests.
func NewGatewayWithProviders(email EmailProvider, sms SMSProvider, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{email: email, sms: sms, logger: logger}
}

// SendEmail delivers an email best-effort.
func (g *Gateway) SendEmail(ctx context.Context, to, subject, body string) port.DeliveryResult {
	g.logger.Info("outbound email",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)

	if g.email == nil || !g.email.Configured() {
		return port.DeliveryResult{
			Delivered: false,
			Degraded:  true,
			Detail:    "email provider not configured, message logged",
		}
	}

	if err := g.email.Send(ctx, to, subject, body); err != nil {
		g.logger.Warn("email provider failed",
			zap.String("to", to),
			zap.Error(err),
		)
		return port.DeliveryResult{
			Delivered: false,
			Degraded:  true,
			Detail:    "email delivery restricted, message logged",
		}
	}

	return port.DeliveryResult{Delivered: true}
}

// SendSMS delivers a text message best-effort.
func (g *Gateway) SendSMS(ctx context.Context, phone, message string) port.DeliveryResult {
	g.logger.Info("outbound sms",
		zap.String("to", phone),
		zap.String("message", message),
	)

	if g.sms == nil || !g.sms.Configured() {
		return port.DeliveryResult{
			Delivered: false,
			Degraded:  true,
			Detail:    "sms provider not configured, message logged",
		}
	}

	if err := g.sms.Send(ctx, phone, message); err != nil {
		g.logger.Warn("sms provider failed",
			zap.String("to", phone),
			zap.Error(err),
		)
		return port.DeliveryResult{
			Delivered: false,
			Degraded:  true,
			Detail:    "sms delivery restricted, message logged",
		}
	}

	return port.DeliveryResult{Delivered: true}
}
