package port

import "context"

// DeliveryResult reports the best-effort outcome of a gateway send. The
// gateway never fails the logical flow: a code is considered issued once
// persisted, independent of the delivery outcome. Degraded marks sends that
// were logged but not handed to a provider, so callers can word their
// response differently.
type DeliveryResult struct {
	Delivered bool
	Degraded  bool
	Detail    string
}

// DeliveryGateway abstracts the email and SMS transports. Every send writes a
// durable operator-visible log entry with the recipient and content; that log
// is the audit trail and the manual fallback channel when no provider is
// configured.
type DeliveryGateway interface {
	SendEmail(ctx context.Context, to, subject, body string) DeliveryResult
	SendSMS(ctx context.Context, phone, message string) DeliveryResult
}
