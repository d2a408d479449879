package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/config"
)

// HTTPSMSProvider posts messages to a JSON SMS gateway webhook.
type HTTPSMSProvider struct {
	cfg    config.SMSSettings
	client *http.Client
}

// NewHTTPSMSProvider constructs an HTTP-backed SMS provider.
func NewHTTPSMSProvider(cfg config.SMSSettings) *HTTPSMSProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &HTTPSMSProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a gateway URL is present.
func (p *HTTPSMSProvider) Configured() bool {
	return strings.TrimSpace(p.cfg.GatewayURL) != ""
}

type smsPayload struct {
	To      string `json:"to"`
	From    string `json:"from,omitempty"`
	Message string `json:"message"`
}

// Send posts the message to the gateway. Non-2xx responses are errors.
func (p *HTTPSMSProvider) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(smsPayload{
		To:      phone,
		From:    p.cfg.Sender,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("post sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}
