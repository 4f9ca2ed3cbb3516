// Package email sends transactional mail through the Resend HTTP API. The
// welcome email is best-effort everywhere it is used: failures are logged by
// the caller and never reach the registering user.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sender delivers a welcome email to a freshly registered user.
type Sender interface {
	SendWelcome(ctx context.Context, to, fullName, clientURL string) error
}

// ResendClient talks to https://api.resend.com/emails.
type ResendClient struct {
	APIKey     string
	From       string
	HTTPClient *http.Client
	BaseURL    string // overridden in tests
}

// NewResendClient builds a client. With an empty API key SendWelcome
// reports the missing configuration instead of attempting a request.
func NewResendClient(apiKey, from string) *ResendClient {
	if from == "" {
		from = "Chat <onboarding@resend.dev>"
	}
	return &ResendClient{
		APIKey:     apiKey,
		From:       from,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    "https://api.resend.com",
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendWelcome posts a single welcome message.
func (c *ResendClient) SendWelcome(ctx context.Context, to, fullName, clientURL string) error {
	if c.APIKey == "" {
		return errors.New("resend api key not configured")
	}

	body := sendRequest{
		From:    c.From,
		To:      []string{to},
		Subject: "Welcome to the chat!",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your account is ready. Jump back in any time at <a href=%q>%s</a>.</p>",
			fullName, clientURL, clientURL),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("resend returned status %d", resp.StatusCode)
	}
	return nil
}
