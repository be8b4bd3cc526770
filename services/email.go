package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/getwebfast/site-backend/config"
	"github.com/rs/zerolog/log"
)

const defaultResendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// EmailChannel delivers notifications through the Resend API.
type EmailChannel struct {
	apiKey     string
	from       string
	recipients []string
	endpoint   string
	client     *http.Client
}

// NewEmailChannel returns nil when RESEND_API_KEY, RESEND_FROM_EMAIL or
// NOTIFY_EMAIL is missing, which leaves email notifications off.
func NewEmailChannel(c map[string]string) *EmailChannel {
	apiKey := config.GetString(c, "RESEND_API_KEY", "")
	from := config.GetString(c, "RESEND_FROM_EMAIL", "")
	recipients := config.GetStrings(c, "NOTIFY_EMAIL")
	if apiKey == "" || from == "" || len(recipients) == 0 {
		return nil
	}
	return &EmailChannel{
		apiKey:     apiKey,
		from:       from,
		recipients: recipients,
		endpoint:   config.GetString(c, "RESEND_ENDPOINT", defaultResendEndpoint),
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (e *EmailChannel) Name() string { return "email" }

func (e *EmailChannel) Notify(ctx context.Context, n Notification) error {
	return e.Send(ctx, ResendEmailRequest{
		From:    e.from,
		To:      e.recipients,
		Subject: n.Subject,
		Html:    n.HTML,
		Text:    n.Text,
		ReplyTo: n.ReplyTo,
	})
}

// Send posts one email to Resend.
func (e *EmailChannel) Send(ctx context.Context, payload ResendEmailRequest) error {
	if len(payload.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}
