package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ResendMailer emails alerts through the Resend API.
type ResendMailer struct {
	apiKey     string
	from       string
	recipients []string
	endpoint   string
	client     *http.Client
}

func NewResendMailer(apiKey, from string, recipients []string) *ResendMailer {
	return &ResendMailer{
		apiKey:     apiKey,
		from:       from,
		recipients: recipients,
		endpoint:   resendEndpoint,
		client:     &http.Client{Timeout: defaultTimeout},
	}
}

func (m *ResendMailer) Notify(ctx context.Context, message string) error {
	return m.SendEmail(ctx, "Pamer backend error", "<pre>"+html.EscapeString(message)+"</pre>")
}

// SendEmail sends an HTML email to the configured recipients.
func (m *ResendMailer) SendEmail(ctx context.Context, subject, body string) error {
	if len(m.recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	jsonPayload, err := json.Marshal(ResendEmailRequest{
		From:    m.from,
		To:      m.recipients,
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
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
		log.Debug().Str("emailId", emailResponse.ID).Msg("Sent alert email via Resend")
	}
	return nil
}
