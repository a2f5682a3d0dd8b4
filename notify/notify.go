// Package notify delivers operator alerts about unexpected server errors.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/daffadev/pamer-backend/config"
)

const defaultTimeout = 5 * time.Second

// Notifier sends a one-line alert to whoever operates the site.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// FromConfig builds the notifiers enabled by ERROR_WEBHOOK_URL and RESEND_API_KEY. It
// returns nil when neither is set.
func FromConfig(c map[string]string) Notifier {
	var notifiers Multi

	if url := config.GetString(c, "ERROR_WEBHOOK_URL", ""); url != "" {
		notifiers = append(notifiers, NewWebhook(url))
	}

	apiKey := config.GetString(c, "RESEND_API_KEY", "")
	from := config.GetString(c, "RESEND_FROM_EMAIL", "")
	recipients := config.GetList(c, "ALERT_EMAILS")
	if apiKey != "" && from != "" && len(recipients) > 0 {
		notifiers = append(notifiers, NewResendMailer(apiKey, from, recipients))
	}

	switch len(notifiers) {
	case 0:
		return nil
	case 1:
		return notifiers[0]
	default:
		return notifiers
	}
}

// Multi fans an alert out to several notifiers and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Webhook posts {"errorMessage": message} to a URL.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{url: url, client: &http.Client{Timeout: defaultTimeout}}
}

func (w *Webhook) Notify(ctx context.Context, message string) error {
	jsonData, err := json.Marshal(map[string]string{"errorMessage": message})
	if err != nil {
		return fmt.Errorf("failed to marshal error notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send error notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("error notification webhook returned status %d", resp.StatusCode)
	}
	return nil
}
