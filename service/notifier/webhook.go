package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Webhook POSTs the JSON-encoded event to a configured URL – the "chat
// webhook" notification channel. A non-2xx response is reported as an
// error to the caller, which logs it and moves on.
type Webhook struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// WebhookOption customises a webhook sink.
type WebhookOption func(*Webhook)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(w *Webhook) { w.client = client }
}

// WithTimeout bounds a single delivery attempt.
func WithTimeout(timeout time.Duration) WebhookOption {
	return func(w *Webhook) { w.timeout = timeout }
}

// NewWebhook creates a webhook sink targeting the supplied URL.
func NewWebhook(url string, options ...WebhookOption) *Webhook {
	ret := &Webhook{
		url:     url,
		client:  http.DefaultClient,
		timeout: 10 * time.Second,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Dispatch delivers the event with a single POST.
func (w *Webhook) Dispatch(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := w.client.Do(request)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", response.StatusCode)
	}
	return nil
}

// Ensure Webhook implements Dispatcher.
var _ Dispatcher = (*Webhook)(nil)
