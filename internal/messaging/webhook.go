package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookDispatcher posts the whole batch as JSON to an automation webhook
// (n8n), which fans the messages out to the WhatsApp instance.
type WebhookDispatcher struct {
	url    string
	client *http.Client
}

func NewWebhookDispatcher(url string, client *http.Client) *WebhookDispatcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WebhookDispatcher{url: url, client: client}
}

func (d *WebhookDispatcher) Dispatch(ctx context.Context, b Batch) error {
	if d.url == "" {
		return fmt.Errorf("messaging: webhook url not configured")
	}

	body, err := json.Marshal(b)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("messaging: webhook request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("messaging: webhook returned %d", resp.StatusCode)
	}
	return nil
}

var _ Dispatcher = (*WebhookDispatcher)(nil)
