package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Sender delivers a JSON payload to an HTTP endpoint.
type Sender interface {
	Send(ctx context.Context, payload any) error
}

type WebhookSender struct {
	URL  string
	HTTP *http.Client
}

func NewWebhookSender(url string, timeout time.Duration) *WebhookSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookSender{
		URL:  strings.TrimSpace(url),
		HTTP: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a target URL is configured.
func (s *WebhookSender) Enabled() bool {
	return s != nil && s.URL != ""
}

func (s *WebhookSender) Send(ctx context.Context, payload any) error {
	if !s.Enabled() {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	client := s.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode}
	}
	return nil
}

type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("webhook http status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
