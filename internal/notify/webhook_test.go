package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSenderPostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, time.Second)
	require.NoError(t, s.Send(context.Background(), map[string]any{"event": "stalled_digest", "count": 2}))
	assert.Equal(t, "stalled_digest", got["event"])
	assert.Equal(t, float64(2), got["count"])
}

func TestWebhookSenderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookSender(srv.URL, time.Second).Send(context.Background(), struct{}{})
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
}

func TestWebhookSenderDisabled(t *testing.T) {
	s := NewWebhookSender("  ", 0)
	assert.False(t, s.Enabled())
	assert.NoError(t, s.Send(context.Background(), "ignored"))
}
