package browserless

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientListSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "a", "connected": false, "webSocketDebuggerUrl": "ws://pool/devtools/browser/a"},
			{"id": "b", "connected": true}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	sessions, err := c.ListSessions(context.Background())

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "a", sessions[0].ID)
	assert.False(t, sessions[0].Connected)
	assert.Equal(t, "ws://pool/devtools/browser/a", sessions[0].WebSocketDebuggerURL)
	assert.True(t, sessions[1].Connected)
}

func TestClientListSessionsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.ListSessions(context.Background())

	assert.Error(t, err)
}

func TestClientSessionEndpoint(t *testing.T) {
	c := NewClient("http://pool.example.com", "secret")

	t.Run("prefers advertised debugger URL", func(t *testing.T) {
		got := c.SessionEndpoint(Session{
			ID:                   "abc",
			WebSocketDebuggerURL: "ws://pool.example.com/devtools/browser/abc",
		})
		assert.Equal(t, "ws://pool.example.com/devtools/browser/abc?token=secret", got)
	})

	t.Run("falls back to conventional path", func(t *testing.T) {
		got := c.SessionEndpoint(Session{ID: "abc"})
		assert.Equal(t, "ws://pool.example.com/devtools/browser/abc?token=secret", got)
	})
}

func TestClientLaunchEndpoint(t *testing.T) {
	t.Run("http base", func(t *testing.T) {
		c := NewClient("http://pool.example.com", "")
		got := c.LaunchEndpoint(600000 * time.Millisecond)
		assert.Equal(t, "ws://pool.example.com?keepalive=600000", got)
	})

	t.Run("https base with token", func(t *testing.T) {
		c := NewClient("https://pool.example.com", "secret")
		got := c.LaunchEndpoint(600000 * time.Millisecond)
		assert.Contains(t, got, "wss://pool.example.com")
		assert.Contains(t, got, "keepalive=600000")
		assert.Contains(t, got, "token=secret")
	})
}
