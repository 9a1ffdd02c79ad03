package browserless

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Session describes one remote browser instance known to the pool provider.
// Connected reports whether a client connection is currently attached.
type Session struct {
	ID                   string `json:"id"`
	Connected            bool   `json:"connected"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// PoolClient is the provider-side surface the acquirer depends on: session
// listing plus endpoint construction for attach and launch.
type PoolClient interface {
	// ListSessions returns every session the provider currently manages.
	ListSessions(ctx context.Context) ([]Session, error)
	// SessionEndpoint returns the WebSocket endpoint for attaching to an
	// existing session.
	SessionEndpoint(s Session) string
	// LaunchEndpoint returns the WebSocket endpoint that makes the provider
	// launch a fresh instance kept alive for the given duration.
	LaunchEndpoint(keepAlive time.Duration) string
}

// Client talks to a browserless-style session pool over its REST API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// ListSessions queries the provider for its current sessions.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sessions", nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		q := req.URL.Query()
		q.Set("token", c.token)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list sessions: unexpected status %d", resp.StatusCode)
	}

	var sessions []Session
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}

// SessionEndpoint prefers the debugger URL advertised by the provider and
// falls back to the conventional per-id DevTools path.
func (c *Client) SessionEndpoint(s Session) string {
	if s.WebSocketDebuggerURL != "" {
		return c.withToken(s.WebSocketDebuggerURL)
	}
	return c.withToken(c.wsBase() + "/devtools/browser/" + s.ID)
}

// LaunchEndpoint builds the root WebSocket URL carrying the keep-alive
// duration in milliseconds; connecting to it launches a new instance.
func (c *Client) LaunchEndpoint(keepAlive time.Duration) string {
	endpoint := c.wsBase() + "?keepalive=" + strconv.FormatInt(keepAlive.Milliseconds(), 10)
	return c.withToken(endpoint)
}

// wsBase converts the HTTP base URL to its WebSocket equivalent.
func (c *Client) wsBase() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String()
}

func (c *Client) withToken(endpoint string) string {
	if c.token == "" {
		return endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()
	return u.String()
}
