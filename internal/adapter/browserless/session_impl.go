package browserless

import (
	"context"
	"log/slog"
	"time"

	"github.com/akazwz/extract/internal/browser"
	"github.com/akazwz/extract/internal/repository"
	"github.com/akazwz/extract/pkg/metrics"
)

// launchKeepAlive is how long a freshly launched remote instance stays
// alive without an attached connection, so later acquisitions can reuse it.
const launchKeepAlive = 600000 * time.Millisecond

// connectFunc dials a browser WebSocket endpoint. Injectable for tests.
type connectFunc func(ctx context.Context, wsURL string) (*browser.Handle, error)

// SessionAcquirer resolves a usable browser connection through ordered
// fallback: reuse an idle pool session, attach to an active one, launch a
// new instance, then try the directly supplied endpoint. Remote instances
// are expensive and rate limited, so reuse is always preferred over launch.
//
// Every attempt is independently fallible; failures are logged, counted and
// swallowed. The only externally observable outcome is a present or absent
// handle.
type SessionAcquirer struct {
	pool           PoolClient // nil when no pool endpoint is configured
	directEndpoint string     // "" when no direct endpoint is supplied
	connect        connectFunc
}

// NewSessionAcquirer creates the acquirer. Either argument may be zero; an
// acquirer with neither a pool nor a direct endpoint always yields nil.
func NewSessionAcquirer(pool PoolClient, directEndpoint string) repository.SessionRepository {
	return &SessionAcquirer{
		pool:           pool,
		directEndpoint: directEndpoint,
		connect:        browser.Connect,
	}
}

// Acquire walks the fallback chain and returns the first handle obtained,
// or nil when every path is exhausted. It never returns an error.
func (a *SessionAcquirer) Acquire(ctx context.Context) *browser.Handle {
	if a.pool != nil {
		if h := a.acquireFromPool(ctx); h != nil {
			return h
		}
	}

	if a.directEndpoint != "" {
		if h := a.attempt(ctx, "direct", a.directEndpoint); h != nil {
			return h
		}
	}

	slog.Warn("No browser available through any acquisition path")
	return nil
}

func (a *SessionAcquirer) acquireFromPool(ctx context.Context) *browser.Handle {
	sessions, err := a.pool.ListSessions(ctx)
	if err != nil {
		slog.Warn("Failed to list pool sessions", "error", err)
	}

	// Idle sessions first: attaching to one costs nothing and frees no one.
	for _, s := range sessions {
		if s.Connected {
			continue
		}
		if h := a.attempt(ctx, "idle", a.pool.SessionEndpoint(s)); h != nil {
			return h
		}
	}

	// Then sessions already serving a connection; most providers allow
	// multiple clients per instance.
	for _, s := range sessions {
		if !s.Connected {
			continue
		}
		if h := a.attempt(ctx, "active", a.pool.SessionEndpoint(s)); h != nil {
			return h
		}
	}

	return a.attempt(ctx, "launch", a.pool.LaunchEndpoint(launchKeepAlive))
}

// attempt dials one endpoint. A failure is a decision point, not an error:
// it is logged, counted and converted into "try the next option".
func (a *SessionAcquirer) attempt(ctx context.Context, path, endpoint string) *browser.Handle {
	h, err := a.connect(ctx, endpoint)
	if err != nil {
		slog.Warn("Browser connection attempt failed", "path", path, "endpoint", endpoint, "error", err)
		metrics.AcquisitionAttempts.WithLabelValues(path, "failure").Inc()
		return nil
	}
	slog.Info("Browser connection established", "path", path, "endpoint", endpoint)
	metrics.AcquisitionAttempts.WithLabelValues(path, "success").Inc()
	return h
}
