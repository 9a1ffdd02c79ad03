package browser

import (
	"context"
	"sync"

	"github.com/chromedp/chromedp"
)

// Handle wraps one live connection to a remote browser instance. The browser
// process itself is owned by the remote provider and usually outlives the
// handle; closing the handle only drops our connection to it.
//
// A Handle is safe to share across concurrent extractions as long as each of
// them opens its own Page.
type Handle struct {
	Endpoint string

	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// Page is a single tab within a remote browser, scoped to one extraction
// call. It must be closed by its owner on every exit path.
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// Connect dials a remote browser over its DevTools WebSocket endpoint. The
// connection is established eagerly so that a dead or refused endpoint fails
// here rather than on first use.
func Connect(ctx context.Context, wsURL string) (*Handle, error) {
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, wsURL, chromedp.NoModifyURL)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, err
	}

	return &Handle{
		Endpoint:      wsURL,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

// NewPage opens a fresh tab on the browser. The tab is created immediately
// so creation failures surface to the caller instead of at first action.
func (h *Handle) NewPage() (*Page, error) {
	pageCtx, pageCancel := chromedp.NewContext(h.browserCtx)
	if err := chromedp.Run(pageCtx); err != nil {
		pageCancel()
		return nil, err
	}
	return &Page{ctx: pageCtx, cancel: pageCancel}, nil
}

// Context exposes the chromedp context for running actions against the tab.
func (p *Page) Context() context.Context {
	return p.ctx
}

// Close disposes of the tab. It is idempotent so that deferred cleanup and
// explicit cleanup can coexist on the same Page.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.cancel != nil {
		p.cancel()
	}
}

// Close drops the connection to the remote browser. The remote instance
// keeps running until its own keep-alive expires.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	if h.browserCancel != nil {
		h.browserCancel()
	}
	if h.allocCancel != nil {
		h.allocCancel()
	}
}
