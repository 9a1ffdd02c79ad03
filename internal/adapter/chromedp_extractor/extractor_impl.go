package chromedp_extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/akazwz/extract/internal/browser"
	"github.com/akazwz/extract/internal/entity"
	"github.com/akazwz/extract/internal/repository"
)

// fullRenderQuality is the JPEG quality for the forced full-page render.
// The capture exists only to trigger lazily-loaded image requests; its
// output is discarded.
const fullRenderQuality = 80

type ChromedpExtractor struct {
	pageLoadTimeout time.Duration
	decodeTimeout   time.Duration
}

// NewChromedpExtractor creates an extractor implementation driving a remote
// browser over CDP.
func NewChromedpExtractor(pageLoadTimeout, decodeTimeout time.Duration) repository.ExtractorRepository {
	return &ChromedpExtractor{
		pageLoadTimeout: pageLoadTimeout,
		decodeTimeout:   decodeTimeout,
	}
}

// responseCollector accumulates image records from network response events.
// Events fire asynchronously relative to navigation and in no guaranteed
// order; discovery order matters only as deduplication's tie-break.
type responseCollector struct {
	mu      sync.Mutex
	records []entity.ImageRecord
}

// onEvent handles one browser event. Per-response irregularities are
// isolated: a response that cannot be classified is simply skipped.
func (c *responseCollector) onEvent(ev interface{}) {
	resp, ok := ev.(*network.EventResponseReceived)
	if !ok || resp.Response == nil {
		return
	}
	rec, ok := recordFromResponse(resp.Response)
	if !ok {
		return
	}
	c.mu.Lock()
	c.records = append(c.records, rec)
	c.mu.Unlock()
}

func (c *responseCollector) snapshot() []entity.ImageRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.ImageRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Extract loads the target URL on the given browser handle and returns the
// deduplicated inventory of image responses observed during the load.
func (e *ChromedpExtractor) Extract(ctx context.Context, h *browser.Handle, targetURL string) (*entity.ImageInventory, error) {
	page, err := h.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	// The page must be released on every exit path, navigation and
	// evaluation errors included.
	defer page.Close()

	taskCtx, cancel := context.WithTimeout(page.Context(), e.pageLoadTimeout)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var callerCancel context.CancelFunc
		taskCtx, callerCancel = context.WithDeadline(taskCtx, deadline)
		defer callerCancel()
	}

	// Subscribe before navigation starts so no early response is missed.
	collector := &responseCollector{}
	chromedp.ListenTarget(taskCtx, collector.onEvent)

	startTime := time.Now()

	if err := chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.Navigate(targetURL),
	); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", repository.ErrExtractionTimeout, targetURL)
		}
		return nil, fmt.Errorf("%w: %v", repository.ErrNavigationFailed, err)
	}

	// Force a full rendering pass so viewport-triggered images fire their
	// requests before the observer window closes. The capture is discarded.
	var discarded []byte
	var title string
	if err := chromedp.Run(taskCtx,
		chromedp.FullScreenshot(&discarded, fullRenderQuality),
		chromedp.Title(&title),
	); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", repository.ErrExtractionTimeout, targetURL)
		}
		return nil, fmt.Errorf("render pass failed: %w", err)
	}
	discarded = nil

	records := collector.snapshot()
	if err := e.decodeAll(taskCtx, records); err != nil {
		return nil, err
	}
	records = dedupRecords(records)

	decodedCount := 0
	for _, r := range records {
		if r.Decoded {
			decodedCount++
		}
	}

	slog.Info("Extracted images from page",
		"url", targetURL,
		"images", len(records),
		"decoded", decodedCount,
	)

	return &entity.ImageInventory{
		URL:                targetURL,
		PageTitle:          title,
		Images:             records,
		ImageCount:         len(records),
		DecodedCount:       decodedCount,
		ExtractionTimeMS:   int(time.Since(startTime).Milliseconds()),
		ExtractedTimestamp: time.Now(),
	}, nil
}
