package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akazwz/extract/internal/entity"
	"github.com/akazwz/extract/internal/repository"
	"github.com/akazwz/extract/pkg/metrics"
)

// Extractor defines the interface for the core extraction worker process.
type Extractor interface {
	ProcessURLFromQueue(ctx context.Context) error
	RequeueDue(ctx context.Context, limit int) error
}

type extractionUseCase struct {
	queueRepo     repository.QueueRepository
	sessionRepo   repository.SessionRepository
	extractorRepo repository.ExtractorRepository
	inventoryRepo repository.InventoryRepository
	failedURLRepo repository.FailedURLRepository
}

// NewExtractionUseCase creates a new instance of the extraction use case.
func NewExtractionUseCase(
	queueRepo repository.QueueRepository,
	sessionRepo repository.SessionRepository,
	extractorRepo repository.ExtractorRepository,
	inventoryRepo repository.InventoryRepository,
	failedURLRepo repository.FailedURLRepository,
) Extractor {
	return &extractionUseCase{
		queueRepo:     queueRepo,
		sessionRepo:   sessionRepo,
		extractorRepo: extractorRepo,
		inventoryRepo: inventoryRepo,
		failedURLRepo: failedURLRepo,
	}
}

// ProcessURLFromQueue fetches a single URL from the queue and extracts its
// image inventory. It handles success by saving the inventory and failure
// by scheduling a retry.
func (uc *extractionUseCase) ProcessURLFromQueue(ctx context.Context) error {
	urlToExtract, err := uc.queueRepo.Pop(ctx)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Queue is empty, which is a normal state.
			return nil
		}
		return fmt.Errorf("failed to pop URL from queue: %w", err)
	}
	uc.observeQueueSize(ctx)

	slog.Info("Processing URL from queue", "url", urlToExtract)

	startTime := time.Now()
	domain := "unknown"
	if parsedURL, err := url.Parse(urlToExtract); err == nil && parsedURL.Hostname() != "" {
		domain = parsedURL.Hostname()
	}

	handle := uc.sessionRepo.Acquire(ctx)
	if handle == nil {
		// Acquisition exhaustion is reported as absence, not an error; for
		// this attempt it still means the URL could not be processed.
		return uc.handleFailure(ctx, urlToExtract, repository.ErrNoBrowserAvailable)
	}
	defer handle.Close()

	inventory, extractErr := uc.extractorRepo.Extract(ctx, handle, urlToExtract)

	duration := time.Since(startTime)
	metrics.ExtractionDuration.WithLabelValues(domain).Observe(duration.Seconds())

	if extractErr != nil {
		slog.Error("Extraction failed for URL, scheduling retry", "url", urlToExtract, "error", extractErr)
		return uc.handleFailure(ctx, urlToExtract, extractErr)
	}

	slog.Info("Extraction successful for URL, saving inventory",
		"url", urlToExtract,
		"images", inventory.ImageCount,
		"duration_ms", duration.Milliseconds(),
	)
	return uc.handleSuccess(ctx, inventory)
}

// RequeueDue moves failed URLs whose retry window has opened back onto the
// extraction queue.
func (uc *extractionUseCase) RequeueDue(ctx context.Context, limit int) error {
	due, err := uc.failedURLRepo.FindRetryable(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to find retryable URLs: %w", err)
	}

	for _, fu := range due {
		if err := uc.queueRepo.Push(ctx, fu.URL); err != nil {
			slog.Error("Failed to requeue URL for retry", "url", fu.URL, "error", err)
			continue
		}
		slog.Info("Requeued URL for retry", "url", fu.URL, "attempt", fu.RetryCount+1)
	}
	return nil
}

func (uc *extractionUseCase) handleSuccess(ctx context.Context, inventory *entity.ImageInventory) error {
	metrics.ExtractionsTotal.WithLabelValues("success", "").Inc()
	metrics.ImagesPerPage.Observe(float64(inventory.ImageCount))

	if err := uc.inventoryRepo.Save(ctx, inventory); err != nil {
		return fmt.Errorf("failed to save inventory for %s: %w", inventory.URL, err)
	}

	// If the URL was previously failed, remove it from the failed table.
	if err := uc.failedURLRepo.Delete(ctx, inventory.URL); err != nil {
		slog.Warn("Failed to delete URL from failed_urls table after successful extraction",
			"url", inventory.URL, "error", err)
	}

	return nil
}

func (uc *extractionUseCase) handleFailure(ctx context.Context, url string, extractErr error) error {
	errorType := "unknown"
	switch {
	case errors.Is(extractErr, repository.ErrNoBrowserAvailable):
		errorType = "no_browser"
	case errors.Is(extractErr, repository.ErrExtractionTimeout):
		errorType = "timeout"
	case errors.Is(extractErr, repository.ErrNavigationFailed):
		errorType = "navigation"
	}
	metrics.ExtractionsTotal.WithLabelValues("failure", errorType).Inc()

	failedURL := &entity.FailedURL{
		URL:                  url,
		FailureReason:        extractErr.Error(),
		LastAttemptTimestamp: time.Now(),
	}

	if err := uc.failedURLRepo.SaveOrUpdate(ctx, failedURL); err != nil {
		return fmt.Errorf("failed to save or update failed URL record for %s: %w", url, err)
	}

	return nil
}

func (uc *extractionUseCase) observeQueueSize(ctx context.Context) {
	if size, err := uc.queueRepo.Size(ctx); err == nil {
		metrics.URLsInQueue.Set(float64(size))
	}
}
