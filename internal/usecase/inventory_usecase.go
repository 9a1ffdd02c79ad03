package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/akazwz/extract/internal/entity"
	"github.com/akazwz/extract/internal/repository"
	"github.com/akazwz/extract/pkg/metrics"
	"github.com/akazwz/extract/pkg/utils"
)

var (
	ErrURLRecentlyExtracted = errors.New("URL has been extracted recently and force is false")
	ErrInventoryNotFound    = errors.New("no image inventory found for URL")
)

const deduplicationExpiry = 48 * time.Hour // 2 days

// InventoryManager defines the interface for submitting URLs and reading
// back extraction results.
type InventoryManager interface {
	Submit(ctx context.Context, url string, force bool) (string, error)
	GetStatus(ctx context.Context, url string) (*entity.ExtractionStatus, error)
	GetImages(ctx context.Context, url string) (*entity.ImageInventory, error)
}

type inventoryManagerUseCase struct {
	visitedRepo   repository.VisitedRepository
	queueRepo     repository.QueueRepository
	inventoryRepo repository.InventoryRepository
	failedURLRepo repository.FailedURLRepository
}

// NewInventoryManager creates a new InventoryManager use case.
func NewInventoryManager(
	visitedRepo repository.VisitedRepository,
	queueRepo repository.QueueRepository,
	inventoryRepo repository.InventoryRepository,
	failedURLRepo repository.FailedURLRepository,
) InventoryManager {
	return &inventoryManagerUseCase{
		visitedRepo:   visitedRepo,
		queueRepo:     queueRepo,
		inventoryRepo: inventoryRepo,
		failedURLRepo: failedURLRepo,
	}
}

func (uc *inventoryManagerUseCase) Submit(ctx context.Context, url string, force bool) (string, error) {
	requestID := utils.HashURL(url)

	if force {
		if err := uc.visitedRepo.RemoveVisited(ctx, url); err != nil {
			slog.Warn("Failed to remove visited key for forced extraction", "url", url, "error", err)
			// Continue anyway, as this is not a critical failure
		}
	} else {
		isVisited, err := uc.visitedRepo.IsVisited(ctx, url)
		if err != nil {
			return "", err
		}
		if isVisited {
			return requestID, ErrURLRecentlyExtracted
		}
	}

	if err := uc.queueRepo.Push(ctx, url); err != nil {
		return "", err
	}
	if size, err := uc.queueRepo.Size(ctx); err == nil {
		metrics.URLsInQueue.Set(float64(size))
	}

	if err := uc.visitedRepo.MarkVisited(ctx, url, deduplicationExpiry); err != nil {
		// Non-critical: the URL is queued but might be queued again before
		// it is processed.
		slog.Error("Failed to mark URL as visited after queueing", "url", url, "error", err)
	}

	return requestID, nil
}

func (uc *inventoryManagerUseCase) GetStatus(ctx context.Context, url string) (*entity.ExtractionStatus, error) {
	inv, err := uc.inventoryRepo.FindByURL(ctx, url)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if inv != nil {
		return &entity.ExtractionStatus{
			URL:             url,
			CurrentStatus:   "completed",
			LastExtractedAt: &inv.ExtractedTimestamp,
		}, nil
	}

	failed, err := uc.failedURLRepo.FindByURL(ctx, url)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if failed != nil {
		return &entity.ExtractionStatus{
			URL:             url,
			CurrentStatus:   "failed",
			LastExtractedAt: &failed.LastAttemptTimestamp,
			NextRetryAt:     &failed.NextRetryAt,
			FailureReason:   failed.FailureReason,
		}, nil
	}

	// Queued but not yet persisted counts as pending.
	isVisited, err := uc.visitedRepo.IsVisited(ctx, url)
	if err != nil {
		return nil, err
	}
	if isVisited {
		return &entity.ExtractionStatus{
			URL:           url,
			CurrentStatus: "pending",
		}, nil
	}

	return &entity.ExtractionStatus{
		URL:           url,
		CurrentStatus: "not_found",
	}, nil
}

func (uc *inventoryManagerUseCase) GetImages(ctx context.Context, url string) (*entity.ImageInventory, error) {
	inv, err := uc.inventoryRepo.FindByURL(ctx, url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInventoryNotFound
		}
		return nil, err
	}
	return inv, nil
}
