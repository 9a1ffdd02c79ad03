package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akazwz/extract/internal/entity"
	"github.com/akazwz/extract/pkg/utils"
)

type fakeVisitedRepo struct {
	visited map[string]bool
	removed []string
}

func newFakeVisitedRepo() *fakeVisitedRepo {
	return &fakeVisitedRepo{visited: make(map[string]bool)}
}

func (f *fakeVisitedRepo) MarkVisited(ctx context.Context, url string, expiry time.Duration) error {
	f.visited[url] = true
	return nil
}

func (f *fakeVisitedRepo) IsVisited(ctx context.Context, url string) (bool, error) {
	return f.visited[url], nil
}

func (f *fakeVisitedRepo) RemoveVisited(ctx context.Context, url string) error {
	delete(f.visited, url)
	f.removed = append(f.removed, url)
	return nil
}

func newTestInventoryManager(visited *fakeVisitedRepo, queue *fakeQueueRepo, inventory *fakeInventoryRepo) InventoryManager {
	return NewInventoryManager(visited, queue, inventory, &fakeFailedURLRepo{})
}

func TestSubmitQueuesNewURL(t *testing.T) {
	visited := newFakeVisitedRepo()
	queue := &fakeQueueRepo{}
	uc := newTestInventoryManager(visited, queue, &fakeInventoryRepo{})

	id, err := uc.Submit(context.Background(), "https://example.com", false)

	require.NoError(t, err)
	assert.Equal(t, utils.HashURL("https://example.com"), id)
	assert.Equal(t, []string{"https://example.com"}, queue.pushed)
	assert.True(t, visited.visited["https://example.com"])
}

func TestSubmitRejectsRecentlyExtractedURL(t *testing.T) {
	visited := newFakeVisitedRepo()
	visited.visited["https://example.com"] = true
	queue := &fakeQueueRepo{}
	uc := newTestInventoryManager(visited, queue, &fakeInventoryRepo{})

	id, err := uc.Submit(context.Background(), "https://example.com", false)

	assert.ErrorIs(t, err, ErrURLRecentlyExtracted)
	assert.NotEmpty(t, id, "request id is still returned for lookups")
	assert.Empty(t, queue.pushed)
}

func TestSubmitForceBypassesDeduplication(t *testing.T) {
	visited := newFakeVisitedRepo()
	visited.visited["https://example.com"] = true
	queue := &fakeQueueRepo{}
	uc := newTestInventoryManager(visited, queue, &fakeInventoryRepo{})

	_, err := uc.Submit(context.Background(), "https://example.com", true)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com"}, visited.removed)
	assert.Equal(t, []string{"https://example.com"}, queue.pushed)
}

func TestGetStatusCompleted(t *testing.T) {
	inventory := &fakeInventoryRepo{saved: []*entity.ImageInventory{
		{URL: "https://example.com", ExtractedTimestamp: time.Now()},
	}}
	uc := newTestInventoryManager(newFakeVisitedRepo(), &fakeQueueRepo{}, inventory)

	status, err := uc.GetStatus(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, "completed", status.CurrentStatus)
	require.NotNil(t, status.LastExtractedAt)
}

func TestGetStatusFailed(t *testing.T) {
	visited := newFakeVisitedRepo()
	visited.visited["https://example.com"] = true
	failed := &fakeFailedURLRepo{saved: []*entity.FailedURL{
		{
			URL:                  "https://example.com",
			FailureReason:        "navigation failed",
			LastAttemptTimestamp: time.Now().Add(-time.Minute),
			NextRetryAt:          time.Now().Add(4 * time.Minute),
		},
	}}
	uc := NewInventoryManager(visited, &fakeQueueRepo{}, &fakeInventoryRepo{}, failed)

	status, err := uc.GetStatus(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, "failed", status.CurrentStatus)
	assert.Equal(t, "navigation failed", status.FailureReason)
	require.NotNil(t, status.NextRetryAt)
}

func TestGetStatusPending(t *testing.T) {
	visited := newFakeVisitedRepo()
	visited.visited["https://example.com"] = true
	uc := newTestInventoryManager(visited, &fakeQueueRepo{}, &fakeInventoryRepo{})

	status, err := uc.GetStatus(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, "pending", status.CurrentStatus)
}

func TestGetStatusNotFound(t *testing.T) {
	uc := newTestInventoryManager(newFakeVisitedRepo(), &fakeQueueRepo{}, &fakeInventoryRepo{})

	status, err := uc.GetStatus(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, "not_found", status.CurrentStatus)
}

func TestGetImages(t *testing.T) {
	inventory := &fakeInventoryRepo{saved: []*entity.ImageInventory{
		{
			URL:        "https://example.com",
			Images:     []entity.ImageRecord{{Src: "https://example.com/a.png", MimeType: "image/png"}},
			ImageCount: 1,
		},
	}}
	uc := newTestInventoryManager(newFakeVisitedRepo(), &fakeQueueRepo{}, inventory)

	inv, err := uc.GetImages(context.Background(), "https://example.com")

	require.NoError(t, err)
	require.Len(t, inv.Images, 1)
	assert.Equal(t, "https://example.com/a.png", inv.Images[0].Src)
}

func TestGetImagesNotFound(t *testing.T) {
	uc := newTestInventoryManager(newFakeVisitedRepo(), &fakeQueueRepo{}, &fakeInventoryRepo{})

	_, err := uc.GetImages(context.Background(), "https://example.com")

	assert.ErrorIs(t, err, ErrInventoryNotFound)
}
