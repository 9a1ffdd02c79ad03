package repository

import (
	"context"

	"github.com/akazwz/extract/internal/entity"
)

// InventoryRepository defines the interface for storing and retrieving
// extracted image inventories.
type InventoryRepository interface {
	// Save stores the inventory for a URL. If the URL already exists, it
	// should be updated.
	Save(ctx context.Context, inv *entity.ImageInventory) error
	// FindByURL retrieves the inventory for a specific URL.
	FindByURL(ctx context.Context, url string) (*entity.ImageInventory, error)
}
