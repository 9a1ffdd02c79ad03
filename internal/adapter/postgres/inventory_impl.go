package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akazwz/extract/internal/entity"
)

// InventoryRepoImpl provides a concrete implementation for the InventoryRepository interface using PostgreSQL.
type InventoryRepoImpl struct {
	db *pgxpool.Pool
}

// NewInventoryRepo creates a new instance of InventoryRepoImpl.
func NewInventoryRepo(db *pgxpool.Pool) *InventoryRepoImpl {
	return &InventoryRepoImpl{db: db}
}

// Save stores or updates the image inventory for a URL in the database.
func (r *InventoryRepoImpl) Save(ctx context.Context, inv *entity.ImageInventory) error {
	imagesJSON, err := json.Marshal(inv.Images)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO image_inventories (url, page_title, images, image_count, decoded_count, extraction_time_ms, extracted_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO UPDATE SET
			page_title = EXCLUDED.page_title,
			images = EXCLUDED.images,
			image_count = EXCLUDED.image_count,
			decoded_count = EXCLUDED.decoded_count,
			extraction_time_ms = EXCLUDED.extraction_time_ms,
			extracted_timestamp = EXCLUDED.extracted_timestamp;
	`

	_, err = r.db.Exec(ctx, query,
		inv.URL,
		inv.PageTitle,
		imagesJSON,
		inv.ImageCount,
		inv.DecodedCount,
		inv.ExtractionTimeMS,
		inv.ExtractedTimestamp,
	)
	return err
}

// FindByURL retrieves the image inventory for a specific URL from the database.
func (r *InventoryRepoImpl) FindByURL(ctx context.Context, url string) (*entity.ImageInventory, error) {
	query := `
		SELECT id, url, page_title, images, image_count, decoded_count, extraction_time_ms, extracted_timestamp
		FROM image_inventories
		WHERE url = $1;
	`
	row := r.db.QueryRow(ctx, query, url)

	var inv entity.ImageInventory
	var imagesJSON []byte

	err := row.Scan(
		&inv.ID,
		&inv.URL,
		&inv.PageTitle,
		&imagesJSON,
		&inv.ImageCount,
		&inv.DecodedCount,
		&inv.ExtractionTimeMS,
		&inv.ExtractedTimestamp,
	)
	if err != nil {
		return nil, err // pgx.ErrNoRows will be returned if not found
	}

	if err := json.Unmarshal(imagesJSON, &inv.Images); err != nil {
		return nil, err
	}

	return &inv, nil
}
