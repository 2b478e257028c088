package repository

import (
	"context"

	"assetapi/internal/model"
)

// AssetRepository defines data access for assets using SQL queries only.
// No business logic here, strictly persistence operations.
type AssetRepository interface {
	// Create inserts a new asset record.
	// The caller provides required fields (ID, CreatedAt, owner) up front.
	// Returns the stored asset (may include values set by the DB).
	Create(ctx context.Context, asset *model.Asset) (*model.Asset, error)

	// FindByID returns an asset by its ID, regardless of owner.
	FindByID(ctx context.Context, id string) (*model.Asset, error)

	// FindByOwner returns all assets belonging to the scope's identity,
	// newest first. An unknown owner yields an empty slice, not an error.
	FindByOwner(ctx context.Context, scope model.Scope) ([]model.Asset, error)

	// Delete removes an asset by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
