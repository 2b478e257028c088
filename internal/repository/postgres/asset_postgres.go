package postgres

import (
	"context"
	"database/sql"

	"assetapi/internal/model"
	"assetapi/internal/repository"
)

const assetColumns = `id, key, url, bucket, region, name, filesize, mimetype, type, is_private,
		width, height, format, thumbnail_url, thumbnail_key, user_id, admin_id, created_at`

// AssetPostgres is a PostgreSQL implementation of repository.AssetRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AssetPostgres struct {
	db *sql.DB
}

// NewAssetPostgres creates a new AssetPostgres repository.
func NewAssetPostgres(db *sql.DB) *AssetPostgres {
	return &AssetPostgres{db: db}
}

var _ repository.AssetRepository = (*AssetPostgres)(nil)

// Create inserts a new asset row and returns the stored record.
func (r *AssetPostgres) Create(ctx context.Context, asset *model.Asset) (*model.Asset, error) {
	const q = `
		INSERT INTO assets (id, key, url, bucket, region, name, filesize, mimetype, type, is_private,
			width, height, format, thumbnail_url, thumbnail_key, user_id, admin_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + assetColumns
	row := r.db.QueryRowContext(ctx, q,
		asset.ID,
		nullString(asset.Key),
		asset.URL,
		nullString(asset.Bucket),
		nullString(asset.Region),
		asset.Name,
		asset.Filesize,
		nullString(asset.Mimetype),
		string(asset.Type),
		asset.IsPrivate,
		nullInt(asset.Width),
		nullInt(asset.Height),
		nullString(asset.Format),
		nullString(asset.ThumbnailURL),
		nullString(asset.ThumbnailKey),
		asset.UserID,
		asset.AdminID,
		asset.CreatedAt,
	)
	return scanAsset(row)
}

// FindByID fetches a single asset by its ID.
func (r *AssetPostgres) FindByID(ctx context.Context, id string) (*model.Asset, error) {
	const q = `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE id = $1
	`
	return scanAsset(r.db.QueryRowContext(ctx, q, id))
}

// FindByOwner lists assets for exactly one ownership identity, newest first.
func (r *AssetPostgres) FindByOwner(ctx context.Context, scope model.Scope) ([]model.Asset, error) {
	const qUser = `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	const qAdmin = `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE admin_id = $1
		ORDER BY created_at DESC, id DESC
	`
	q, owner := qUser, scope.UserID
	if scope.IsAdmin() {
		q, owner = qAdmin, scope.AdminID
	}

	rows, err := r.db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := make([]model.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

// Delete removes an asset by ID. It does not return an error if the row does not exist.
func (r *AssetPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM assets WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*model.Asset, error) {
	var (
		a             model.Asset
		key           sql.NullString
		bucket        sql.NullString
		region        sql.NullString
		mimetype      sql.NullString
		width, height sql.NullInt64
		format        sql.NullString
		thumbURL      sql.NullString
		thumbKey      sql.NullString
		kind          string
	)
	if err := row.Scan(
		&a.ID,
		&key,
		&a.URL,
		&bucket,
		&region,
		&a.Name,
		&a.Filesize,
		&mimetype,
		&kind,
		&a.IsPrivate,
		&width,
		&height,
		&format,
		&thumbURL,
		&thumbKey,
		&a.UserID,
		&a.AdminID,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.Key = key.String
	a.Bucket = bucket.String
	a.Region = region.String
	a.Mimetype = mimetype.String
	a.Type = model.AssetKind(kind)
	a.Width = int(width.Int64)
	a.Height = int(height.Int64)
	a.Format = format.String
	a.ThumbnailURL = thumbURL.String
	a.ThumbnailKey = thumbKey.String
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}
