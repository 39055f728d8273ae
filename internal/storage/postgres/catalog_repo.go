package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/onemed1a/backend/internal/catalog"
)

// CatalogRepo serves existence and type checks over the media table.
// Ingestion of that table is somebody else's job.
type CatalogRepo struct {
	db *sqlx.DB
}

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM media WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, id); err != nil {
		return false, fmt.Errorf("media exists: %w", err)
	}
	return exists, nil
}

func (r *CatalogRepo) TypeOf(ctx context.Context, id uuid.UUID) (catalog.MediaType, error) {
	const q = `SELECT type FROM media WHERE id = $1`

	var t catalog.MediaType
	if err := r.db.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", catalog.ErrNotFound
		}
		return "", fmt.Errorf("media type of: %w", err)
	}
	return t, nil
}

func (r *CatalogRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Media, error) {
	const q = `
		SELECT id, type, title, created_at
		FROM media
		WHERE id = $1
	`

	var m catalog.Media
	if err := r.db.GetContext(ctx, &m, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("media get by id: %w", err)
	}

	return &m, nil
}
