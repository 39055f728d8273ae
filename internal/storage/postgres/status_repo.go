package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/onemed1a/backend/internal/usermedia/models"
)

// StatusRepo stores user_media_status rows. The table carries a
// UNIQUE (user_id, media_id) constraint; Save leans on it with
// ON CONFLICT so concurrent first-upserts for the same pair collapse
// into one row instead of racing a read-then-write.
type StatusRepo struct {
	db *sqlx.DB
}

func NewStatusRepo(db *sqlx.DB) *StatusRepo {
	return &StatusRepo{db: db}
}

const statusColumns = `id, user_id, media_id, status, rating, review_text, created_at, updated_at`

func (r *StatusRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserMediaStatus, error) {
	const q = `
		SELECT ` + statusColumns + `
		FROM user_media_status
		WHERE user_id = $1
	`

	var out []models.UserMediaStatus
	if err := r.db.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, fmt.Errorf("status list by user: %w", err)
	}
	return out, nil
}

func (r *StatusRepo) GetByUserAndMedia(ctx context.Context, userID, mediaID uuid.UUID) (*models.UserMediaStatus, error) {
	const q = `
		SELECT ` + statusColumns + `
		FROM user_media_status
		WHERE user_id = $1 AND media_id = $2
	`

	var rec models.UserMediaStatus
	if err := r.db.GetContext(ctx, &rec, q, userID, mediaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("status get by user and media: %w", err)
	}

	return &rec, nil
}

// saveQuery — атомарный insert-or-replace по ключу (user_id, media_id).
// При конфликте существующие id и created_at остаются как есть.
const saveQuery = `
	INSERT INTO user_media_status (id, user_id, media_id, status, rating, review_text, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (user_id, media_id) DO UPDATE
	SET status = EXCLUDED.status,
	    rating = EXCLUDED.rating,
	    review_text = EXCLUDED.review_text,
	    updated_at = EXCLUDED.updated_at
	RETURNING ` + statusColumns

func (r *StatusRepo) Save(ctx context.Context, rec *models.UserMediaStatus) (*models.UserMediaStatus, error) {
	return save(ctx, r.db, rec)
}

func (r *StatusRepo) SaveTx(ctx context.Context, tx *sqlx.Tx, rec *models.UserMediaStatus) (*models.UserMediaStatus, error) {
	return save(ctx, tx, rec)
}

func save(ctx context.Context, ext sqlx.ExtContext, rec *models.UserMediaStatus) (*models.UserMediaStatus, error) {
	if rec == nil {
		return nil, models.ErrInvalidArgument
	}

	var out models.UserMediaStatus
	err := sqlx.GetContext(ctx, ext, &out, saveQuery,
		rec.ID, rec.UserID, rec.MediaID, rec.Status, rec.Rating, rec.ReviewText, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("status save: %w", err)
	}

	return &out, nil
}

func (r *StatusRepo) Delete(ctx context.Context, userID, mediaID uuid.UUID) (bool, error) {
	return deleteRow(ctx, r.db, userID, mediaID)
}

func (r *StatusRepo) DeleteTx(ctx context.Context, tx *sqlx.Tx, userID, mediaID uuid.UUID) (bool, error) {
	return deleteRow(ctx, tx, userID, mediaID)
}

func deleteRow(ctx context.Context, ext sqlx.ExtContext, userID, mediaID uuid.UUID) (bool, error) {
	const q = `
		DELETE FROM user_media_status
		WHERE user_id = $1 AND media_id = $2
	`

	res, err := ext.ExecContext(ctx, q, userID, mediaID)
	if err != nil {
		return false, fmt.Errorf("status delete: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("status delete rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *StatusRepo) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}
