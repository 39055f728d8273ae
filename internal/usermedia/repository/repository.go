package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/onemed1a/backend/internal/usermedia/models"
)

// StatusRepository is the durable store for UserMediaStatus rows.
//
// Save is an atomic insert-or-replace keyed by (user_id, media_id):
// two concurrent saves for the same pair must converge on a single
// row, keeping the stored id and created_at. This is the one
// correctness guarantee the store owes the service; everything else
// is plain lookups.
type StatusRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserMediaStatus, error)
	GetByUserAndMedia(ctx context.Context, userID, mediaID uuid.UUID) (*models.UserMediaStatus, error)
	Save(ctx context.Context, rec *models.UserMediaStatus) (*models.UserMediaStatus, error)
	Delete(ctx context.Context, userID, mediaID uuid.UUID) (bool, error)
}
