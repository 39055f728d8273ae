package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/onemed1a/backend/internal/usermedia/models"
)

type UpsertRequest struct {
	MediaID    uuid.UUID     `json:"media_id" validate:"required"`
	Status     models.Status `json:"status" validate:"required,oneof=WATCHING COMPLETED PLAN_TO_WATCH"`
	Rating     *int          `json:"rating" validate:"omitempty,gte=1,lte=5"`
	ReviewText *string       `json:"review_text"`
}

type UpdateRequest struct {
	Status     *models.Status `json:"status" validate:"omitempty,oneof=WATCHING COMPLETED PLAN_TO_WATCH"`
	Rating     *int           `json:"rating" validate:"omitempty,gte=1,lte=5"`
	ReviewText *string        `json:"review_text"`
}

type StatusResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	MediaID    uuid.UUID `json:"media_id"`
	Status     string    `json:"status"`
	Rating     *int      `json:"rating,omitempty"`
	ReviewText string    `json:"review_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toStatusResponse(rec *models.UserMediaStatus) StatusResponse {
	return StatusResponse{
		ID:         rec.ID,
		UserID:     rec.UserID,
		MediaID:    rec.MediaID,
		Status:     string(rec.Status),
		Rating:     rec.Rating,
		ReviewText: rec.ReviewText,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}
