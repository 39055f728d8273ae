package models

import (
	"time"

	"github.com/google/uuid"
)

type Status string

// Enum names are used on the wire and as the sort key for "status".
const (
	Watching    Status = "WATCHING"
	Completed   Status = "COMPLETED"
	PlanToWatch Status = "PLAN_TO_WATCH"
)

func (s Status) Valid() bool {
	switch s {
	case Watching, Completed, PlanToWatch:
		return true
	default:
		return false
	}
}

// UserMediaStatus is one row per (user, media) pair. The pair is a
// uniqueness key; the store's Save must keep it that way under
// concurrent writes.
type UserMediaStatus struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	MediaID    uuid.UUID `db:"media_id" json:"media_id"`
	Status     Status    `db:"status" json:"status"`
	Rating     *int      `db:"rating" json:"rating,omitempty"`
	ReviewText string    `db:"review_text" json:"review_text,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
