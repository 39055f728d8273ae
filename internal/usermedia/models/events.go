package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// StatusUpserted записывается в outbox при каждом успешном Upsert/Update.
// From == nil означает, что строка была создана, а не обновлена.
type StatusUpserted struct {
	eventID    uuid.UUID
	statusID   uuid.UUID
	userID     uuid.UUID
	mediaID    uuid.UUID
	from       *Status
	to         Status
	occurredAt time.Time
}

func NewStatusUpserted(statusID, userID, mediaID uuid.UUID, from *Status, to Status) *StatusUpserted {
	return &StatusUpserted{
		eventID:    uuid.New(),
		statusID:   statusID,
		userID:     userID,
		mediaID:    mediaID,
		from:       from,
		to:         to,
		occurredAt: time.Now(),
	}
}

func (e *StatusUpserted) EventID() uuid.UUID     { return e.eventID }
func (e *StatusUpserted) EventType() string      { return "UserMediaStatusUpserted" }
func (e *StatusUpserted) AggregateID() uuid.UUID { return e.statusID }
func (e *StatusUpserted) OccurredAt() time.Time  { return e.occurredAt }

func (e *StatusUpserted) From() *Status { return e.from }
func (e *StatusUpserted) To() Status    { return e.to }

func (e *StatusUpserted) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID    uuid.UUID `json:"event_id"`
		StatusID   uuid.UUID `json:"status_id"`
		UserID     uuid.UUID `json:"user_id"`
		MediaID    uuid.UUID `json:"media_id"`
		From       *Status   `json:"from,omitempty"`
		To         Status    `json:"to"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EventID:    e.eventID,
		StatusID:   e.statusID,
		UserID:     e.userID,
		MediaID:    e.mediaID,
		From:       e.from,
		To:         e.to,
		OccurredAt: e.occurredAt,
	})
}

type StatusDeleted struct {
	eventID    uuid.UUID
	statusID   uuid.UUID
	userID     uuid.UUID
	mediaID    uuid.UUID
	occurredAt time.Time
}

func NewStatusDeleted(statusID, userID, mediaID uuid.UUID) *StatusDeleted {
	return &StatusDeleted{
		eventID:    uuid.New(),
		statusID:   statusID,
		userID:     userID,
		mediaID:    mediaID,
		occurredAt: time.Now(),
	}
}

func (e *StatusDeleted) EventID() uuid.UUID     { return e.eventID }
func (e *StatusDeleted) EventType() string      { return "UserMediaStatusDeleted" }
func (e *StatusDeleted) AggregateID() uuid.UUID { return e.statusID }
func (e *StatusDeleted) OccurredAt() time.Time  { return e.occurredAt }

func (e *StatusDeleted) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID    uuid.UUID `json:"event_id"`
		StatusID   uuid.UUID `json:"status_id"`
		UserID     uuid.UUID `json:"user_id"`
		MediaID    uuid.UUID `json:"media_id"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EventID:    e.eventID,
		StatusID:   e.statusID,
		UserID:     e.userID,
		MediaID:    e.mediaID,
		OccurredAt: e.occurredAt,
	})
}
