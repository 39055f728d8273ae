package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound means the catalog has no entry for the id. For the type
// filter this is a normal "type unknown" signal, not a failure.
var ErrNotFound = errors.New("media not found")

type MediaType string

const (
	Movie MediaType = "MOVIE"
	TV    MediaType = "TV"
	Music MediaType = "MUSIC"
	Books MediaType = "BOOKS"
)

func (t MediaType) Valid() bool {
	switch t {
	case Movie, TV, Music, Books:
		return true
	default:
		return false
	}
}

type Media struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Type      MediaType `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Catalog is the authority for media existence and type metadata.
// The status service treats it as an optional collaborator: a nil
// Catalog disables existence checks and type filtering entirely.
type Catalog interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	TypeOf(ctx context.Context, id uuid.UUID) (MediaType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Media, error)
}
