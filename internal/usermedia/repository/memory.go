package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/onemed1a/backend/internal/usermedia/models"
)

type pairKey struct {
	userID  uuid.UUID
	mediaID uuid.UUID
}

// MemoryRepository хранит строки по ключу (user_id, media_id), как и
// уникальный индекс в postgres. Save под одним мьютексом, поэтому
// гонки двух первых upsert-ов здесь невозможны.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[pairKey]*models.UserMediaStatus
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		data: make(map[pairKey]*models.UserMediaStatus),
	}
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserMediaStatus, error) {
	if userID == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.UserMediaStatus
	for k, rec := range r.data {
		if k.userID == userID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetByUserAndMedia(ctx context.Context, userID, mediaID uuid.UUID) (*models.UserMediaStatus, error) {
	if userID == uuid.Nil || mediaID == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.data[pairKey{userID, mediaID}]
	if !ok {
		return nil, models.ErrNotFound
	}

	cp := *rec
	return &cp, nil
}

func (r *MemoryRepository) Save(ctx context.Context, rec *models.UserMediaStatus) (*models.UserMediaStatus, error) {
	if rec == nil || rec.ID == uuid.Nil || rec.UserID == uuid.Nil || rec.MediaID == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{rec.UserID, rec.MediaID}

	cp := *rec
	if existing, ok := r.data[key]; ok {
		// Insert-or-replace: существующая строка побеждает по id и created_at.
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
	}
	r.data[key] = &cp

	out := cp
	return &out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID, mediaID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || mediaID == uuid.Nil {
		return false, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{userID, mediaID}
	if _, ok := r.data[key]; !ok {
		return false, nil
	}
	delete(r.data, key)
	return true, nil
}
