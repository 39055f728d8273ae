package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/onemed1a/backend/internal/users/models"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	data    map[uuid.UUID]*models.User
	byEmail map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		data:    make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, u *models.User) error {
	if u == nil || u.ID == uuid.Nil || u.Email == "" {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, exists := r.byEmail[email]; exists {
		return models.ErrConflict
	}
	if _, exists := r.data[u.ID]; exists {
		return models.ErrConflict
	}

	cp := *u
	r.data[u.ID] = &cp
	r.byEmail[email] = u.ID
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.data[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) Update(ctx context.Context, u *models.User) (*models.User, error) {
	if u == nil || u.ID == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.data[u.ID]
	if !ok {
		return nil, models.ErrNotFound
	}

	cp := *u
	// Email неизменяем после создания.
	cp.Email = stored.Email
	cp.CreatedAt = stored.CreatedAt
	r.data[u.ID] = &cp

	out := cp
	return &out, nil
}
