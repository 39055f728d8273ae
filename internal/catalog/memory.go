package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryCatalog is an in-memory Catalog for tests and degraded-mode
// setups without a media table.
type MemoryCatalog struct {
	mu   sync.RWMutex
	data map[uuid.UUID]*Media
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		data: make(map[uuid.UUID]*Media),
	}
}

func (c *MemoryCatalog) Put(m *Media) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := *m
	c.data[m.ID] = &cp
}

func (c *MemoryCatalog) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.data[id]
	return ok, nil
}

func (c *MemoryCatalog) TypeOf(ctx context.Context, id uuid.UUID) (MediaType, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.data[id]
	if !ok {
		return "", ErrNotFound
	}
	return m.Type, nil
}

func (c *MemoryCatalog) GetByID(ctx context.Context, id uuid.UUID) (*Media, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.data[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *m
	return &cp, nil
}
