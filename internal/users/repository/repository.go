package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/onemed1a/backend/internal/users/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, u *models.User) (*models.User, error)
}
