package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/onemed1a/backend/internal/users/models"
	"github.com/onemed1a/backend/internal/users/repository"
)

type Service struct {
	repo  repository.UserRepository
	clock func() time.Time
	idGen func() uuid.UUID
}

func New(repo repository.UserRepository) *Service {
	return &Service{
		repo:  repo,
		clock: time.Now,
		idGen: uuid.New,
	}
}

type CreateParams struct {
	Email       string
	DisplayName string
	AvatarURL   string
}

// Create registers a profile. Duplicate email surfaces as
// models.ErrConflict from the repository.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(p.Email))
	if email == "" || !strings.Contains(email, "@") || strings.TrimSpace(p.DisplayName) == "" {
		return nil, models.ErrInvalidArgument
	}

	now := s.clock()
	u := &models.User{
		ID:          s.idGen(),
		Email:       email,
		DisplayName: strings.TrimSpace(p.DisplayName),
		AvatarURL:   p.AvatarURL,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	return s.repo.GetByID(ctx, id)
}

type UpdateParams struct {
	DisplayName *string
	AvatarURL   *string
}

// UpdateProfile merges only the supplied fields; email is immutable.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.User, error) {
	if id == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if p.DisplayName != nil && strings.TrimSpace(*p.DisplayName) == "" {
		return nil, models.ErrInvalidArgument
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*p.DisplayName)
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	u.UpdatedAt = s.clock()

	return s.repo.Update(ctx, u)
}

// Deactivate flips Active off. Repeating it is a no-op, not an error.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return models.ErrInvalidArgument
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.Active {
		return nil
	}

	u.Active = false
	u.UpdatedAt = s.clock()
	_, err = s.repo.Update(ctx, u)
	return err
}
