package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/onemed1a/backend/internal/catalog"
	"github.com/onemed1a/backend/internal/usermedia/models"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserMediaStatus, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]models.UserMediaStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoreMock) GetByUserAndMedia(ctx context.Context, userID, mediaID uuid.UUID) (*models.UserMediaStatus, error) {
	args := m.Called(ctx, userID, mediaID)
	if v := args.Get(0); v != nil {
		return v.(*models.UserMediaStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoreMock) Save(ctx context.Context, rec *models.UserMediaStatus) (*models.UserMediaStatus, error) {
	args := m.Called(ctx, rec)
	if v := args.Get(0); v != nil {
		return v.(*models.UserMediaStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoreMock) Delete(ctx context.Context, userID, mediaID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, mediaID)
	return args.Bool(0), args.Error(1)
}

type CatalogMock struct {
	mock.Mock
}

func (m *CatalogMock) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *CatalogMock) TypeOf(ctx context.Context, id uuid.UUID) (catalog.MediaType, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.MediaType), args.Error(1)
}

func (m *CatalogMock) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Media, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*catalog.Media), args.Error(1)
	}
	return nil, args.Error(1)
}
