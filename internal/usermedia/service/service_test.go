package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onemed1a/backend/internal/catalog"
	"github.com/onemed1a/backend/internal/usermedia/models"
	"github.com/onemed1a/backend/internal/usermedia/repository"
)

func newTestService(repo repository.StatusRepository, cat catalog.Catalog) *Service {
	return New(repo, cat, nil, zerolog.Nop())
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestUpsert_InvalidArguments(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		userID uuid.UUID
		params UpsertParams
	}{
		{name: "nil user", userID: uuid.Nil, params: UpsertParams{MediaID: uuid.New(), Status: models.Watching}},
		{name: "nil media", userID: uuid.New(), params: UpsertParams{Status: models.Watching}},
		{name: "empty status", userID: uuid.New(), params: UpsertParams{MediaID: uuid.New()}},
		{name: "unknown status", userID: uuid.New(), params: UpsertParams{MediaID: uuid.New(), Status: "DROPPED"}},
		{name: "rating below range", userID: uuid.New(), params: UpsertParams{MediaID: uuid.New(), Status: models.Watching, Rating: intPtr(0)}},
		{name: "rating above range", userID: uuid.New(), params: UpsertParams{MediaID: uuid.New(), Status: models.Watching, Rating: intPtr(6)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := new(StoreMock)
			svc := newTestService(st, nil)

			// Invalid input should short-circuit before touching the store.
			got, err := svc.Upsert(ctx, tc.userID, tc.params)
			require.ErrorIs(t, err, models.ErrInvalidArgument)
			require.Nil(t, got)
			st.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestUpsert_CreatesRowWithInvariants(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	fixedID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	fixedTime := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	svc.idGen = func() uuid.UUID { return fixedID }
	svc.clock = func() time.Time { return fixedTime }

	userID := uuid.New()
	mediaID := uuid.New()

	got, err := svc.Upsert(ctx, userID, UpsertParams{
		MediaID:    mediaID,
		Status:     models.Watching,
		Rating:     intPtr(4),
		ReviewText: strPtr("solid start"),
	})
	require.NoError(t, err)
	require.Equal(t, fixedID, got.ID)
	require.Equal(t, userID, got.UserID)
	require.Equal(t, mediaID, got.MediaID)
	require.Equal(t, models.Watching, got.Status)
	require.Equal(t, 4, *got.Rating)
	require.Equal(t, "solid start", got.ReviewText)
	require.Equal(t, fixedTime, got.CreatedAt)
	require.Equal(t, fixedTime, got.UpdatedAt)

	stored, err := svc.GetByUserAndMedia(ctx, userID, mediaID)
	require.NoError(t, err)
	require.Equal(t, got, stored)
}

func TestUpsert_IdempotentOnRepeatedInput(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	userID := uuid.New()
	p := UpsertParams{MediaID: uuid.New(), Status: models.Completed}

	first, err := svc.Upsert(ctx, userID, p)
	require.NoError(t, err)
	second, err := svc.Upsert(ctx, userID, p)
	require.NoError(t, err)

	// Same (user, media) pair must stay a single row with a stable id.
	require.Equal(t, first.ID, second.ID)
	rows, err := svc.List(ctx, userID, ListParams{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestUpsert_PartialUpdatePreservesOmittedFields(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	cur := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return cur }

	userID := uuid.New()
	mediaID := uuid.New()

	_, err := svc.Upsert(ctx, userID, UpsertParams{
		MediaID: mediaID,
		Status:  models.Watching,
		Rating:  intPtr(3),
	})
	require.NoError(t, err)

	cur = cur.Add(time.Hour)

	got, err := svc.Upsert(ctx, userID, UpsertParams{
		MediaID: mediaID,
		Status:  models.Completed,
	})
	require.NoError(t, err)

	// Rating was omitted, not cleared; timestamps follow the contract.
	require.Equal(t, models.Completed, got.Status)
	require.Equal(t, 3, *got.Rating)
	require.Equal(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), got.CreatedAt)
	require.Equal(t, cur, got.UpdatedAt)
}

func TestUpsert_MediaMissingFromCatalog(t *testing.T) {
	ctx := context.Background()
	st := new(StoreMock)
	cat := catalog.NewMemoryCatalog()
	svc := newTestService(st, cat)

	got, err := svc.Upsert(ctx, uuid.New(), UpsertParams{MediaID: uuid.New(), Status: models.Watching})
	require.ErrorIs(t, err, models.ErrNotFound)
	require.Nil(t, got)
	st.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpsert_NoCatalogSkipsExistenceCheck(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	// Degraded mode: no catalog wired, upsert still succeeds.
	got, err := svc.Upsert(ctx, uuid.New(), UpsertParams{MediaID: uuid.New(), Status: models.PlanToWatch})
	require.NoError(t, err)
	require.Equal(t, models.PlanToWatch, got.Status)
}

func TestUpsert_StoreErrorPropagated(t *testing.T) {
	ctx := context.Background()
	st := new(StoreMock)
	svc := newTestService(st, nil)

	storeErr := errors.New("connection refused")
	st.On("GetByUserAndMedia", mock.Anything, mock.Anything, mock.Anything).Return(nil, storeErr).Once()

	got, err := svc.Upsert(ctx, uuid.New(), UpsertParams{MediaID: uuid.New(), Status: models.Watching})
	require.ErrorIs(t, err, storeErr)
	require.Nil(t, got)
	st.AssertExpectations(t)
}

func TestGetByUserAndMedia_Absent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	got, err := svc.GetByUserAndMedia(ctx, uuid.New(), uuid.New())
	require.ErrorIs(t, err, models.ErrNotFound)
	require.Nil(t, got)
}

func TestUpdate_MissingRowIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	got, err := svc.Update(ctx, uuid.New(), uuid.New(), UpdateParams{Status: models.Completed})
	require.ErrorIs(t, err, models.ErrNotFound)
	require.Nil(t, got)
}

func TestUpdate_MergesSuppliedFields(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	userID := uuid.New()
	mediaID := uuid.New()

	_, err := svc.Upsert(ctx, userID, UpsertParams{
		MediaID:    mediaID,
		Status:     models.Watching,
		Rating:     intPtr(2),
		ReviewText: strPtr("early impressions"),
	})
	require.NoError(t, err)

	got, err := svc.Update(ctx, userID, mediaID, UpdateParams{Rating: intPtr(5)})
	require.NoError(t, err)
	require.Equal(t, models.Watching, got.Status)
	require.Equal(t, 5, *got.Rating)
	require.Equal(t, "early impressions", got.ReviewText)
}

func TestDelete_Semantics(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	userID := uuid.New()
	mediaID := uuid.New()

	deleted, err := svc.Delete(ctx, userID, mediaID)
	require.NoError(t, err)
	require.False(t, deleted)

	_, err = svc.Upsert(ctx, userID, UpsertParams{MediaID: mediaID, Status: models.Watching})
	require.NoError(t, err)

	deleted, err = svc.Delete(ctx, userID, mediaID)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = svc.GetByUserAndMedia(ctx, userID, mediaID)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestList_StatusFilterScenario(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	userID := uuid.New()
	_, err := svc.Upsert(ctx, userID, UpsertParams{MediaID: uuid.New(), Status: models.Watching})
	require.NoError(t, err)

	rows, err := svc.List(ctx, userID, ListParams{Status: models.Completed})
	require.NoError(t, err)
	require.Empty(t, rows)

	rows, err = svc.List(ctx, userID, ListParams{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, models.Watching, rows[0].Status)
}

func TestList_TypeFilterRetainsUnknownType(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	cat := catalog.NewMemoryCatalog()
	svc := newTestService(repo, cat)

	userID := uuid.New()
	movieID := uuid.New()
	unknownID := uuid.New()

	cat.Put(&catalog.Media{ID: movieID, Type: catalog.Movie, Title: "known movie"})

	// Seed through the store: unknownID is deliberately absent from the
	// catalog, so an upsert with the existence check on would refuse it.
	now := time.Now().UTC()
	seedRow(t, repo, userID, models.UserMediaStatus{MediaID: movieID, Status: models.Watching, CreatedAt: now, UpdatedAt: now})
	seedRow(t, repo, userID, models.UserMediaStatus{MediaID: unknownID, Status: models.Watching, CreatedAt: now, UpdatedAt: now})

	// The movie matches; the row without type information is retained,
	// not silently dropped.
	rows, err := svc.List(ctx, userID, ListParams{Type: catalog.Movie})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Filtering by TV excludes the known movie but keeps the unknown row.
	rows, err = svc.List(ctx, userID, ListParams{Type: catalog.TV})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, unknownID, rows[0].MediaID)
}

func TestList_CatalogFailurePropagated(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	cat := new(CatalogMock)
	svc := newTestService(repo, cat)

	userID := uuid.New()
	now := time.Now().UTC()
	seedRow(t, repo, userID, models.UserMediaStatus{Status: models.Watching, CreatedAt: now, UpdatedAt: now})

	catErr := errors.New("catalog unavailable")
	cat.On("TypeOf", mock.Anything, mock.Anything).Return(catalog.MediaType(""), catErr).Once()

	_, err := svc.List(ctx, userID, ListParams{Type: catalog.Movie})
	require.ErrorIs(t, err, catErr)
	cat.AssertExpectations(t)
}

func TestList_PaginationBoundaries(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	userID := uuid.New()
	for i := 0; i < 15; i++ {
		_, err := svc.Upsert(ctx, userID, UpsertParams{MediaID: uuid.New(), Status: models.Watching})
		require.NoError(t, err)
	}

	page0, err := svc.List(ctx, userID, ListParams{Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, page0, 10)

	page1, err := svc.List(ctx, userID, ListParams{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, page1, 5)

	// Offset past the end is an empty page, never an error.
	page2, err := svc.List(ctx, userID, ListParams{Page: 2, Size: 10})
	require.NoError(t, err)
	require.Empty(t, page2)
}

func TestList_ClampsPageAndSize(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	userID := uuid.New()
	for i := 0; i < 12; i++ {
		_, err := svc.Upsert(ctx, userID, UpsertParams{MediaID: uuid.New(), Status: models.Watching})
		require.NoError(t, err)
	}

	// page < 0 clamps to 0, size <= 0 defaults to 10.
	rows, err := svc.List(ctx, userID, ListParams{Page: -3, Size: 0})
	require.NoError(t, err)
	require.Len(t, rows, 10)
}

func seedRow(t *testing.T, repo *repository.MemoryRepository, userID uuid.UUID, rec models.UserMediaStatus) models.UserMediaStatus {
	t.Helper()
	rec.ID = uuid.New()
	rec.UserID = userID
	if rec.MediaID == uuid.Nil {
		rec.MediaID = uuid.New()
	}
	saved, err := repo.Save(context.Background(), &rec)
	require.NoError(t, err)
	return *saved
}

func TestList_DefaultSortIsUpdatedAtDesc(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedRow(t, repo, userID, models.UserMediaStatus{
			Status:    models.Watching,
			CreatedAt: base,
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	rows, err := svc.List(ctx, userID, ListParams{})
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for i := 1; i < len(rows); i++ {
		require.False(t, rows[i-1].UpdatedAt.Before(rows[i].UpdatedAt),
			"rows must be ordered by updatedAt descending")
	}
}

func TestList_SortRatingAscendingTreatsNilAsMinimum(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	userID := uuid.New()
	now := time.Now().UTC()
	seedRow(t, repo, userID, models.UserMediaStatus{Status: models.Watching, Rating: intPtr(5), CreatedAt: now, UpdatedAt: now})
	seedRow(t, repo, userID, models.UserMediaStatus{Status: models.Watching, CreatedAt: now, UpdatedAt: now})
	seedRow(t, repo, userID, models.UserMediaStatus{Status: models.Watching, Rating: intPtr(2), CreatedAt: now, UpdatedAt: now})

	rows, err := svc.List(ctx, userID, ListParams{Sort: "rating,asc"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Nil(t, rows[0].Rating)
	require.Equal(t, 2, *rows[1].Rating)
	require.Equal(t, 5, *rows[2].Rating)
}

func TestList_SortStatusUsesEnumName(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	userID := uuid.New()
	now := time.Now().UTC()
	seedRow(t, repo, userID, models.UserMediaStatus{Status: models.Watching, CreatedAt: now, UpdatedAt: now})
	seedRow(t, repo, userID, models.UserMediaStatus{Status: models.Completed, CreatedAt: now, UpdatedAt: now})
	seedRow(t, repo, userID, models.UserMediaStatus{Status: models.PlanToWatch, CreatedAt: now, UpdatedAt: now})

	rows, err := svc.List(ctx, userID, ListParams{Sort: "status,asc"})
	require.NoError(t, err)
	require.Equal(t,
		[]models.Status{models.Completed, models.PlanToWatch, models.Watching},
		[]models.Status{rows[0].Status, rows[1].Status, rows[2].Status})
}

func TestList_UnknownSortFieldDefaultsToUpdatedAt(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedRow(t, repo, userID, models.UserMediaStatus{
			Status:    models.Watching,
			CreatedAt: base,
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	rows, err := svc.List(ctx, userID, ListParams{Sort: "nonsense,desc"})
	require.NoError(t, err)
	for i := 1; i < len(rows); i++ {
		require.False(t, rows[i-1].UpdatedAt.Before(rows[i].UpdatedAt))
	}
}

func TestList_TieBreakIsDeterministic(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo, nil)

	userID := uuid.New()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		seedRow(t, repo, userID, models.UserMediaStatus{Status: models.Watching, CreatedAt: now, UpdatedAt: now})
	}

	first, err := svc.List(ctx, userID, ListParams{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.List(ctx, userID, ListParams{})
		require.NoError(t, err)
		require.Equal(t, first, again, "equal keys must keep a stable order across calls")
	}
}

func TestParseSort(t *testing.T) {
	cases := []struct {
		spec      string
		wantField string
		wantDesc  bool
	}{
		{spec: "", wantField: "updatedAt", wantDesc: true},
		{spec: "updatedAt,desc", wantField: "updatedAt", wantDesc: true},
		{spec: "createdAt,asc", wantField: "createdAt", wantDesc: false},
		{spec: "rating", wantField: "rating", wantDesc: true},
		{spec: "status,ASC", wantField: "status", wantDesc: false},
		{spec: ",asc", wantField: "updatedAt", wantDesc: false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%q", tc.spec), func(t *testing.T) {
			field, desc := parseSort(tc.spec)
			require.Equal(t, tc.wantField, field)
			require.Equal(t, tc.wantDesc, desc)
		})
	}
}
