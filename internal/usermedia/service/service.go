package service

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/onemed1a/backend/internal/catalog"
	"github.com/onemed1a/backend/internal/storage/postgres"
	"github.com/onemed1a/backend/internal/usermedia/models"
	"github.com/onemed1a/backend/internal/usermedia/repository"
)

const defaultPageSize = 10

// txStore is the optional upgrade a store can offer so that a saved
// row and its outbox event land in one transaction.
type txStore interface {
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	SaveTx(ctx context.Context, tx *sqlx.Tx, rec *models.UserMediaStatus) (*models.UserMediaStatus, error)
	DeleteTx(ctx context.Context, tx *sqlx.Tx, userID, mediaID uuid.UUID) (bool, error)
}

type Service struct {
	repo    repository.StatusRepository
	catalog catalog.Catalog      // optional; nil disables existence/type checks
	outbox  *postgres.OutboxRepo // optional; nil disables event recording
	logger  zerolog.Logger
	clock   func() time.Time
	idGen   func() uuid.UUID
}

func New(repo repository.StatusRepository, cat catalog.Catalog, outbox *postgres.OutboxRepo, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: cat,
		outbox:  outbox,
		logger:  logger.With().Str("component", "usermedia_service").Logger(),
		clock:   time.Now,
		idGen:   uuid.New,
	}
}

type ListParams struct {
	Status models.Status     // "" = no filter
	Type   catalog.MediaType // "" = no filter
	Page   int
	Size   int
	Sort   string // "<field>,<direction>", default "updatedAt,desc"
}

// List returns one page of the user's status rows after in-memory
// filtering and sorting. Empty pages are a normal result, never an
// error.
func (s *Service) List(ctx context.Context, userID uuid.UUID, p ListParams) ([]models.UserMediaStatus, error) {
	if userID == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if p.Status != "" && !p.Status.Valid() {
		return nil, models.ErrInvalidArgument
	}
	if p.Type != "" && !p.Type.Valid() {
		return nil, models.ErrInvalidArgument
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := rows[:0:0]
	for _, rec := range rows {
		if p.Status != "" && rec.Status != p.Status {
			continue
		}

		if p.Type != "" && s.catalog != nil {
			mt, err := s.catalog.TypeOf(ctx, rec.MediaID)
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				// Тип неизвестен — строку оставляем, а не теряем молча.
			case err != nil:
				return nil, fmt.Errorf("catalog type of %s: %w", rec.MediaID, err)
			case mt != p.Type:
				continue
			}
		}

		filtered = append(filtered, rec)
	}

	field, desc := parseSort(p.Sort)
	sortRows(filtered, field, desc)

	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Page < 0 {
		p.Page = 0
	}
	from := min(p.Page*p.Size, len(filtered))
	to := min(from+p.Size, len(filtered))

	return filtered[from:to], nil
}

// GetByUserAndMedia returns the single row for (userID, mediaID).
// Absence surfaces as models.ErrNotFound.
func (s *Service) GetByUserAndMedia(ctx context.Context, userID, mediaID uuid.UUID) (*models.UserMediaStatus, error) {
	if userID == uuid.Nil || mediaID == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	return s.repo.GetByUserAndMedia(ctx, userID, mediaID)
}

type UpsertParams struct {
	MediaID    uuid.UUID
	Status     models.Status
	Rating     *int
	ReviewText *string
}

// Upsert creates the row for (userID, MediaID) or updates the
// existing one. Omitted optional fields keep their stored values;
// created_at is set once and never touched again.
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, p UpsertParams) (*models.UserMediaStatus, error) {
	if userID == uuid.Nil || p.MediaID == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if !p.Status.Valid() {
		return nil, models.ErrInvalidArgument
	}
	if err := validateRating(p.Rating); err != nil {
		return nil, err
	}

	if s.catalog != nil {
		ok, err := s.catalog.Exists(ctx, p.MediaID)
		if err != nil {
			return nil, fmt.Errorf("catalog exists %s: %w", p.MediaID, err)
		}
		if !ok {
			return nil, models.ErrNotFound
		}
	}

	existing, err := s.repo.GetByUserAndMedia(ctx, userID, p.MediaID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	now := s.clock()

	var (
		rec  *models.UserMediaStatus
		from *models.Status
	)
	if existing == nil {
		rec = &models.UserMediaStatus{
			ID:        s.idGen(),
			UserID:    userID,
			MediaID:   p.MediaID,
			Status:    p.Status,
			Rating:    p.Rating,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if p.ReviewText != nil {
			rec.ReviewText = *p.ReviewText
		}
	} else {
		cp := *existing
		rec = &cp
		rec.Status = p.Status
		if p.Rating != nil {
			rec.Rating = p.Rating
		}
		if p.ReviewText != nil {
			rec.ReviewText = *p.ReviewText
		}
		rec.UpdatedAt = now
		from = &existing.Status
	}

	return s.saveRecordingEvent(ctx, rec, from)
}

type UpdateParams struct {
	Status     models.Status // "" = keep stored value
	Rating     *int
	ReviewText *string
}

// Update applies the same partial merge as Upsert but never creates:
// a missing row is models.ErrNotFound.
func (s *Service) Update(ctx context.Context, userID, mediaID uuid.UUID, p UpdateParams) (*models.UserMediaStatus, error) {
	if userID == uuid.Nil || mediaID == uuid.Nil {
		return nil, models.ErrInvalidArgument
	}
	if p.Status != "" && !p.Status.Valid() {
		return nil, models.ErrInvalidArgument
	}
	if err := validateRating(p.Rating); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserAndMedia(ctx, userID, mediaID)
	if err != nil {
		return nil, err
	}

	cp := *existing
	rec := &cp
	if p.Status != "" {
		rec.Status = p.Status
	}
	if p.Rating != nil {
		rec.Rating = p.Rating
	}
	if p.ReviewText != nil {
		rec.ReviewText = *p.ReviewText
	}
	rec.UpdatedAt = s.clock()

	return s.saveRecordingEvent(ctx, rec, &existing.Status)
}

// Delete removes the row for (userID, mediaID). A missing row is not
// an error: the result is false.
func (s *Service) Delete(ctx context.Context, userID, mediaID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || mediaID == uuid.Nil {
		return false, models.ErrInvalidArgument
	}

	existing, err := s.repo.GetByUserAndMedia(ctx, userID, mediaID)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	ts, txOK := s.repo.(txStore)
	if s.outbox == nil || !txOK {
		return s.repo.Delete(ctx, userID, mediaID)
	}

	tx, err := ts.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	deleted, err := ts.DeleteTx(ctx, tx, userID, mediaID)
	if err != nil {
		return false, err
	}
	if deleted {
		evt := models.NewStatusDeleted(existing.ID, userID, mediaID)
		if err := s.outbox.Add(ctx, tx, evt); err != nil {
			return false, fmt.Errorf("add outbox: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return deleted, nil
}

// saveRecordingEvent persists the row and, when the store can give us
// a transaction, records the upsert event in the outbox atomically.
// Stores without transactions (memory) still persist; they just emit
// nothing.
func (s *Service) saveRecordingEvent(ctx context.Context, rec *models.UserMediaStatus, from *models.Status) (*models.UserMediaStatus, error) {
	ts, txOK := s.repo.(txStore)
	if s.outbox == nil || !txOK {
		if s.outbox != nil && !txOK {
			s.logger.Warn().Msg("status store has no tx support, skipping event recording")
		}
		return s.repo.Save(ctx, rec)
	}

	tx, err := ts.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	saved, err := ts.SaveTx(ctx, tx, rec)
	if err != nil {
		return nil, err
	}

	evt := models.NewStatusUpserted(saved.ID, saved.UserID, saved.MediaID, from, saved.Status)
	if err := s.outbox.Add(ctx, tx, evt); err != nil {
		return nil, fmt.Errorf("add outbox: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return saved, nil
}

func validateRating(r *int) error {
	if r != nil && (*r < 1 || *r > 5) {
		return models.ErrInvalidArgument
	}
	return nil
}

// parseSort splits "<field>,<direction>". Direction defaults to desc
// whenever it is omitted, matching the HTTP default "updatedAt,desc".
func parseSort(spec string) (field string, desc bool) {
	parts := strings.SplitN(spec, ",", 2)

	field = "updatedAt"
	if strings.TrimSpace(parts[0]) != "" {
		field = strings.TrimSpace(parts[0])
	}

	dir := "desc"
	if len(parts) > 1 {
		dir = strings.TrimSpace(parts[1])
	}
	return field, strings.EqualFold(dir, "desc")
}

func sortRows(rows []models.UserMediaStatus, field string, desc bool) {
	sort.Slice(rows, func(i, j int) bool {
		c := compareRows(&rows[i], &rows[j], field)
		if desc {
			c = -c
		}
		if c == 0 {
			// Детерминированный tie-break по id.
			return bytes.Compare(rows[i].ID[:], rows[j].ID[:]) < 0
		}
		return c < 0
	})
}

func compareRows(a, b *models.UserMediaStatus, field string) int {
	switch field {
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "rating":
		return cmp.Compare(ratingOrMin(a), ratingOrMin(b))
	case "status":
		return strings.Compare(string(a.Status), string(b.Status))
	default:
		// updatedAt и любое неизвестное поле.
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
}

// Absent rating sorts as the minimum possible value.
func ratingOrMin(rec *models.UserMediaStatus) int {
	if rec.Rating == nil {
		return math.MinInt
	}
	return *rec.Rating
}
