package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/onemed1a/backend/internal/users/models"
)

const pgUniqueViolation = "23505"

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, email, display_name, avatar_url, active, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	const q = `
		INSERT INTO users (id, email, display_name, avatar_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, q,
		u.ID, u.Email, u.DisplayName, u.AvatarURL, u.Active, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.ErrConflict
		}
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	var u models.User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("user get by id: %w", err)
	}

	return &u, nil
}

func (r *UserRepo) Update(ctx context.Context, u *models.User) (*models.User, error) {
	// email и created_at не трогаем: они выставляются один раз при создании.
	const q = `
		UPDATE users
		SET display_name = $2, avatar_url = $3, active = $4, updated_at = $5
		WHERE id = $1
		RETURNING ` + userColumns

	var out models.User
	if err := r.db.GetContext(ctx, &out, q, u.ID, u.DisplayName, u.AvatarURL, u.Active, u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("user update: %w", err)
	}

	return &out, nil
}
