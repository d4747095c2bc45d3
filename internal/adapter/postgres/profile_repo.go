package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"anonq/internal/domain"
)

const profileColumns = "id, user_id, username, full_name, avatar_url, created_at, updated_at"

// ProfileRepo implements profile repository operations on DB.
type ProfileRepo struct {
	db *DB
}

// NewProfileRepo wraps a DB as a ProfileRepository.
func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// GetByUserID retrieves the profile owned by a user.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return r.scanProfile(r.db.sql.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE user_id = $1", userID))
}

// GetByUsername retrieves a profile by its exact username.
func (r *ProfileRepo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return r.scanProfile(r.db.sql.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE username = $1", username))
}

// Create creates a new profile for a user.
func (r *ProfileRepo) Create(ctx context.Context, userID uuid.UUID, username string) (*domain.Profile, error) {
	now := time.Now().UTC()
	return r.scanProfile(r.db.sql.QueryRowContext(ctx,
		"INSERT INTO profiles (id, user_id, username, created_at, updated_at) VALUES ($1, $2, $3, $4, $4) RETURNING "+profileColumns,
		uuid.New(), userID, username, now))
}

// List returns every profile, newest first.
func (r *ProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT "+profileColumns+" FROM profiles ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.Username, &p.FullName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProfileRepo) scanProfile(row *sql.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.FullName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
