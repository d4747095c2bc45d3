package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"anonq/internal/domain"
)

const messageColumns = "id, profile_id, content, is_read, created_at, sender_id"

// MessageRepo implements message repository operations on DB.
type MessageRepo struct {
	db *DB
}

// NewMessageRepo wraps a DB as a MessageRepository.
func NewMessageRepo(db *DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// ListByProfile returns all messages addressed to the profile, newest first.
func (r *MessageRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Message, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE profile_id = $1 ORDER BY created_at DESC, id",
		profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// GetByID retrieves one message.
func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	m, err := scanMessage(r.db.sql.QueryRowContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE id = $1", id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Insert stores a new message addressed to profileID.
func (r *MessageRepo) Insert(ctx context.Context, profileID uuid.UUID, content string, senderID *uuid.UUID) (*domain.Message, error) {
	m, err := scanMessage(r.db.sql.QueryRowContext(ctx,
		"INSERT INTO messages (id, profile_id, content, is_read, created_at, sender_id) VALUES ($1, $2, $3, FALSE, $4, $5) RETURNING "+messageColumns,
		uuid.New(), profileID, content, time.Now().UTC(), senderID).Scan)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// MarkRead flags one message as read, scoped to the owning profile.
func (r *MessageRepo) MarkRead(ctx context.Context, profileID, messageID uuid.UUID) error {
	_, err := r.db.sql.ExecContext(ctx,
		"UPDATE messages SET is_read = TRUE WHERE id = $1 AND profile_id = $2",
		messageID, profileID)
	return err
}

// MarkAllRead flags every unread message of the profile as read.
func (r *MessageRepo) MarkAllRead(ctx context.Context, profileID uuid.UUID) error {
	_, err := r.db.sql.ExecContext(ctx,
		"UPDATE messages SET is_read = TRUE WHERE profile_id = $1 AND NOT is_read",
		profileID)
	return err
}

// Delete removes one message scoped to the owning profile.
func (r *MessageRepo) Delete(ctx context.Context, profileID, messageID uuid.UUID) error {
	_, err := r.db.sql.ExecContext(ctx,
		"DELETE FROM messages WHERE id = $1 AND profile_id = $2",
		messageID, profileID)
	return err
}

// DeleteMany removes the given messages scoped to the owning profile and
// returns the number of rows removed.
func (r *MessageRepo) DeleteMany(ctx context.Context, profileID uuid.UUID, messageIDs []uuid.UUID) (int64, error) {
	ids := make([]string, len(messageIDs))
	for i, id := range messageIDs {
		ids[i] = id.String()
	}
	res, err := r.db.sql.ExecContext(ctx,
		"DELETE FROM messages WHERE profile_id = $1 AND id = ANY($2::uuid[])",
		profileID, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats computes the aggregate counts for a profile in one query. Day and
// week boundaries come from domain.StatsBounds so every adapter agrees.
func (r *MessageRepo) Stats(ctx context.Context, profileID uuid.UUID) (*domain.MessageStats, error) {
	dayStart, weekStart := domain.StatsBounds(time.Now())

	var s domain.MessageStats
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE NOT is_read),
		        COUNT(*) FILTER (WHERE created_at >= $2),
		        COUNT(*) FILTER (WHERE created_at >= $3)
		 FROM messages WHERE profile_id = $1`,
		profileID, dayStart, weekStart,
	).Scan(&s.Total, &s.Unread, &s.Today, &s.ThisWeek)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanMessage(scan func(dest ...any) error) (*domain.Message, error) {
	var m domain.Message
	var sender uuid.NullUUID
	if err := scan(&m.ID, &m.ProfileID, &m.Content, &m.IsRead, &m.CreatedAt, &sender); err != nil {
		return nil, err
	}
	if sender.Valid {
		id := sender.UUID
		m.SenderID = &id
	}
	return &m, nil
}
