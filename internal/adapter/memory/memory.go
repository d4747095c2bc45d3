// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"anonq/internal/domain"
)

// DB holds the shared in-memory state behind the per-entity repos.
type DB struct {
	mu       sync.Mutex
	users    []*domain.User
	profiles []*domain.Profile
	messages []*domain.Message
	sessions map[string]*domain.Session

	// Now supplies the current time for stats boundaries; tests override it.
	Now func() time.Time
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
		Now:      time.Now,
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*UserRepo)(nil)
var _ domain.ProfileRepository = (*ProfileRepo)(nil)
var _ domain.MessageRepository = (*MessageRepo)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// UserRepo implements domain.UserRepository on DB.
type UserRepo struct{ db *DB }

// NewUserRepo wraps a DB as a UserRepository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.db.users = append(r.db.users, u)
	c := *u
	return &c, nil
}

// ProfileRepo implements domain.ProfileRepository on DB.
type ProfileRepo struct{ db *DB }

// NewProfileRepo wraps a DB as a ProfileRepository.
func NewProfileRepo(db *DB) *ProfileRepo { return &ProfileRepo{db: db} }

// GetByUserID retrieves the profile owned by a user.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.profiles {
		if p.UserID == userID {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

// GetByUsername retrieves a profile by exact username.
func (r *ProfileRepo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.profiles {
		if p.Username == username {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

// Create creates a new profile for a user.
func (r *ProfileRepo) Create(ctx context.Context, userID uuid.UUID, username string) (*domain.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now().UTC()
	p := &domain.Profile{
		ID:        uuid.New(),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.db.profiles = append(r.db.profiles, p)
	c := *p
	return &c, nil
}

// List returns every profile, newest first.
func (r *ProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]domain.Profile, 0, len(r.db.profiles))
	for _, p := range r.db.profiles {
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// MessageRepo implements domain.MessageRepository on DB.
type MessageRepo struct{ db *DB }

// NewMessageRepo wraps a DB as a MessageRepository.
func NewMessageRepo(db *DB) *MessageRepo { return &MessageRepo{db: db} }

// ListByProfile returns the profile's messages, newest first.
func (r *MessageRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Message
	for _, m := range r.db.messages {
		if m.ProfileID == profileID {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetByID retrieves one message.
func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.messages {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

// Insert stores a new message.
func (r *MessageRepo) Insert(ctx context.Context, profileID uuid.UUID, content string, senderID *uuid.UUID) (*domain.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m := &domain.Message{
		ID:        uuid.New(),
		ProfileID: profileID,
		Content:   content,
		CreatedAt: r.db.Now().UTC(),
		SenderID:  senderID,
	}
	r.db.messages = append(r.db.messages, m)
	c := *m
	return &c, nil
}

// MarkRead flags one message as read, scoped to the owning profile.
func (r *MessageRepo) MarkRead(ctx context.Context, profileID, messageID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.messages {
		if m.ID == messageID && m.ProfileID == profileID {
			m.IsRead = true
		}
	}
	return nil
}

// MarkAllRead flags every unread message of the profile as read.
func (r *MessageRepo) MarkAllRead(ctx context.Context, profileID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.messages {
		if m.ProfileID == profileID {
			m.IsRead = true
		}
	}
	return nil
}

// Delete removes one message scoped to the owning profile.
func (r *MessageRepo) Delete(ctx context.Context, profileID, messageID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.deleteLocked(profileID, messageID)
	return nil
}

// DeleteMany removes the given messages and reports how many were removed.
func (r *MessageRepo) DeleteMany(ctx context.Context, profileID uuid.UUID, messageIDs []uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var removed int64
	for _, id := range messageIDs {
		if r.db.deleteLocked(profileID, id) {
			removed++
		}
	}
	return removed, nil
}

func (db *DB) deleteLocked(profileID, messageID uuid.UUID) bool {
	for i, m := range db.messages {
		if m.ID == messageID && m.ProfileID == profileID {
			db.messages = append(db.messages[:i], db.messages[i+1:]...)
			return true
		}
	}
	return false
}

// Stats computes the aggregate counts using domain.StatsBounds.
func (r *MessageRepo) Stats(ctx context.Context, profileID uuid.UUID) (*domain.MessageStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	dayStart, weekStart := domain.StatsBounds(r.db.Now())

	var s domain.MessageStats
	for _, m := range r.db.messages {
		if m.ProfileID != profileID {
			continue
		}
		s.Total++
		if !m.IsRead {
			s.Unread++
		}
		if !m.CreatedAt.Before(dayStart) {
			s.Today++
		}
		if !m.CreatedAt.Before(weekStart) {
			s.ThisWeek++
		}
	}
	return &s, nil
}

// SessionRepo implements domain.SessionRepository on DB.
type SessionRepo struct{ db *DB }

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo { return &SessionRepo{db: db} }

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[token]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for token, s := range r.db.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.db.sessions, token)
		}
	}
	return nil
}
