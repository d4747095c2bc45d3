package domain

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Profile is a user's public anonymous-messaging identity, keyed by a unique
// username. Exactly one profile exists per user.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidUsername reports whether name contains only letters, digits,
// underscores, and hyphens, and is non-empty.
func ValidUsername(name string) bool {
	return usernameRe.MatchString(name)
}

// ProfileRepository is the port for profile persistence.
//
// Lookups return (nil, nil) when no row matches; callers decide whether
// absence is an error.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	GetByUsername(ctx context.Context, username string) (*Profile, error)
	Create(ctx context.Context, userID uuid.UUID, username string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
}
