package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxContentLength bounds message content after trimming.
const MaxContentLength = 1000

// Message is a single anonymous (or optionally attributed) text submission
// addressed to a Profile.
type Message struct {
	ID        uuid.UUID  `json:"id"`
	ProfileID uuid.UUID  `json:"profileId"`
	Content   string     `json:"content"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
	SenderID  *uuid.UUID `json:"senderId,omitempty"`
}

// MessageStats are server-computed counts for a profile's messages. Derived,
// never persisted.
type MessageStats struct {
	Total    int `json:"totalMessages"`
	Unread   int `json:"unreadMessages"`
	Today    int `json:"messagesToday"`
	ThisWeek int `json:"messagesThisWeek"`
}

// MessageRepository is the port for message persistence.
type MessageRepository interface {
	// ListByProfile returns all messages addressed to the profile, newest
	// first by creation time.
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	Insert(ctx context.Context, profileID uuid.UUID, content string, senderID *uuid.UUID) (*Message, error)
	// MarkRead sets is_read on one message, scoped to the owning profile.
	// Marking an already-read message is a no-op.
	MarkRead(ctx context.Context, profileID, messageID uuid.UUID) error
	// MarkAllRead sets is_read on every unread message of the profile.
	MarkAllRead(ctx context.Context, profileID uuid.UUID) error
	// Delete removes one message scoped to the owning profile. Deleting a
	// missing id is not an error.
	Delete(ctx context.Context, profileID, messageID uuid.UUID) error
	// DeleteMany removes the given messages scoped to the owning profile and
	// returns the number of rows actually removed.
	DeleteMany(ctx context.Context, profileID uuid.UUID, messageIDs []uuid.UUID) (int64, error)
	Stats(ctx context.Context, profileID uuid.UUID) (*MessageStats, error)
}
