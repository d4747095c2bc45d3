package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"anonq/internal/domain"
	"anonq/internal/realtime"
)

// MessageService encapsulates the message use cases: send, list, stats,
// read-state changes, and deletion. Every mutation publishes a change event
// scoped to the affected profile so cached views re-fetch.
type MessageService struct {
	repo domain.MessageRepository
	hub  *realtime.Hub
}

// NewMessageService creates a MessageService backed by the given repository.
// hub may be nil when no realtime fanout is wanted (tests).
func NewMessageService(repo domain.MessageRepository, hub *realtime.Hub) *MessageService {
	return &MessageService{repo: repo, hub: hub}
}

// List returns all messages addressed to the profile, newest first.
func (s *MessageService) List(ctx context.Context, profileID uuid.UUID) ([]domain.Message, error) {
	msgs, err := s.repo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "message list", Err: err}
	}
	return msgs, nil
}

// Stats returns the server-computed aggregate for the profile.
func (s *MessageService) Stats(ctx context.Context, profileID uuid.UUID) (*domain.MessageStats, error) {
	stats, err := s.repo.Stats(ctx, profileID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "message stats", Err: err}
	}
	return stats, nil
}

// Send validates and stores a message addressed to profileID. senderID is nil
// for anonymous submissions.
func (s *MessageService) Send(ctx context.Context, profileID uuid.UUID, content string, senderID *uuid.UUID) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &domain.ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if len(content) > domain.MaxContentLength {
		return nil, &domain.ValidationError{Field: "content", Reason: "too long"}
	}

	msg, err := s.repo.Insert(ctx, profileID, content, senderID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "message insert", Err: err}
	}

	s.publish(realtime.EventInsert, profileID)
	return msg, nil
}

// MarkAsRead flags one message as read. Only the owning profile may do this;
// marking an already-read message is a no-op.
func (s *MessageService) MarkAsRead(ctx context.Context, ownerProfileID, messageID uuid.UUID) error {
	msg, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		return &domain.PersistenceError{Op: "message lookup", Err: err}
	}
	if msg == nil {
		return &domain.NotFoundError{Entity: "message"}
	}
	if msg.ProfileID != ownerProfileID {
		return &domain.AuthorizationError{}
	}
	if msg.IsRead {
		return nil
	}

	if err := s.repo.MarkRead(ctx, ownerProfileID, messageID); err != nil {
		return &domain.PersistenceError{Op: "message update", Err: err}
	}
	s.publish(realtime.EventUpdate, ownerProfileID)
	return nil
}

// MarkAllAsRead flags every unread message of the profile as read.
func (s *MessageService) MarkAllAsRead(ctx context.Context, profileID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, profileID); err != nil {
		return &domain.PersistenceError{Op: "message update", Err: err}
	}
	s.publish(realtime.EventUpdate, profileID)
	return nil
}

// Delete removes one message owned by the profile. A missing id is not an
// error, but a message owned by another profile is.
func (s *MessageService) Delete(ctx context.Context, ownerProfileID, messageID uuid.UUID) error {
	msg, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		return &domain.PersistenceError{Op: "message lookup", Err: err}
	}
	if msg != nil && msg.ProfileID != ownerProfileID {
		return &domain.AuthorizationError{}
	}

	if err := s.repo.Delete(ctx, ownerProfileID, messageID); err != nil {
		return &domain.PersistenceError{Op: "message delete", Err: err}
	}
	s.publish(realtime.EventDelete, ownerProfileID)
	return nil
}

// DeleteMany removes the given messages owned by the profile and reports how
// many rows were removed. Missing ids are skipped silently.
func (s *MessageService) DeleteMany(ctx context.Context, ownerProfileID uuid.UUID, messageIDs []uuid.UUID) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	removed, err := s.repo.DeleteMany(ctx, ownerProfileID, messageIDs)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "message delete", Err: err}
	}
	if removed > 0 {
		s.publish(realtime.EventDelete, ownerProfileID)
	}
	return removed, nil
}

func (s *MessageService) publish(t realtime.EventType, profileID uuid.UUID) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(realtime.Event{Type: t, Table: realtime.TableMessages, ProfileID: profileID})
}
