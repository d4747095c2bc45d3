package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"anonq/internal/app"
	"anonq/internal/domain"
)

func TestSend_RejectsEmptyContent(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := app.NewMessageService(repo, nil)

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"spaces only", "   "},
		{"tabs and newlines", "\t\n  \n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Send(context.Background(), uuid.New(), tc.content, nil)
			if !domain.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
	if repo.insertCalls != 0 {
		t.Fatalf("expected no inserts, got %d", repo.insertCalls)
	}
}

func TestSend_RejectsOverlongContent(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := app.NewMessageService(repo, nil)

	long := make([]byte, domain.MaxContentLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := svc.Send(context.Background(), uuid.New(), string(long), nil); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if repo.insertCalls != 0 {
		t.Fatal("expected no insert for overlong content")
	}
}

func TestSend_TrimsAndAttachesSender(t *testing.T) {
	profileID := uuid.New()
	senderID := uuid.New()
	repo := &mockMessageRepo{
		insertFn: func(_ context.Context, pid uuid.UUID, content string, sid *uuid.UUID) (*domain.Message, error) {
			if pid != profileID {
				t.Fatalf("wrong profile: %v", pid)
			}
			if content != "hello there" {
				t.Fatalf("content not trimmed: %q", content)
			}
			if sid == nil || *sid != senderID {
				t.Fatalf("sender not attached: %v", sid)
			}
			return &domain.Message{ID: uuid.New(), ProfileID: pid, Content: content, SenderID: sid}, nil
		},
	}
	svc := app.NewMessageService(repo, nil)

	msg, err := svc.Send(context.Background(), profileID, "  hello there  ", &senderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg == nil {
		t.Fatal("expected a message")
	}
}

func TestMarkAsRead_IsIdempotent(t *testing.T) {
	profileID := uuid.New()
	messageID := uuid.New()
	read := false
	repo := &mockMessageRepo{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*domain.Message, error) {
			return &domain.Message{ID: id, ProfileID: profileID, IsRead: read}, nil
		},
		markReadFn: func(_ context.Context, _, _ uuid.UUID) error {
			read = true
			return nil
		},
	}
	svc := app.NewMessageService(repo, nil)

	if err := svc.MarkAsRead(context.Background(), profileID, messageID); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := svc.MarkAsRead(context.Background(), profileID, messageID); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if repo.markReadCalls != 1 {
		t.Fatalf("expected a single store update, got %d", repo.markReadCalls)
	}
}

func TestMarkAsRead_RequiresOwnership(t *testing.T) {
	repo := &mockMessageRepo{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*domain.Message, error) {
			return &domain.Message{ID: id, ProfileID: uuid.New()}, nil
		},
	}
	svc := app.NewMessageService(repo, nil)

	err := svc.MarkAsRead(context.Background(), uuid.New(), uuid.New())
	if !domain.IsAuthorization(err) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
	if repo.markReadCalls != 0 {
		t.Fatal("store must not be updated for a non-owner")
	}
}

func TestMarkAsRead_MissingMessage(t *testing.T) {
	svc := app.NewMessageService(&mockMessageRepo{}, nil)

	err := svc.MarkAsRead(context.Background(), uuid.New(), uuid.New())
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDelete_MissingIDIsNotAnError(t *testing.T) {
	svc := app.NewMessageService(&mockMessageRepo{}, nil)

	if err := svc.Delete(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_RequiresOwnership(t *testing.T) {
	repo := &mockMessageRepo{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*domain.Message, error) {
			return &domain.Message{ID: id, ProfileID: uuid.New()}, nil
		},
	}
	svc := app.NewMessageService(repo, nil)

	if err := svc.Delete(context.Background(), uuid.New(), uuid.New()); !domain.IsAuthorization(err) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}

func TestDeleteMany_ReportsRemovedCount(t *testing.T) {
	repo := &mockMessageRepo{
		deleteManyFn: func(_ context.Context, _ uuid.UUID, ids []uuid.UUID) (int64, error) {
			// One of the ids does not exist.
			return int64(len(ids) - 1), nil
		},
	}
	svc := app.NewMessageService(repo, nil)

	removed, err := svc.DeleteMany(context.Background(), uuid.New(), []uuid.UUID{uuid.New(), uuid.New(), uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
}

func TestDeleteMany_EmptyInputSkipsStore(t *testing.T) {
	called := false
	repo := &mockMessageRepo{
		deleteManyFn: func(_ context.Context, _ uuid.UUID, _ []uuid.UUID) (int64, error) {
			called = true
			return 0, nil
		},
	}
	svc := app.NewMessageService(repo, nil)

	removed, err := svc.DeleteMany(context.Background(), uuid.New(), nil)
	if err != nil || removed != 0 {
		t.Fatalf("expected 0, nil; got %d, %v", removed, err)
	}
	if called {
		t.Fatal("store must not be called for an empty id list")
	}
}

func TestStoreFailuresWrapAsPersistence(t *testing.T) {
	boom := errors.New("connection refused")
	repo := &mockMessageRepo{
		listFn: func(_ context.Context, _ uuid.UUID) ([]domain.Message, error) {
			return nil, boom
		},
	}
	svc := app.NewMessageService(repo, nil)

	_, err := svc.List(context.Background(), uuid.New())
	var pe *domain.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatal("cause must be preserved for diagnostics")
	}
}
