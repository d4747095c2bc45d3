package app_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"anonq/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock repositories (function-fields pattern)
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	createFn     func(ctx context.Context, email, passwordHash string) (*domain.User, error)

	createCalls int
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, email, passwordHash)
	}
	return &domain.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}, nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	getByTokenFn func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn     func(ctx context.Context, token string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error { return nil }

type mockProfileRepo struct {
	getByUserIDFn   func(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	getByUsernameFn func(ctx context.Context, username string) (*domain.Profile, error)
	createFn        func(ctx context.Context, userID uuid.UUID, username string) (*domain.Profile, error)
	listFn          func(ctx context.Context) ([]domain.Profile, error)

	lookupCalls int
	createCalls int
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	m.lookupCalls++
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	m.lookupCalls++
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockProfileRepo) Create(ctx context.Context, userID uuid.UUID, username string) (*domain.Profile, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, userID, username)
	}
	now := time.Now()
	return &domain.Profile{ID: uuid.New(), UserID: userID, Username: username, CreatedAt: now, UpdatedAt: now}, nil
}

func (m *mockProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockMessageRepo struct {
	listFn        func(ctx context.Context, profileID uuid.UUID) ([]domain.Message, error)
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	insertFn      func(ctx context.Context, profileID uuid.UUID, content string, senderID *uuid.UUID) (*domain.Message, error)
	markReadFn    func(ctx context.Context, profileID, messageID uuid.UUID) error
	markAllReadFn func(ctx context.Context, profileID uuid.UUID) error
	deleteFn      func(ctx context.Context, profileID, messageID uuid.UUID) error
	deleteManyFn  func(ctx context.Context, profileID uuid.UUID, messageIDs []uuid.UUID) (int64, error)
	statsFn       func(ctx context.Context, profileID uuid.UUID) (*domain.MessageStats, error)

	insertCalls   int
	markReadCalls int
}

func (m *mockMessageRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Message, error) {
	if m.listFn != nil {
		return m.listFn(ctx, profileID)
	}
	return nil, nil
}

func (m *mockMessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockMessageRepo) Insert(ctx context.Context, profileID uuid.UUID, content string, senderID *uuid.UUID) (*domain.Message, error) {
	m.insertCalls++
	if m.insertFn != nil {
		return m.insertFn(ctx, profileID, content, senderID)
	}
	return &domain.Message{ID: uuid.New(), ProfileID: profileID, Content: content, CreatedAt: time.Now(), SenderID: senderID}, nil
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, profileID, messageID uuid.UUID) error {
	m.markReadCalls++
	if m.markReadFn != nil {
		return m.markReadFn(ctx, profileID, messageID)
	}
	return nil
}

func (m *mockMessageRepo) MarkAllRead(ctx context.Context, profileID uuid.UUID) error {
	if m.markAllReadFn != nil {
		return m.markAllReadFn(ctx, profileID)
	}
	return nil
}

func (m *mockMessageRepo) Delete(ctx context.Context, profileID, messageID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, profileID, messageID)
	}
	return nil
}

func (m *mockMessageRepo) DeleteMany(ctx context.Context, profileID uuid.UUID, messageIDs []uuid.UUID) (int64, error) {
	if m.deleteManyFn != nil {
		return m.deleteManyFn(ctx, profileID, messageIDs)
	}
	return int64(len(messageIDs)), nil
}

func (m *mockMessageRepo) Stats(ctx context.Context, profileID uuid.UUID) (*domain.MessageStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, profileID)
	}
	return &domain.MessageStats{}, nil
}
