package app_test

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"anonq/internal/app"
	"anonq/internal/domain"

	"github.com/google/uuid"
)

func TestSignUp_RejectsInvalidUsernameBeforeStoreAccess(t *testing.T) {
	users := &mockUserRepo{}
	profiles := &mockProfileRepo{}
	svc := app.NewAuthService(users, &mockSessionRepo{}, profiles)

	tests := []struct {
		name     string
		username string
	}{
		{"contains space", "abc def"},
		{"empty", ""},
		{"whitespace only", "   "},
		{"punctuation", "ab!cd"},
		{"unicode", "héllo"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SignUp(context.Background(), "a@example.com", "password123", tc.username)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !domain.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	if users.createCalls != 0 || profiles.createCalls != 0 || profiles.lookupCalls != 0 {
		t.Fatalf("store was accessed for invalid input: users=%d profiles=%d lookups=%d",
			users.createCalls, profiles.createCalls, profiles.lookupCalls)
	}
}

func TestSignUp_CreatesUserAndProfile(t *testing.T) {
	users := &mockUserRepo{}
	profiles := &mockProfileRepo{}
	svc := app.NewAuthService(users, &mockSessionRepo{}, profiles)

	user, err := svc.SignUp(context.Background(), "a@example.com", "password123", "alice_w-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected a user")
	}
	if users.createCalls != 1 {
		t.Fatalf("expected 1 user create, got %d", users.createCalls)
	}
	if profiles.createCalls != 1 {
		t.Fatalf("expected 1 profile create, got %d", profiles.createCalls)
	}
}

func TestSignUp_RejectsTakenUsername(t *testing.T) {
	profiles := &mockProfileRepo{
		getByUsernameFn: func(_ context.Context, username string) (*domain.Profile, error) {
			return &domain.Profile{ID: uuid.New(), Username: username}, nil
		},
	}
	svc := app.NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, profiles)

	_, err := svc.SignUp(context.Background(), "a@example.com", "password123", "taken")
	if err != app.ErrUsernameTaken {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	users := &mockUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email == "a@example.com" {
				return &domain.User{ID: uuid.New(), Email: email, PasswordHash: string(hash)}, nil
			}
			return nil, nil
		},
	}
	svc := app.NewAuthService(users, &mockSessionRepo{}, &mockProfileRepo{})

	if _, err := svc.SignIn(context.Background(), "a@example.com", "wrong"); err != app.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(context.Background(), "nobody@example.com", "whatever"); err != app.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignIn_CreatesSession(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	userID := uuid.New()
	users := &mockUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: userID, Email: email, PasswordHash: string(hash)}, nil
		},
	}
	var gotUser uuid.UUID
	var gotExpiry time.Time
	sessions := &mockSessionRepo{
		createFn: func(_ context.Context, uid uuid.UUID, token string, expiresAt time.Time) error {
			gotUser = uid
			gotExpiry = expiresAt
			return nil
		},
	}
	svc := app.NewAuthService(users, sessions, &mockProfileRepo{})

	token, err := svc.SignIn(context.Background(), "a@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if gotUser != userID {
		t.Fatalf("session created for wrong user: %v", gotUser)
	}
	if time.Until(gotExpiry) < 23*time.Hour {
		t.Fatalf("session expiry too short: %v", gotExpiry)
	}
}

func TestValidateSession_ExpiredIsDeleted(t *testing.T) {
	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(_ context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}, nil
		},
		deleteFn: func(_ context.Context, token string) error {
			deleted = true
			return nil
		},
	}
	svc := app.NewAuthService(&mockUserRepo{}, sessions, &mockProfileRepo{})

	if _, err := svc.ValidateSession(context.Background(), "tok"); err != app.ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Fatal("expected expired session to be deleted")
	}
}

func TestLoginWithUser_AutoProvisions(t *testing.T) {
	users := &mockUserRepo{}
	profiles := &mockProfileRepo{
		createFn: func(_ context.Context, userID uuid.UUID, username string) (*domain.Profile, error) {
			if username != "jane_doe" {
				t.Fatalf("unexpected derived username: %q", username)
			}
			return &domain.Profile{ID: uuid.New(), UserID: userID, Username: username}, nil
		},
	}
	svc := app.NewAuthService(users, &mockSessionRepo{}, profiles)

	token, err := svc.LoginWithUser(context.Background(), "jane.doe@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if users.createCalls != 1 || profiles.createCalls != 1 {
		t.Fatalf("expected auto-provisioning, got users=%d profiles=%d", users.createCalls, profiles.createCalls)
	}
}
