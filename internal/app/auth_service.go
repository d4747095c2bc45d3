// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"anonq/internal/domain"
)

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrEmailTaken indicates that an account already exists for the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken indicates that the chosen username is already in use.
	ErrUsernameTaken = errors.New("username already taken")
)

const sessionTTL = 24 * time.Hour

// AuthService handles sign-up, sign-in, and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	profiles domain.ProfileRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, profiles domain.ProfileRepository) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		profiles: profiles,
	}
}

// SignUp creates a user and their profile. The username is validated before
// any store access.
func (s *AuthService) SignUp(ctx context.Context, email, password, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &domain.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if !domain.ValidUsername(username) {
		return nil, &domain.ValidationError{Field: "username", Reason: "may only contain letters, numbers, underscores, and hyphens"}
	}

	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.profiles.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return nil, err
	}
	if _, err := s.profiles.Create(ctx, user.ID, username); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn authenticates a user and creates a session, returning its token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.createSession(ctx, user.ID)
}

// SignOut invalidates a session.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks a session token and resolves its user.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// LoginWithUser creates a session for an identity already authenticated
// upstream (SSO). Missing accounts are auto-provisioned with a username
// derived from the email local part.
func (s *AuthService) LoginWithUser(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		user, err = s.users.Create(ctx, email, "")
		if err != nil {
			// Creation may have raced another login; try the lookup again.
			user, err = s.users.GetByEmail(ctx, email)
			if err != nil || user == nil {
				return "", err
			}
		}
		if _, err := s.profiles.Create(ctx, user.ID, usernameFromEmail(email)); err != nil {
			return "", err
		}
	}

	return s.createSession(ctx, user.ID)
}

func (s *AuthService) createSession(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, userID, token, time.Now().Add(sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// usernameFromEmail maps an email to a valid username candidate.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
