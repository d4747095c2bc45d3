package app

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"anonq/internal/domain"
	"anonq/internal/realtime"
)

// ProfileService resolves profiles, caching the current-user lookup per
// identity. The cache is advisory: it is dropped on any profile-row change
// published for that identity and overwritten by the next read.
type ProfileService struct {
	repo domain.ProfileRepository
	hub  *realtime.Hub

	mu      sync.Mutex
	byUser  map[uuid.UUID]*domain.Profile
	watches map[uuid.UUID]*realtime.Subscription
}

// NewProfileService creates a ProfileService backed by the given repository.
// hub may be nil when no realtime invalidation is wanted (tests).
func NewProfileService(repo domain.ProfileRepository, hub *realtime.Hub) *ProfileService {
	return &ProfileService{
		repo:    repo,
		hub:     hub,
		byUser:  make(map[uuid.UUID]*domain.Profile),
		watches: make(map[uuid.UUID]*realtime.Subscription),
	}
}

// CurrentProfile returns the profile owned by userID, or nil if the user has
// not created one yet. Results are cached per user until invalidated.
func (s *ProfileService) CurrentProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	s.mu.Lock()
	if p, ok := s.byUser[userID]; ok {
		s.mu.Unlock()
		return p, nil
	}
	s.mu.Unlock()

	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "profile lookup", Err: err}
	}
	if p == nil {
		return nil, nil
	}

	s.mu.Lock()
	s.byUser[userID] = p
	if s.hub != nil {
		if _, ok := s.watches[userID]; !ok {
			sub := s.hub.Subscribe(realtime.TableProfiles, p.ID)
			s.watches[userID] = sub
			go s.watch(userID, sub)
		}
	}
	s.mu.Unlock()
	return p, nil
}

// watch drops the cached profile whenever its row changes.
func (s *ProfileService) watch(userID uuid.UUID, sub *realtime.Subscription) {
	for range sub.C {
		s.Invalidate(userID)
	}
}

// Invalidate drops the cached profile for userID.
func (s *ProfileService) Invalidate(userID uuid.UUID) {
	s.mu.Lock()
	delete(s.byUser, userID)
	s.mu.Unlock()
}

// Close stops all realtime watches.
func (s *ProfileService) Close() {
	s.mu.Lock()
	watches := make([]*realtime.Subscription, 0, len(s.watches))
	for _, sub := range s.watches {
		watches = append(watches, sub)
	}
	s.watches = make(map[uuid.UUID]*realtime.Subscription)
	s.mu.Unlock()

	for _, sub := range watches {
		sub.Stop()
	}
}

// GetByUsername resolves a profile by its exact, case-sensitive username.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	p, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "profile lookup", Err: err}
	}
	if p == nil {
		return nil, &domain.NotFoundError{Entity: "profile"}
	}
	return p, nil
}

// Directory lists every profile for the public user directory.
func (s *ProfileService) Directory(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "profile list", Err: err}
	}
	return profiles, nil
}
