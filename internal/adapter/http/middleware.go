package adapthttp

import (
	"context"
	"log"
	"net/http"

	"anonq/internal/app"
	"anonq/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// authMiddleware validates the session cookie and attaches the user to the
// request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if disabled (for tests)
		if s.disableAuth {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie("session")
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
			return
		}

		user, err := s.auth.ValidateSession(r.Context(), cookie.Value)
		if err == app.ErrSessionNotFound || err == app.ErrSessionExpired {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
			return
		}
		if err != nil {
			s.writeDomainError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the authenticated user attached by authMiddleware, or
// nil when auth is disabled.
func currentUser(r *http.Request) *domain.User {
	u, _ := r.Context().Value(userContextKey).(*domain.User)
	return u
}

// sessionUser resolves the session cookie on a public route, returning nil
// for anonymous callers. Invalid or expired sessions are treated as
// anonymous, not as errors.
func (s *Server) sessionUser(r *http.Request) *domain.User {
	cookie, err := r.Cookie("session")
	if err != nil {
		return nil
	}
	user, err := s.auth.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return user
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs method, path, and response status for API requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d", r.Method, r.URL.Path, rec.status)
	})
}
