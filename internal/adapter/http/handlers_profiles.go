package adapthttp

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"anonq/internal/domain"
	"anonq/internal/listview"
)

// publicProfile is the shape exposed on unauthenticated routes. The owning
// user id stays private.
type publicProfile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt string    `json:"createdAt"`
}

func toPublic(p domain.Profile) publicProfile {
	return publicProfile{
		ID:        p.ID,
		Username:  p.Username,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *Server) handleProfileLookup(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profiles.GetByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPublic(*profile))
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// handleSendMessage accepts a message for the named profile. Anonymous by
// default; the sender identity is attached only when a valid session cookie
// accompanies the request.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profiles.GetByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req sendMessageRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, &domain.ValidationError{Field: "content", Reason: "must be 1-1000 characters"})
		return
	}

	var senderID *uuid.UUID
	if user := s.sessionUser(r); user != nil {
		senderID = &user.ID
	}

	msg, err := s.messages.Send(r.Context(), profile.ID, req.Content, senderID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleUserDirectory(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.profiles.Directory(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	page := listview.Users(profiles,
		r.URL.Query().Get("q"),
		listview.ParseUserSort(r.URL.Query().Get("sort")),
		intQuery(r, "page", 1))

	items := make([]publicProfile, len(page.Items))
	for i, p := range page.Items {
		items[i] = toPublic(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"page":       page.Index,
		"totalPages": page.TotalPages,
		"totalItems": page.TotalItems,
	})
}
