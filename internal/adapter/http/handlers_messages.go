package adapthttp

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"anonq/internal/domain"
	"anonq/internal/listview"
	"anonq/internal/snapshot"
)

// ownerProfile resolves the authenticated caller's profile. Writes the error
// response itself and returns nil when the caller has no profile yet.
func (s *Server) ownerProfile(w http.ResponseWriter, r *http.Request) *domain.Profile {
	user := currentUser(r)
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return nil
	}
	profile, err := s.profiles.CurrentProfile(r.Context(), user.ID)
	if err != nil {
		s.writeDomainError(w, err)
		return nil
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, &domain.NotFoundError{Entity: "profile"})
		return nil
	}
	return profile
}

func (s *Server) handleCurrentProfile(w http.ResponseWriter, r *http.Request) {
	profile := s.ownerProfile(w, r)
	if profile == nil {
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	profile := s.ownerProfile(w, r)
	if profile == nil {
		return
	}

	msgs, err := s.messages.List(r.Context(), profile.ID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	page := listview.Messages(msgs,
		listview.ParseMessageFilter(r.URL.Query().Get("filter")),
		listview.ParseMessageSort(r.URL.Query().Get("sort")),
		intQuery(r, "page", 1))
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleMessageStats(w http.ResponseWriter, r *http.Request) {
	profile := s.ownerProfile(w, r)
	if profile == nil {
		return
	}

	stats, err := s.messages.Stats(r.Context(), profile.ID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	profile := s.ownerProfile(w, r)
	if profile == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, &domain.ValidationError{Field: "id", Reason: "must be a uuid"})
		return
	}

	if err := s.messages.MarkAsRead(r.Context(), profile.ID, id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	profile := s.ownerProfile(w, r)
	if profile == nil {
		return
	}

	if err := s.messages.MarkAllAsRead(r.Context(), profile.ID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	profile := s.ownerProfile(w, r)
	if profile == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, &domain.ValidationError{Field: "id", Reason: "must be a uuid"})
		return
	}

	if err := s.messages.Delete(r.Context(), profile.ID, id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	profile := s.ownerProfile(w, r)
	if profile == nil {
		return
	}
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	removed, err := s.messages.DeleteMany(r.Context(), profile.ID, req.IDs)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": removed})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	profile := s.ownerProfile(w, r)
	if profile == nil {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, &domain.ValidationError{Field: "id", Reason: "must be a uuid"})
		return
	}

	msgs, err := s.messages.List(r.Context(), profile.ID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	var msg *domain.Message
	for i := range msgs {
		if msgs[i].ID == id {
			msg = &msgs[i]
			break
		}
	}
	if msg == nil {
		writeError(w, http.StatusNotFound, &domain.NotFoundError{Entity: "message"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="message.png"`)
	if err := snapshot.WriteCard(w, *msg, profile.Username); err != nil {
		s.log.Error("snapshot render failed", "err", err)
	}
}
