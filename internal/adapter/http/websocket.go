package adapthttp

import (
	"net/http"

	"github.com/gorilla/websocket"

	"anonq/internal/app"
	"anonq/internal/domain"
)

// wsEvent is pushed to a connected dashboard whenever its cached view
// changes.
type wsEvent struct {
	Type        string               `json:"type"`
	UnreadCount int                  `json:"unreadCount"`
	Stats       *domain.MessageStats `json:"stats,omitempty"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// CORS is enforced by the outer middleware; same-origin browsers
			// send no Origin header on ws.
			return true
		},
	}
}

// handleWebSocket streams realtime updates for the caller's own profile. The
// feed is started on connect and stopped on disconnect so a closed dashboard
// never keeps invalidating state for a profile no longer in view.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	profile := s.ownerProfile(w, r)
	if profile == nil {
		return
	}

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close() //nolint:errcheck

	feed := app.NewFeed(s.messages, s.hub, profile.ID, s.feedOpts, s.log)

	notify := make(chan struct{}, 1)
	feed.OnNewMessage = func() {
		select {
		case notify <- struct{}{}:
		default:
		}
	}

	if err := feed.Start(r.Context()); err != nil {
		s.log.Error("feed start failed", "err", err)
		return
	}
	defer feed.Stop()

	s.log.Info("dashboard connected", "profile", profile.Username)

	// Reader goroutine: the client only sends keep-alives; a read error means
	// the connection is gone.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			s.log.Info("dashboard disconnected", "profile", profile.Username)
			return
		case <-notify:
			ev := wsEvent{
				Type:        "new_message",
				UnreadCount: feed.UnreadCount(),
				Stats:       feed.Stats(),
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}
