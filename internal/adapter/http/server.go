// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"anonq/internal/app"
	"anonq/internal/domain"
	"anonq/internal/realtime"
)

// OIDCConfig carries the optional SSO setup.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// NewOIDCConfig discovers the issuer and builds the SSO configuration.
func NewOIDCConfig(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return OIDCConfig{}, err
	}
	return OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth     *app.AuthService
	profiles *app.ProfileService
	messages *app.MessageService
	hub      *realtime.Hub

	feedOpts   app.FeedOptions
	oidcConfig OIDCConfig
	webDir     string

	validate *validator.Validate
	log      *slog.Logger

	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, profiles *app.ProfileService, messages *app.MessageService, hub *realtime.Hub, feedOpts app.FeedOptions, oidcConfig OIDCConfig, webDir string, log *slog.Logger) *Server {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return domain.ValidUsername(fl.Field().String())
	})

	return &Server{
		auth:       auth,
		profiles:   profiles,
		messages:   messages,
		hub:        hub,
		feedOpts:   feedOpts,
		oidcConfig: oidcConfig,
		webDir:     webDir,
		validate:   v,
		log:        log,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.loggingMiddleware)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)
	api.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)

	api.HandleFunc("/auth/signup", s.handleSignUp).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin).Methods(http.MethodGet)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback).Methods(http.MethodGet)

	// Public surface: directory, profile lookup, message submission.
	api.HandleFunc("/users", s.handleUserDirectory).Methods(http.MethodGet)
	api.HandleFunc("/u/{username}", s.handleProfileLookup).Methods(http.MethodGet)
	api.HandleFunc("/u/{username}/messages", s.handleSendMessage).Methods(http.MethodPost)

	// Owner surface.
	owner := api.NewRoute().Subrouter()
	owner.Use(s.authMiddleware)
	owner.HandleFunc("/me/profile", s.handleCurrentProfile).Methods(http.MethodGet)
	owner.HandleFunc("/me/messages", s.handleListMessages).Methods(http.MethodGet)
	owner.HandleFunc("/me/messages/stats", s.handleMessageStats).Methods(http.MethodGet)
	owner.HandleFunc("/me/messages/read-all", s.handleMarkAllRead).Methods(http.MethodPost)
	owner.HandleFunc("/messages/bulk-delete", s.handleBulkDelete).Methods(http.MethodPost)
	owner.HandleFunc("/messages/{id}/read", s.handleMarkRead).Methods(http.MethodPost)
	owner.HandleFunc("/messages/{id}/snapshot.png", s.handleSnapshot).Methods(http.MethodGet)
	owner.HandleFunc("/messages/{id}", s.handleDeleteMessage).Methods(http.MethodDelete)

	r.Handle("/ws", s.authMiddleware(http.HandlerFunc(s.handleWebSocket))).Methods(http.MethodGet)

	r.PathPrefix("/").Handler(spaFromDisk(s.webDir))

	return withNoCache(r)
}
