package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	adapthttp "anonq/internal/adapter/http"
	"anonq/internal/adapter/postgres"
	"anonq/internal/app"
	"anonq/internal/config"
	"anonq/internal/realtime"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(); err != nil {
		log.Info(".env not found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration invalid", "err", err)
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("db open failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	hub := realtime.NewHub(log)

	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	profileRepo := postgres.NewProfileRepo(db)
	messageRepo := postgres.NewMessageRepo(db)

	authSvc := app.NewAuthService(userRepo, sessionRepo, profileRepo)
	profileSvc := app.NewProfileService(profileRepo, hub)
	defer profileSvc.Close()
	messageSvc := app.NewMessageService(messageRepo, hub)

	feedOpts := app.FeedOptions{
		MessageInterval: cfg.MessagePollInterval,
		StatsInterval:   cfg.StatsPollInterval,
		Retry:           app.Retry{MaxAttempts: cfg.QueryMaxAttempts, Backoff: cfg.QueryRetryBackoff},
	}

	oidcCfg := adapthttp.OIDCConfig{}
	if cfg.SSOEnabled() {
		oidcCfg, err = adapthttp.NewOIDCConfig(context.Background(), cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
		if err != nil {
			log.Error("oidc setup failed", "err", err)
			os.Exit(1)
		}
	}

	h := adapthttp.New(authSvc, profileSvc, messageSvc, hub, feedOpts, oidcCfg, cfg.WebDir, log).Handler()

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS", "PUT"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		MaxAge:           300,
		AllowCredentials: true,
	})

	log.Info("listening", "addr", cfg.Addr, "sso", oidcCfg.Enabled)
	if err := http.ListenAndServe(cfg.Addr, c.Handler(h)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
