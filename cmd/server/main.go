package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"epicsnap/internal/auth"
	"epicsnap/internal/blob"
	"epicsnap/internal/config"
	"epicsnap/internal/logging"
	"epicsnap/internal/server"
	"epicsnap/internal/store"
)

func main() {
	// .env is a developer convenience; production injects real env vars.
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	gin.SetMode(cfg.GinMode)

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		slog.Error("create data dir", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(filepath.Join(cfg.DataDir, "epicsnap.db"))
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	blobs, err := blob.NewStore(filepath.Join(cfg.DataDir, "blobs"), cfg.PublicBaseURL)
	if err != nil {
		slog.Error("open blob store", "error", err)
		os.Exit(1)
	}

	tokenCfg := auth.TokenConfig{
		Secret: cfg.MasterSecret,
		Expiry: cfg.SessionExpiry,
		Issuer: "epicsnap",
	}
	cookieCfg := auth.CookieConfig{
		Secure: cfg.TLSCertFile != "" && cfg.TLSKeyFile != "",
		MaxAge: cfg.SessionExpiry,
	}

	router := server.NewRouter(server.Deps{
		Store:       st,
		Blobs:       blobs,
		TokenConfig: tokenCfg,
		Cookie:      cookieCfg,
	})

	slog.Info("listening", "addr", fmt.Sprintf(":%d", cfg.Port))
	if err := server.Run(cfg, router); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
