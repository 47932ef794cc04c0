package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"songscout/internal/auth"
	"songscout/internal/logging"
	"songscout/internal/store"
)

const tokenTTL = 24 * time.Hour

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logging.Setup(logging.Config{})
		log.Fatal().Err(err).Msg("load config")
	}

	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	dataStore := store.New(db)
	if err := dataStore.RunMigrations(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, tokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("configure token service")
	}

	handler := newHTTPHandler(cfg, dataStore, tokens)

	log.Info().Str("addr", cfg.Addr).Msg("API listening")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
