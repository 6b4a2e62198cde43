package main

import (
	"context"
	"os"
	"time"

	"lendstock-backend/internal/app"
	"lendstock-backend/internal/config"
	"lendstock-backend/internal/profiles"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	fiberApp, db, rdb, err := app.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create failed")
	}

	// Verify connections before serving
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("get sql db failed")
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Msg("Postgres connected")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	log.Info().Msg("Redis connected")

	// First-admin seed: a fresh install has no admin to grant roles with.
	profileSvc := &profiles.Service{DB: db}
	if err := profileSvc.EnsureBootstrapAdmin(ctx, cfg.BootstrapAdminEmail); err != nil {
		log.Error().Err(err).Msg("bootstrap admin check failed")
	}

	log.Info().Str("port", cfg.Port).Msg("server listening")
	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
