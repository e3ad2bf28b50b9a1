package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/baxromumarov/hh-vacancies/internal/api"
	"github.com/baxromumarov/hh-vacancies/internal/config"
	"github.com/baxromumarov/hh-vacancies/internal/core"
	"github.com/baxromumarov/hh-vacancies/internal/hh"
	"github.com/baxromumarov/hh-vacancies/internal/observability"
	"github.com/baxromumarov/hh-vacancies/internal/store"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to config file")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
	}
	observability.SetupLogger(cfg.LogLevel, false)

	log.Info().Str("pg", cfg.PostgreSQL.Redacted()).Msg("connecting to store")
	dbStore, err := store.NewStore(rootCtx, cfg.PostgreSQL.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to store")
	}
	defer dbStore.Close()

	client := hh.NewClient(cfg.HH.BaseURL, cfg.HH.UserAgent, cfg.HH.Timeout)
	loader := core.NewLoader(client, dbStore, cfg.HH.EmployerIDs)
	srv := api.NewServer(dbStore)

	err = run(rootCtx, loader, func(ctx context.Context) error {
		return srv.Start(ctx, ":"+cfg.Server.Port)
	})
	log.Info().Interface("stats", observability.Snapshot()).Msg("server stopped")
	if err != nil {
		log.Error().Err(err).Msg("server exited with error")
		dbStore.Close()
		os.Exit(1)
	}
}

type pipeline interface {
	Run(ctx context.Context) (core.Summary, error)
	Teardown(ctx context.Context) error
}

// run loads, serves until ctx is done, then drops the tables. The tables are
// dropped on every path, including a failed load.
func run(ctx context.Context, loader pipeline, serve func(context.Context) error) error {
	defer teardown(loader)

	if _, err := loader.Run(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := serve(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// teardown runs on a fresh context because the root one is already cancelled
// by the time the server returns.
func teardown(loader pipeline) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := loader.Teardown(ctx); err != nil {
		log.Error().Err(err).Msg("teardown failed")
	}
}
