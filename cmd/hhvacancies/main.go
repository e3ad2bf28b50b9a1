package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/baxromumarov/hh-vacancies/internal/cli"
	"github.com/baxromumarov/hh-vacancies/internal/config"
	"github.com/baxromumarov/hh-vacancies/internal/core"
	"github.com/baxromumarov/hh-vacancies/internal/hh"
	"github.com/baxromumarov/hh-vacancies/internal/observability"
	"github.com/baxromumarov/hh-vacancies/internal/store"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to config file")
	flag.Parse()

	observability.SetupLogger("info", true)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
	}
	observability.SetupLogger(cfg.LogLevel, true)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbStore, err := store.NewStore(ctx, cfg.PostgreSQL.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("pg", cfg.PostgreSQL.Redacted()).Msg("failed to connect to store")
	}
	defer dbStore.Close()

	client := hh.NewClient(cfg.HH.BaseURL, cfg.HH.UserAgent, cfg.HH.Timeout)
	loader := core.NewLoader(client, dbStore, cfg.HH.EmployerIDs)

	if _, err := loader.Run(ctx); err != nil {
		log.Error().Err(err).Msg("load failed")
		if err := loader.Teardown(context.Background()); err != nil {
			log.Error().Err(err).Msg("teardown failed")
		}
		dbStore.Close()
		os.Exit(1)
	}

	menu := cli.NewMenu(dbStore, loader.Teardown, os.Stdin, os.Stdout)
	if err := menu.Run(ctx); err != nil {
		log.Error().Err(err).Msg("menu exited with error")
	}
	log.Debug().Interface("stats", observability.Snapshot()).Msg("session finished")
}
