package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/baxromumarov/hh-vacancies/internal/config"
	"github.com/baxromumarov/hh-vacancies/internal/core"
	"github.com/baxromumarov/hh-vacancies/internal/hh"
	"github.com/baxromumarov/hh-vacancies/internal/model"
	"github.com/baxromumarov/hh-vacancies/internal/observability"
	"github.com/baxromumarov/hh-vacancies/internal/store"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to config file")
	action := flag.String("action", "migrate", "One of: migrate, drop, preview")
	timeout := flag.Duration("timeout", time.Minute, "Overall deadline")
	flag.Parse()

	observability.SetupLogger("info", true)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.SetupLogger(cfg.LogLevel, true)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := hh.NewClient(cfg.HH.BaseURL, cfg.HH.UserAgent, cfg.HH.Timeout)

	switch *action {
	case "preview":
		docs, err := client.FetchEmployers(ctx, cfg.HH.EmployerIDs)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to fetch employers")
		}
		for _, e := range model.NewEmployers(docs) {
			fmt.Fprintln(os.Stdout, e)
		}
	case "migrate", "drop":
		db, err := store.NewStore(ctx, cfg.PostgreSQL.DSN())
		if err != nil {
			log.Fatal().Err(err).Str("pg", cfg.PostgreSQL.Redacted()).Msg("failed to connect to DB")
		}
		defer db.Close()

		if *action == "migrate" {
			err = db.CreateTables(ctx)
		} else {
			err = core.NewLoader(client, db, cfg.HH.EmployerIDs).Teardown(ctx)
		}
		if err != nil {
			db.Close()
			log.Fatal().Err(err).Str("action", *action).Msg("action failed")
		}
		log.Info().Str("action", *action).Msg("action executed successfully")
	default:
		log.Fatal().Str("action", *action).Msg("unknown action")
	}
}
