package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/menshealthfinder/clinicfinder/internal/adapters/database"
	"github.com/menshealthfinder/clinicfinder/internal/adapters/search"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/clients/postgres"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/clients/typesense"
	"github.com/menshealthfinder/clinicfinder/pkg/config"
)

const indexPageSize = 200

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Str("interval", intervalValue).Err(err).Msg("Invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Error().Err(err).Msg("Reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("next_run_in", interval).Msg("Reindex complete")

		select {
		case <-ctx.Done():
			log.Info().Msg("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	clinicRepo := database.NewClinicAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Msg("Deleting clinics collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.ClinicsCollection).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to delete collection")
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	adapter := search.NewTypesenseAdapter(tsClient)

	// Page through the primary store and upsert every active listing.
	indexed := 0
	cursor := ""
	for {
		page, err := clinicRepo.FetchPage(ctx, repositories.ClinicQuery{ActiveOnly: true}, indexPageSize, cursor)
		if err != nil {
			return err
		}

		for _, clinic := range page.Clinics {
			if err := adapter.Index(ctx, clinic); err != nil {
				log.Warn().Str("clinic_id", clinic.ID).Err(err).Msg("Failed to index clinic")
				continue
			}
			indexed++
		}

		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	log.Info().Int("indexed", indexed).Msg("Indexed clinics")
	return nil
}
