package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/menshealthfinder/clinicfinder/internal/adapters/cache"
	"github.com/menshealthfinder/clinicfinder/internal/adapters/database"
	"github.com/menshealthfinder/clinicfinder/internal/adapters/providers/geocoding"
	"github.com/menshealthfinder/clinicfinder/internal/adapters/search"
	"github.com/menshealthfinder/clinicfinder/internal/api/handlers"
	"github.com/menshealthfinder/clinicfinder/internal/api/middleware"
	"github.com/menshealthfinder/clinicfinder/internal/api/routes"
	"github.com/menshealthfinder/clinicfinder/internal/application/services"
	"github.com/menshealthfinder/clinicfinder/internal/domain/providers"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/clients/postgres"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/clients/redis"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/clients/typesense"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/observability"
	"github.com/menshealthfinder/clinicfinder/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis is optional: the application works without caching
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client, continuing without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Typesense is optional: keyword searches fall back to the primary store
	var searchRepo repositories.ClinicSearchRepository
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Typesense client, keyword search will use the primary store")
	} else {
		if err := typesenseClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		}
		searchRepo = search.NewTypesenseAdapter(typesenseClient)
	}

	// Wire repositories
	var clinicRepo repositories.ClinicRepository = database.NewClinicAdapter(pgClient)
	if cacheProvider != nil {
		clinicRepo = database.NewCachedClinicAdapter(clinicRepo, cacheProvider)
	}
	analyticsRepo := database.NewSearchAnalyticsAdapter(pgClient)

	geocoder := geocoding.NewNominatimProvider(cfg.Geocoding.BaseURL, cfg.Geocoding.UserAgent, cacheProvider)

	// Wire services
	analyticsService := services.NewSearchAnalyticsService(analyticsRepo)
	clinicService := services.NewClinicService(clinicRepo, searchRepo)
	searchService := services.NewSearchService(clinicRepo, searchRepo, geocoder, analyticsService, metrics)
	// Per-session supersede guard: late results for an overtaken search
	// come back as a conflict instead of stale data.
	searcher := services.NewSearchSessionManager(searchService)
	suggestionService := services.NewSuggestionService(clinicRepo)

	// Wire handlers
	clinicHandler := handlers.NewClinicHandler(clinicService, searcher, suggestionService, analyticsService, clinicRepo)
	geocodingHandler := handlers.NewGeocodingHandler(geocoder)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(clinicHandler, geocodingHandler, cacheMiddleware, metrics)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
