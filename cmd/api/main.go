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

	"github.com/openlistings/directory/internal/adapters/cache"
	"github.com/openlistings/directory/internal/adapters/database"
	"github.com/openlistings/directory/internal/adapters/referencedata"
	"github.com/openlistings/directory/internal/api/handlers"
	"github.com/openlistings/directory/internal/api/routes"
	"github.com/openlistings/directory/internal/application/services"
	"github.com/openlistings/directory/internal/domain/repositories"
	"github.com/openlistings/directory/internal/infrastructure/clients/placedata"
	"github.com/openlistings/directory/internal/infrastructure/clients/postgres"
	"github.com/openlistings/directory/internal/infrastructure/clients/redis"
	"github.com/openlistings/directory/internal/infrastructure/observability"
	"github.com/openlistings/directory/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("directory-api", cfg.Server.Env)

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client. The ledger cache is an optimization, so
	// the service still starts when Redis is unreachable.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, ledger cache disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	// A missing provider API key is fatal: the directory cannot hydrate
	// new markets without it.
	placeClient, err := placedata.NewHTTPClient(&cfg.PlaceData)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize place-data client")
	}

	// Load the static category and location catalogs
	refData, err := referencedata.NewCSVProvider(cfg.ReferenceData.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ReferenceData.Dir).Msg("failed to load reference data")
	}

	// Initialize adapters
	businessAdapter := database.NewBusinessAdapter(pgClient)

	var ledger repositories.FetchLedger = database.NewFetchLedgerAdapter(pgClient, cfg.Ledger.TTL())
	if redisClient != nil {
		ledger = database.NewCachedFetchLedgerAdapter(ledger, cache.NewRedisAdapter(redisClient))
		log.Info().Msg("fetch ledger wrapped with Redis cache")
	}

	// Initialize services
	ingestionService := services.NewIngestionService(
		placeClient,
		businessAdapter,
		ledger,
		cfg.PlaceData.SearchLimit,
	)

	queryService := services.NewDirectoryQueryService(
		refData,
		ingestionService,
		businessAdapter,
		services.NewScoringEngine(),
	)

	// Initialize handlers
	directoryHandler := handlers.NewDirectoryHandler(queryService)
	businessHandler := handlers.NewBusinessHandler(businessAdapter)
	categoryHandler := handlers.NewCategoryHandler(refData)

	// Set up router
	router := routes.NewRouter(directoryHandler, businessHandler, categoryHandler)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
