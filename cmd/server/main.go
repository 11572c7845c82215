package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/yashsay/message-app/internal/api"
	"github.com/yashsay/message-app/internal/config"
	"github.com/yashsay/message-app/internal/embedding/tfidf"
	"github.com/yashsay/message-app/internal/handlers"
	"github.com/yashsay/message-app/internal/index"
	"github.com/yashsay/message-app/internal/services"
	"github.com/yashsay/message-app/internal/store"
	"github.com/yashsay/message-app/internal/store/jsonfile"
	"github.com/yashsay/message-app/internal/store/postgres"
	"github.com/yashsay/message-app/internal/summarizer"
)

func main() {
	log.Println("Starting Message App Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize the store backend and index artifact writer
	var (
		dataStore store.Store
		artifacts index.ArtifactWriter
	)
	if cfg.DatabaseURL != "" {
		dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dbCancel()

		poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Invalid DATABASE_URL: %v", err)
		}
		// Register the pgvector type on every connection so embedding
		// columns scan and encode natively.
		poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			return pgxvector.RegisterTypes(ctx, conn)
		}

		dbpool, err := pgxpool.NewWithConfig(dbCtx, poolCfg)
		if err != nil {
			log.Fatalf("FATAL: Unable to create database connection pool: %v", err)
		}
		defer dbpool.Close()

		if err := dbpool.Ping(dbCtx); err != nil {
			log.Fatalf("FATAL: Unable to ping database: %v", err)
		}

		pgStore := postgres.NewPostgresStore(dbpool)
		if err := pgStore.EnsureSchema(dbCtx); err != nil {
			log.Fatalf("FATAL: Unable to ensure database schema: %v", err)
		}
		dataStore = pgStore
		artifacts = postgres.NewArtifactWriter(dbpool)
		log.Println("Postgres store initialized.")
	} else {
		jsonStore, err := jsonfile.NewJSONStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("FATAL: Unable to initialize JSON store: %v", err)
		}
		fileArtifacts, err := index.NewFileArtifactWriter(cfg.DataDir)
		if err != nil {
			log.Fatalf("FATAL: Unable to initialize artifact writer: %v", err)
		}
		dataStore = jsonStore
		artifacts = fileArtifacts
		log.Printf("JSON-file store initialized in %s.", cfg.DataDir)
	}

	// 3. Initialize index machinery and services
	builder := index.NewBuilder(func() index.Embedder { return tfidf.New() })
	holder := index.NewHolder()

	ingestService := services.NewIngestService(dataStore, builder, holder, artifacts)
	log.Println("IngestService initialized.")
	searchService := services.NewSearchService(holder, nil, cfg.Search.DefaultTopK, cfg.Search.MaxTopK)
	log.Println("SearchService initialized.")
	summarizeService := services.NewSummarizeService(dataStore,
		summarizer.NewFrequency(cfg.Search.SummarySentences, cfg.Search.HighlightTerms))
	log.Println("SummarizeService initialized.")

	// Reconstruct the derived data from whatever the store already holds.
	// Failure is not fatal: search reports not-ready until the next
	// successful ingest.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := ingestService.Rebuild(startupCtx); err != nil {
		log.Printf("WARN: Initial index build failed, search unavailable until next ingest: %v", err)
	}
	startupCancel()

	// 4. Initialize Handlers & Router
	routerDeps := api.RouterDependencies{
		IngestHandler:    handlers.NewIngestHandler(ingestService),
		SearchHandlers:   handlers.NewSearchHandlers(searchService),
		SummarizeHandler: handlers.NewSummarizeHandler(summarizeService),
		Config:           cfg,
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Production hardening: Set timeouts to avoid Slowloris attacks
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}
