// ABOUTME: Main entry point for the intent curator HTTP server
// ABOUTME: Wires config, storage, NLU client, arbiter, and chi router
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

	"github.com/harper/intent-curator/internal/api"
	"github.com/harper/intent-curator/internal/charm"
	"github.com/harper/intent-curator/internal/config"
	"github.com/harper/intent-curator/internal/core"
	"github.com/harper/intent-curator/internal/llm"
	"github.com/harper/intent-curator/internal/nlu"
	"github.com/harper/intent-curator/internal/storage"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.NluAgentURL == "" {
		log.Fatal("NLU_AGENT_URL is required")
	}

	// Arbiter is optional; without it the judge degrades to safe defaults
	var arbiter core.Arbiter
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - decisions will degrade to none")
	} else {
		client, err := llm.NewClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize OpenAI client: %v", err)
		} else {
			arbiter = client
		}
	}

	agent := nlu.NewClient(cfg.NluAgentURL, cfg.NluTimeout)

	meta, archive, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer closeStore()

	history := core.NewSessionHistory(cfg.HistoryLimit)
	declog := core.NewDecisionLog(cfg.DecisionLogLimit)
	judge := core.NewJudge(arbiter, history, cfg.MinReusabilityScore)
	synchronizer := core.NewSynchronizer(agent, meta, cfg.MinReusabilityScore)
	handler := core.NewHandler(core.NewHeuristicGate(), judge, synchronizer, history, declog, agent, meta, archive)

	router := api.NewRouter(api.NewAPIHandler(handler, declog, meta, agent))
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Intent curator listening on %s", cfg.HTTPAddr)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received, gracefully shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: HTTP shutdown error: %v", err)
		}
		log.Println("Shutdown complete")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}
}

// openStore selects the metadata/archive backend from config
func openStore(cfg *config.Config) (core.MetadataStore, core.DecisionArchiver, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreCharm:
		store, err := charm.NewStore(&charm.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		log.Printf("Using charm kv store %q on %s", cfg.CharmDBName, cfg.CharmHost)
		return store, store, func() { _ = store.Close() }, nil
	default:
		store, err := storage.OpenLocal(storage.DefaultDBPath())
		if err != nil {
			return nil, nil, nil, err
		}
		log.Printf("Using local store at %s", store.Path())
		return store, store, func() { _ = store.Close() }, nil
	}
}
