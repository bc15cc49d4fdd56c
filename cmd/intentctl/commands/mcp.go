// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Exposes the curation pipeline to LLM agents via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/intent-curator/internal/config"
	"github.com/harper/intent-curator/internal/core"
	"github.com/harper/intent-curator/internal/llm"
	"github.com/harper/intent-curator/internal/mcp"
	"github.com/harper/intent-curator/internal/nlu"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the intent curator as an MCP (Model Context Protocol) server,
enabling LLM agents to send messages through the curation pipeline
and inspect its decisions via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP host)
  intentctl mcp

  # Configure in an MCP host config:
  # {
  #   "mcpServers": {
  #     "intent-curator": {
  #       "command": "intentctl",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.NluAgentURL == "" {
		return fmt.Errorf("NLU_AGENT_URL is not set")
	}

	// Arbiter is optional; without it decisions degrade to none
	var arbiter core.Arbiter
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - decisions will degrade to none")
	} else {
		client, err := llm.NewClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize OpenAI client: %v", err)
		} else {
			arbiter = client
			if verbose {
				log.Println("OpenAI arbiter initialized")
			}
		}
	}

	agent := nlu.NewClient(cfg.NluAgentURL, cfg.NluTimeout)

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	history := core.NewSessionHistory(cfg.HistoryLimit)
	declog := core.NewDecisionLog(cfg.DecisionLogLimit)
	judge := core.NewJudge(arbiter, history, cfg.MinReusabilityScore)
	synchronizer := core.NewSynchronizer(agent, store, cfg.MinReusabilityScore)
	handler := core.NewHandler(core.NewHeuristicGate(), judge, synchronizer, history, declog, agent, store, store)

	server := mcpserver.NewMCPServer(
		"Intent Curator",
		"0.1.0",
	)
	mcp.RegisterTools(server, handler, declog, agent)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Intent curator MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
		if err := store.Close(); err != nil {
			log.Printf("Warning: Error closing store: %v", err)
		}
		if !quiet {
			log.Println("Shutdown complete")
		}
	case err := <-serverErr:
		_ = store.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
