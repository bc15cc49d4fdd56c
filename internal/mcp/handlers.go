// ABOUTME: MCP tool handler implementations for the curator server
// ABOUTME: Wraps the pipeline, decision log, and agent catalog as tools
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/intent-curator/internal/core"
	"github.com/harper/intent-curator/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Catalog is the read-only slice of the NLU agent exposed over MCP
type Catalog interface {
	ListIntents(ctx context.Context) ([]models.Intent, error)
	CheckConnection(ctx context.Context) error
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	handler *core.Handler
	declog  *core.DecisionLog
	catalog Catalog
}

// SendMessage handles the send_message tool
func (h *Handlers) SendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}
	sessionID := request.GetString("session_id", "default")

	response := h.handler.HandleMessage(ctx, sessionID, text)

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListIntents handles the list_intents tool
func (h *Handlers) ListIntents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.catalog == nil {
		return mcp.NewToolResultError("NLU agent is not configured"), nil
	}

	intents, err := h.catalog.ListIntents(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list intents: %v", err)), nil
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"intents": intents,
		"count":   len(intents),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// RecentDecisions handles the recent_decisions tool
func (h *Handlers) RecentDecisions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be a positive number"), nil
	}

	entries := h.declog.Recent(limit)
	if entries == nil {
		entries = []models.DecisionLogEntry{}
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"decisions": entries,
		"count":     len(entries),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ConnectionStatus handles the connection_status tool
func (h *Handlers) ConnectionStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := map[string]string{"status": "connected"}
	if h.catalog == nil {
		status = map[string]string{"status": "degraded", "error": "NLU agent is not configured"}
	} else if err := h.catalog.CheckConnection(ctx); err != nil {
		status = map[string]string{"status": "disconnected", "error": err.Error()}
	}

	responseJSON, err := json.Marshal(status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
