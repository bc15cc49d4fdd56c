// ABOUTME: MCP tool definitions and registration for the curator server
// ABOUTME: Defines JSON schemas for the 4 curator tools
package mcp

import (
	"github.com/harper/intent-curator/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, handler *core.Handler, declog *core.DecisionLog, catalog Catalog) *Handlers {
	handlers := &Handlers{
		handler: handler,
		declog:  declog,
		catalog: catalog,
	}

	// 1. send_message - Run one utterance through the curation pipeline
	server.AddTool(mcp.Tool{
		Name:        "send_message",
		Description: "Send a user message through the intent curation pipeline. Returns the reply along with the intent match, reusability score, and the synchronization action taken.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "User message to process",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation session identifier (default: \"default\")",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.SendMessage)

	// 2. list_intents - List the agent's intent catalog
	server.AddTool(mcp.Tool{
		Name:        "list_intents",
		Description: "List the NLU agent's intent catalog with training phrases, excluding protected built-in intents.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListIntents)

	// 3. recent_decisions - Inspect the decision log
	server.AddTool(mcp.Tool{
		Name:        "recent_decisions",
		Description: "Return recent pipeline decisions, newest first, including scores, actions, and override flags.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of entries to return (default: 20)",
					"default":     20,
				},
			},
		},
	}, handlers.RecentDecisions)

	// 4. connection_status - Probe the NLU agent
	server.AddTool(mcp.Tool{
		Name:        "connection_status",
		Description: "Check whether the external NLU agent is reachable.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ConnectionStatus)

	return handlers
}
