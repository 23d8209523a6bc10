// ABOUTME: MCP server initialization and configuration
// ABOUTME: Exposes the fuel log to AI agents over stdio

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/fuel/internal/records"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server around a fuel record store.
type Server struct {
	mcp   *mcp.Server
	store *records.Store
	log   zerolog.Logger
}

// NewServer creates MCP server with all capabilities.
func NewServer(store *records.Store, log zerolog.Logger) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("record store is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fuel",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcp:   mcpServer,
		store: store,
		log:   log,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Msg("serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// jsonResult renders output as the text content of a tool result.
func jsonResult(output any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}
