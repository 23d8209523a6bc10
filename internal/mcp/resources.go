// ABOUTME: MCP resource definitions
// ABOUTME: Provides a read-only view of the fuel log for AI agents

package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// EntriesResourceURI addresses the full display list.
const EntriesResourceURI = "fuel://entries"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        EntriesResourceURI,
		Description: "All fill-ups newest first, with the consumption summary",
		URI:         EntriesResourceURI,
		MIMEType:    "application/json",
	}, s.handleEntriesResource)
}

func (s *Server) handleEntriesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	output := s.listOutput(0)

	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      EntriesResourceURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}
