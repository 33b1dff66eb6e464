package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	stateURI = "diagram://state"
	linesURI = "diagram://lines"
)

func (s *Server) registerResources() {
	// ── diagram://state ────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		stateURI,
		"Diagram State",
		mcp.WithResourceDescription("Blocks, answers, lines and connection mode"),
		mcp.WithMIMEType("application/json"),
	), s.handleStateResource)

	// ── diagram://lines ────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		linesURI,
		"Line Segments",
		mcp.WithResourceDescription("Straight segments ready to draw, including the draft line"),
		mcp.WithMIMEType("application/json"),
	), s.handleLinesResource)
}

func (s *Server) handleStateResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(stateURI, s.store.Snapshot())
}

func (s *Server) handleLinesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(linesURI, s.store.Snapshot().Segments())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
