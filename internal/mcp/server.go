package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"blockflow/internal/domain"
	"blockflow/internal/layout"
	"blockflow/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for the diagram editor.
// It exposes tools, resources, and prompts so AI agents can build question flows.
type Server struct {
	mcp       *server.MCPServer
	store     *service.DiagramStore
	approval  *ApprovalQueue
	layout    *layout.LayoutEngine
	estimator layout.Estimator
	blockIDs  service.IDGenerator
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Store *service.DiagramStore
	// Emitter announces approval requests to whatever UI is attached.
	Emitter         service.EventEmitter
	BlockIDs        service.IDGenerator
	ApprovalTimeout time.Duration
	AutoApprove     bool
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	approval := NewApprovalQueue(ctx, deps.Emitter, deps.ApprovalTimeout)
	approval.SetAutoApprove(deps.AutoApprove)

	blockIDs := deps.BlockIDs
	if blockIDs == nil {
		blockIDs = service.UUIDGenerator{Prefix: "blk-"}
	}

	s := &Server{
		store:     deps.Store,
		approval:  approval,
		layout:    layout.NewLayoutEngine(),
		estimator: layout.DefaultEstimator(),
		blockIDs:  blockIDs,
	}

	s.mcp = server.NewMCPServer(
		"blockflow-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerBlockTools()
	s.registerLineTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func requireString(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

func boolPtr(v bool) *bool { return &v }

// refreshAnchors re-measures a block from its text and recomputes its
// anchors in place. Agents have no renderer to report real sizes.
func (s *Server) refreshAnchors(blockID string) (domain.Block, error) {
	b, err := s.store.Block(blockID)
	if err != nil {
		return domain.Block{}, err
	}
	if err := s.store.RecomputeAnchors(blockID, b.Position.X, b.Position.Y, s.estimator.Measure(b)); err != nil {
		return domain.Block{}, err
	}
	return s.store.Block(blockID)
}
