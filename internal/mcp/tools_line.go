package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerLineTools() {
	// ── connect_answer ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("connect_answer",
		mcp.WithDescription("Draw a line from an answer to a target block in one step"),
		mcp.WithString("blockId", mcp.Description("Block that owns the answer"), mcp.Required()),
		mcp.WithString("answerId", mcp.Description("Answer the line leaves from"), mcp.Required()),
		mcp.WithString("targetBlockId", mcp.Description("Block the line points to"), mcp.Required()),
	), s.handleConnectAnswer)

	// ── start_line ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("start_line",
		mcp.WithDescription("Enter drawing mode with a draft line leaving an answer"),
		mcp.WithString("blockId", mcp.Description("Block that owns the answer"), mcp.Required()),
		mcp.WithString("answerId", mcp.Description("Answer the line leaves from"), mcp.Required()),
	), s.handleStartLine)

	// ── move_line_end ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_line_end",
		mcp.WithDescription("Move the free end of the draft line by a relative offset"),
		mcp.WithNumber("dx", mcp.Description("Horizontal offset"), mcp.Required()),
		mcp.WithNumber("dy", mcp.Description("Vertical offset"), mcp.Required()),
	), s.handleMoveLineEnd)

	// ── finish_line ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("finish_line",
		mcp.WithDescription("Attach the draft line to a target block and leave drawing mode"),
		mcp.WithString("targetBlockId", mcp.Description("Block the line points to"), mcp.Required()),
	), s.handleFinishLine)

	// ── cancel_line ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("cancel_line",
		mcp.WithDescription("Discard the draft line and leave drawing mode"),
	), s.handleCancelLine)

	// ── delete_line (destructive) ──────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_line",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete the line leaving an answer. Requires user approval."),
		mcp.WithString("answerId", mcp.Description("Answer the line leaves from"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteLine)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleConnectAnswer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	answerID, err := requireString(args, "answerId")
	if err != nil {
		return nil, err
	}
	target, err := requireString(args, "targetBlockId")
	if err != nil {
		return nil, err
	}

	if err := s.store.StartAddingLine(blockID, answerID); err != nil {
		return nil, fmt.Errorf("start line: %w", err)
	}
	if err := s.store.AddLine(target); err != nil {
		_ = s.store.ClearLine()
		return nil, fmt.Errorf("connect to %s: %w", target, err)
	}
	return textResult(fmt.Sprintf("Answer %s now points to block %s", answerID, target)), nil
}

func (s *Server) handleStartLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	answerID, err := requireString(args, "answerId")
	if err != nil {
		return nil, err
	}
	if err := s.store.StartAddingLine(blockID, answerID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Drawing from answer %s", answerID)), nil
}

func (s *Server) handleMoveLineEnd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	if err := s.store.SetPositionLine(getFloat(args, "dx", 0), getFloat(args, "dy", 0)); err != nil {
		return nil, err
	}
	return textResult("Line end moved"), nil
}

func (s *Server) handleFinishLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := requireString(req.GetArguments(), "targetBlockId")
	if err != nil {
		return nil, err
	}
	if err := s.store.AddLine(target); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Line attached to block %s", target)), nil
}

func (s *Server) handleCancelLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.store.ClearLine(); err != nil {
		return nil, err
	}
	return textResult("Drawing cancelled"), nil
}

func (s *Server) handleDeleteLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answerID, err := requireString(req.GetArguments(), "answerId")
	if err != nil {
		return nil, err
	}

	var target string
	for _, l := range s.store.Lines() {
		if l.From.AnswerID == answerID {
			target = l.To.BlockID
		}
	}

	meta := fmt.Sprintf(`{"answerIds":[%q]}`, answerID)
	approved, err := s.approval.Request("delete_line",
		fmt.Sprintf("Delete line from answer %s to block %s", answerID, target), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if err := s.store.DeleteLine(answerID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Line from %s deleted", answerID)), nil
}
