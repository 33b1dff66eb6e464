package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"blockflow/internal/domain"
	"blockflow/internal/layout"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerBlockTools() {
	// ── get_diagram ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_diagram",
		mcp.WithDescription("Return every block, answer and line plus the connection mode"),
	), s.handleGetDiagram)

	// ── list_palette ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_palette",
		mcp.WithDescription("List the color names accepted for headers and answers"),
	), s.handleListPalette)

	// ── create_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_block",
		mcp.WithDescription("Create a question block. Position is auto-calculated if not provided."),
		mcp.WithString("blockId", mcp.Description("Block ID (optional, generated if omitted; an existing block with this ID is replaced)")),
		mcp.WithString("text", mcp.Description("Question text (optional)")),
		mcp.WithNumber("x", mcp.Description("X position (optional, auto-layout if omitted)")),
		mcp.WithNumber("y", mcp.Description("Y position (optional, auto-layout if omitted)")),
	), s.handleCreateBlock)

	// ── add_answer ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_answer",
		mcp.WithDescription("Append an answer row to a block"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("text", mcp.Description("Answer text (optional)")),
	), s.handleAddAnswer)

	// ── delete_answer (destructive) ────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_answer",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete an answer and the line leaving it. Requires user approval."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("answerId", mcp.Description("Answer ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteAnswer)

	// ── delete_block (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_block",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a block and every line touching it. Requires user approval."),
		mcp.WithString("blockId", mcp.Description("Block ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteBlock)

	// ── set_header_text ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_header_text",
		mcp.WithDescription("Replace the question text of a block"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("text", mcp.Description("New text"), mcp.Required()),
	), s.handleSetHeaderText)

	// ── set_answer_text ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_answer_text",
		mcp.WithDescription("Replace the text of an answer"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("answerId", mcp.Description("Answer ID"), mcp.Required()),
		mcp.WithString("text", mcp.Description("New text"), mcp.Required()),
	), s.handleSetAnswerText)

	// ── change_header_color ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("change_header_color",
		mcp.WithDescription("Set the header color of a block (see list_palette)"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Palette name"), mcp.Required()),
	), s.handleChangeHeaderColor)

	// ── change_answer_color ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("change_answer_color",
		mcp.WithDescription("Set the color of an answer (see list_palette)"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("answerId", mcp.Description("Answer ID"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Palette name"), mcp.Required()),
	), s.handleChangeAnswerColor)

	// ── move_block ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_block",
		mcp.WithDescription("Move a block; attached lines follow"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMoveBlock)

	// ── recompute_anchors ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("recompute_anchors",
		mcp.WithDescription("Recompute a block's connection anchors. Without measurements the size is estimated from text."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("measurements",
			mcp.Description(`JSON {"headerHeight","answerHeights":[...],"blockWidth","blockHeight"} (optional)`),
		),
	), s.handleRecomputeAnchors)

	// ── arrange_blocks ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("arrange_blocks",
		mcp.WithDescription("Auto-arrange all blocks using a grid layout"),
		mcp.WithNumber("startX", mcp.Description("Starting X position (default 0)")),
		mcp.WithNumber("startY", mcp.Description("Starting Y position (default 0)")),
	), s.handleArrangeBlocks)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleGetDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.Snapshot())
}

func (s *Server) handleListPalette(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(domain.Palette())
}

func (s *Server) handleCreateBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID := req.GetString("blockId", "")
	if blockID == "" {
		blockID = s.blockIDs.NewID()
	}

	existing := layout.Boxes(s.store.Snapshot(), s.estimator)
	if err := s.store.AddBlock(blockID); err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}
	if text := req.GetString("text", ""); text != "" {
		if err := s.store.SetHeaderText(blockID, text); err != nil {
			return nil, err
		}
	}

	b, err := s.store.Block(blockID)
	if err != nil {
		return nil, err
	}
	m := s.estimator.Measure(b)

	_, hasX := args["x"].(float64)
	_, hasY := args["y"].(float64)
	var x, y float64
	if hasX && hasY {
		x, y = getFloat(args, "x", 0), getFloat(args, "y", 0)
	} else {
		others := existing[:0]
		for _, box := range existing {
			if box.ID != blockID {
				others = append(others, box)
			}
		}
		x, y = s.layout.NextPosition(others, m.BlockWidth, m.BlockHeight)
	}

	if err := s.store.MoveBlock(blockID, x, y, m); err != nil {
		return nil, fmt.Errorf("place block: %w", err)
	}
	b, _ = s.store.Block(blockID)
	return jsonResult(b)
}

func (s *Server) handleAddAnswer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireString(req.GetArguments(), "blockId")
	if err != nil {
		return nil, err
	}

	answerID, err := s.store.AddAnswer(blockID)
	if err != nil {
		return nil, fmt.Errorf("add answer: %w", err)
	}
	if text := req.GetString("text", ""); text != "" {
		if err := s.store.SetAnswerText(blockID, answerID, text); err != nil {
			return nil, err
		}
	}
	if _, err := s.refreshAnchors(blockID); err != nil {
		return nil, err
	}
	return jsonResult(map[string]string{"blockId": blockID, "answerId": answerID})
}

func (s *Server) handleDeleteAnswer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	answerID, err := requireString(args, "answerId")
	if err != nil {
		return nil, err
	}
	b, err := s.store.Block(blockID)
	if err != nil {
		return nil, err
	}
	a, ok := b.Answer(answerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s in block %s", domain.ErrAnswerNotFound, answerID, blockID)
	}

	meta := fmt.Sprintf(`{"blockIds":[%q],"answerIds":[%q]}`, blockID, answerID)
	approved, err := s.approval.Request("delete_answer",
		fmt.Sprintf("Delete answer %q from block %s", a.Text, blockID), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if err := s.store.DeleteAnswer(blockID, answerID); err != nil {
		return nil, fmt.Errorf("delete answer: %w", err)
	}
	if _, err := s.refreshAnchors(blockID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Answer %s deleted", answerID)), nil
}

func (s *Server) handleDeleteBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireString(req.GetArguments(), "blockId")
	if err != nil {
		return nil, err
	}
	b, err := s.store.Block(blockID)
	if err != nil {
		return nil, err
	}

	// Require approval (with metadata for frontend highlight)
	meta := fmt.Sprintf(`{"blockIds":[%q]}`, blockID)
	approved, err := s.approval.Request("delete_block",
		fmt.Sprintf("Delete block %s (%q)", blockID, b.Header.Text), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if err := s.store.DeleteBlock(blockID); err != nil {
		return nil, fmt.Errorf("delete block: %w", err)
	}
	return textResult(fmt.Sprintf("Block %s deleted", blockID)), nil
}

func (s *Server) handleSetHeaderText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	if err := s.store.SetHeaderText(blockID, req.GetString("text", "")); err != nil {
		return nil, err
	}
	if _, err := s.refreshAnchors(blockID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Block %s header updated", blockID)), nil
}

func (s *Server) handleSetAnswerText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	answerID, err := requireString(args, "answerId")
	if err != nil {
		return nil, err
	}
	if err := s.store.SetAnswerText(blockID, answerID, req.GetString("text", "")); err != nil {
		return nil, err
	}
	if _, err := s.refreshAnchors(blockID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Answer %s updated", answerID)), nil
}

func (s *Server) handleChangeHeaderColor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	color := domain.Color(req.GetString("color", ""))
	if err := s.store.ChangeColorHeader(blockID, color); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Block %s header is now %s", blockID, color)), nil
}

func (s *Server) handleChangeAnswerColor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	answerID, err := requireString(args, "answerId")
	if err != nil {
		return nil, err
	}
	color := domain.Color(req.GetString("color", ""))
	if err := s.store.ChangeColorAnswer(blockID, answerID, color); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Answer %s is now %s", answerID, color)), nil
}

func (s *Server) handleMoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	b, err := s.store.Block(blockID)
	if err != nil {
		return nil, err
	}
	x := getFloat(args, "x", b.Position.X)
	y := getFloat(args, "y", b.Position.Y)
	if err := s.store.MoveBlock(blockID, x, y, s.estimator.Measure(b)); err != nil {
		return nil, fmt.Errorf("move block: %w", err)
	}
	return textResult(fmt.Sprintf("Block %s moved to (%.0f, %.0f)", blockID, x, y)), nil
}

func (s *Server) handleRecomputeAnchors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireString(req.GetArguments(), "blockId")
	if err != nil {
		return nil, err
	}
	raw := req.GetString("measurements", "")
	if raw == "" {
		b, err := s.refreshAnchors(blockID)
		if err != nil {
			return nil, err
		}
		return jsonResult(b)
	}

	var m domain.Measurements
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("invalid measurements JSON: %w", err)
	}
	b, err := s.store.Block(blockID)
	if err != nil {
		return nil, err
	}
	if err := s.store.RecomputeAnchors(blockID, b.Position.X, b.Position.Y, m); err != nil {
		return nil, err
	}
	b, _ = s.store.Block(blockID)
	return jsonResult(b)
}

func (s *Server) handleArrangeBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	startX := getFloat(args, "startX", 0)
	startY := getFloat(args, "startY", 0)

	state := s.store.Snapshot()
	arranged := s.layout.ArrangeGroup(layout.Boxes(state, s.estimator), startX, startY)
	for i, box := range arranged {
		if err := s.store.MoveBlock(box.ID, box.X, box.Y, s.estimator.Measure(state.Blocks[i])); err != nil {
			return nil, fmt.Errorf("update position %s: %w", box.ID, err)
		}
	}

	return textResult(fmt.Sprintf("Arranged %d blocks", len(arranged))), nil
}
