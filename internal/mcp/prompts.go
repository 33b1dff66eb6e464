package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("question_flow",
		mcp.WithPromptDescription("Guide through building a branching questionnaire of blocks and answers"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What the questionnaire is about"),
			mcp.RequiredArgument(),
		),
	), s.handleQuestionFlowPrompt)
}

func (s *Server) handleQuestionFlowPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a question flow about: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a branching questionnaire about "%s". Follow these steps:

1. Call get_diagram to see what already exists
2. Use create_block for the first question, passing its text
3. Use add_answer for each possible answer, passing its text
4. Create a follow-up block for each answer that leads somewhere
5. Use connect_answer to point each answer at its follow-up block (an answer has at most one line, and a block cannot point to itself)
6. Use change_header_color / change_answer_color with names from list_palette to group related questions
7. Finish with arrange_blocks so the flow reads top-to-bottom

Keep questions short; every answer should lead to a block or be a clear end of the flow.`, topic),
				},
			},
		},
	}, nil
}
