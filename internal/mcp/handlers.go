package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/amsmath/ams/internal/solve"
)

// handleSolveExpression sends one expression to the solver.
func (s *Server) handleSolveExpression(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expression, err := request.RequireString("expression")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: expression"), nil
	}

	res, err := s.solver.Solve(ctx, expression)
	switch {
	case errors.Is(err, solve.ErrEmptyExpression):
		return mcp.NewToolResultError(solve.EmptyExpressionPrompt), nil
	case errors.Is(err, solve.ErrBusy):
		return mcp.NewToolResultError("Another expression is still being solved. Try again shortly."), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("solve failed: %v", err)), nil
	}

	text := formatResult(res)
	if res.Kind != solve.KindSuccess {
		return mcp.NewToolResultError(text), nil
	}
	return mcp.NewToolResultText(text), nil
}

func formatResult(res solve.Result) string {
	d := res.Display()
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", d.ResultText)
	if d.ExplanationText != "" {
		fmt.Fprintf(&b, "\n%s\n", d.ExplanationText)
	}
	return b.String()
}
