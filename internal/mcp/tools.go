package mcp

import "github.com/mark3labs/mcp-go/mcp"

// solveExpressionTool defines the solve_expression MCP tool.
var solveExpressionTool = mcp.NewTool("solve_expression",
	mcp.WithDescription("Solve a math expression or equation with the configured solver and return the result with a step-by-step explanation."),
	mcp.WithString("expression",
		mcp.Required(),
		mcp.Description("Expression or equation to solve, for example \"2x + 3 = 7\""),
	),
)
