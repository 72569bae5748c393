package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/amsmath/ams/internal/solve"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the solver to agents.
type Server struct {
	solver *solve.Coordinator
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server backed by the given coordinator.
func NewServer(solver *solve.Coordinator) *Server {
	s := &Server{solver: solver}

	s.mcp = server.NewMCPServer(
		"ams",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(solveExpressionTool, s.handleSolveExpression)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
