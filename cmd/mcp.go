package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/amsmath/ams/internal/mcp"
	"github.com/amsmath/ams/internal/solve"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the solve_expression tool to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Stdout carries the protocol; logs always go to stderr.
		log.SetOutput(os.Stderr)
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "ams MCP server started on stdio (solver=%s)\n", cfg.SolveURL())

		srv := mcpserver.NewServer(solve.NewCoordinator(newSolveClient(cfg)))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
