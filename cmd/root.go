package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ams",
	Short: "Math solver shell for the browser, the terminal and AI agents",
	Long: `ams is the front end of a math expression solver. It sends expressions
to a solver service and shows the result with a step-by-step explanation,
alongside instructions, version notes, a rating and comment widget and a
simple login flow. The same shell runs in the browser (ams serve), in the
terminal (ams shell) and as an MCP tool for AI agents (ams mcp).`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".ams.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
