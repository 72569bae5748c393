package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amsmath/ams/internal/console"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive terminal shell",
	Long:  `Opens a menu-driven terminal version of the solver shell: solve expressions, read the instructions, log in and leave feedback.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sh, database, err := buildShell(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
		defer stop()

		return console.New(sh, console.Options{
			Version: Version,
			Config:  cfg,
			Stdin:   os.Stdin,
			Stdout:  os.Stdout,
		}).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
