package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amsmath/ams/internal/dashboard"
	"github.com/amsmath/ams/internal/server"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web shell",
	Long:  `Serves the browser shell with a JSON API and a websocket that pushes every state change to connected pages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		sh, database, err := buildShell(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		srv := server.New(server.Config{
			Host:     serveHost,
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
			Verbose:  verbose,
		})
		dashboard.New(sh).RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "ams server %s starting on %s\n", Version, srv.Addr())
		fmt.Fprintf(os.Stderr, "  Solver: %s\n", cfg.SolveURL())
		fmt.Fprintf(os.Stderr, "  Feedback: %s\n", database.Path())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
	serveCmd.Flags().StringVar(&serveHost, "host", server.DefaultHost, "interface to bind (all browsers share one session)")
	rootCmd.AddCommand(serveCmd)
}
