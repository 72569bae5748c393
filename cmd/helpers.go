package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/amsmath/ams/internal/config"
	"github.com/amsmath/ams/internal/db"
	"github.com/amsmath/ams/internal/feedback"
	"github.com/amsmath/ams/internal/shell"
	"github.com/amsmath/ams/internal/solve"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `ams init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// setupLogging routes component logs to stderr, or drops them unless
// --verbose is set.
func setupLogging() {
	log.SetFlags(log.LstdFlags)
	if verbose {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}

func newSolveClient(cfg *config.Config) *solve.Client {
	return solve.NewClient(cfg.Solver.BaseURL, nil)
}

// buildShell opens the feedback database and wires a shell over the
// configured solver. The caller closes the returned database.
func buildShell(cfg *config.Config) (*shell.Shell, *db.DB, error) {
	database, err := db.Open(cfg.Feedback.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("opening feedback database: %w", err)
	}

	sh, err := shell.New(cfg, shell.DefaultSurface(), shell.Deps{
		Solver:   newSolveClient(cfg),
		Feedback: feedback.NewStore(database),
	})
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return sh, database, nil
}
