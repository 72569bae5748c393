package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amsmath/ams/internal/progress"
	"github.com/amsmath/ams/internal/solve"
)

var solveJSON bool

var solveCmd = &cobra.Command{
	Use:   "solve <expression>",
	Short: "Solve one expression and print the result",
	Long:  `Sends the expression to the configured solver and prints the result and explanation. Arguments are joined with spaces.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		coord := solve.NewCoordinator(newSolveClient(cfg))
		reporter := progress.NewReporter()
		if solveJSON {
			reporter = progress.NewCIReporter(cmd.ErrOrStderr())
		}

		reporter.Start(solve.PendingResultText)
		res, err := coord.Solve(ctx, strings.Join(args, " "))
		reporter.Finish()
		if errors.Is(err, solve.ErrEmptyExpression) {
			return errors.New(solve.EmptyExpressionPrompt)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if solveJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		d := res.Display()
		fmt.Fprintln(out, d.ResultText)
		if d.ExplanationText != "" {
			fmt.Fprintf(out, "\n%s\n", d.ExplanationText)
		}
		if res.Kind != solve.KindSuccess {
			return fmt.Errorf("solve failed: %s", res.Kind)
		}
		return nil
	},
}

func init() {
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "print the raw result as JSON")
	rootCmd.AddCommand(solveCmd)
}
