package cmd

import (
	"github.com/spf13/cobra"

	"github.com/amsmath/ams/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ams configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the solver endpoint, web port and feedback storage, and writes them to .ams.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
