package cmd

import (
	"github.com/spf13/cobra"

	"github.com/etherxppt/deckd/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize deckd configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the server and generates a .deckd.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
