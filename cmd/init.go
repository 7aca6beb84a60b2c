package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vesselkit/seachest/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize seachest configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure seachest for your vessel and generates a seachest.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
