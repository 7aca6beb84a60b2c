package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	serverURL string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "seachest",
	Short: "Vessel medical chest and crew management server",
	Long: `Seachest runs the medical chest management service for small vessels:
crew records, pharmacy and equipment inventory, AI-assisted medication
intake from photos, and a medical assistant chat that works offline
through a locally cached model.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "seachest.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8419", "server base URL for client commands")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
