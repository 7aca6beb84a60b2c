package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export crew and history data from a running server",
}

// exportWriter opens the output target, stdout by default.
func exportWriter() (*os.File, func(), error) {
	if exportOut == "" || exportOut == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", exportOut, err)
	}
	return f, func() { f.Close() }, nil
}

var exportManifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Export the crew manifest (csv or xlsx)",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, closeOut, err := exportWriter()
		if err != nil {
			return err
		}
		defer closeOut()

		c := newClient()
		switch exportFormat {
		case "csv":
			return c.ManifestCSV(cmd.Context(), w)
		case "xlsx":
			if exportOut == "" || exportOut == "-" {
				return fmt.Errorf("xlsx export needs -o <file>")
			}
			return c.ManifestXLSX(cmd.Context(), w)
		default:
			return fmt.Errorf("unknown format %q: use csv or xlsx", exportFormat)
		}
	},
}

var exportMemberCmd = &cobra.Command{
	Use:   "member <id>",
	Short: "Export one crew member as flat text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, closeOut, err := exportWriter()
		if err != nil {
			return err
		}
		defer closeOut()
		return newClient().MemberExport(cmd.Context(), args[0], w)
	},
}

var exportEntryCmd = &cobra.Command{
	Use:   "entry <id>",
	Short: "Export one history entry as flat text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, closeOut, err := exportWriter()
		if err != nil {
			return err
		}
		defer closeOut()
		return newClient().EntryExport(cmd.Context(), args[0], w)
	},
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
	exportManifestCmd.Flags().StringVar(&exportFormat, "format", "csv", "manifest format: csv or xlsx")
	exportCmd.AddCommand(exportManifestCmd)
	exportCmd.AddCommand(exportMemberCmd)
	exportCmd.AddCommand(exportEntryCmd)
	rootCmd.AddCommand(exportCmd)
}
