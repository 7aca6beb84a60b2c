package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/vesselkit/seachest/internal/client"
)

var backupOut string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Download a backup archive from a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := backupOut
		if out == "" {
			out = fmt.Sprintf("seachest-backup-%s.tar.gz", time.Now().UTC().Format("20060102-150405"))
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()

		if err := newClient().Backup(cmd.Context(), f); err != nil {
			os.Remove(out)
			return err
		}
		fmt.Printf("backup written to %s\n", out)
		return nil
	},
}

// promptRestoreConfirm collects the two-step confirmation before a
// restore overwrites the server's live data directory: a yes/no prompt,
// then the typed arming token. Swapped out in tests.
var promptRestoreConfirm = func() (bool, string, error) {
	confirm := promptui.Prompt{
		Label:     "Restoring overwrites the server's data directory. Continue",
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, "", nil
		}
		return false, "", err
	}

	token := promptui.Prompt{
		Label: fmt.Sprintf("Type %s to confirm", client.ConfirmToken),
	}
	typed, err := token.Run()
	if err != nil {
		return false, "", err
	}
	return true, typed, nil
}

var restoreCmd = &cobra.Command{
	Use:   "restore <archive>",
	Short: "Upload a backup archive to a running server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		confirmed, typed, err := promptRestoreConfirm()
		if err != nil {
			return err
		}
		err = client.ConfirmedDelete(confirmed, typed, func() error {
			return newClient().Restore(cmd.Context(), f)
		})
		if errors.Is(err, client.ErrCancelled) {
			fmt.Println("restore cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println("backup restored")
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVarP(&backupOut, "output", "o", "", "archive file name")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
