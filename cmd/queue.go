package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vesselkit/seachest/internal/photoqueue"
	"github.com/vesselkit/seachest/internal/progress"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect and drive the photo intake queue",
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the photo intake queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := newClient().Queue(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("queue is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tPHOTOS\tEXTRACTED\tERROR")
		for _, item := range items {
			extracted := ""
			if item.Extracted != nil {
				extracted = item.Extracted.GenericName
				if item.Extracted.Strength != "" {
					extracted += " " + item.Extracted.Strength
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				item.ID, item.Status, len(item.ImagePaths), extracted, item.Error)
		}
		return w.Flush()
	},
}

var queueProcessAllCmd = &cobra.Command{
	Use:   "process-all",
	Short: "Run AI extraction over every pending photo",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		items, err := c.Queue(cmd.Context())
		if err != nil {
			return err
		}

		var pending []photoqueue.Item
		for _, item := range items {
			if item.Status == photoqueue.StatusQueued {
				pending = append(pending, item)
			}
		}
		if len(pending) == 0 {
			fmt.Println("nothing to process")
			return nil
		}

		reporter := progress.NewReporter()
		reporter.Start("Processing photos", len(pending))

		failed := 0
		for i, item := range pending {
			processed, err := c.ProcessPhoto(cmd.Context(), item.ID)
			if err != nil {
				return fmt.Errorf("processing %s: %w", item.ID, err)
			}
			if processed.Status == photoqueue.StatusFailed {
				failed++
			}
			reporter.Update(i+1, "")
		}
		reporter.Finish()

		fmt.Printf("processed %d photo(s), %d failed\n", len(pending), failed)
		return nil
	},
}

func init() {
	queueCmd.AddCommand(queueListCmd)
	queueCmd.AddCommand(queueProcessAllCmd)
	rootCmd.AddCommand(queueCmd)
}
