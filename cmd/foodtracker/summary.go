package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [date]",
		Short: "Summarize a journal day per meal",
		Long:  `Print the calories and macros of a journal day per meal as a Markdown table. The date defaults to today.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := opts.now()
			date := now
			if len(args) == 1 {
				d, err := time.ParseInLocation(dateLayout, args[0], now.Location())
				if err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
				}
				date = d
			}

			a, err := opts.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.Summary.DaySummary(cmd.Context(), date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, summary)
			}
			if summary.Markdown == "" {
				fmt.Fprintf(out, "No completed entries in %s\n", summary.NoteID)
				return nil
			}
			fmt.Fprint(out, summary.Markdown)
			return nil
		},
	}
}
