package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

func newFactsCmd(opts *rootOptions) *cobra.Command {
	var serving string

	cmd := &cobra.Command{
		Use:   "facts [food]",
		Short: "Show the nutrition facts of a food note",
		Long: `Show the nutrition facts panel of a food note for one of its servings.
The food is a note name such as "Rolled Oats" or a path inside the vault.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			noteID, err := a.Vault.ResolveNoteID(ctx, args[0])
			if err != nil {
				return err
			}

			facts, err := a.Facts.FoodFacts(ctx, noteID, serving)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, facts)
			}

			labels := make([]string, 0, len(facts.Servings))
			for _, s := range facts.Servings {
				labels = append(labels, s.Label)
			}
			fmt.Fprintf(out, "%s\n", facts.NoteID)
			fmt.Fprintf(out, "Servings: %s\n\n", strings.Join(labels, ", "))
			return printFacts(out, facts.Facts)
		},
	}

	cmd.Flags().StringVarP(&serving, "serving", "s", "", "Serving label (defaults to the first serving)")
	return cmd
}

// printFacts renders a facts panel as aligned text
func printFacts(w io.Writer, facts domain.NutritionFacts) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Serving Size\t%s\n", facts.ServingSize)
	fmt.Fprintf(tw, "Calories\t%d\n", facts.Calories)
	for _, row := range facts.Rows {
		dv := ""
		if row.PercentDV != nil {
			dv = fmt.Sprintf("%d%%", *row.PercentDV)
		}
		fmt.Fprintf(tw, "%s\t%d%s\t%s\n", row.Label, row.Amount, row.Unit, dv)
	}
	return tw.Flush()
}
