package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRecipeCmd(opts *rootOptions) *cobra.Command {
	var total bool

	cmd := &cobra.Command{
		Use:   "recipe [recipe]",
		Short: "Show the nutrition facts of a recipe note",
		Long: `Sum the completed ingredient tasks of a recipe note and show the panel
for one serving, or for the whole recipe with --total.`,
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

			facts, err := a.Recipes.RecipeFacts(ctx, noteID, !total)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, facts)
			}

			fmt.Fprintf(out, "%s (%d servings)\n", facts.NoteID, facts.Servings)
			if len(facts.Totals.Failed) > 0 {
				fmt.Fprintf(out, "Not counted: %s\n", strings.Join(facts.Totals.Failed, ", "))
			}
			fmt.Fprintln(out)
			return printFacts(out, facts.Facts)
		},
	}

	cmd.Flags().BoolVar(&total, "total", false, "Show the whole recipe instead of one serving")
	return cmd
}
