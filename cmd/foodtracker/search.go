package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "List food, USDA and recipe notes by name",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.Search.SearchFoods(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, items)
			}
			for _, item := range items {
				kind := "food"
				if item.Recipe {
					kind = "recipe"
				}
				fmt.Fprintf(out, "%-6s  %s  (%s)\n", kind, item.Name, item.NoteID)
			}
			return nil
		},
	}
}
