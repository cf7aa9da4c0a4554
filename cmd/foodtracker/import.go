package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
	"github.com/jpfieber/jots-food-tracker/internal/usecase"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		req        usecase.ImportRequest
		candidates bool
	)

	cmd := &cobra.Command{
		Use:   "import [query]",
		Short: "Create a food note from USDA FoodData Central",
		Long: `Search FoodData Central for the query, pick the best matching food and write
it to the USDA folder. Use --candidates to list the ranked matches first, and
--fdc-id to import a specific food.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Query = strings.Join(args, " ")
			if strings.TrimSpace(req.Query) == "" && req.FdcID <= 0 {
				return errors.New("a query or --fdc-id is required")
			}

			a, err := opts.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if candidates {
				matches, err := a.Import.Candidates(ctx, req.Query)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return writeJSON(out, matches)
				}
				for _, m := range matches {
					fmt.Fprintf(out, "%5.1f  %-8d  %s\n", m.MatchScore, m.FdcID, m.Description)
				}
				return nil
			}

			result, err := a.Import.Import(ctx, req)
			if err != nil {
				if errors.Is(err, domain.ErrLowConfidence) && result != nil && result.Match != nil {
					return fmt.Errorf("best match %q scored %.1f, rerun with --force or --fdc-id %d: %w",
						result.Match.Description, result.Match.MatchScore, result.Match.FdcID, err)
				}
				return err
			}

			if opts.jsonOut {
				return writeJSON(out, result)
			}
			fmt.Fprintf(out, "Created %s\n", result.NoteID)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&req.FdcID, "fdc-id", 0, "Import this FoodData Central ID")
	f.BoolVar(&req.Force, "force", false, "Import the best match even under the confidence threshold")
	f.BoolVar(&candidates, "candidates", false, "List ranked matches without importing")
	return cmd
}
