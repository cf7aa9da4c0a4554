package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpfieber/jots-food-tracker/internal/usecase"
)

func newCreateFoodCmd(opts *rootOptions) *cobra.Command {
	var req usecase.CreateFoodRequest

	cmd := &cobra.Command{
		Use:   "create-food [name]",
		Short: "Create a food note from a nutrition label",
		Long: `Create a food note from the values printed on a nutrition label. Values are
per serving, either absolute or a percent of daily value ("15%"), and are stored
per 100 g.`,
		Example: `  foodtracker create-food "Granola Bar" --group Snacks --serving Bar --grams 40 \
    --calories 180 --nutrient fat=7 --nutrient sodium=5%`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			req.Name = args[0]
			noteID, err := a.FoodNotes.CreateFoodNote(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, map[string]string{"noteId": noteID})
			}
			fmt.Fprintf(out, "Created %s\n", noteID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&req.Group, "group", "g", "", "Food group")
	f.StringVar(&req.ServingDescription, "serving", "", "Serving description, e.g. Bar")
	f.Float64Var(&req.ServingGrams, "grams", 0, "Grams per serving")
	f.Float64Var(&req.ContainerGrams, "container", 0, "Grams per container (optional)")
	f.Float64Var(&req.Calories, "calories", 0, "Calories per serving")
	f.StringToStringVarP(&req.Nutrients, "nutrient", "n", nil, "Nutrient per serving as key=value, repeatable")
	cmd.MarkFlagRequired("group")
	cmd.MarkFlagRequired("serving")
	cmd.MarkFlagRequired("grams")
	return cmd
}
