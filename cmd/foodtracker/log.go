package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpfieber/jots-food-tracker/internal/usecase"
)

const dateLayout = "2006-01-02"

func newLogCmd(opts *rootOptions) *cobra.Command {
	var (
		date, at, meal, serving, recipe string
		req                             usecase.LogRequest
	)

	cmd := &cobra.Command{
		Use:   "log [food]",
		Short: "Append a food entry to the journal",
		Long: `Scale a food note to the chosen serving and append the diary line to the
journal note of the day. With --meal Recipe and --recipe the ingredient line is
added to that recipe note instead. --manual logs the given macros without a
food note.`,
		Example: `  foodtracker log "Rolled Oats" --meal Breakfast --serving Cup --qty 1.5
  foodtracker log Coffee --manual --cal 5
  foodtracker log Porridge --serving "1/2 of Recipe"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			now := opts.now()
			req.Date = now
			if date != "" {
				d, err := time.ParseInLocation(dateLayout, date, now.Location())
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
				req.Date = d
			}
			req.Time = at
			if req.Time == "" {
				req.Time = now.Format("15:04")
			}
			req.Meal = meal
			if req.Meal == "" {
				if m, ok := a.Meals.Suggest(now); ok {
					req.Meal = m.Name
				}
			}
			req.Food = args[0]
			req.Serving = serving
			req.RecipeNote = recipe

			result, err := a.FoodLog.LogFood(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, result)
			}
			fmt.Fprintf(out, "%s\n%s\n", result.NoteID, result.Line)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&date, "date", "", "Journal date YYYY-MM-DD (defaults to today)")
	f.StringVar(&at, "time", "", "Time HH:MM (defaults to now)")
	f.StringVarP(&meal, "meal", "m", "", "Meal name (defaults to the meal closest to now)")
	f.StringVarP(&serving, "serving", "s", "", `Serving label, "label | Ng" or "n/d of Recipe"`)
	f.Float64VarP(&req.Quantity, "qty", "q", 1, "Number of servings")
	f.StringVar(&recipe, "recipe", "", "Recipe note to add the ingredient to (with --meal Recipe)")
	f.BoolVar(&req.Manual, "manual", false, "Log the given macros without a food note")
	f.Float64Var(&req.Calories, "cal", 0, "Calories of a manual entry")
	f.Float64Var(&req.Fat, "fat", 0, "Fat grams of a manual entry")
	f.Float64Var(&req.Carbs, "carbs", 0, "Carbohydrate grams of a manual entry")
	f.Float64Var(&req.Protein, "protein", 0, "Protein grams of a manual entry")
	return cmd
}
