package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpfieber/jots-food-tracker/config"
	"github.com/jpfieber/jots-food-tracker/internal/app"
	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// rootOptions are the persistent flags and the hooks tests replace
type rootOptions struct {
	vaultRoot string
	verbose   bool
	jsonOut   bool

	usdaClient domain.USDAClient
	now        func() time.Time
}

// newRootCmd builds the command tree
func newRootCmd(opts *rootOptions) *cobra.Command {
	if opts.now == nil {
		opts.now = time.Now
	}

	rootCmd := &cobra.Command{
		Use:   "foodtracker",
		Short: "Log food and read nutrition facts from a Markdown vault",
		Long: `foodtracker reads food, recipe and journal notes from a Markdown vault.
It renders nutrition facts, appends diary lines to the journal note of the day
and summarizes a day's macros per meal.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !opts.verbose {
				log.SetOutput(io.Discard)
				return
			}
			log.SetOutput(cmd.ErrOrStderr())
			log.SetFlags(log.Ltime | log.Lshortfile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.vaultRoot, "vault", "", "Vault directory (overrides vault.root)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		newFactsCmd(opts),
		newRecipeCmd(opts),
		newLogCmd(opts),
		newSummaryCmd(opts),
		newSearchCmd(opts),
		newCreateFoodCmd(opts),
		newImportCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// openApp loads the configuration, applies the persistent flags and wires the services
func (o *rootOptions) openApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if o.vaultRoot != "" {
		cfg.Vault.Root = o.vaultRoot
	}
	if o.verbose {
		cfg.Debug = true
	}
	return app.New(cfg, o.usdaClient)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
