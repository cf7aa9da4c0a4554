// Package app builds the vault, cache and services from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/jpfieber/jots-food-tracker/config"
	"github.com/jpfieber/jots-food-tracker/internal/domain"
	"github.com/jpfieber/jots-food-tracker/internal/infrastructure/cache"
	"github.com/jpfieber/jots-food-tracker/internal/infrastructure/usda"
	"github.com/jpfieber/jots-food-tracker/internal/infrastructure/vault"
	"github.com/jpfieber/jots-food-tracker/internal/usecase"
)

// App holds the wired dependencies shared by the server and the CLI
type App struct {
	Config *config.Config
	Cache  *cache.MemoryCache
	Vault  *vault.FSVault

	Facts     *usecase.FactsService
	Recipes   *usecase.RecipeService
	FoodLog   *usecase.FoodLogService
	Summary   *usecase.SummaryService
	FoodNotes *usecase.FoodNoteService
	Search    *usecase.SearchService
	Import    *usecase.USDAImportService
	Meals     *usecase.MealSuggester
}

// New opens the vault at cfg.Vault.Root and builds every service over it.
// usdaClient may be nil, in which case the FoodData Central client is built from cfg.
func New(cfg *config.Config, usdaClient domain.USDAClient) (*App, error) {
	memoryCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)

	v, err := vault.New(vault.Config{
		Root:            cfg.Vault.Root,
		FoodFolder:      cfg.Vault.FoodFolder,
		USDAFolder:      cfg.Vault.USDAFolder,
		RecipesFolder:   cfg.Vault.RecipesFolder,
		ExcludedFolders: cfg.Vault.ExcludedFolders,
		TaskPrefix:      cfg.Tracker.Prefix,
		Journal: vault.JournalLayout{
			RootFolder:    cfg.Journal.RootFolder,
			FolderPattern: cfg.Journal.FolderPattern,
			FilePattern:   cfg.Journal.FilePattern,
		},
		CacheTTL: cfg.Cache.TTL,
		Debug:    cfg.Debug,
	}, memoryCache)
	if err != nil {
		memoryCache.Close()
		return nil, fmt.Errorf("open vault: %w", err)
	}

	if usdaClient == nil {
		client := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL)
		client.SetDataTypes(cfg.USDA.DataTypes)
		client.SetRateLimit(cfg.RateLimit.USDA)
		client.SetDebug(cfg.Debug)
		usdaClient = client
	}

	recipes := usecase.NewRecipeService(v, usecase.RecipeServiceConfig{EnableDebugLogging: cfg.Debug})

	return &App{
		Config: cfg,
		Cache:  memoryCache,
		Vault:  v,

		Facts:   usecase.NewFactsService(v, usecase.FactsServiceConfig{EnableDebugLogging: cfg.Debug}),
		Recipes: recipes,
		FoodLog: usecase.NewFoodLogService(v, recipes, usecase.FoodLogServiceConfig{
			TaskPrefix:         cfg.Tracker.Prefix,
			NestEntries:        cfg.Journal.NestEntries,
			CreateMissing:      cfg.Journal.CreateMissing,
			EnableDebugLogging: cfg.Debug,
		}),
		Summary: usecase.NewSummaryService(v, usecase.SummaryServiceConfig{
			Meals:              cfg.Tracker.Meals,
			EnableDebugLogging: cfg.Debug,
		}),
		FoodNotes: usecase.NewFoodNoteService(v, usecase.FoodNoteServiceConfig{
			FoodFolder:         cfg.Vault.FoodFolder,
			FoodGroups:         cfg.Tracker.FoodGroups,
			EnableDebugLogging: cfg.Debug,
		}),
		Search: usecase.NewSearchService(v, usecase.SearchServiceConfig{
			MaxResults:         cfg.Tracker.MaxSearchResults,
			EnableDebugLogging: cfg.Debug,
		}),
		Import: usecase.NewUSDAImportService(memoryCache, usdaClient, v, usecase.USDAImportServiceConfig{
			USDAFolder:             cfg.Vault.USDAFolder,
			MinConfidenceThreshold: cfg.USDA.MinConfidence,
			EnableFuzzyMatching:    cfg.USDA.FuzzyMatching,
			EnableDebugLogging:     cfg.Debug,
		}),
		Meals: usecase.NewMealSuggester(cfg.Tracker.Meals),
	}, nil
}

// Watch keeps the note cache in step with edits made outside the process until
// ctx is cancelled. It returns at once when cache.watch is off.
func (a *App) Watch(ctx context.Context) error {
	if !a.Config.Cache.Watch {
		return nil
	}

	w, err := vault.NewWatcher(a.Vault)
	if err != nil {
		return fmt.Errorf("watch vault: %w", err)
	}
	log.Printf("Watching %s for changes", a.Vault.Root())
	return w.Run(ctx)
}

// Close stops the cache janitor
func (a *App) Close() {
	a.Cache.Close()
}
