package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpfieber/jots-food-tracker/config"
	"github.com/jpfieber/jots-food-tracker/internal/app"
	httpDelivery "github.com/jpfieber/jots-food-tracker/internal/delivery/http"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Jots Food Tracker v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Vault: %s (food=%s, usda=%s, recipes=%s)",
		cfg.Vault.Root, cfg.Vault.FoodFolder, cfg.Vault.USDAFolder, cfg.Vault.RecipesFolder)
	log.Printf("Journal: %s/%s/%s", cfg.Journal.RootFolder, cfg.Journal.FolderPattern, cfg.Journal.FilePattern)

	// Initialize vault, cache and services
	a, err := app.New(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()
	log.Printf("Cache TTL: %s, watch: %v", cfg.Cache.TTL, cfg.Cache.Watch)

	if cfg.USDA.APIKey == "" {
		log.Printf("WARNING: USDA API key not configured, imports use the shared DEMO_KEY")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := a.Watch(ctx); err != nil {
			log.Printf("[WATCH] stopped: %v", err)
		}
	}()

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(httpDelivery.Services{
		Facts:     a.Facts,
		Recipes:   a.Recipes,
		FoodLog:   a.FoodLog,
		Summary:   a.Summary,
		FoodNotes: a.FoodNotes,
		Search:    a.Search,
		Import:    a.Import,
		Meals:     a.Meals,
		Notes:     a.Vault,
		Cache:     a.Cache,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
