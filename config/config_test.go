package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var configEnvVars = []string{
	"FOODTRACKER_SERVER_PORT",
	"FOODTRACKER_SERVER_ENVIRONMENT",
	"FOODTRACKER_VAULT_ROOT",
	"FOODTRACKER_VAULT_FOOD_FOLDER",
	"FOODTRACKER_JOURNAL_FOLDER_PATTERN",
	"FOODTRACKER_JOURNAL_CREATE_MISSING",
	"FOODTRACKER_TRACKER_PREFIX",
	"FOODTRACKER_USDA_API_KEY",
	"FOODTRACKER_USDA_BASE_URL",
	"FOODTRACKER_USDA_MIN_CONFIDENCE",
	"FOODTRACKER_CACHE_TTL",
	"FOODTRACKER_CACHE_WATCH",
	"FOODTRACKER_RATELIMIT_PER_IP",
	"FOODTRACKER_RATELIMIT_USDA",
	"FOODTRACKER_DEBUG",
}

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		for _, name := range configEnvVars {
			os.Unsetenv(name)
		}
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Vault.Root != "." {
			t.Errorf("Vault.Root = %s, want .", cfg.Vault.Root)
		}
		if cfg.Vault.FoodFolder != "Food" || cfg.Vault.USDAFolder != "USDA" || cfg.Vault.RecipesFolder != "Recipes" {
			t.Errorf("Vault folders = %+v, want Food/USDA/Recipes", cfg.Vault)
		}
		if cfg.Journal.RootFolder != "Journal" || cfg.Journal.FilePattern != "YYYY-MM-DD" {
			t.Errorf("Journal = %+v, want Journal/YYYY-MM-DD", cfg.Journal)
		}
		if cfg.Tracker.Prefix != "c" {
			t.Errorf("Tracker.Prefix = %s, want c", cfg.Tracker.Prefix)
		}
		if len(cfg.Tracker.Meals) != 4 {
			t.Fatalf("len(Tracker.Meals) = %d, want 4", len(cfg.Tracker.Meals))
		}
		if cfg.Tracker.Meals[0].Name != "Breakfast" || cfg.Tracker.Meals[0].DefaultTime != "08:00" {
			t.Errorf("Tracker.Meals[0] = %+v, want Breakfast at 08:00", cfg.Tracker.Meals[0])
		}
		if len(cfg.Tracker.FoodGroups) != len(DefaultFoodGroups) {
			t.Errorf("len(Tracker.FoodGroups) = %d, want %d", len(cfg.Tracker.FoodGroups), len(DefaultFoodGroups))
		}
		if cfg.USDA.APIKey != "" {
			t.Errorf("USDA.APIKey = %s, want empty", cfg.USDA.APIKey)
		}
		if cfg.USDA.BaseURL != "https://api.nal.usda.gov/fdc" {
			t.Errorf("USDA.BaseURL = %s, want https://api.nal.usda.gov/fdc", cfg.USDA.BaseURL)
		}
		if cfg.USDA.MinConfidence != 40 {
			t.Errorf("USDA.MinConfidence = %v, want 40", cfg.USDA.MinConfidence)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if !cfg.Cache.Watch {
			t.Error("Cache.Watch = false, want true")
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.USDA != 1000 {
			t.Errorf("RateLimit.USDA = %d, want 1000", cfg.RateLimit.USDA)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FOODTRACKER_SERVER_PORT", "9090")
		os.Setenv("FOODTRACKER_VAULT_ROOT", "/notes")
		os.Setenv("FOODTRACKER_VAULT_FOOD_FOLDER", "Nutrition/Foods")
		os.Setenv("FOODTRACKER_JOURNAL_FOLDER_PATTERN", "YYYY/MM")
		os.Setenv("FOODTRACKER_JOURNAL_CREATE_MISSING", "true")
		os.Setenv("FOODTRACKER_TRACKER_PREFIX", "f")
		os.Setenv("FOODTRACKER_USDA_API_KEY", "custom-api-key")
		os.Setenv("FOODTRACKER_USDA_MIN_CONFIDENCE", "55")
		os.Setenv("FOODTRACKER_CACHE_TTL", "24h")
		os.Setenv("FOODTRACKER_RATELIMIT_PER_IP", "200")
		os.Setenv("FOODTRACKER_DEBUG", "true")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Vault.Root != "/notes" {
			t.Errorf("Vault.Root = %s, want /notes", cfg.Vault.Root)
		}
		if cfg.Vault.FoodFolder != "Nutrition/Foods" {
			t.Errorf("Vault.FoodFolder = %s, want Nutrition/Foods", cfg.Vault.FoodFolder)
		}
		if cfg.Journal.FolderPattern != "YYYY/MM" {
			t.Errorf("Journal.FolderPattern = %s, want YYYY/MM", cfg.Journal.FolderPattern)
		}
		if !cfg.Journal.CreateMissing {
			t.Error("Journal.CreateMissing = false, want true")
		}
		if cfg.Tracker.Prefix != "f" {
			t.Errorf("Tracker.Prefix = %s, want f", cfg.Tracker.Prefix)
		}
		if cfg.USDA.APIKey != "custom-api-key" {
			t.Errorf("USDA.APIKey = %s, want custom-api-key", cfg.USDA.APIKey)
		}
		if cfg.USDA.MinConfidence != 55 {
			t.Errorf("USDA.MinConfidence = %v, want 55", cfg.USDA.MinConfidence)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if !cfg.Debug {
			t.Error("Debug = false, want true")
		}
	})

	t.Run("fails validation for a multi-character prefix", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FOODTRACKER_TRACKER_PREFIX", "xx")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for invalid prefix")
		}
		if !strings.HasPrefix(err.Error(), "invalid configuration: tracker prefix") {
			t.Errorf("Load() error = %v, want tracker prefix error", err)
		}
	})

	t.Run("fails validation for an out of range confidence", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FOODTRACKER_USDA_MIN_CONFIDENCE", "150")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for min_confidence")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		err := loadEnvFile()
		if err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file
		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2

# Another comment
TEST_VAR_3=value3
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		// Clear any existing values
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_VAR_3") != "value3" {
			t.Errorf("TEST_VAR_3 = %s, want value3", os.Getenv("TEST_VAR_3"))
		}

		// Cleanup
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")
	})

	t.Run("skips empty lines and comments", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file with various formats
		envContent := `
# This is a comment
   # This is also a comment

TEST_SKIP_1=value1

TEST_SKIP_2=value2
# TEST_COMMENTED=should_not_load
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_SKIP_1")
		os.Unsetenv("TEST_SKIP_2")
		os.Unsetenv("TEST_COMMENTED")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_SKIP_1") != "value1" {
			t.Errorf("TEST_SKIP_1 not loaded correctly")
		}
		if os.Getenv("TEST_SKIP_2") != "value2" {
			t.Errorf("TEST_SKIP_2 not loaded correctly")
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}

		os.Unsetenv("TEST_SKIP_1")
		os.Unsetenv("TEST_SKIP_2")
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Set existing env var
		os.Setenv("TEST_OVERRIDE", "existing-value")

		// Create .env file that tries to override
		envContent := "TEST_OVERRIDE=new-value"
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		// Should still have original value
		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}

		os.Unsetenv("TEST_OVERRIDE")
	})
}

func validConfig() *Config {
	return &Config{
		Vault:     VaultConfig{Root: "."},
		Tracker:   TrackerConfig{Prefix: "c", Meals: DefaultMeals()},
		USDA:      USDAConfig{MinConfidence: 40},
		Cache:     CacheConfig{TTL: time.Hour},
		RateLimit: RateLimitConfig{PerIP: 100, USDA: 1000},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"empty vault root", func(c *Config) { c.Vault.Root = " " }, true},
		{"empty prefix", func(c *Config) { c.Tracker.Prefix = "" }, true},
		{"space prefix", func(c *Config) { c.Tracker.Prefix = " " }, true},
		{"unicode prefix", func(c *Config) { c.Tracker.Prefix = "é" }, false},
		{"no meals", func(c *Config) { c.Tracker.Meals = nil }, true},
		{"unnamed meal", func(c *Config) { c.Tracker.Meals[1].Name = "" }, true},
		{"duplicate meal", func(c *Config) { c.Tracker.Meals[1].Name = "breakfast" }, true},
		{"bad default time", func(c *Config) { c.Tracker.Meals[0].DefaultTime = "8am" }, true},
		{"meal without default time", func(c *Config) { c.Tracker.Meals[0].DefaultTime = "" }, false},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, true},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, false},
		{"negative confidence", func(c *Config) { c.USDA.MinConfidence = -1 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimit.PerIP = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
