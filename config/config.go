package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Vault     VaultConfig     `mapstructure:"vault"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	USDA      USDAConfig      `mapstructure:"usda"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Debug     bool            `mapstructure:"debug"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// VaultConfig locates the notes folder and its food sub-folders
type VaultConfig struct {
	Root            string   `mapstructure:"root"`
	FoodFolder      string   `mapstructure:"food_folder"`
	USDAFolder      string   `mapstructure:"usda_folder"`
	RecipesFolder   string   `mapstructure:"recipes_folder"`
	ExcludedFolders []string `mapstructure:"excluded_folders"`
}

// JournalConfig places the daily journal notes
type JournalConfig struct {
	RootFolder    string `mapstructure:"root_folder"`
	FolderPattern string `mapstructure:"folder_pattern"`
	FilePattern   string `mapstructure:"file_pattern"`
	NestEntries   bool   `mapstructure:"nest_entries"`
	CreateMissing bool   `mapstructure:"create_missing"`
}

// TrackerConfig holds the diary settings
type TrackerConfig struct {
	Prefix           string        `mapstructure:"prefix"` // task marker, "c" writes "- [c]"
	Meals            []domain.Meal `mapstructure:"meals"`
	FoodGroups       []string      `mapstructure:"food_groups"`
	MaxSearchResults int           `mapstructure:"max_search_results"`
}

// USDAConfig holds USDA API configuration
type USDAConfig struct {
	APIKey        string   `mapstructure:"api_key"`
	BaseURL       string   `mapstructure:"base_url"`
	DataTypes     []string `mapstructure:"data_types"`
	MinConfidence float64  `mapstructure:"min_confidence"`
	FuzzyMatching bool     `mapstructure:"fuzzy_matching"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Watch           bool          `mapstructure:"watch"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	USDA  int `mapstructure:"usda"`   // requests per hour
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/foodtracker/")

	// FOODTRACKER_VAULT_ROOT overrides vault.root
	v.SetEnvPrefix("FOODTRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}
	return nil
}

// DefaultMeals are the meal slots used when none are configured
func DefaultMeals() []domain.Meal {
	return []domain.Meal{
		{Name: "Breakfast", Emoji: "🍳", DefaultTime: "08:00"},
		{Name: "Lunch", Emoji: "🥪", DefaultTime: "12:00"},
		{Name: "Dinner", Emoji: "🍽️", DefaultTime: "18:00"},
		{Name: "Snack", Emoji: "🍎", DefaultTime: "15:00"},
	}
}

// DefaultFoodGroups are the groups offered when creating a food note
var DefaultFoodGroups = []string{
	"American Indian", "Baby Foods", "Baked Foods", "Beans and Lentils", "Beverages",
	"Breakfast Cereals", "Dairy and Egg Products", "Fast Foods", "Fats and Oils", "Fish",
	"Fruits", "Grains and Pasta", "Meats", "Nuts and Seeds", "Prepared Meals",
	"Restaurant Foods", "Snacks", "Soups and Sauces", "Spices and Herbs", "Sweets", "Vegetables",
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"app://obsidian.md"})

	// Vault defaults
	v.SetDefault("vault.root", ".")
	v.SetDefault("vault.food_folder", "Food")
	v.SetDefault("vault.usda_folder", "USDA")
	v.SetDefault("vault.recipes_folder", "Recipes")
	v.SetDefault("vault.excluded_folders", []string{})

	// Journal defaults
	v.SetDefault("journal.root_folder", "Journal")
	v.SetDefault("journal.folder_pattern", "")
	v.SetDefault("journal.file_pattern", "YYYY-MM-DD")
	v.SetDefault("journal.nest_entries", false)
	v.SetDefault("journal.create_missing", false)

	// Tracker defaults
	meals := make([]map[string]any, 0, 4)
	for _, m := range DefaultMeals() {
		meals = append(meals, map[string]any{"name": m.Name, "emoji": m.Emoji, "default_time": m.DefaultTime})
	}
	v.SetDefault("tracker.prefix", "c")
	v.SetDefault("tracker.meals", meals)
	v.SetDefault("tracker.food_groups", DefaultFoodGroups)
	v.SetDefault("tracker.max_search_results", 50)

	// USDA defaults
	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("usda.data_types", []string{"Foundation", "SR Legacy", "Survey (FNDDS)"})
	v.SetDefault("usda.min_confidence", 40.0)
	v.SetDefault("usda.fuzzy_matching", true)

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.watch", true)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.usda", 1000)

	v.SetDefault("debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if strings.TrimSpace(config.Vault.Root) == "" {
		return fmt.Errorf("vault root is required (set FOODTRACKER_VAULT_ROOT)")
	}

	prefix := config.Tracker.Prefix
	if utf8.RuneCountInString(prefix) != 1 || strings.TrimSpace(prefix) == "" {
		return fmt.Errorf("tracker prefix must be a single non-space character, got: %q", prefix)
	}

	if len(config.Tracker.Meals) == 0 {
		return fmt.Errorf("at least one meal is required")
	}
	seen := make(map[string]bool, len(config.Tracker.Meals))
	for _, m := range config.Tracker.Meals {
		name := strings.ToLower(strings.TrimSpace(m.Name))
		if name == "" {
			return fmt.Errorf("meal name is required")
		}
		if seen[name] {
			return fmt.Errorf("duplicate meal: %s", m.Name)
		}
		seen[name] = true
		if m.DefaultTime != "" {
			if _, err := time.Parse("15:04", m.DefaultTime); err != nil {
				return fmt.Errorf("meal %s: default_time must be HH:MM, got: %s", m.Name, m.DefaultTime)
			}
		}
	}

	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got: %s", config.Cache.TTL)
	}

	if config.USDA.MinConfidence < 0 || config.USDA.MinConfidence > 100 {
		return fmt.Errorf("usda min_confidence must be between 0 and 100, got: %g", config.USDA.MinConfidence)
	}

	if config.RateLimit.PerIP <= 0 || config.RateLimit.USDA <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}

	return nil
}
