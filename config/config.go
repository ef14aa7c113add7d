package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Favorites FavoritesConfig
	Stores    []StoreEntry `mapstructure:"stores"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds Generative Language API configuration
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// FavoritesConfig holds favorites persistence configuration
type FavoritesConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// StoreEntry is one canonical retailer loaded from configuration. When the
// stores list is empty the built-in retailer table is used, so new stores
// can be added from the config file without a code change.
type StoreEntry struct {
	Key         string   `mapstructure:"key"`
	Keywords    []string `mapstructure:"keywords"`
	Template    string   `mapstructure:"template"`
	PlusEncoded bool     `mapstructure:"plus_encoded"`
	Domain      string   `mapstructure:"domain"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/prezzoscout/")

	// Environment variable settings. The replacer maps nested keys such as
	// gemini.api_key to PREZZOSCOUT_GEMINI_API_KEY.
	v.SetEnvPrefix("PREZZOSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	// Gemini defaults
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	// Favorites defaults
	v.SetDefault("favorites.db_path", "prezzoscout.db")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set PREZZOSCOUT_GEMINI_API_KEY)")
	}

	if config.Gemini.Model == "" {
		return fmt.Errorf("Gemini model must not be empty")
	}

	if config.Favorites.DBPath == "" {
		return fmt.Errorf("favorites DB path must not be empty")
	}

	for i, store := range config.Stores {
		if store.Key == "" {
			return fmt.Errorf("stores[%d]: key must not be empty", i)
		}
		if store.Template == "" {
			return fmt.Errorf("stores[%d] (%s): search URL template must not be empty", i, store.Key)
		}
	}

	return nil
}
