package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("PREZZOSCOUT_SERVER_PORT")
		os.Unsetenv("PREZZOSCOUT_SERVER_ENVIRONMENT")
		os.Unsetenv("PREZZOSCOUT_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("PREZZOSCOUT_GEMINI_API_KEY")
		os.Unsetenv("PREZZOSCOUT_GEMINI_BASE_URL")
		os.Unsetenv("PREZZOSCOUT_GEMINI_MODEL")
		os.Unsetenv("PREZZOSCOUT_FAVORITES_DB_PATH")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Set required API key
		os.Setenv("PREZZOSCOUT_GEMINI_API_KEY", "test-key")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Gemini.BaseURL != "https://generativelanguage.googleapis.com" {
			t.Errorf("Gemini.BaseURL = %s", cfg.Gemini.BaseURL)
		}
		if cfg.Gemini.Model != "gemini-2.5-flash" {
			t.Errorf("Gemini.Model = %s, want gemini-2.5-flash", cfg.Gemini.Model)
		}
		if cfg.Favorites.DBPath != "prezzoscout.db" {
			t.Errorf("Favorites.DBPath = %s, want prezzoscout.db", cfg.Favorites.DBPath)
		}
		if len(cfg.Stores) != 0 {
			t.Errorf("Stores = %d entries, want none (built-in table applies downstream)", len(cfg.Stores))
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PREZZOSCOUT_SERVER_PORT", "9090")
		os.Setenv("PREZZOSCOUT_SERVER_ENVIRONMENT", "production")
		os.Setenv("PREZZOSCOUT_GEMINI_API_KEY", "custom-api-key")
		os.Setenv("PREZZOSCOUT_GEMINI_BASE_URL", "https://custom.api.example.com")
		os.Setenv("PREZZOSCOUT_GEMINI_MODEL", "gemini-2.5-pro")
		os.Setenv("PREZZOSCOUT_FAVORITES_DB_PATH", "/tmp/fav.db")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Gemini.APIKey != "custom-api-key" {
			t.Errorf("Gemini.APIKey = %s", cfg.Gemini.APIKey)
		}
		if cfg.Gemini.BaseURL != "https://custom.api.example.com" {
			t.Errorf("Gemini.BaseURL = %s", cfg.Gemini.BaseURL)
		}
		if cfg.Gemini.Model != "gemini-2.5-pro" {
			t.Errorf("Gemini.Model = %s", cfg.Gemini.Model)
		}
		if cfg.Favorites.DBPath != "/tmp/fav.db" {
			t.Errorf("Favorites.DBPath = %s", cfg.Favorites.DBPath)
		}
	})

	t.Run("fails without API key", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want missing API key error")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Gemini: GeminiConfig{
				APIKey: "key",
				Model:  "gemini-2.5-flash",
			},
			Favorites: FavoritesConfig{DBPath: "prezzoscout.db"},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("missing API key fails", func(t *testing.T) {
		cfg := valid()
		cfg.Gemini.APIKey = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error")
		}
	})

	t.Run("missing model fails", func(t *testing.T) {
		cfg := valid()
		cfg.Gemini.Model = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error")
		}
	})

	t.Run("missing favorites path fails", func(t *testing.T) {
		cfg := valid()
		cfg.Favorites.DBPath = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error")
		}
	})

	t.Run("store entry without template fails", func(t *testing.T) {
		cfg := valid()
		cfg.Stores = []StoreEntry{{Key: "fnac"}}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error")
		}
	})

	t.Run("complete store entry passes", func(t *testing.T) {
		cfg := valid()
		cfg.Stores = []StoreEntry{{
			Key:      "fnac",
			Keywords: []string{"fnac"},
			Template: "https://www.fnac.it/search?q=%s",
			Domain:   "fnac.it",
		}}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})
}
