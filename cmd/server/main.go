package main

import (
	"fmt"
	"log"
	"os"

	"github.com/prezzoscout/backend/config"
	httpDelivery "github.com/prezzoscout/backend/internal/delivery/http"
	"github.com/prezzoscout/backend/internal/infrastructure/favorites"
	"github.com/prezzoscout/backend/internal/infrastructure/gemini"
	"github.com/prezzoscout/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PrezzoScout Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Model: %s", cfg.Gemini.Model)

	// Initialize infrastructure dependencies
	favoritesStore, err := favorites.New(cfg.Favorites.DBPath)
	if err != nil {
		log.Fatalf("Failed to open favorites store at %s: %v", cfg.Favorites.DBPath, err)
	}
	defer favoritesStore.Close()

	geminiClient := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model)

	// Enable debug mode in development environment
	debug := cfg.Server.Environment == "development"
	if debug {
		geminiClient.SetDebug(true)
		log.Printf("Gemini client debug mode enabled")
	}

	// Initialize usecase layer
	storeDirectory := usecase.NewStoreDirectory(storeEntries(cfg.Stores))
	searchService := usecase.NewSearchService(geminiClient, storeDirectory, usecase.SearchServiceConfig{
		EnableDebugLogging: debug,
	})
	suggestService := usecase.NewSuggestService(geminiClient)
	favoritesService := usecase.NewFavoritesService(favoritesStore)

	if len(cfg.Stores) > 0 {
		log.Printf("Store directory: %d retailers from configuration", len(cfg.Stores))
	} else {
		log.Printf("Store directory: built-in retailer table")
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, suggestService, favoritesService, storeDirectory)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// storeEntries converts configured retailers into directory entries.
func storeEntries(entries []config.StoreEntry) []usecase.StoreEntry {
	converted := make([]usecase.StoreEntry, 0, len(entries))
	for _, e := range entries {
		converted = append(converted, usecase.StoreEntry{
			Key:         e.Key,
			Keywords:    e.Keywords,
			Template:    e.Template,
			PlusEncoded: e.PlusEncoded,
			Domain:      e.Domain,
		})
	}
	return converted
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
