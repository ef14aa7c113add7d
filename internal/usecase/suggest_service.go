package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/prezzoscout/backend/internal/domain"
)

const maxSuggestions = 5

// SuggestService fetches short autocomplete suggestions from the model.
// Suggestions are a best-effort enhancement: every failure degrades to an
// empty list and is never surfaced to the caller.
type SuggestService struct {
	client domain.GenerativeClient
}

// NewSuggestService creates a suggestion service.
func NewSuggestService(client domain.GenerativeClient) *SuggestService {
	return &SuggestService{client: client}
}

// Suggest returns up to five product suggestions for a partial or thematic
// query. Inputs shorter than three characters skip the external call
// entirely.
func (s *SuggestService) Suggest(ctx context.Context, partial string) []string {
	partial = strings.TrimSpace(partial)
	if utf8.RuneCountInString(partial) < 3 {
		return nil
	}

	text, err := s.client.GenerateJSON(ctx, buildSuggestPrompt(partial))
	if err != nil {
		log.Printf("[SUGGEST] model call failed: %v", err)
		return nil
	}

	raw, err := ExtractStructured(text)
	if err != nil {
		log.Printf("[SUGGEST] unparseable suggestions: %v", err)
		return nil
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	suggestions := make([]string, 0, maxSuggestions)
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		suggestions = append(suggestions, item)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions
}

// buildSuggestPrompt biases the model toward the newest and trending models
// so the dropdown surfaces current flagships first.
func buildSuggestPrompt(partial string) string {
	return fmt.Sprintf(`Sei un assistente esperto in tecnologia ed elettronica di consumo.
Contesto: L'utente sta digitando o cercando: %q.

Obiettivo: Restituisci un array JSON di 5 suggerimenti di prodotti SPECIFICI.

CRITERI DI ORDINAMENTO FONDAMENTALI:
1. NOVITA' E FUTURO: Dai SEMPRE priorita' assoluta ai modelli piu' recenti e alle prossime uscite flagship.
2. ESEMPI:
   - Se la query e' "Samsung", suggerisci prima "Samsung Galaxy S25" o "S24 Ultra" piuttosto che S20.
   - Se la query e' "iPhone", suggerisci "iPhone 16" o "15 Pro".
3. TRENDING: Se la query riguarda "novita'" o "tech", elenca i prodotti piu' desiderati del momento.

Output: Solo un array JSON di stringhe (es. ["Nome Prodotto 1", "Nome Prodotto 2"]). Nessun markdown.`, partial)
}
