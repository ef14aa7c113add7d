package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/prezzoscout/backend/internal/domain"
)

// SearchServiceConfig holds configuration for the search service.
type SearchServiceConfig struct {
	EnableDebugLogging bool
}

// SearchService runs one product search end to end: grounded model call,
// response extraction, search-key derivation, offer aggregation.
type SearchService struct {
	client     domain.GenerativeClient
	stores     *StoreDirectory
	aggregator *OfferAggregator
	debug      bool
}

// NewSearchService creates a search service with its dependencies.
func NewSearchService(client domain.GenerativeClient, stores *StoreDirectory, config SearchServiceConfig) *SearchService {
	return &SearchService{
		client:     client,
		stores:     stores,
		aggregator: NewOfferAggregator(stores),
		debug:      config.EnableDebugLogging,
	}
}

// Search resolves a free-text product query into a validated ProductData.
// Flow: grounded generate -> extract JSON -> derive search key -> aggregate
// offers -> stamp. Per-offer failures are recovered inside aggregation; only
// set-level failures propagate.
func (s *SearchService) Search(ctx context.Context, query string) (*domain.ProductData, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	result, err := s.client.GenerateGrounded(ctx, buildSearchPrompt(query))
	if err != nil {
		return nil, err
	}

	raw, err := ExtractStructured(result.Text)
	if err != nil {
		log.Printf("[SEARCH] extraction failed for %q: %v", query, err)
		return nil, err
	}

	var payload domain.ModelProductPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResponseParse, err)
	}

	key := deriveSearchKey(&payload, query)
	if s.debug {
		log.Printf("[SEARCH] query=%q searchKey=%q offers=%d sources=%d",
			query, key.Raw, len(payload.Offers), len(result.Sources))
	}

	agg, err := s.aggregator.Aggregate(payload.Offers, key, result.Sources)
	if err != nil {
		return nil, err
	}

	productName := strings.TrimSpace(payload.ProductName)
	if productName == "" {
		productName = query
	}

	sources := result.Sources
	if sources == nil {
		// Keep the JSON field an array even without grounding citations.
		sources = []domain.GroundingSource{}
	}

	return &domain.ProductData{
		ProductName:  productName,
		ImageURL:     validateImageURL(payload.ImageURL),
		BestPrice:    agg.BestPrice,
		AveragePrice: agg.AveragePrice,
		Offers:       agg.Offers,
		LastUpdated:  time.Now().Format("15:04"),
		Sources:      sources,
	}, nil
}

// deriveSearchKey picks the token reused for every per-store link: the
// model's clean search query when usable, else the first three words of the
// model's product name, else the first three words of the user query.
// Retailer site searches reject long or oddly formatted queries, so the key
// is kept short and derived once per product.
func deriveSearchKey(payload *domain.ModelProductPayload, query string) SearchKey {
	candidate := strings.TrimSpace(payload.CleanSearchQuery)
	if len(candidate) < 2 {
		candidate = firstWords(payload.ProductName, 3)
	}
	if candidate == "" {
		candidate = firstWords(query, 3)
	}
	return NewSearchKey(candidate)
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

// validateImageURL accepts only well-formed absolute web URLs; anything else
// is treated as absent.
func validateImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return raw
}

// buildSearchPrompt embeds the user query in the fixed comparison
// instruction. The model is asked for pure JSON and for a short
// cleanSearchQuery tuned for retailer site searches.
func buildSearchPrompt(query string) string {
	return fmt.Sprintf(`Sei PrezzoScout, un comparatore prezzi tecnico e preciso.

RICERCA UTENTE: %q

OBIETTIVO: Trovare il codice modello esatto (SKU) e i prezzi attuali per costruire link di acquisto funzionanti.

ISTRUZIONI CRITICHE PER I LINK:
I siti come MediaWorld o Unieuro falliscono se cerchi frasi lunghe o imprecise.
Devi estrarre una "cleanSearchQuery" OTTIMIZZATA PER I MOTORI DI RICERCA INTERNI.

REGOLE CLEAN SEARCH QUERY:
1. Se e' uno smartphone/PC famoso: "Brand + Modello Base" (es. "Samsung S25 Ultra", "iPhone 15 128GB"). NON mettere colori.
2. Se e' un elettrodomestico (frigo, lavatrice): SOLO il CODICE MODELLO (es. "LNT3LF18S").
3. Se e' un accessorio: "Nome esatto breve" (es. "Apple AirTag", "DualSense PS5").

IMPORTANTE: Se il prodotto richiesto non esiste ancora, cerca il modello piu' recente ESISTENTE o indica chiaramente il modello futuro per la ricerca generica.

PASSI:
1. Identifica il modello esatto e il codice SKU.
2. Cerca i prezzi sui siti italiani (Amazon, Unieuro, MediaWorld, Euronics, ecc).
3. Genera la "cleanSearchQuery".

OUTPUT RICHIESTO (JSON PURO):
{
  "productName": "Nome completo commerciale (es. Samsung Galaxy S25 Ultra 512GB)",
  "cleanSearchQuery": "STRINGA PER RICERCA STORE (es. Samsung S25 Ultra)",
  "imageUrl": "URL immagine (se trovata)",
  "offers": [
    {
      "store": "Nome Store (es. Unieuro)",
      "price": "prezzo numero (es 499.00)",
      "description": "Info extra (es. 512GB, Silver)"
    }
  ]
}`, query)
}
