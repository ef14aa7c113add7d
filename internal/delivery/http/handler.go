package http

import (
	"errors"
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/prezzoscout/backend/internal/domain"
	"github.com/prezzoscout/backend/internal/usecase"
)

// User-facing messages. Per-offer problems are never surfaced; these cover
// the set-level failures only.
const (
	msgNoOffers     = "Nessuna offerta trovata. Prova a specificare meglio il modello."
	msgSearchFailed = "Impossibile analizzare le offerte per questo prodotto. Riprova."
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search    *usecase.SearchService
	suggest   *usecase.SuggestService
	favorites *usecase.FavoritesService
	stores    *usecase.StoreDirectory
	sessions  *usecase.SessionRegistry
}

// NewHandler creates a new HTTP handler
func NewHandler(
	search *usecase.SearchService,
	suggest *usecase.SuggestService,
	favorites *usecase.FavoritesService,
	stores *usecase.StoreDirectory,
) *Handler {
	return &Handler{
		search:    search,
		suggest:   suggest,
		favorites: favorites,
		stores:    stores,
		sessions:  usecase.NewSessionRegistry(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "prezzoscout-backend",
		"version": "1.0.0",
	})
}

// Search runs a full price comparison for the posted query.
func (h *Handler) Search(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	session := req.SessionID
	if session == "" {
		session = c.ClientIP()
	}
	seq := h.sessions.Begin(session)

	data, err := h.search.Search(c.Request.Context(), req.Query)
	if err != nil {
		status, message := mapSearchError(err)
		h.sessions.Fail(session, seq, message)
		c.JSON(status, gin.H{"error": message})
		return
	}

	h.sessions.Complete(session, seq, data)

	// Display order is price-ascending; ProductData keeps the model's
	// insertion order internally.
	response := *data
	response.Offers = append([]domain.Offer(nil), data.Offers...)
	sort.SliceStable(response.Offers, func(i, j int) bool {
		return response.Offers[i].Price < response.Offers[j].Price
	})

	c.JSON(http.StatusOK, response)
}

func mapSearchError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "query is required"
	case errors.Is(err, domain.ErrNoOffersFound):
		return http.StatusNotFound, msgNoOffers
	default:
		// Parse and transport failures share the generic path.
		log.Printf("[SEARCH] failed: %v", err)
		return http.StatusBadGateway, msgSearchFailed
	}
}

// SearchStatus reports the lifecycle state of a session's latest search.
func (h *Handler) SearchStatus(c *gin.Context) {
	session := c.Query("session")
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session is required"})
		return
	}
	c.JSON(http.StatusOK, h.sessions.Snapshot(session))
}

// Suggest returns autocomplete suggestions. Always 200; failures degrade to
// an empty list.
func (h *Handler) Suggest(c *gin.Context) {
	suggestions := h.suggest.Suggest(c.Request.Context(), c.Query("q"))
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// ListFavorites returns the saved searches, most recent first.
func (h *Handler) ListFavorites(c *gin.Context) {
	items, err := h.favorites.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "favorites unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": items})
}

// ToggleFavorite adds the query to the favorites if absent, removes it if
// present.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	favorited, items, err := h.favorites.Toggle(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "favorites unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": favorited, "favorites": items})
}

// DeleteFavorite removes a saved search explicitly.
func (h *Handler) DeleteFavorite(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	items, err := h.favorites.Remove(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "favorites unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": items})
}

// StoreLogo resolves a best-effort logo URL for a store name, with the
// two-letter badge the UI falls back to.
func (h *Handler) StoreLogo(c *gin.Context) {
	store := c.Query("store")
	if store == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"logoUrl": h.stores.LogoURL(store),
		"badge":   usecase.Badge(store),
	})
}
