package domain

import "context"

// GenerativeClient defines the interface for the external generative model.
type GenerativeClient interface {
	// GenerateGrounded runs a prompt with web-search grounding enabled and
	// returns the response text plus any grounding citations.
	GenerateGrounded(ctx context.Context, prompt string) (*GenerationResult, error)

	// GenerateJSON runs a prompt in plain JSON mode without grounding.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// FavoritesRepository persists the favorites list as a whole. Load returns
// an empty list when nothing has been saved yet; Save rewrites the full list.
type FavoritesRepository interface {
	Load(ctx context.Context) ([]FavoriteItem, error)
	Save(ctx context.Context, items []FavoriteItem) error
}
