package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prezzoscout/backend/internal/domain"
)

// FavoritesService manages the saved-search list. The list is loaded and
// rewritten as a whole on every mutation; entries are unique by query string
// and ordered most-recently-added first.
type FavoritesService struct {
	repo domain.FavoritesRepository
	now  func() time.Time
}

// NewFavoritesService creates a favorites service.
func NewFavoritesService(repo domain.FavoritesRepository) *FavoritesService {
	return &FavoritesService{repo: repo, now: time.Now}
}

// List returns the saved favorites, most recent first.
func (s *FavoritesService) List(ctx context.Context) ([]domain.FavoriteItem, error) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFavoritesUnavailable, err)
	}
	return items, nil
}

// Toggle adds the query to the front of the list if absent, or removes it if
// present. Returns whether the query is a favorite after the call, plus the
// resulting list.
func (s *FavoritesService) Toggle(ctx context.Context, query string) (bool, []domain.FavoriteItem, error) {
	if query == "" {
		return false, nil, domain.ErrInvalidRequest
	}

	items, err := s.repo.Load(ctx)
	if err != nil {
		return false, nil, fmt.Errorf("%w: %v", domain.ErrFavoritesUnavailable, err)
	}

	if filtered, removed := removeQuery(items, query); removed {
		if err := s.repo.Save(ctx, filtered); err != nil {
			return false, nil, fmt.Errorf("%w: %v", domain.ErrFavoritesUnavailable, err)
		}
		return false, filtered, nil
	}

	updated := append([]domain.FavoriteItem{{
		Query:     query,
		Timestamp: s.now().UnixMilli(),
	}}, items...)

	if err := s.repo.Save(ctx, updated); err != nil {
		return false, nil, fmt.Errorf("%w: %v", domain.ErrFavoritesUnavailable, err)
	}
	return true, updated, nil
}

// Remove deletes the query from the list; removing an absent query is not an
// error.
func (s *FavoritesService) Remove(ctx context.Context, query string) ([]domain.FavoriteItem, error) {
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFavoritesUnavailable, err)
	}

	filtered, removed := removeQuery(items, query)
	if !removed {
		return items, nil
	}

	if err := s.repo.Save(ctx, filtered); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFavoritesUnavailable, err)
	}
	return filtered, nil
}

func removeQuery(items []domain.FavoriteItem, query string) ([]domain.FavoriteItem, bool) {
	filtered := make([]domain.FavoriteItem, 0, len(items))
	removed := false
	for _, item := range items {
		if item.Query == query {
			removed = true
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, removed
}
