package favorites

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"github.com/prezzoscout/backend/internal/domain"
)

// listKey is the single fixed key the favorites list lives under. The list
// is stored as one JSON blob and rewritten wholesale on every mutation,
// matching the key-value contract of the web client's storage.
const listKey = "favorites"

// Store persists the favorites list in a sqlite key-value table.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the favorites database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Load returns the saved list. A missing row or corrupt payload reads as an
// empty list, never an error.
func (s *Store) Load(ctx context.Context) ([]domain.FavoriteItem, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM kv WHERE key = ?`, listKey,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.FavoriteItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []domain.FavoriteItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		log.Printf("[FAVORITES] corrupt list, treating as empty: %v", err)
		return []domain.FavoriteItem{}, nil
	}
	return items, nil
}

// Save rewrites the whole list under the fixed key.
func (s *Store) Save(ctx context.Context, items []domain.FavoriteItem) error {
	if items == nil {
		items = []domain.FavoriteItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, data, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key)
		 DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		listKey, string(data), time.Now().UTC(),
	)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
