package storage

import "github.com/stridehq/stride/internal/storage/sqlite"

// NewSQLiteStore creates the SQLite-backed replica store.
func NewSQLiteStore(path string) Provider {
	return sqlite.NewStore(path)
}
