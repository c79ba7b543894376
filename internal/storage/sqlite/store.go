package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS challenges (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	start_date    TEXT NOT NULL,
	duration      INTEGER NOT NULL,
	strict_mode   INTEGER NOT NULL,
	status        TEXT NOT NULL,
	end_date      TEXT,
	failed_on_day INTEGER,
	shared        INTEGER NOT NULL,
	goals         TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
	id           TEXT NOT NULL,
	challenge_id TEXT NOT NULL,
	goal_id      TEXT NOT NULL,
	date         TEXT NOT NULL,
	completed    INTEGER NOT NULL,
	note         TEXT NOT NULL DEFAULT '',
	updated_at   TEXT NOT NULL,
	PRIMARY KEY (date, goal_id)
);

CREATE INDEX IF NOT EXISTS idx_entries_goal ON entries(goal_id);
`

const (
	settingCurrentChallenge = "current_challenge_id"
	settingLastSyncAt       = "last_sync_at"
)

// Store is the SQLite replica store adapter.
type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'stride init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Schema creation is idempotent; running it on load also upgrades
	// databases created before a table existed.
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) getSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) setSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (s *Store) GetCurrentChallengeID() (string, error) {
	return s.getSetting(settingCurrentChallenge)
}

func (s *Store) SetCurrentChallengeID(id string) error {
	if id == "" {
		_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", settingCurrentChallenge)
		return err
	}
	return s.setSetting(settingCurrentChallenge, id)
}

func (s *Store) GetLastSyncAt() (string, error) {
	return s.getSetting(settingLastSyncAt)
}

func (s *Store) SetLastSyncAt(ts string) error {
	return s.setSetting(settingLastSyncAt, ts)
}

// GetConfigPath returns the path to the underlying database file.
func (s *Store) GetConfigPath() string {
	return s.path
}
