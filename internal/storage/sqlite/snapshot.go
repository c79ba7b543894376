package sqlite

import (
	"fmt"

	"github.com/stridehq/stride/internal/models"
)

func (s *Store) ExportAll() (models.Snapshot, error) {
	challenges, err := s.ListChallenges()
	if err != nil {
		return models.Snapshot{}, err
	}
	entries, err := s.ListEntries()
	if err != nil {
		return models.Snapshot{}, err
	}
	current, err := s.GetCurrentChallengeID()
	if err != nil {
		return models.Snapshot{}, err
	}

	snap := models.Snapshot{
		Challenges: challenges,
		Entries:    entries,
	}
	if challenges == nil {
		snap.Challenges = []models.Challenge{}
	}
	if entries == nil {
		snap.Entries = []models.DayEntry{}
	}
	if current != "" {
		snap.CurrentChallengeID = &current
	}
	return snap, nil
}

// ImportAll replaces all challenges, entries and the current pointer in a
// single transaction. The sync watermark is preserved.
func (s *Store) ImportAll(snap models.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM challenges"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM settings WHERE key = ?", settingCurrentChallenge); err != nil {
		return err
	}

	for _, c := range snap.Challenges {
		if err := putChallenge(tx, c); err != nil {
			return err
		}
	}
	for _, e := range snap.Entries {
		if err := putEntry(tx, e); err != nil {
			return err
		}
	}
	if snap.CurrentChallengeID != nil && *snap.CurrentChallengeID != "" {
		_, err := tx.Exec("INSERT INTO settings (key, value) VALUES (?, ?)",
			settingCurrentChallenge, *snap.CurrentChallengeID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ClearAll wipes challenges, entries, the current pointer and the sync
// watermark in a single transaction.
func (s *Store) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin clear: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM challenges"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM settings"); err != nil {
		return err
	}

	return tx.Commit()
}
