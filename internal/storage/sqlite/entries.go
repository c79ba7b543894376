package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/models"
)

const entryColumns = "id, challenge_id, goal_id, date, completed, note, updated_at"

func scanEntry(row interface{ Scan(...interface{}) error }) (models.DayEntry, error) {
	var e models.DayEntry
	var completed int

	err := row.Scan(&e.ID, &e.ChallengeID, &e.GoalID, &e.Date, &completed, &e.Note, &e.UpdatedAt)
	if err != nil {
		return models.DayEntry{}, err
	}
	e.Completed = completed != 0
	return e, nil
}

func (s *Store) GetEntry(date, goalID string) (models.DayEntry, error) {
	row := s.db.QueryRow("SELECT "+entryColumns+" FROM entries WHERE date = ? AND goal_id = ?", date, goalID)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return models.DayEntry{}, fmt.Errorf("entry %s/%s: %w", date, goalID, apperrors.ErrNotFound)
	}
	if err != nil {
		return models.DayEntry{}, err
	}
	return e, nil
}

func putEntry(ex execer, e models.DayEntry) error {
	_, err := ex.Exec(`
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, goal_id) DO UPDATE SET
			id = excluded.id,
			challenge_id = excluded.challenge_id,
			completed = excluded.completed,
			note = excluded.note,
			updated_at = excluded.updated_at`,
		e.ID, e.ChallengeID, e.GoalID, e.Date, boolInt(e.Completed), e.Note, e.UpdatedAt)
	return err
}

func (s *Store) PutEntry(e models.DayEntry) error {
	return putEntry(s.db, e)
}

func (s *Store) ListEntries() ([]models.DayEntry, error) {
	rows, err := s.db.Query("SELECT " + entryColumns + " FROM entries ORDER BY date, goal_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (s *Store) ListEntriesByGoalIDs(ids []string) ([]models.DayEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Query(
		"SELECT "+entryColumns+" FROM entries WHERE goal_id IN ("+placeholders+") ORDER BY date, goal_id",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (s *Store) DeleteEntriesForGoals(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := s.db.Exec("DELETE FROM entries WHERE goal_id IN ("+placeholders+")", args...)
	return err
}

func collectEntries(rows *sql.Rows) ([]models.DayEntry, error) {
	var entries []models.DayEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
