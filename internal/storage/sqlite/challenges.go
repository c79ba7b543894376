package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/models"
)

const challengeColumns = "id, name, start_date, duration, strict_mode, status, end_date, failed_on_day, shared, goals, updated_at"

func scanChallenge(row interface{ Scan(...interface{}) error }) (models.Challenge, error) {
	var c models.Challenge
	var strictMode, shared int
	var endDate sql.NullString
	var failedOnDay sql.NullInt64
	var goalsJSON string

	err := row.Scan(&c.ID, &c.Name, &c.StartDate, &c.Duration, &strictMode, &c.Status,
		&endDate, &failedOnDay, &shared, &goalsJSON, &c.UpdatedAt)
	if err != nil {
		return models.Challenge{}, err
	}

	c.StrictMode = strictMode != 0
	c.Shared = shared != 0
	if endDate.Valid {
		c.EndDate = &endDate.String
	}
	if failedOnDay.Valid {
		day := int(failedOnDay.Int64)
		c.FailedOnDay = &day
	}
	if err := json.Unmarshal([]byte(goalsJSON), &c.Goals); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to parse goals: %w", err)
	}

	return c, nil
}

func (s *Store) GetChallenge(id string) (models.Challenge, error) {
	row := s.db.QueryRow("SELECT "+challengeColumns+" FROM challenges WHERE id = ?", id)

	c, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return models.Challenge{}, fmt.Errorf("challenge %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return models.Challenge{}, err
	}
	return c, nil
}

func putChallenge(ex execer, c models.Challenge) error {
	goalsJSON, err := json.Marshal(c.Goals)
	if err != nil {
		return fmt.Errorf("failed to serialize goals: %w", err)
	}

	var endDate interface{}
	if c.EndDate != nil {
		endDate = *c.EndDate
	}
	var failedOnDay interface{}
	if c.FailedOnDay != nil {
		failedOnDay = *c.FailedOnDay
	}

	_, err = ex.Exec(`
		INSERT INTO challenges (`+challengeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start_date = excluded.start_date,
			duration = excluded.duration,
			strict_mode = excluded.strict_mode,
			status = excluded.status,
			end_date = excluded.end_date,
			failed_on_day = excluded.failed_on_day,
			shared = excluded.shared,
			goals = excluded.goals,
			updated_at = excluded.updated_at`,
		c.ID, c.Name, c.StartDate, c.Duration, boolInt(c.StrictMode), string(c.Status),
		endDate, failedOnDay, boolInt(c.Shared), string(goalsJSON), c.UpdatedAt)
	return err
}

func (s *Store) PutChallenge(c models.Challenge) error {
	return putChallenge(s.db, c)
}

func (s *Store) ListChallenges() ([]models.Challenge, error) {
	rows, err := s.db.Query("SELECT " + challengeColumns + " FROM challenges ORDER BY updated_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
