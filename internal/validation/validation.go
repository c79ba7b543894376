// Package validation performs structural sanity checks on sync records.
//
// The remote authority is assumed to enforce full shape/length/enum
// validation before records reach this core; these checks only guard the
// merge against records that would corrupt local indexes (unparseable
// dates, missing identities, impossible durations).
package validation

import (
	"github.com/google/uuid"

	"github.com/stridehq/stride/internal/constants"
	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/models"
	"github.com/stridehq/stride/internal/utils"
)

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func validStatus(s models.ChallengeStatus) bool {
	switch s {
	case models.StatusActive, models.StatusCompleted, models.StatusFailed, models.StatusAbandoned:
		return true
	}
	return false
}

// CheckChallenge reports whether a challenge record is structurally sound
// enough to merge. Returns a *errors.ValidationError describing the first
// problem found, or nil.
func CheckChallenge(c models.Challenge) error {
	fail := func(reason string) error {
		return &apperrors.ValidationError{Record: "challenge", ID: c.ID, Reason: reason}
	}

	if !validID(c.ID) {
		return fail("malformed id")
	}
	if c.Name == "" {
		return fail("empty name")
	}
	if !utils.ValidDate(c.StartDate) {
		return fail("malformed startDate")
	}
	if c.Duration < constants.MinDurationDays || c.Duration > constants.MaxDurationDays {
		return fail("duration out of range")
	}
	if !validStatus(c.Status) {
		return fail("unknown status")
	}
	if len(c.Goals) < constants.MinGoals || len(c.Goals) > constants.MaxGoals {
		return fail("goal count out of range")
	}
	for _, g := range c.Goals {
		if !validID(g.ID) {
			return fail("malformed goal id")
		}
		if g.Name == "" {
			return fail("empty goal name")
		}
	}
	if !utils.ValidTimestamp(c.UpdatedAt) {
		return fail("malformed updatedAt")
	}
	if c.EndDate != nil && !utils.ValidDate(*c.EndDate) {
		return fail("malformed endDate")
	}
	return nil
}

// CheckEntry reports whether a day entry record is structurally sound
// enough to merge.
func CheckEntry(e models.DayEntry) error {
	fail := func(reason string) error {
		return &apperrors.ValidationError{Record: "entry", ID: e.ID, Reason: reason}
	}

	if !validID(e.ID) {
		return fail("malformed id")
	}
	if !validID(e.GoalID) {
		return fail("malformed goalId")
	}
	if !utils.ValidDate(e.Date) {
		return fail("malformed date")
	}
	if !utils.ValidTimestamp(e.UpdatedAt) {
		return fail("malformed updatedAt")
	}
	return nil
}
