package progress

import "github.com/stridehq/stride/internal/models"

// Fail transitions an active challenge to failed, stamping the end date,
// the day that failed it and a fresh updatedAt.
func Fail(c models.Challenge, failedOnDay int, endDate, updatedAt string) models.Challenge {
	c.Status = models.StatusFailed
	c.EndDate = &endDate
	c.FailedOnDay = &failedOnDay
	c.UpdatedAt = updatedAt
	return c
}

// Complete transitions an active challenge to completed.
func Complete(c models.Challenge, endDate, updatedAt string) models.Challenge {
	c.Status = models.StatusCompleted
	c.EndDate = &endDate
	c.UpdatedAt = updatedAt
	return c
}

// Abandon transitions an active challenge to abandoned. This is an explicit
// user action, never derived from the entry log.
func Abandon(c models.Challenge, endDate, updatedAt string) models.Challenge {
	c.Status = models.StatusAbandoned
	c.EndDate = &endDate
	c.UpdatedAt = updatedAt
	return c
}

// Advance applies the derived terminal transitions to an active challenge:
// a strict-mode violation fails it, a fully complete run completes it.
// Returns the (possibly updated) challenge and whether it changed. The
// caller persists the result and clears the current-challenge pointer on a
// terminal transition.
func Advance(c models.Challenge, entries []models.DayEntry, today, updatedAt string) (models.Challenge, bool, error) {
	if c.Status != models.StatusActive {
		return c, false, nil
	}

	statuses, err := DayStatuses(c, entries, today)
	if err != nil {
		return c, false, err
	}

	if day, violated := CheckStrictModeViolation(c, statuses); violated {
		return Fail(c, day, today, updatedAt), true, nil
	}
	if CheckCompletion(c, statuses, today) {
		return Complete(c, today, updatedAt), true, nil
	}
	return c, false, nil
}
