package cli

import (
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/models"
	"github.com/stridehq/stride/internal/utils"
)

type CheckinCmd struct {
	Goal string `arg:"" help:"Goal name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Note string `help:"Optional note for this entry." default:""`
	Undo bool   `help:"Mark the goal as not done instead."`
}

func (c *CheckinCmd) Run(ctx *Context) error {
	ch, err := ctx.CurrentChallenge()
	if err != nil {
		return err
	}

	var goal models.Goal
	found := false
	for _, g := range ch.Goals {
		if g.Name == c.Goal {
			goal = g
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("goal %q not found in challenge %q", c.Goal, ch.Name)
	}

	date := c.Date
	if date == "" {
		date = utils.Today()
	} else if !utils.ValidDate(date) {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	if date < ch.StartDate {
		return fmt.Errorf("date %s is before the challenge start %s", date, ch.StartDate)
	}

	// Check-in is an upsert keyed by (date, goalId); an existing entry
	// keeps its id so the remote sees one record with a newer updatedAt.
	entry := models.DayEntry{
		ID:          uuid.New().String(),
		ChallengeID: ch.ID,
		GoalID:      goal.ID,
		Date:        date,
		Completed:   !c.Undo,
		Note:        c.Note,
		UpdatedAt:   ctx.Stamper.Next(),
	}
	if existing, err := ctx.Store.GetEntry(date, goal.ID); err == nil {
		entry.ID = existing.ID
		if c.Note == "" {
			entry.Note = existing.Note
		}
	} else if !apperrors.IsNotFound(err) {
		return err
	}

	if err := ctx.Store.PutEntry(entry); err != nil {
		return err
	}
	ctx.Cache.Invalidate(statusCacheNS)

	// A check-in can complete the challenge; a backdated undo can fail a
	// strict one.
	updated, err := ctx.ApplyDerived(ch)
	if err != nil {
		return err
	}

	if c.Undo {
		fmt.Printf("Unmarked %q for %s\n", goal.Name, date)
	} else {
		fmt.Printf("Checked in %q for %s\n", goal.Name, date)
	}
	reportTransition(updated)
	return nil
}

func reportTransition(ch models.Challenge) {
	switch ch.Status {
	case models.StatusCompleted:
		fmt.Printf("Challenge %q completed!\n", ch.Name)
	case models.StatusFailed:
		if ch.FailedOnDay != nil {
			fmt.Printf("Challenge %q failed on day %d (strict mode)\n", ch.Name, *ch.FailedOnDay)
		} else {
			fmt.Printf("Challenge %q failed (strict mode)\n", ch.Name)
		}
	}
}
