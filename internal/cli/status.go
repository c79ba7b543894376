package cli

import (
	"fmt"

	"github.com/stridehq/stride/internal/progress"
	"github.com/stridehq/stride/internal/utils"
)

type StatusCmd struct {
	Days bool `help:"Show the per-day breakdown."`
}

func (c *StatusCmd) Run(ctx *Context) error {
	ch, err := ctx.CurrentChallenge()
	if err != nil {
		return err
	}

	ch, err = ctx.ApplyDerived(ch)
	if err != nil {
		return err
	}

	today := utils.Today()

	var statuses []progress.DayStatus
	if cached, ok := ctx.Cache.Get(statusCacheNS); ok {
		statuses = cached.([]progress.DayStatus)
	} else {
		entries, err := ctx.Store.ListEntriesByGoalIDs(ch.GoalIDs())
		if err != nil {
			return err
		}
		statuses, err = progress.DayStatuses(ch, entries, today)
		if err != nil {
			return err
		}
		ctx.Cache.Put(statusCacheNS, statuses)
	}

	summary := progress.Summarize(ch, statuses, today)

	fmt.Printf("%s [%s] day %d/%d\n", ch.Name, ch.Status, summary.CurrentDay, ch.Duration)
	fmt.Printf("  streak: %d (best %d)\n", summary.CurrentStreak, summary.BestStreak)
	fmt.Printf("  completion: %d%% (%d days complete)\n", summary.CompletionRate, summary.CompletedDays)
	if ch.FailedOnDay != nil {
		fmt.Printf("  failed on day %d\n", *ch.FailedOnDay)
	}

	if c.Days {
		for _, st := range statuses {
			mark := " "
			switch {
			case st.IsComplete:
				mark = "x"
			case st.IsMissed:
				mark = "-"
			case st.CompletedGoals > 0:
				mark = "~"
			}
			pointer := ""
			if st.IsToday {
				pointer = " <- today"
			}
			fmt.Printf("  [%s] day %2d %s (%d/%d goals)%s\n",
				mark, st.DayNumber, st.Date, st.CompletedGoals, len(ch.Goals), pointer)
		}
	}
	return nil
}
