// Package progress derives temporal challenge state from the raw entry log.
//
// Every function here is pure: "today" is an explicit parameter and no
// function performs I/O, so derived state is a replay-safe function of the
// merged log and is identical before and after a sync.
package progress

import (
	"github.com/stridehq/stride/internal/models"
	"github.com/stridehq/stride/internal/utils"
)

// DayStatus is the derived state of one calendar day within a challenge.
type DayStatus struct {
	Date           string `json:"date"`
	DayNumber      int    `json:"dayNumber"`
	IsPast         bool   `json:"isPast"`
	IsToday        bool   `json:"isToday"`
	IsFuture       bool   `json:"isFuture"`
	CompletedGoals int    `json:"completedGoals"`
	IsComplete     bool   `json:"isComplete"`
	IsMissed       bool   `json:"isMissed"`
}

// Summary bundles the derived numbers for a challenge.
type Summary struct {
	CurrentDay     int `json:"currentDay"`
	CompletedDays  int `json:"completedDays"`
	CurrentStreak  int `json:"currentStreak"`
	BestStreak     int `json:"bestStreak"`
	CompletionRate int `json:"completionRate"`
}

// DayNumber returns the 1-based day number of date within a challenge
// starting at startDate. Day 1 is the start date itself; dates before the
// start yield numbers <= 0.
func DayNumber(startDate, date string) (int, error) {
	days, err := utils.DaysBetween(startDate, date)
	if err != nil {
		return 0, err
	}
	return days + 1, nil
}

// IsComplete reports whether every goal has a completed entry on date.
func IsComplete(date string, goals []models.Goal, entries []models.DayEntry) bool {
	if len(goals) == 0 {
		return false
	}
	done := make(map[string]bool)
	for _, e := range entries {
		if e.Date == date && e.Completed {
			done[e.GoalID] = true
		}
	}
	for _, g := range goals {
		if !done[g.ID] {
			return false
		}
	}
	return true
}

// IsMissed reports whether date is a fully missed day: strictly in the
// past, on or after the challenge start, with zero completed entries. A day
// with some but not all goals completed is neither complete nor missed.
func IsMissed(date, startDate, today string, entries []models.DayEntry) bool {
	if date >= today || date < startDate {
		return false
	}
	for _, e := range entries {
		if e.Date == date && e.Completed {
			return false
		}
	}
	return true
}

// DayStatuses produces one status per date in the challenge window
// [startDate, startDate+duration). Entries are indexed by date once, so the
// computation is linear in duration + len(entries). Entries for goals that
// do not belong to the challenge are ignored.
func DayStatuses(c models.Challenge, entries []models.DayEntry, today string) ([]DayStatus, error) {
	goals := make(map[string]bool, len(c.Goals))
	for _, g := range c.Goals {
		goals[g.ID] = true
	}

	completedByDate := make(map[string]int)
	for _, e := range entries {
		if e.Completed && goals[e.GoalID] {
			completedByDate[e.Date]++
		}
	}

	start, err := utils.ParseDate(c.StartDate)
	if err != nil {
		return nil, err
	}

	statuses := make([]DayStatus, 0, c.Duration)
	for i := 0; i < c.Duration; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		completed := completedByDate[date]

		// YYYY-MM-DD strings order the same as the dates they name.
		st := DayStatus{
			Date:           date,
			DayNumber:      i + 1,
			IsPast:         date < today,
			IsToday:        date == today,
			IsFuture:       date > today,
			CompletedGoals: completed,
			IsComplete:     len(c.Goals) > 0 && completed == len(c.Goals),
		}
		st.IsMissed = st.IsPast && completed == 0
		statuses = append(statuses, st)
	}

	return statuses, nil
}

// CurrentStreak counts consecutive complete days ending at today, or at
// yesterday when today is present but not yet complete. Returns 0 when the
// challenge window does not contain today.
func CurrentStreak(statuses []DayStatus) int {
	start := -1
	for i, st := range statuses {
		if st.IsToday {
			start = i
			if !st.IsComplete {
				start = i - 1
			}
			break
		}
	}
	if start < 0 {
		return 0
	}

	streak := 0
	for i := start; i >= 0; i-- {
		if !statuses[i].IsComplete {
			break
		}
		streak++
	}
	return streak
}

// BestStreak returns the longest run of consecutive complete days, scanning
// from day 1 and stopping at the first future day.
func BestStreak(statuses []DayStatus) int {
	best, run := 0, 0
	for _, st := range statuses {
		if st.IsFuture {
			break
		}
		if st.IsComplete {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// CompletionRate returns the percentage of elapsed days (capped at the
// challenge duration) that are complete, rounded to the nearest integer.
func CompletionRate(c models.Challenge, statuses []DayStatus, today string) int {
	currentDay, err := DayNumber(c.StartDate, today)
	if err != nil || currentDay < 1 {
		return 0
	}

	elapsed := currentDay
	if elapsed > c.Duration {
		elapsed = c.Duration
	}
	if elapsed == 0 {
		return 0
	}

	completed := 0
	for _, st := range statuses {
		if (st.IsPast || st.IsToday) && st.IsComplete {
			completed++
		}
	}

	return (100*completed + elapsed/2) / elapsed
}

// Summarize computes the full derived summary for rendering.
func Summarize(c models.Challenge, statuses []DayStatus, today string) Summary {
	currentDay, err := DayNumber(c.StartDate, today)
	if err != nil {
		currentDay = 0
	}
	if currentDay > c.Duration {
		currentDay = c.Duration
	}
	if currentDay < 0 {
		currentDay = 0
	}

	completed := 0
	for _, st := range statuses {
		if st.IsComplete {
			completed++
		}
	}

	return Summary{
		CurrentDay:     currentDay,
		CompletedDays:  completed,
		CurrentStreak:  CurrentStreak(statuses),
		BestStreak:     BestStreak(statuses),
		CompletionRate: CompletionRate(c, statuses, today),
	}
}

// CheckStrictModeViolation returns the day number of the first missed day
// for an active strict-mode challenge. It is the trigger for the
// active -> failed transition.
func CheckStrictModeViolation(c models.Challenge, statuses []DayStatus) (int, bool) {
	if !c.StrictMode || c.Status != models.StatusActive {
		return 0, false
	}
	for _, st := range statuses {
		if st.IsMissed {
			return st.DayNumber, true
		}
	}
	return 0, false
}

// CheckCompletion reports whether an active challenge has run its full
// duration with every day complete, triggering active -> completed.
func CheckCompletion(c models.Challenge, statuses []DayStatus, today string) bool {
	if c.Status != models.StatusActive {
		return false
	}
	currentDay, err := DayNumber(c.StartDate, today)
	if err != nil || currentDay < c.Duration {
		return false
	}
	for _, st := range statuses {
		if !st.IsComplete {
			return false
		}
	}
	return len(statuses) == c.Duration
}
