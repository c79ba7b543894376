package models

// DayEntry is the completion record for one goal on one calendar date.
// Its merge identity is the (date, goalId) pair; the id exists for the wire
// protocol and may differ between replicas that created the record
// independently (last-write-wins replaces the whole record either way).
type DayEntry struct {
	ID          string `json:"id"`
	ChallengeID string `json:"challengeId"`
	GoalID      string `json:"goalId"`
	Date        string `json:"date"` // YYYY-MM-DD
	Completed   bool   `json:"completed"`
	Note        string `json:"note,omitempty"`
	UpdatedAt   string `json:"updatedAt"`
}

// Key returns the merge identity of the entry.
func (e *DayEntry) Key() string {
	return EntryKey(e.Date, e.GoalID)
}

// EntryKey builds the (date, goalId) identity used to index entries.
func EntryKey(date, goalID string) string {
	return date + "|" + goalID
}
