package models

// ChallengeStatus represents the lifecycle state of a challenge
type ChallengeStatus string

const (
	StatusActive    ChallengeStatus = "active"
	StatusCompleted ChallengeStatus = "completed"
	StatusFailed    ChallengeStatus = "failed"
	StatusAbandoned ChallengeStatus = "abandoned"
)

// Terminal reports whether the status has no outgoing transitions.
func (s ChallengeStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusAbandoned
}

// Goal is one trackable habit within a challenge. Its identity is fixed
// once created and it belongs to exactly one challenge.
type Goal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Challenge is a time-boxed set of goals tracked over a fixed duration.
// JSON tags follow the sync wire protocol, so the same struct is used for
// local persistence and pull/push payloads.
type Challenge struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	StartDate   string          `json:"startDate"` // YYYY-MM-DD
	Duration    int             `json:"duration"`  // day count
	StrictMode  bool            `json:"strictMode"`
	Status      ChallengeStatus `json:"status"`
	EndDate     *string         `json:"endDate,omitempty"` // YYYY-MM-DD
	FailedOnDay *int            `json:"failedOnDay,omitempty"`
	Shared      bool            `json:"shared"`
	Goals       []Goal          `json:"goals"`
	UpdatedAt   string          `json:"updatedAt"`
}

// GoalByID returns the goal with the given id, if present.
func (c *Challenge) GoalByID(id string) (Goal, bool) {
	for _, g := range c.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return Goal{}, false
}

// GoalIDs returns the ids of all goals in declaration order.
func (c *Challenge) GoalIDs() []string {
	ids := make([]string, 0, len(c.Goals))
	for _, g := range c.Goals {
		ids = append(ids, g.ID)
	}
	return ids
}
