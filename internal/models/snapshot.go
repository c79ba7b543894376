package models

// Snapshot is a full export of replica state. ImportAll applies it
// atomically: either the whole snapshot replaces current state or none of
// it does. The sync watermark is deliberately not part of the snapshot.
type Snapshot struct {
	CurrentChallengeID *string     `json:"currentChallengeId"`
	Challenges         []Challenge `json:"challenges"`
	Entries            []DayEntry  `json:"entries"`
}
