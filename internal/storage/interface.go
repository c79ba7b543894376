package storage

import "github.com/stridehq/stride/internal/models"

// Provider is the replica store contract. The local adapters (JSON file,
// SQLite) and the remote authority expose the same shape, differing only
// in transport and latency. Missing records are reported with
// errors.ErrNotFound. Every write is durable before the call returns.
//
// Providers are not safe for concurrent use by multiple goroutines without
// external synchronization; the sync reconciler serializes itself and
// command execution is single-threaded.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Current challenge pointer. At most one challenge is current and it
	// must be active; the empty string means unset.
	GetCurrentChallengeID() (string, error)
	SetCurrentChallengeID(id string) error

	// Challenges
	GetChallenge(id string) (models.Challenge, error)
	PutChallenge(models.Challenge) error
	ListChallenges() ([]models.Challenge, error)

	// Day entries, keyed by (date, goalId)
	GetEntry(date, goalID string) (models.DayEntry, error)
	PutEntry(models.DayEntry) error
	ListEntries() ([]models.DayEntry, error)
	// ListEntriesByGoalIDs uses the goal index rather than a full scan.
	ListEntriesByGoalIDs(ids []string) ([]models.DayEntry, error)
	// DeleteEntriesForGoals cascades a goal removal to its entries. This is
	// the only way entries are ever deleted.
	DeleteEntriesForGoals(ids []string) error

	// Sync watermark; the empty string means never synced.
	GetLastSyncAt() (string, error)
	SetLastSyncAt(ts string) error

	// Bulk. ImportAll and ClearAll are atomic: the whole snapshot replaces
	// state or, on failure, none of it does.
	ExportAll() (models.Snapshot, error)
	ImportAll(models.Snapshot) error
	ClearAll() error

	// Utils
	GetConfigPath() string
}
