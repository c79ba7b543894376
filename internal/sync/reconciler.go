// Package sync reconciles the local replica store with a remote authority
// using per-record last-write-wins over updatedAt timestamps.
package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/logger"
	"github.com/stridehq/stride/internal/models"
	"github.com/stridehq/stride/internal/storage"
	"github.com/stridehq/stride/internal/validation"
)

var errPushRejected = errors.New("remote reported push failure")

// Result reports the outcome of a reconcile. Reconcile never panics or
// returns past its boundary: callers inspect Err and choose retry policy.
type Result struct {
	Success          bool
	PulledChallenges int
	PulledEntries    int
	PushedChallenges int
	PushedEntries    int
	DroppedRecords   int
	NewWatermark     string
	Err              error
}

// Reconciler orchestrates pull-merge-push between the local store and a
// remote. At most one reconcile is in flight at a time; concurrent calls
// serialize on an internal mutex so an interleaved merge can never race a
// second merge.
type Reconciler struct {
	mu      sync.Mutex
	local   storage.Provider
	remote  Remote
	timeout time.Duration
}

// NewReconciler creates a reconciler. A zero timeout disables the deadline.
func NewReconciler(local storage.Provider, remote Remote, timeout time.Duration) *Reconciler {
	return &Reconciler{
		local:   local,
		remote:  remote,
		timeout: timeout,
	}
}

// Reconcile pulls remote deltas, merges them into the local store, pushes
// local deltas and advances the watermark.
//
// Failure semantics: a failed pull aborts with no local mutation. A failed
// push after a successful pull is a partial success: merged pull data is
// kept (it is strictly newer and idempotent to re-pull) but the watermark
// is not advanced, so every unpushed record is still "newer than
// lastSyncAt" and is retried on the next reconcile.
func (r *Reconciler) Reconcile(ctx context.Context) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	lastSyncAt, err := r.local.GetLastSyncAt()
	if err != nil {
		return Result{Err: &apperrors.StorageError{Op: "read watermark", Err: err}}
	}

	res := Result{NewWatermark: lastSyncAt}

	// Pull
	pull, err := r.remote.Pull(ctx, lastSyncAt)
	if err != nil {
		res.Err = err
		return res
	}

	// Merge. Local records are indexed up front for O(1) lookups.
	localChallenges, err := r.local.ListChallenges()
	if err != nil {
		res.Err = &apperrors.StorageError{Op: "list challenges", Err: err}
		return res
	}
	challengeByID := make(map[string]models.Challenge, len(localChallenges))
	for _, c := range localChallenges {
		challengeByID[c.ID] = c
	}

	for _, remote := range pull.Challenges {
		if verr := validation.CheckChallenge(remote); verr != nil {
			logger.Warn("Dropping invalid pulled challenge", "error", verr)
			res.DroppedRecords++
			continue
		}
		local, exists := challengeByID[remote.ID]
		if exists && remote.UpdatedAt <= local.UpdatedAt {
			continue
		}
		if err := r.local.PutChallenge(remote); err != nil {
			res.Err = &apperrors.StorageError{Op: "merge challenge", Err: err}
			return res
		}
		challengeByID[remote.ID] = remote
		res.PulledChallenges++
	}

	localEntries, err := r.local.ListEntries()
	if err != nil {
		res.Err = &apperrors.StorageError{Op: "list entries", Err: err}
		return res
	}
	entryByKey := make(map[string]models.DayEntry, len(localEntries))
	for _, e := range localEntries {
		entryByKey[e.Key()] = e
	}

	for _, remote := range pull.Entries {
		if verr := validation.CheckEntry(remote); verr != nil {
			logger.Warn("Dropping invalid pulled entry", "error", verr)
			res.DroppedRecords++
			continue
		}
		local, exists := entryByKey[remote.Key()]
		if exists && remote.UpdatedAt <= local.UpdatedAt {
			continue
		}
		if err := r.local.PutEntry(remote); err != nil {
			res.Err = &apperrors.StorageError{Op: "merge entry", Err: err}
			return res
		}
		entryByKey[remote.Key()] = remote
		res.PulledEntries++
	}

	// Push selection: everything local that is newer than the watermark.
	// The goalId -> challengeId index is built once for the whole call.
	goalToChallenge := make(map[string]string)
	for _, c := range challengeByID {
		for _, g := range c.Goals {
			goalToChallenge[g.ID] = c.ID
		}
	}

	push := models.PushRequest{
		Challenges: []models.Challenge{},
		Entries:    []models.DayEntry{},
	}
	if lastSyncAt != "" {
		since := lastSyncAt
		push.LastSyncAt = &since
	}
	for _, c := range challengeByID {
		if lastSyncAt == "" || c.UpdatedAt > lastSyncAt {
			push.Challenges = append(push.Challenges, c)
		}
	}
	for _, e := range entryByKey {
		if lastSyncAt != "" && e.UpdatedAt <= lastSyncAt {
			continue
		}
		challengeID, ok := goalToChallenge[e.GoalID]
		if !ok {
			// Orphaned entry: its goal's challenge is gone. Never pushed.
			logger.Warn("Skipping entry with no owning challenge", "goalId", e.GoalID, "date", e.Date)
			res.DroppedRecords++
			continue
		}
		e.ChallengeID = challengeID
		push.Entries = append(push.Entries, e)
	}

	// Push
	pushResp, err := r.remote.Push(ctx, push)
	if err != nil {
		res.Err = err
		return res
	}
	if !pushResp.Success {
		res.Err = &apperrors.NetworkError{Op: "push", Err: errPushRejected}
		return res
	}

	// Watermark advance: only ever to a server-reported time, never to a
	// locally generated one, to avoid drift between device clocks.
	if err := r.local.SetLastSyncAt(pushResp.SyncedAt); err != nil {
		res.Err = &apperrors.StorageError{Op: "advance watermark", Err: err}
		return res
	}

	res.Success = true
	res.PushedChallenges = len(push.Challenges)
	res.PushedEntries = len(push.Entries)
	res.NewWatermark = pushResp.SyncedAt

	logger.Info("Sync complete",
		"pulledChallenges", res.PulledChallenges,
		"pulledEntries", res.PulledEntries,
		"pushedChallenges", res.PushedChallenges,
		"pushedEntries", res.PushedEntries,
		"watermark", res.NewWatermark,
	)
	return res
}
