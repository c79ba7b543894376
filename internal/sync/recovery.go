package sync

import (
	"context"
	"errors"

	"github.com/stridehq/stride/internal/logger"
	"github.com/stridehq/stride/internal/models"
)

// ErrLocalNotEmpty is returned by Recover when the local store already
// holds challenges; recovery only runs against an empty replica.
var ErrLocalNotEmpty = errors.New("local store is not empty")

// Recover re-seeds an empty local replica from full remote history. It is
// the degraded path for a fresh install (or wiped device) with an existing
// remote identity: the watermark is reset so the pull returns everything,
// then the current-challenge pointer is restored to the most recently
// updated active challenge.
func (r *Reconciler) Recover(ctx context.Context) Result {
	challenges, err := r.local.ListChallenges()
	if err != nil {
		return Result{Err: err}
	}
	if len(challenges) > 0 {
		return Result{Err: ErrLocalNotEmpty}
	}

	if err := r.local.SetLastSyncAt(""); err != nil {
		return Result{Err: err}
	}

	res := r.Reconcile(ctx)
	if res.Err != nil {
		return res
	}

	if err := r.restoreCurrentPointer(); err != nil {
		res.Err = err
		res.Success = false
	}
	return res
}

func (r *Reconciler) restoreCurrentPointer() error {
	current, err := r.local.GetCurrentChallengeID()
	if err != nil {
		return err
	}
	if current != "" {
		return nil
	}

	challenges, err := r.local.ListChallenges()
	if err != nil {
		return err
	}

	var latest *models.Challenge
	for i := range challenges {
		c := &challenges[i]
		if c.Status != models.StatusActive {
			continue
		}
		if latest == nil || c.UpdatedAt > latest.UpdatedAt {
			latest = c
		}
	}
	if latest == nil {
		return nil
	}

	logger.Info("Restored current challenge after recovery", "id", latest.ID, "name", latest.Name)
	return r.local.SetCurrentChallengeID(latest.ID)
}
