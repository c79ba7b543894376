package sync

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/stridehq/stride/internal/logger"
)

// Scheduler runs reconciles on a cron schedule. The reconciler's own mutex
// guarantees a slow sync and the next tick never overlap.
type Scheduler struct {
	cron *cron.Cron
	rec  *Reconciler
}

// NewScheduler creates a scheduler around a reconciler.
func NewScheduler(rec *Reconciler) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		rec:  rec,
	}
}

// Start begins periodic syncing. The spec accepts standard cron expressions
// and "@every <duration>" forms.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		res := s.rec.Reconcile(context.Background())
		if res.Err != nil {
			logger.Warn("Scheduled sync failed", "error", res.Err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sync to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
