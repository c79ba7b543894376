package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stridehq/stride/internal/auth"
	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/logger"
	"github.com/stridehq/stride/internal/sync"
)

type SyncCmd struct {
	Every   string         `help:"Keep running and sync on a schedule (cron expression or '@every 30m')." default:""`
	Login   SyncLoginCmd   `cmd:"" help:"Store the sync token in the OS keyring."`
	Logout  SyncLogoutCmd  `cmd:"" help:"Remove the sync token from the OS keyring."`
	Recover SyncRecoverCmd `cmd:"" help:"Re-seed an empty local store from remote history."`
}

func (c *SyncCmd) Run(ctx *Context) error {
	rec, err := ctx.Reconciler()
	if err != nil {
		if apperrors.IsAuth(err) {
			// No identity means sync is simply skipped, not an error.
			logger.Info("Sync skipped, no credentials", "error", err)
			fmt.Println("Not logged in, sync skipped. Run 'stride sync login' first.")
			return nil
		}
		return err
	}

	if c.Every != "" {
		return runScheduled(rec, c.Every)
	}

	res := rec.Reconcile(context.Background())
	return reportSync(res)
}

func runScheduled(rec *sync.Reconciler, spec string) error {
	sched := sync.NewScheduler(rec)
	if err := sched.Start(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	defer sched.Stop()

	fmt.Printf("Syncing on schedule %q, press Ctrl-C to stop\n", spec)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}

func reportSync(res sync.Result) error {
	if res.Err != nil {
		if res.PulledChallenges+res.PulledEntries > 0 {
			// Partial success: pulled data is kept, push retries next time.
			fmt.Printf("Pulled %d challenges, %d entries; push failed and will be retried: %v\n",
				res.PulledChallenges, res.PulledEntries, res.Err)
			return nil
		}
		return res.Err
	}

	fmt.Printf("Synced: pulled %d challenges, %d entries; pushed %d challenges, %d entries\n",
		res.PulledChallenges, res.PulledEntries, res.PushedChallenges, res.PushedEntries)
	if res.DroppedRecords > 0 {
		fmt.Printf("Dropped %d invalid records\n", res.DroppedRecords)
	}
	return nil
}

type SyncLoginCmd struct {
	Token string `arg:"" help:"Bearer token issued by the sync service."`
}

func (c *SyncLoginCmd) Run(ctx *Context) error {
	if err := auth.SetToken(c.Token); err != nil {
		return err
	}
	fmt.Println("Token stored.")
	return nil
}

type SyncLogoutCmd struct{}

func (c *SyncLogoutCmd) Run(ctx *Context) error {
	if err := auth.DeleteToken(); err != nil {
		return err
	}
	fmt.Println("Token removed.")
	return nil
}

type SyncRecoverCmd struct{}

func (c *SyncRecoverCmd) Run(ctx *Context) error {
	rec, err := ctx.Reconciler()
	if err != nil {
		return err
	}

	res := rec.Recover(context.Background())
	if res.Err != nil {
		return res.Err
	}
	ctx.Cache.Clear()

	fmt.Printf("Recovered %d challenges and %d entries from remote history\n",
		res.PulledChallenges, res.PulledEntries)
	return nil
}
