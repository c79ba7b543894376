package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/stridehq/stride/internal/auth"
	"github.com/stridehq/stride/internal/cache"
	"github.com/stridehq/stride/internal/config"
	"github.com/stridehq/stride/internal/constants"
	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/models"
	"github.com/stridehq/stride/internal/progress"
	"github.com/stridehq/stride/internal/storage"
	"github.com/stridehq/stride/internal/sync"
	"github.com/stridehq/stride/internal/utils"
)

// statusCacheNS is the cache namespace for derived day statuses. Every
// mutation that touches entries or the current challenge invalidates it.
const statusCacheNS = "status"

// Context carries shared state into command Run methods.
type Context struct {
	Store   storage.Provider
	Cache   *cache.Cache
	Stamper *utils.Stamper
	Cfg     config.Config
}

// CurrentChallenge resolves the current-challenge pointer.
func (c *Context) CurrentChallenge() (models.Challenge, error) {
	id, err := c.Store.GetCurrentChallengeID()
	if err != nil {
		return models.Challenge{}, err
	}
	if id == "" {
		return models.Challenge{}, fmt.Errorf("no current challenge, run 'stride challenge new' first")
	}
	return c.Store.GetChallenge(id)
}

// ApplyDerived runs the derived terminal transitions for a challenge and
// maintains the current-pointer invariant: a challenge that just reached a
// terminal status is persisted and, if it was current, the pointer is
// cleared.
func (c *Context) ApplyDerived(ch models.Challenge) (models.Challenge, error) {
	entries, err := c.Store.ListEntriesByGoalIDs(ch.GoalIDs())
	if err != nil {
		return ch, err
	}

	updated, changed, err := progress.Advance(ch, entries, utils.Today(), c.Stamper.Next())
	if err != nil || !changed {
		return ch, err
	}

	if err := c.Store.PutChallenge(updated); err != nil {
		return updated, err
	}
	if updated.Status.Terminal() {
		current, err := c.Store.GetCurrentChallengeID()
		if err != nil {
			return updated, err
		}
		if current == updated.ID {
			if err := c.Store.SetCurrentChallengeID(""); err != nil {
				return updated, err
			}
		}
	}
	c.Cache.Invalidate(statusCacheNS)
	return updated, nil
}

// Remote builds the sync client from config and the keyring token.
func (c *Context) Remote() (sync.Remote, error) {
	if c.Cfg.SyncURL == "" {
		return nil, fmt.Errorf("STRIDE_SYNC_URL is not set")
	}

	token := c.Cfg.SyncToken
	if token == "" {
		var err error
		token, err = auth.GetToken()
		if err != nil {
			return nil, &apperrors.AuthError{Reason: err.Error()}
		}
	}

	return sync.NewClient(c.Cfg.SyncURL, token, c.Cfg.SyncTimeout()), nil
}

// Reconciler builds a reconciler over the local store and configured remote.
func (c *Context) Reconciler() (*sync.Reconciler, error) {
	remote, err := c.Remote()
	if err != nil {
		return nil, err
	}
	return sync.NewReconciler(c.Store, remote, c.Cfg.SyncTimeout()), nil
}

// ParseGoalSpec parses a "name:color" goal specification into a Goal with
// a fresh id.
func ParseGoalSpec(spec string) (models.Goal, error) {
	name, color, ok := strings.Cut(spec, ":")
	if !ok || name == "" {
		return models.Goal{}, fmt.Errorf("invalid goal %q (expected name:color)", spec)
	}
	if !constants.ValidGoalColor(color) {
		return models.Goal{}, fmt.Errorf("invalid goal color %q (palette: %s)",
			color, strings.Join(constants.GoalPalette, ", "))
	}
	return models.Goal{
		ID:    uuid.New().String(),
		Name:  name,
		Color: color,
	}, nil
}
