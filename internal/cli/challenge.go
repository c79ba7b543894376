package cli

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/stridehq/stride/internal/constants"
	"github.com/stridehq/stride/internal/models"
	"github.com/stridehq/stride/internal/progress"
	"github.com/stridehq/stride/internal/utils"
)

type ChallengeCmd struct {
	New     ChallengeNewCmd     `cmd:"" help:"Start a new challenge."`
	List    ChallengeListCmd    `cmd:"" help:"List all challenges."`
	Show    ChallengeShowCmd    `cmd:"" help:"Show a challenge and its goals."`
	Edit    ChallengeEditCmd    `cmd:"" help:"Edit the current challenge."`
	Abandon ChallengeAbandonCmd `cmd:"" help:"Abandon the current challenge."`
}

type ChallengeNewCmd struct {
	Name   string   `arg:"" help:"Challenge name."`
	Goals  []string `arg:"" help:"Goals as name:color pairs."`
	Days   int      `help:"Duration in days." default:"30"`
	Start  string   `help:"Start date in YYYY-MM-DD format (default: today)." default:""`
	Strict bool     `help:"Strict mode: any fully missed day fails the challenge."`
	Shared bool     `help:"Make the challenge visible to friends."`
}

func (c *ChallengeNewCmd) Run(ctx *Context) error {
	current, err := ctx.Store.GetCurrentChallengeID()
	if err != nil {
		return err
	}
	if current != "" {
		return fmt.Errorf("a challenge is already in progress, abandon it first")
	}

	if c.Days < constants.MinDurationDays || c.Days > constants.MaxDurationDays {
		return fmt.Errorf("duration must be between %d and %d days",
			constants.MinDurationDays, constants.MaxDurationDays)
	}
	if len(c.Goals) < constants.MinGoals || len(c.Goals) > constants.MaxGoals {
		return fmt.Errorf("a challenge needs between %d and %d goals",
			constants.MinGoals, constants.MaxGoals)
	}

	start := c.Start
	if start == "" {
		start = utils.Today()
	} else if !utils.ValidDate(start) {
		return fmt.Errorf("invalid start date: %s (expected YYYY-MM-DD)", start)
	}

	goals := make([]models.Goal, 0, len(c.Goals))
	for _, spec := range c.Goals {
		goal, err := ParseGoalSpec(spec)
		if err != nil {
			return err
		}
		goals = append(goals, goal)
	}

	challenge := models.Challenge{
		ID:         uuid.New().String(),
		Name:       c.Name,
		StartDate:  start,
		Duration:   c.Days,
		StrictMode: c.Strict,
		Status:     models.StatusActive,
		Shared:     c.Shared,
		Goals:      goals,
		UpdatedAt:  ctx.Stamper.Next(),
	}

	if err := ctx.Store.PutChallenge(challenge); err != nil {
		return err
	}
	if err := ctx.Store.SetCurrentChallengeID(challenge.ID); err != nil {
		return err
	}
	ctx.Cache.Invalidate(statusCacheNS)

	fmt.Printf("Started challenge %q: %d days, %d goals\n", c.Name, c.Days, len(goals))
	return nil
}

type ChallengeListCmd struct{}

func (c *ChallengeListCmd) Run(ctx *Context) error {
	challenges, err := ctx.Store.ListChallenges()
	if err != nil {
		return err
	}
	if len(challenges) == 0 {
		fmt.Println("No challenges found.")
		return nil
	}

	current, err := ctx.Store.GetCurrentChallengeID()
	if err != nil {
		return err
	}

	for _, ch := range challenges {
		marker := " "
		if ch.ID == current {
			marker = "*"
		}
		fmt.Printf("%s %s [%s] %d days from %s\n", marker, ch.Name, ch.Status, ch.Duration, ch.StartDate)
	}
	return nil
}

type ChallengeShowCmd struct {
	Name string `arg:"" optional:"" help:"Challenge name (default: current)."`
}

func (c *ChallengeShowCmd) Run(ctx *Context) error {
	ch, err := resolveChallenge(ctx, c.Name)
	if err != nil {
		return err
	}

	fmt.Printf("%s [%s]\n", ch.Name, ch.Status)
	fmt.Printf("  %d days from %s", ch.Duration, ch.StartDate)
	if ch.EndDate != nil {
		fmt.Printf(" (ended %s)", *ch.EndDate)
	}
	fmt.Println()
	if ch.StrictMode {
		fmt.Println("  strict mode")
	}
	if ch.FailedOnDay != nil {
		fmt.Printf("  failed on day %d\n", *ch.FailedOnDay)
	}
	fmt.Println("  goals:")
	for _, g := range ch.Goals {
		fmt.Printf("    %s (%s)\n", g.Name, g.Color)
	}
	return nil
}

type ChallengeEditCmd struct {
	Name       string `help:"Rename the challenge." default:""`
	Share      bool   `help:"Make the challenge visible to friends." xor:"share"`
	Unshare    bool   `help:"Stop sharing the challenge." xor:"share"`
	AddGoal    string `help:"Add a goal as name:color." default:""`
	RemoveGoal string `help:"Remove a goal by name; its entries are deleted." default:""`
}

func (c *ChallengeEditCmd) Run(ctx *Context) error {
	ch, err := ctx.CurrentChallenge()
	if err != nil {
		return err
	}

	changed := false
	if c.Name != "" {
		ch.Name = c.Name
		changed = true
	}
	if c.Share {
		ch.Shared = true
		changed = true
	}
	if c.Unshare {
		ch.Shared = false
		changed = true
	}

	if c.AddGoal != "" {
		if len(ch.Goals) >= constants.MaxGoals {
			return fmt.Errorf("challenge already has the maximum of %d goals", constants.MaxGoals)
		}
		goal, err := ParseGoalSpec(c.AddGoal)
		if err != nil {
			return err
		}
		ch.Goals = append(ch.Goals, goal)
		changed = true
	}

	var removedGoalID string
	if c.RemoveGoal != "" {
		if len(ch.Goals) <= constants.MinGoals {
			return fmt.Errorf("challenge needs at least %d goal", constants.MinGoals)
		}
		kept := ch.Goals[:0]
		for _, g := range ch.Goals {
			if g.Name == c.RemoveGoal {
				removedGoalID = g.ID
				continue
			}
			kept = append(kept, g)
		}
		if removedGoalID == "" {
			return fmt.Errorf("goal %q not found", c.RemoveGoal)
		}
		ch.Goals = kept
		changed = true
	}

	if !changed {
		fmt.Println("Nothing to change.")
		return nil
	}

	ch.UpdatedAt = ctx.Stamper.Next()
	if err := ctx.Store.PutChallenge(ch); err != nil {
		return err
	}
	// Cascade: a removed goal takes its entries with it.
	if removedGoalID != "" {
		if err := ctx.Store.DeleteEntriesForGoals([]string{removedGoalID}); err != nil {
			return err
		}
	}
	ctx.Cache.Invalidate(statusCacheNS)

	fmt.Printf("Updated challenge %q\n", ch.Name)
	return nil
}

type ChallengeAbandonCmd struct{}

func (c *ChallengeAbandonCmd) Run(ctx *Context) error {
	ch, err := ctx.CurrentChallenge()
	if err != nil {
		return err
	}

	abandoned := progress.Abandon(ch, utils.Today(), ctx.Stamper.Next())
	if err := ctx.Store.PutChallenge(abandoned); err != nil {
		return err
	}
	if err := ctx.Store.SetCurrentChallengeID(""); err != nil {
		return err
	}
	ctx.Cache.Invalidate(statusCacheNS)

	fmt.Printf("Abandoned challenge %q\n", ch.Name)
	return nil
}

func resolveChallenge(ctx *Context, name string) (models.Challenge, error) {
	if name == "" {
		return ctx.CurrentChallenge()
	}
	challenges, err := ctx.Store.ListChallenges()
	if err != nil {
		return models.Challenge{}, err
	}
	for _, ch := range challenges {
		if ch.Name == name {
			return ch, nil
		}
	}
	return models.Challenge{}, fmt.Errorf("challenge %q not found", name)
}
