package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stridehq/stride/internal/models"
)

func TestAbandonStampsTerminalState(t *testing.T) {
	ch := challenge(false, goalG())

	abandoned := Abandon(ch, "2024-01-02", "2024-01-02T09:00:00.000Z")
	assert.Equal(t, models.StatusAbandoned, abandoned.Status)
	require.NotNil(t, abandoned.EndDate)
	assert.Equal(t, "2024-01-02", *abandoned.EndDate)
	assert.Equal(t, "2024-01-02T09:00:00.000Z", abandoned.UpdatedAt)
	assert.True(t, abandoned.Status.Terminal())
}

func TestAdvance_NoOpOnTerminalChallenge(t *testing.T) {
	g := goalG()
	ch := challenge(true, g)
	ch.Status = models.StatusFailed

	// Even with a missed day in the log, a terminal challenge never
	// transitions again.
	same, changed, err := Advance(ch, nil, "2024-01-03", "2024-01-03T12:00:00.000Z")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.StatusFailed, same.Status)
}

func TestAdvance_CompletesFullRun(t *testing.T) {
	g := goalG()
	ch := challenge(false, g)
	entries := []models.DayEntry{
		entry(g, "2024-01-01", true),
		entry(g, "2024-01-02", true),
		entry(g, "2024-01-03", true),
	}

	done, changed, err := Advance(ch, entries, "2024-01-03", "2024-01-03T23:00:00.000Z")
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, models.StatusCompleted, done.Status)
	require.NotNil(t, done.EndDate)
	assert.Equal(t, "2024-01-03", *done.EndDate)
	assert.Nil(t, done.FailedOnDay)
}

func TestAdvance_StrictViolationBeatsCompletion(t *testing.T) {
	// A strict challenge with a missed day fails even when later days are
	// all complete.
	g := goalG()
	ch := challenge(true, g)
	entries := []models.DayEntry{
		entry(g, "2024-01-02", true),
		entry(g, "2024-01-03", true),
	}

	failed, changed, err := Advance(ch, entries, "2024-01-04", "2024-01-04T08:00:00.000Z")
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, models.StatusFailed, failed.Status)
	require.NotNil(t, failed.FailedOnDay)
	assert.Equal(t, 1, *failed.FailedOnDay)
}
