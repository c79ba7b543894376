package sync_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/models"
	"github.com/stridehq/stride/internal/storage"
	stridesync "github.com/stridehq/stride/internal/sync"
)

const (
	challengeID = "11111111-1111-1111-1111-111111111111"
	goalID      = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	entryID     = "cccccccc-cccc-cccc-cccc-cccccccccccc"
	serverStamp = "2024-01-10T00:00:00.000Z"
)

type fakeRemote struct {
	pull     models.PullResponse
	pullErr  error
	pushErr  error
	pushResp *models.PushResponse
	pushes   []models.PushRequest
}

func (f *fakeRemote) Pull(_ context.Context, _ string) (models.PullResponse, error) {
	if f.pullErr != nil {
		return models.PullResponse{}, f.pullErr
	}
	pull := f.pull
	if pull.ServerTime == "" {
		pull.ServerTime = serverStamp
	}
	return pull, nil
}

func (f *fakeRemote) Push(_ context.Context, req models.PushRequest) (models.PushResponse, error) {
	f.pushes = append(f.pushes, req)
	if f.pushErr != nil {
		return models.PushResponse{}, f.pushErr
	}
	if f.pushResp != nil {
		return *f.pushResp, nil
	}
	return models.PushResponse{Success: true, SyncedAt: serverStamp}, nil
}

func newLocal(t *testing.T) storage.Provider {
	t.Helper()
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "stride.json"))
	require.NoError(t, s.Init())
	t.Cleanup(func() { s.Close() })
	return s
}

func syncChallenge(updatedAt string) models.Challenge {
	return models.Challenge{
		ID:        challengeID,
		Name:      "Hydrate",
		StartDate: "2024-01-01",
		Duration:  30,
		Status:    models.StatusActive,
		Goals: []models.Goal{
			{ID: goalID, Name: "Water", Color: "blue"},
		},
		UpdatedAt: updatedAt,
	}
}

func syncEntry(date, updatedAt string) models.DayEntry {
	return models.DayEntry{
		ID:          entryID,
		ChallengeID: challengeID,
		GoalID:      goalID,
		Date:        date,
		Completed:   true,
		UpdatedAt:   updatedAt,
	}
}

func TestReconcile_PullFailureLeavesStoreUntouched(t *testing.T) {
	local := newLocal(t)
	require.NoError(t, local.PutChallenge(syncChallenge("2024-01-02T00:00:00.000Z")))
	require.NoError(t, local.SetLastSyncAt("2024-01-01T00:00:00.000Z"))

	remote := &fakeRemote{pullErr: &apperrors.NetworkError{Op: "pull", Err: errors.New("dial refused")}}
	r := stridesync.NewReconciler(local, remote, 0)

	res := r.Reconcile(context.Background())
	assert.False(t, res.Success)
	assert.True(t, apperrors.IsNetwork(res.Err))
	assert.Empty(t, remote.pushes, "push must not run after a failed pull")

	ts, err := local.GetLastSyncAt()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", ts, "watermark must not move")
}

func TestReconcile_MergePrefersNewerTimestamp(t *testing.T) {
	local := newLocal(t)
	require.NoError(t, local.PutChallenge(syncChallenge("2024-01-02T00:00:00.000Z")))
	require.NoError(t, local.PutEntry(syncEntry("2024-01-01", "2024-01-05T00:00:00.000Z")))

	newer := syncChallenge("2024-01-03T00:00:00.000Z")
	newer.Name = "Hydrate v2"
	older := syncEntry("2024-01-01", "2024-01-04T00:00:00.000Z")
	older.Completed = false

	remote := &fakeRemote{pull: models.PullResponse{
		Challenges: []models.Challenge{newer},
		Entries:    []models.DayEntry{older},
	}}
	r := stridesync.NewReconciler(local, remote, 0)

	res := r.Reconcile(context.Background())
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.PulledChallenges)
	assert.Equal(t, 0, res.PulledEntries, "older remote entry must lose")

	got, err := local.GetChallenge(challengeID)
	require.NoError(t, err)
	assert.Equal(t, "Hydrate v2", got.Name)

	e, err := local.GetEntry("2024-01-01", goalID)
	require.NoError(t, err)
	assert.True(t, e.Completed, "local entry was newer and must survive")
}

func TestReconcile_EqualTimestampKeepsLocal(t *testing.T) {
	local := newLocal(t)
	require.NoError(t, local.PutChallenge(syncChallenge("2024-01-02T00:00:00.000Z")))

	tied := syncChallenge("2024-01-02T00:00:00.000Z")
	tied.Name = "Remote twin"

	remote := &fakeRemote{pull: models.PullResponse{Challenges: []models.Challenge{tied}}}
	r := stridesync.NewReconciler(local, remote, 0)

	res := r.Reconcile(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, 0, res.PulledChallenges)

	got, err := local.GetChallenge(challengeID)
	require.NoError(t, err)
	assert.Equal(t, "Hydrate", got.Name)
}

func TestReconcile_PushSelectionRespectsWatermark(t *testing.T) {
	local := newLocal(t)
	require.NoError(t, local.PutChallenge(syncChallenge("2024-01-05T00:00:00.000Z")))
	require.NoError(t, local.PutEntry(syncEntry("2024-01-01", "2024-01-02T00:00:00.000Z")))
	require.NoError(t, local.PutEntry(syncEntry("2024-01-04", "2024-01-05T00:00:00.000Z")))
	require.NoError(t, local.SetLastSyncAt("2024-01-03T00:00:00.000Z"))

	remote := &fakeRemote{}
	r := stridesync.NewReconciler(local, remote, 0)

	res := r.Reconcile(context.Background())
	require.NoError(t, res.Err)
	require.Len(t, remote.pushes, 1)

	push := remote.pushes[0]
	assert.Len(t, push.Challenges, 1)
	require.Len(t, push.Entries, 1, "entry at or before the watermark must not be pushed")
	assert.Equal(t, "2024-01-04", push.Entries[0].Date)
	require.NotNil(t, push.LastSyncAt)
	assert.Equal(t, "2024-01-03T00:00:00.000Z", *push.LastSyncAt)

	assert.Equal(t, 1, res.PushedChallenges)
	assert.Equal(t, 1, res.PushedEntries)
}

func TestReconcile_FirstSyncPushesEverything(t *testing.T) {
	local := newLocal(t)
	require.NoError(t, local.PutChallenge(syncChallenge("2024-01-02T00:00:00.000Z")))
	require.NoError(t, local.PutEntry(syncEntry("2024-01-01", "2024-01-02T00:00:00.000Z")))

	remote := &fakeRemote{}
	r := stridesync.NewReconciler(local, remote, 0)

	res := r.Reconcile(context.Background())
	require.NoError(t, res.Err)
	require.Len(t, remote.pushes, 1)
	assert.Len(t, remote.pushes[0].Challenges, 1)
	assert.Len(t, remote.pushes[0].Entries, 1)
	assert.Nil(t, remote.pushes[0].LastSyncAt)
	assert.Equal(t, serverStamp, res.NewWatermark)
}

func TestReconcile_DropsInvalidPulledRecords(t *testing.T) {
	local := newLocal(t)

	bad := syncChallenge("2024-01-02T00:00:00.000Z")
	bad.StartDate = "January first"

	remote := &fakeRemote{pull: models.PullResponse{
		Challenges: []models.Challenge{bad},
		Entries:    []models.DayEntry{{ID: "not-a-uuid", Date: "2024-01-01"}},
	}}
	r := stridesync.NewReconciler(local, remote, 0)

	res := r.Reconcile(context.Background())
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.DroppedRecords)

	all, err := local.ListChallenges()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReconcile_SkipsOrphanEntries(t *testing.T) {
	local := newLocal(t)
	// Entry whose goal belongs to no known challenge.
	require.NoError(t, local.PutEntry(syncEntry("2024-01-01", "2024-01-02T00:00:00.000Z")))

	remote := &fakeRemote{}
	r := stridesync.NewReconciler(local, remote, 0)

	res := r.Reconcile(context.Background())
	require.NoError(t, res.Err)
	require.Len(t, remote.pushes, 1)
	assert.Empty(t, remote.pushes[0].Entries)
	assert.Equal(t, 1, res.DroppedRecords)
}

func TestReconcile_PartialPushFailureRetainsMergeAndRetries(t *testing.T) {
	local := newLocal(t)
	require.NoError(t, local.PutChallenge(syncChallenge("2024-01-02T00:00:00.000Z")))

	pulled := syncChallenge("2024-01-06T00:00:00.000Z")
	pulled.Name = "From remote"

	remote := &fakeRemote{
		pull:    models.PullResponse{Challenges: []models.Challenge{pulled}},
		pushErr: &apperrors.NetworkError{Op: "push", Err: errors.New("connection reset")},
	}
	r := stridesync.NewReconciler(local, remote, 0)

	res := r.Reconcile(context.Background())
	assert.False(t, res.Success)
	assert.True(t, apperrors.IsNetwork(res.Err))
	assert.Equal(t, 1, res.PulledChallenges, "pulled data is kept on push failure")

	got, err := local.GetChallenge(challengeID)
	require.NoError(t, err)
	assert.Equal(t, "From remote", got.Name)

	ts, err := local.GetLastSyncAt()
	require.NoError(t, err)
	assert.Empty(t, ts, "watermark must not advance past unpushed records")

	// The next reconcile retries the same push set.
	remote.pushErr = nil
	res = r.Reconcile(context.Background())
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
	require.Len(t, remote.pushes, 2)
	assert.Len(t, remote.pushes[1].Challenges, 1)

	ts, err = local.GetLastSyncAt()
	require.NoError(t, err)
	assert.Equal(t, serverStamp, ts)
}

func TestReconcile_PushRejectedByRemote(t *testing.T) {
	local := newLocal(t)
	require.NoError(t, local.PutChallenge(syncChallenge("2024-01-02T00:00:00.000Z")))

	remote := &fakeRemote{pushResp: &models.PushResponse{Success: false}}
	r := stridesync.NewReconciler(local, remote, 0)

	res := r.Reconcile(context.Background())
	assert.False(t, res.Success)
	assert.True(t, apperrors.IsNetwork(res.Err))

	ts, err := local.GetLastSyncAt()
	require.NoError(t, err)
	assert.Empty(t, ts)
}

func TestReconcile_Idempotent(t *testing.T) {
	local := newLocal(t)
	require.NoError(t, local.PutChallenge(syncChallenge("2024-01-02T00:00:00.000Z")))

	remote := &fakeRemote{pull: models.PullResponse{
		Challenges: []models.Challenge{syncChallenge("2024-01-03T00:00:00.000Z")},
	}}
	r := stridesync.NewReconciler(local, remote, 0)

	first := r.Reconcile(context.Background())
	require.NoError(t, first.Err)
	assert.Equal(t, 1, first.PulledChallenges)

	// Replaying the identical pull applies nothing new.
	second := r.Reconcile(context.Background())
	require.NoError(t, second.Err)
	assert.Equal(t, 0, second.PulledChallenges)
}

func TestRecover_RequiresEmptyStore(t *testing.T) {
	local := newLocal(t)
	require.NoError(t, local.PutChallenge(syncChallenge("2024-01-02T00:00:00.000Z")))

	r := stridesync.NewReconciler(local, &fakeRemote{}, 0)
	res := r.Recover(context.Background())
	assert.ErrorIs(t, res.Err, stridesync.ErrLocalNotEmpty)
}

func TestRecover_SeedsStoreAndRestoresPointer(t *testing.T) {
	local := newLocal(t)
	// Stale watermark from a wiped install must not hide remote history.
	require.NoError(t, local.SetLastSyncAt("2024-01-09T00:00:00.000Z"))

	active := syncChallenge("2024-01-05T00:00:00.000Z")
	done := models.Challenge{
		ID:        "22222222-2222-2222-2222-222222222222",
		Name:      "Old run",
		StartDate: "2023-11-01",
		Duration:  30,
		Status:    models.StatusCompleted,
		Goals: []models.Goal{
			{ID: "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb", Name: "Read", Color: "purple"},
		},
		UpdatedAt: "2024-01-08T00:00:00.000Z",
	}

	remote := &fakeRemote{pull: models.PullResponse{
		Challenges: []models.Challenge{done, active},
		Entries:    []models.DayEntry{syncEntry("2024-01-01", "2024-01-05T00:00:00.000Z")},
	}}
	r := stridesync.NewReconciler(local, remote, 0)

	res := r.Recover(context.Background())
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.PulledChallenges)
	assert.Equal(t, 1, res.PulledEntries)

	// The pointer lands on the active challenge, not the newer completed one.
	current, err := local.GetCurrentChallengeID()
	require.NoError(t, err)
	assert.Equal(t, challengeID, current)
}
