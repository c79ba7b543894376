package sync_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/models"
	"github.com/stridehq/stride/internal/storage"
	stridesync "github.com/stridehq/stride/internal/sync"
)

func newServer(t *testing.T, token string) (*httptest.Server, storage.Provider) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "server.json"))
	require.NoError(t, store.Init())
	srv := httptest.NewServer(stridesync.NewServer(store, token).Handler())
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv, store
}

func TestServer_PullSinceFilter(t *testing.T) {
	srv, store := newServer(t, "")
	require.NoError(t, store.PutChallenge(syncChallenge("2024-01-02T00:00:00.000Z")))
	require.NoError(t, store.PutEntry(syncEntry("2024-01-01", "2024-01-02T00:00:00.000Z")))
	require.NoError(t, store.PutEntry(syncEntry("2024-01-04", "2024-01-05T00:00:00.000Z")))

	client := stridesync.NewClient(srv.URL, "", 5*time.Second)

	full, err := client.Pull(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, full.Challenges, 1)
	assert.Len(t, full.Entries, 2)
	assert.NotEmpty(t, full.ServerTime)

	delta, err := client.Pull(context.Background(), "2024-01-03T00:00:00.000Z")
	require.NoError(t, err)
	assert.Empty(t, delta.Challenges)
	require.Len(t, delta.Entries, 1)
	assert.Equal(t, "2024-01-04", delta.Entries[0].Date)
}

func TestServer_PushAppliesLastWriteWins(t *testing.T) {
	srv, store := newServer(t, "")
	require.NoError(t, store.PutChallenge(syncChallenge("2024-01-05T00:00:00.000Z")))

	client := stridesync.NewClient(srv.URL, "", 5*time.Second)

	older := syncChallenge("2024-01-02T00:00:00.000Z")
	older.Name = "Stale"
	newer := syncEntry("2024-01-01", "2024-01-06T00:00:00.000Z")

	resp, err := client.Push(context.Background(), models.PushRequest{
		Challenges: []models.Challenge{older},
		Entries:    []models.DayEntry{newer},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.SyncedAt)

	got, err := store.GetChallenge(challengeID)
	require.NoError(t, err)
	assert.Equal(t, "Hydrate", got.Name, "stale push must not overwrite a newer record")

	e, err := store.GetEntry("2024-01-01", goalID)
	require.NoError(t, err)
	assert.True(t, e.Completed)
}

func TestServer_PushIsIdempotent(t *testing.T) {
	srv, store := newServer(t, "")
	client := stridesync.NewClient(srv.URL, "", 5*time.Second)

	req := models.PushRequest{
		Challenges: []models.Challenge{syncChallenge("2024-01-02T00:00:00.000Z")},
		Entries:    []models.DayEntry{syncEntry("2024-01-01", "2024-01-02T00:00:00.000Z")},
	}

	for i := 0; i < 3; i++ {
		resp, err := client.Push(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.Success)
	}

	challenges, err := store.ListChallenges()
	require.NoError(t, err)
	assert.Len(t, challenges, 1)
	entries, err := store.ListEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestServer_DropsInvalidPushedRecords(t *testing.T) {
	srv, store := newServer(t, "")
	client := stridesync.NewClient(srv.URL, "", 5*time.Second)

	bad := syncChallenge("2024-01-02T00:00:00.000Z")
	bad.Duration = 0

	resp, err := client.Push(context.Background(), models.PushRequest{
		Challenges: []models.Challenge{bad},
		Entries:    []models.DayEntry{},
	})
	require.NoError(t, err, "an invalid record drops without failing the batch")
	assert.True(t, resp.Success)

	challenges, err := store.ListChallenges()
	require.NoError(t, err)
	assert.Empty(t, challenges)
}

func TestServer_RejectsBadToken(t *testing.T) {
	srv, _ := newServer(t, "sekrit")

	unauthorized := stridesync.NewClient(srv.URL, "wrong", 5*time.Second)
	_, err := unauthorized.Pull(context.Background(), "")
	assert.True(t, apperrors.IsAuth(err))
	_, err = unauthorized.Push(context.Background(), models.PushRequest{})
	assert.True(t, apperrors.IsAuth(err))

	authorized := stridesync.NewClient(srv.URL, "sekrit", 5*time.Second)
	_, err = authorized.Pull(context.Background(), "")
	assert.NoError(t, err)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv, _ := newServer(t, "")

	resp, err := http.Post(srv.URL+"/sync/pull", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/sync/push")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestClient_TreatsServerErrorAsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := stridesync.NewClient(srv.URL, "", 5*time.Second)
	_, err := client.Pull(context.Background(), "")
	assert.True(t, apperrors.IsNetwork(err))
}

func TestEndToEnd_TwoReplicasConverge(t *testing.T) {
	srv, _ := newServer(t, "")
	remote := stridesync.NewClient(srv.URL, "", 5*time.Second)

	deviceA := newLocal(t)
	deviceB := newLocal(t)

	require.NoError(t, deviceA.PutChallenge(syncChallenge("2024-01-02T00:00:00.000Z")))
	require.NoError(t, deviceA.PutEntry(syncEntry("2024-01-01", "2024-01-02T00:00:00.000Z")))

	resA := stridesync.NewReconciler(deviceA, remote, 0).Reconcile(context.Background())
	require.NoError(t, resA.Err)

	resB := stridesync.NewReconciler(deviceB, remote, 0).Reconcile(context.Background())
	require.NoError(t, resB.Err)
	assert.Equal(t, 1, resB.PulledChallenges)
	assert.Equal(t, 1, resB.PulledEntries)

	a, err := deviceA.ExportAll()
	require.NoError(t, err)
	b, err := deviceB.ExportAll()
	require.NoError(t, err)
	assert.ElementsMatch(t, a.Challenges, b.Challenges)
	assert.ElementsMatch(t, a.Entries, b.Entries)
}
