package sync

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stridehq/stride/internal/constants"
	"github.com/stridehq/stride/internal/logger"
	"github.com/stridehq/stride/internal/models"
	"github.com/stridehq/stride/internal/storage"
	"github.com/stridehq/stride/internal/validation"
)

// Server is a reference implementation of the remote authority: the wire
// protocol served over any replica store, applying the identical
// per-record last-write-wins rule the client applies. Resending an
// already-applied record with the same updatedAt is a no-op, which is what
// makes client retries safe.
type Server struct {
	store storage.Provider
	token string
}

// NewServer creates a sync server over the given store. When token is
// non-empty, requests must carry it as a bearer credential.
func NewServer(store storage.Provider, token string) *Server {
	return &Server{
		store: store,
		token: token,
	}
}

// Handler returns the HTTP handler for the sync endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sync/pull", s.handlePull)
	mux.HandleFunc("/sync/push", s.handlePush)
	return mux
}

func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+s.token
}

func serverTime() string {
	return time.Now().UTC().Format(constants.TimestampFormat)
}

func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	since := r.URL.Query().Get("since")

	challenges, err := s.store.ListChallenges()
	if err != nil {
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	entries, err := s.store.ListEntries()
	if err != nil {
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	resp := models.PullResponse{
		Challenges: []models.Challenge{},
		Entries:    []models.DayEntry{},
		ServerTime: serverTime(),
	}
	for _, c := range challenges {
		if since == "" || c.UpdatedAt > since {
			resp.Challenges = append(resp.Challenges, c)
		}
	}
	for _, e := range entries {
		if since == "" || e.UpdatedAt > since {
			resp.Entries = append(resp.Entries, e)
		}
	}

	writeJSON(w, resp)
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}

	// Last-write-wins per record; structurally invalid records are dropped
	// without failing the batch.
	for _, c := range req.Challenges {
		if err := validation.CheckChallenge(c); err != nil {
			logger.Warn("Rejecting invalid pushed challenge", "error", err)
			continue
		}
		existing, err := s.store.GetChallenge(c.ID)
		if err == nil && c.UpdatedAt <= existing.UpdatedAt {
			continue
		}
		if err := s.store.PutChallenge(c); err != nil {
			http.Error(w, "storage failure", http.StatusInternalServerError)
			return
		}
	}
	for _, e := range req.Entries {
		if err := validation.CheckEntry(e); err != nil {
			logger.Warn("Rejecting invalid pushed entry", "error", err)
			continue
		}
		existing, err := s.store.GetEntry(e.Date, e.GoalID)
		if err == nil && e.UpdatedAt <= existing.UpdatedAt {
			continue
		}
		if err := s.store.PutEntry(e); err != nil {
			http.Error(w, "storage failure", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, models.PushResponse{
		Success:  true,
		SyncedAt: serverTime(),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
