package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/models"
)

type fileStore struct {
	Version            int                         `json:"version"`
	CurrentChallengeID *string                     `json:"currentChallengeId"`
	LastSyncAt         string                      `json:"lastSyncAt,omitempty"`
	Challenges         map[string]models.Challenge `json:"challenges"`
	Entries            map[string]models.DayEntry  `json:"entries"` // keyed by date|goalId
}

// JSONStore persists the whole replica as a single JSON file. Each write
// rewrites the file through a temp-file rename, so a crashed write leaves
// the previous state intact.
type JSONStore struct {
	path  string
	store *fileStore
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func emptyFileStore() *fileStore {
	return &fileStore{
		Version:    1,
		Challenges: make(map[string]models.Challenge),
		Entries:    make(map[string]models.DayEntry),
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = emptyFileStore()
	return s.save()
}

func (s *JSONStore) Load() error {
	if s.store != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'stride init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &fileStore{}
	if err := json.Unmarshal(data, s.store); err != nil {
		s.store = nil
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	if s.store.Challenges == nil {
		s.store.Challenges = make(map[string]models.Challenge)
	}
	if s.store.Entries == nil {
		s.store.Entries = make(map[string]models.DayEntry)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}

	return nil
}

func (s *JSONStore) loaded() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetCurrentChallengeID() (string, error) {
	if err := s.loaded(); err != nil {
		return "", err
	}
	if s.store.CurrentChallengeID == nil {
		return "", nil
	}
	return *s.store.CurrentChallengeID, nil
}

func (s *JSONStore) SetCurrentChallengeID(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if id == "" {
		s.store.CurrentChallengeID = nil
	} else {
		s.store.CurrentChallengeID = &id
	}
	return s.save()
}

func (s *JSONStore) GetChallenge(id string) (models.Challenge, error) {
	if err := s.loaded(); err != nil {
		return models.Challenge{}, err
	}
	c, ok := s.store.Challenges[id]
	if !ok {
		return models.Challenge{}, fmt.Errorf("challenge %s: %w", id, apperrors.ErrNotFound)
	}
	return c, nil
}

func (s *JSONStore) PutChallenge(c models.Challenge) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Challenges[c.ID] = c
	return s.save()
}

func (s *JSONStore) ListChallenges() ([]models.Challenge, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	challenges := make([]models.Challenge, 0, len(s.store.Challenges))
	for _, c := range s.store.Challenges {
		challenges = append(challenges, c)
	}
	return challenges, nil
}

func (s *JSONStore) GetEntry(date, goalID string) (models.DayEntry, error) {
	if err := s.loaded(); err != nil {
		return models.DayEntry{}, err
	}
	e, ok := s.store.Entries[models.EntryKey(date, goalID)]
	if !ok {
		return models.DayEntry{}, fmt.Errorf("entry %s/%s: %w", date, goalID, apperrors.ErrNotFound)
	}
	return e, nil
}

func (s *JSONStore) PutEntry(e models.DayEntry) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Entries[e.Key()] = e
	return s.save()
}

func (s *JSONStore) ListEntries() ([]models.DayEntry, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	entries := make([]models.DayEntry, 0, len(s.store.Entries))
	for _, e := range s.store.Entries {
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *JSONStore) ListEntriesByGoalIDs(ids []string) ([]models.DayEntry, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var entries []models.DayEntry
	for _, e := range s.store.Entries {
		if want[e.GoalID] {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *JSONStore) DeleteEntriesForGoals(ids []string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	for key, e := range s.store.Entries {
		if doomed[e.GoalID] {
			delete(s.store.Entries, key)
		}
	}
	return s.save()
}

func (s *JSONStore) GetLastSyncAt() (string, error) {
	if err := s.loaded(); err != nil {
		return "", err
	}
	return s.store.LastSyncAt, nil
}

func (s *JSONStore) SetLastSyncAt(ts string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.LastSyncAt = ts
	return s.save()
}

func (s *JSONStore) ExportAll() (models.Snapshot, error) {
	if err := s.loaded(); err != nil {
		return models.Snapshot{}, err
	}

	snap := models.Snapshot{
		CurrentChallengeID: s.store.CurrentChallengeID,
		Challenges:         make([]models.Challenge, 0, len(s.store.Challenges)),
		Entries:            make([]models.DayEntry, 0, len(s.store.Entries)),
	}
	for _, c := range s.store.Challenges {
		snap.Challenges = append(snap.Challenges, c)
	}
	for _, e := range s.store.Entries {
		snap.Entries = append(snap.Entries, e)
	}
	return snap, nil
}

func (s *JSONStore) ImportAll(snap models.Snapshot) error {
	if err := s.loaded(); err != nil {
		return err
	}

	next := emptyFileStore()
	next.CurrentChallengeID = snap.CurrentChallengeID
	next.LastSyncAt = s.store.LastSyncAt // watermark is not part of the snapshot
	for _, c := range snap.Challenges {
		next.Challenges[c.ID] = c
	}
	for _, e := range snap.Entries {
		next.Entries[e.Key()] = e
	}

	// Swap in the new state only after it is on disk; a failed save leaves
	// the previous state untouched.
	prev := s.store
	s.store = next
	if err := s.save(); err != nil {
		s.store = prev
		return err
	}
	return nil
}

func (s *JSONStore) ClearAll() error {
	if err := s.loaded(); err != nil {
		return err
	}

	prev := s.store
	s.store = emptyFileStore()
	if err := s.save(); err != nil {
		s.store = prev
		return err
	}
	return nil
}

// GetConfigPath returns the path to the underlying storage file.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
