package tasks

import (
	"sync"
	"time"
)

type ImportState string

const (
	ImportPending   ImportState = "pending"
	ImportRunning   ImportState = "running"
	ImportSucceeded ImportState = "succeeded"
	ImportFailed    ImportState = "failed"
)

type ImportStatus struct {
	ID        string      `json:"id"`
	SourceURL string      `json:"source_url"`
	State     ImportState `json:"state"`
	RecipeID  string      `json:"recipe_id,omitempty"`
	Message   string      `json:"message,omitempty"`
	Attempts  int         `json:"attempts"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// StatusTracker keeps the latest state of every queued import in memory.
type StatusTracker struct {
	mu       sync.RWMutex
	statuses map[string]*ImportStatus
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		statuses: make(map[string]*ImportStatus),
	}
}

func (s *StatusTracker) Pending(id, sourceURL string) {
	s.update(id, func(st *ImportStatus) {
		st.SourceURL = sourceURL
		st.State = ImportPending
	})
}

func (s *StatusTracker) Running(id string) {
	s.update(id, func(st *ImportStatus) {
		st.State = ImportRunning
		st.Attempts++
	})
}

func (s *StatusTracker) Succeeded(id, recipeID string) {
	s.update(id, func(st *ImportStatus) {
		st.State = ImportSucceeded
		st.RecipeID = recipeID
		st.Message = ""
	})
}

// Failed records a terminal failure. recipeID is set when the URL was already imported.
func (s *StatusTracker) Failed(id, recipeID, message string) {
	s.update(id, func(st *ImportStatus) {
		st.State = ImportFailed
		st.RecipeID = recipeID
		st.Message = message
	})
}

// Get returns a copy of the status, or nil for an unknown id.
func (s *StatusTracker) Get(id string) *ImportStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.statuses[id]
	if !ok {
		return nil
	}
	copied := *st
	return &copied
}

// Prune drops finished imports last updated before the cutoff and returns how many were removed.
func (s *StatusTracker) Prune(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, st := range s.statuses {
		if st.State != ImportSucceeded && st.State != ImportFailed {
			continue
		}
		if st.UpdatedAt.Before(before) {
			delete(s.statuses, id)
			removed++
		}
	}
	return removed
}

func (s *StatusTracker) update(id string, fn func(*ImportStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[id]
	if !ok {
		st = &ImportStatus{ID: id}
		s.statuses[id] = st
	}
	fn(st)
	st.UpdatedAt = time.Now().UTC()
}
