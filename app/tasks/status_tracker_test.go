package tasks

import (
	"testing"
	"time"
)

func TestStatusTracker_Lifecycle(t *testing.T) {
	tracker := NewStatusTracker()

	if tracker.Get("missing") != nil {
		t.Error("Expected nil for unknown id")
	}

	tracker.Pending("a", "https://example.com/a")
	tracker.Running("a")
	tracker.Running("a")
	tracker.Succeeded("a", "recipe-1")

	st := tracker.Get("a")
	if st.State != ImportSucceeded {
		t.Errorf("Expected succeeded, got: %s", st.State)
	}
	if st.SourceURL != "https://example.com/a" {
		t.Errorf("Expected source URL kept, got: %s", st.SourceURL)
	}
	if st.Attempts != 2 {
		t.Errorf("Expected 2 attempts, got: %d", st.Attempts)
	}

	st.State = ImportFailed
	if tracker.Get("a").State != ImportSucceeded {
		t.Error("Expected Get to return a copy")
	}
}

func TestStatusTracker_Prune(t *testing.T) {
	tracker := NewStatusTracker()
	tracker.Pending("pending", "https://example.com/p")
	tracker.Pending("done", "https://example.com/d")
	tracker.Failed("done", "", "Could not connect to the website")

	if removed := tracker.Prune(time.Now().UTC().Add(-time.Hour)); removed != 0 {
		t.Errorf("Expected nothing pruned for recent entries, got: %d", removed)
	}

	if removed := tracker.Prune(time.Now().UTC().Add(time.Minute)); removed != 1 {
		t.Errorf("Expected 1 pruned, got: %d", removed)
	}
	if tracker.Get("done") != nil {
		t.Error("Expected finished entry removed")
	}
	if tracker.Get("pending") == nil {
		t.Error("Expected pending entry kept")
	}
}
