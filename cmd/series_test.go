package cmd

import (
	"testing"

	"github.com/pable/go-lol-mgi/internal/grid"
)

func TestPickFiles(t *testing.T) {
	files := []grid.FileInfo{
		{ID: "events-riot-summary", Status: "processing", FullURL: "https://x/a"},
		{ID: "events-grid", Status: "ready", FileName: "events.jsonl.zip", FullURL: "https://x/events"},
		{ID: "state-grid", Status: "ready", FileName: "end_state.json", FullURL: "https://x/state"},
		{ID: "events-grid-compressed", Status: "ready", FullURL: "https://x/events2"},
	}
	ev, st := pickFiles(files)
	if ev == nil || ev.ID != "events-grid" {
		t.Errorf("events file = %+v, want events-grid", ev)
	}
	if st == nil || st.ID != "state-grid" {
		t.Errorf("state file = %+v, want state-grid", st)
	}
}

func TestPickFiles_NoneReady(t *testing.T) {
	ev, st := pickFiles([]grid.FileInfo{{ID: "events-grid", Status: "processing", FullURL: "https://x"}})
	if ev != nil || st != nil {
		t.Errorf("expected nothing, got %+v %+v", ev, st)
	}
}
