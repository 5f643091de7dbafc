package caption

import (
	"testing"
)

func TestNewTimelineStylesAndSorts(t *testing.T) {
	spans := []Span{
		{StartTime: 4, EndTime: 6, Text: "second"},
		{StartTime: 0, EndTime: 2, Text: "first"},
	}

	tl := NewTimeline(spans)
	if len(tl) != 2 {
		t.Fatalf("len = %d, want 2", len(tl))
	}
	if tl[0].Text != "first" || tl[1].Text != "second" {
		t.Errorf("timeline not sorted by start time: %q, %q", tl[0].Text, tl[1].Text)
	}
	if tl[0].ID == "" || tl[0].ID == tl[1].ID {
		t.Error("captions must get distinct fresh ids")
	}
	if tl[0].Style != DefaultStyle() {
		t.Errorf("default style not applied: %+v", tl[0].Style)
	}
	if tl[0].Animation != AnimationPopUp {
		t.Errorf("default animation = %q, want PopUp", tl[0].Animation)
	}
}

func TestReplaceAllDiscardsSelection(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(Timeline{{ID: "x", StartTime: 0, EndTime: 1, Text: "x"}})
	s.Select("x")
	if _, ok := s.Selected(); !ok {
		t.Fatal("selection did not stick")
	}

	s.ReplaceAll(Timeline{{ID: "y", StartTime: 0, EndTime: 1, Text: "y"}})
	if _, ok := s.Selected(); ok {
		t.Error("selection survived ReplaceAll")
	}
	if _, ok := s.Get("x"); ok {
		t.Error("old caption survived ReplaceAll")
	}
}

func TestSelectUnknownIDClears(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(Timeline{{ID: "x", StartTime: 0, EndTime: 1, Text: "x"}})
	s.Select("x")
	s.Select("nope")
	if _, ok := s.Selected(); ok {
		t.Error("selecting an unknown id must clear the selection")
	}
}

func TestSnapshotIsStable(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(Timeline{
		{ID: "a", StartTime: 0, EndTime: 2, Text: "a"},
		{ID: "b", StartTime: 2, EndTime: 4, Text: "b"},
	})

	snap := s.Snapshot()

	edited, _ := s.Get("a")
	edited.Text = "changed"
	s.Update(edited, FieldText, EditContext{})

	// a snapshot taken before the edit never observes it
	if snap[0].Text != "a" {
		t.Errorf("snapshot mutated by later edit: %q", snap[0].Text)
	}
	got, _ := s.Get("a")
	if got.Text != "changed" {
		t.Errorf("store missed the edit: %q", got.Text)
	}
}
