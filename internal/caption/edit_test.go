package caption

import (
	"testing"
)

func threeCaptionStore() *Store {
	s := NewStore()
	s.ReplaceAll(Timeline{
		{ID: "c1", StartTime: 0, EndTime: 2, Text: "one", Style: DefaultStyle(), Animation: AnimationNone},
		{ID: "c2", StartTime: 2, EndTime: 4, Text: "two", Style: DefaultStyle(), Animation: AnimationNone},
		{ID: "c3", StartTime: 4, EndTime: 6, Text: "three", Style: DefaultStyle(), Animation: AnimationNone},
	})
	return s
}

func TestUpdateReplacesSingleCaption(t *testing.T) {
	s := threeCaptionStore()

	edited, _ := s.Get("c2")
	edited.Text = "TWO"
	edited.EndTime = 5
	s.Update(edited, FieldText, EditContext{})

	got, _ := s.Get("c2")
	if got.Text != "TWO" || got.EndTime != 5 {
		t.Errorf("c2 not replaced: %+v", got)
	}
	other, _ := s.Get("c1")
	if other.Text != "one" {
		t.Errorf("c1 touched by single update: %+v", other)
	}
}

func TestUpdateAnimationBroadcast(t *testing.T) {
	s := threeCaptionStore()

	edited, _ := s.Get("c2")
	edited.Animation = AnimationKaraoke
	edited.Style.GlowStrength = 10
	s.Update(edited, FieldAnimation, EditContext{SyncStyles: true})

	for _, id := range []string{"c1", "c2", "c3"} {
		c, _ := s.Get(id)
		if c.Animation != AnimationKaraoke {
			t.Errorf("%s animation = %q, want Karaoke", id, c.Animation)
		}
		// only the signaled field category propagates
		if id != "c2" && c.Style.GlowStrength == 10 {
			t.Errorf("%s style propagated by an animation edit", id)
		}
	}

	// text and timing untouched everywhere, including the edited caption
	c1, _ := s.Get("c1")
	if c1.Text != "one" || c1.StartTime != 0 || c1.EndTime != 2 {
		t.Errorf("c1 text/timing changed by broadcast: %+v", c1)
	}
}

func TestUpdateStyleBroadcast(t *testing.T) {
	s := threeCaptionStore()

	edited, _ := s.Get("c1")
	edited.Style.PrimaryColor = "#FFD700"
	edited.Style.FontSize = 64
	s.Update(edited, FieldStyle, EditContext{SyncStyles: true})

	for _, id := range []string{"c1", "c2", "c3"} {
		c, _ := s.Get(id)
		if c.Style.PrimaryColor != "#FFD700" || c.Style.FontSize != 64 {
			t.Errorf("%s style = %+v, want broadcast style", id, c.Style)
		}
		if c.Animation != AnimationNone {
			t.Errorf("%s animation propagated by a style edit", id)
		}
	}
}

func TestUpdateStyleWithoutSyncStaysLocal(t *testing.T) {
	s := threeCaptionStore()

	edited, _ := s.Get("c2")
	edited.Style.FontSize = 72
	s.Update(edited, FieldStyle, EditContext{SyncStyles: false})

	c2, _ := s.Get("c2")
	if c2.Style.FontSize != 72 {
		t.Errorf("edited caption not updated: %+v", c2.Style)
	}
	c1, _ := s.Get("c1")
	if c1.Style.FontSize == 72 {
		t.Error("style leaked to other captions with sync disabled")
	}
}

func TestStoreSplit(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(Timeline{
		{ID: "a", StartTime: 0, EndTime: 4, Text: "AB CD", Style: DefaultStyle()},
		{ID: "b", StartTime: 4, EndTime: 8, Text: "later", Style: DefaultStyle()},
	})

	if err := s.Split("a", 2); err != nil {
		t.Fatalf("split failed: %v", err)
	}

	tl := s.Snapshot()
	if len(tl) != 3 {
		t.Fatalf("timeline len = %d, want 3", len(tl))
	}
	if tl[0].ID != "a" || tl[0].Text != "AB" {
		t.Errorf("first half out of place: %+v", tl[0])
	}
	if tl[1].Text != "CD" || tl[1].StartTime != tl[0].EndTime {
		t.Errorf("second half out of place: %+v", tl[1])
	}
	if tl[2].ID != "b" {
		t.Errorf("later caption displaced: %+v", tl[2])
	}

	// timeline stays ordered by start time
	for i := 1; i < len(tl); i++ {
		if tl[i].StartTime < tl[i-1].StartTime {
			t.Fatalf("timeline out of order at %d", i)
		}
	}
}

func TestStoreSplitNoOps(t *testing.T) {
	s := threeCaptionStore()
	before := s.Snapshot()

	if err := s.Split("missing", 1); err != ErrNotFound {
		t.Errorf("unknown id: err = %v, want ErrNotFound", err)
	}
	if err := s.Split("c1", 0); err != ErrSplitEmpty {
		t.Errorf("empty half: err = %v, want ErrSplitEmpty", err)
	}

	after := s.Snapshot()
	if len(after) != len(before) {
		t.Fatalf("rejected splits mutated the timeline")
	}
	for i := range after {
		if after[i].ID != before[i].ID || after[i].Text != before[i].Text {
			t.Fatalf("rejected splits mutated entry %d", i)
		}
	}
}
