package player

import "testing"

func TestShouldToggle(t *testing.T) {
	tests := []struct {
		key   string
		focus FocusTarget
		want  bool
	}{
		{" ", FocusNone, true},
		{" ", FocusTextInput, false},
		{"k", FocusNone, false},
		{"", FocusNone, false},
	}

	for _, tt := range tests {
		if got := ShouldToggle(tt.key, tt.focus); got != tt.want {
			t.Errorf("ShouldToggle(%q, %v) = %v, want %v", tt.key, tt.focus, got, tt.want)
		}
	}
}

func TestMemorySeekClamps(t *testing.T) {
	p := NewMemory(60)

	p.Seek(-3)
	if p.CurrentTime() != 0 {
		t.Errorf("negative seek: time = %v, want 0", p.CurrentTime())
	}

	p.Seek(120)
	if p.CurrentTime() != 60 {
		t.Errorf("overlong seek: time = %v, want 60", p.CurrentTime())
	}

	p.Seek(12.5)
	if p.CurrentTime() != 12.5 {
		t.Errorf("seek: time = %v, want 12.5", p.CurrentTime())
	}
}

func TestMemoryEvents(t *testing.T) {
	p := NewMemory(0)

	var gotTime, gotDuration float64
	plays, pauses := 0, 0
	p.Subscribe(Events{
		OnTimeUpdate:     func(s float64) { gotTime = s },
		OnLoadedMetadata: func(d float64) { gotDuration = d },
		OnPlay:           func() { plays++ },
		OnPause:          func() { pauses++ },
	})

	p.SetDuration(30)
	p.Seek(10)
	_ = p.Play()
	_ = p.Pause()

	if gotDuration != 30 || gotTime != 10 {
		t.Errorf("events saw duration=%v time=%v", gotDuration, gotTime)
	}
	if plays != 1 || pauses != 1 {
		t.Errorf("plays=%d pauses=%d", plays, pauses)
	}
	if p.Playing() {
		t.Error("player still playing after pause")
	}
}
