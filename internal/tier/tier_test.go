package tier

import (
	"errors"
	"testing"
)

func TestCheckVideo(t *testing.T) {
	tests := []struct {
		name     string
		tier     Tier
		duration float64 // seconds
		size     int64   // bytes
		used     int
		wantErr  error
	}{
		{"free within limits", Free, 300, 10 << 20, 0, nil},
		{"free video too long", Free, 11 * 60, 10 << 20, 0, ErrVideoTooLong},
		{"free file too large", Free, 60, 101 << 20, 0, ErrFileTooLarge},
		{"free quota exhausted", Free, 5 * 60, 10 << 20, 6, ErrQuotaExceeded},
		{"starter allows longer video", Starter, 25 * 60, 400 << 20, 0, nil},
		{"pro big upload", Pro, 50 * 60, 1500 << 20, 100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVideo(tt.tier, tt.duration, tt.size, tt.used)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckVideo() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMinutesFor(t *testing.T) {
	tests := []struct {
		seconds float64
		want    int
	}{
		{0, 0},
		{-5, 0},
		{1, 1},
		{60, 1},
		{61, 2},
		{599.5, 10},
	}
	for _, tt := range tests {
		if got := MinutesFor(tt.seconds); got != tt.want {
			t.Errorf("MinutesFor(%v) = %d, want %d", tt.seconds, got, tt.want)
		}
	}
}

func TestMeter(t *testing.T) {
	m := NewMeter()

	if got := m.Used("u1"); got != 0 {
		t.Errorf("fresh user used = %d, want 0", got)
	}

	m.Record("u1", 3)
	m.Record("u1", 4)
	if got := m.Used("u1"); got != 7 {
		t.Errorf("used = %d, want 7", got)
	}
	if got := m.Used("u2"); got != 0 {
		t.Errorf("other user used = %d, want 0", got)
	}

	if got := m.Remaining(Free, "u1"); got != 3 {
		t.Errorf("remaining = %d, want 3", got)
	}

	m.Record("u1", 100)
	if got := m.Remaining(Free, "u1"); got != 0 {
		t.Errorf("remaining floors at 0, got %d", got)
	}
}

func TestGetConfigUnknownFallsBackToFree(t *testing.T) {
	if got := GetConfig(Tier("enterprise")); got.Name != "Free" {
		t.Errorf("unknown tier config = %q, want Free", got.Name)
	}
	if Valid("enterprise") {
		t.Error("unknown tier reported valid")
	}
}
