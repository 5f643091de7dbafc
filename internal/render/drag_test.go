package render

import (
	"testing"

	"github.com/capedit/capedit/internal/caption"
)

func TestDragSessionMoveUpdatesOnlyPosition(t *testing.T) {
	c := testCaption()
	c.Text = "drag me"

	container := Rect{Left: 100, Top: 50, Width: 800, Height: 400}
	target := Rect{Left: 480, Top: 360, Width: 120, Height: 40}

	var got caption.Caption
	session := BeginDrag(c, 500, 370, target, container,
		func(updated caption.Caption) { got = updated },
		func() {})

	// pointer moves to container center, grab offset preserved
	session.Move(520, 260)

	if got.Text != "drag me" || got.ID != c.ID {
		t.Fatalf("drag changed fields other than position: %+v", got)
	}
	// x = 520 - 100 - (500-480) = 400 of 800 -> 50%
	if got.Style.Position.X != 50 {
		t.Errorf("position.x = %v, want 50", got.Style.Position.X)
	}
	// y = 260 - 50 - (370-360) = 200 of 400 -> 50%
	if got.Style.Position.Y != 50 {
		t.Errorf("position.y = %v, want 50", got.Style.Position.Y)
	}
	if got.StartTime != c.StartTime || got.EndTime != c.EndTime {
		t.Error("drag touched caption timing")
	}
}

func TestDragSessionClamps(t *testing.T) {
	c := testCaption()
	container := Rect{Left: 0, Top: 0, Width: 100, Height: 100}
	target := Rect{Left: 40, Top: 40, Width: 20, Height: 10}

	var got caption.Caption
	session := BeginDrag(c, 40, 40, target, container,
		func(updated caption.Caption) { got = updated },
		func() {})

	session.Move(-500, 9999)
	if got.Style.Position.X != 0 {
		t.Errorf("x not clamped to 0: %v", got.Style.Position.X)
	}
	if got.Style.Position.Y != 100 {
		t.Errorf("y not clamped to 100: %v", got.Style.Position.Y)
	}
}

func TestDragSessionReleaseRunsOnce(t *testing.T) {
	c := testCaption()
	container := Rect{Width: 100, Height: 100}

	released := 0
	session := BeginDrag(c, 0, 0, Rect{}, container, nil, func() { released++ })

	session.End()
	session.End()
	if released != 1 {
		t.Fatalf("release ran %d times, want exactly 1", released)
	}

	// moves after the gesture ended are dropped
	updates := 0
	session2 := BeginDrag(c, 0, 0, Rect{}, container,
		func(caption.Caption) { updates++ },
		func() {})
	session2.End()
	session2.Move(10, 10)
	if updates != 0 {
		t.Errorf("move after End produced %d updates", updates)
	}
}
