package render

import (
	"sync"

	"github.com/capedit/capedit/internal/caption"
)

// Rect is a bounding box in pointer coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// DragSession is one caption-repositioning gesture. It owns its
// move/end lifecycle: the release hook passed to BeginDrag runs
// exactly once no matter how the gesture ends, so transient pointer
// subscriptions cannot leak across gestures.
type DragSession struct {
	mu        sync.Mutex
	caption   caption.Caption
	grabX     float64
	grabY     float64
	container Rect
	onUpdate  func(caption.Caption)
	onRelease func()
	done      bool
}

// BeginDrag starts a gesture on a caption. pointerX/Y is the pointer
// position at grab time, target the caption box being grabbed and
// container the rendering surface the position percentages are
// measured against. onUpdate receives the repositioned caption on
// every move; onRelease is the subscription cleanup hook.
func BeginDrag(c caption.Caption, pointerX, pointerY float64, target, container Rect, onUpdate func(caption.Caption), onRelease func()) *DragSession {
	return &DragSession{
		caption:   c,
		grabX:     pointerX - target.Left,
		grabY:     pointerY - target.Top,
		container: container,
		onUpdate:  onUpdate,
		onRelease: onRelease,
	}
}

// Move repositions the caption under the pointer. The new anchor is
// clamped to [0, 100] percent of the container; only style.position
// changes, every other field rides along untouched. Moves after End
// are ignored.
func (d *DragSession) Move(pointerX, pointerY float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done || d.container.Width <= 0 || d.container.Height <= 0 {
		return
	}

	x := pointerX - d.container.Left - d.grabX
	y := pointerY - d.container.Top - d.grabY

	d.caption.Style.Position = caption.Position{
		X: clampPercent(x / d.container.Width * 100),
		Y: clampPercent(y / d.container.Height * 100),
	}
	if d.onUpdate != nil {
		d.onUpdate(d.caption)
	}
}

// End finishes the gesture and runs the release hook. Safe to call
// more than once; the hook fires only on the first call.
func (d *DragSession) End() {
	d.mu.Lock()
	if d.done {
		d.mu.Unlock()
		return
	}
	d.done = true
	release := d.onRelease
	d.mu.Unlock()

	if release != nil {
		release()
	}
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
