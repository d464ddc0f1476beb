package spacehole

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween animates a single value. Call Update(dt) each frame and read Value.
// A zero Tween is finished and holds 0.
//
// There is no global animation manager; the owner updates its tweens.
type Tween struct {
	tween *gween.Tween
	Value float64
	Done  bool
}

// NewTween eases from one value to another over duration. A non-positive
// duration jumps straight to the end value.
func NewTween(from, to float64, duration time.Duration, fn ease.TweenFunc) *Tween {
	if duration <= 0 {
		return &Tween{Value: to, Done: true}
	}
	return &Tween{
		tween: gween.New(float32(from), float32(to), float32(duration.Seconds()), fn),
		Value: from,
	}
}

// Update advances the tween by dt and returns the new value.
func (t *Tween) Update(dt time.Duration) float64 {
	if t.Done || t.tween == nil {
		t.Done = true
		return t.Value
	}
	v, finished := t.tween.Update(float32(dt.Seconds()))
	t.Value = float64(v)
	t.Done = finished
	return t.Value
}

// holeShrink eases the drawn hole diameter towards the logical one after a
// level up. Collision always uses the logical diameter.
func holeShrink(from, to float64, d time.Duration) *Tween {
	return NewTween(from, to, d, ease.OutQuad)
}

// countdownPulse scales each countdown number from large to normal.
func countdownPulse(d time.Duration) *Tween {
	return NewTween(1.8, 1, d, ease.OutBack)
}
