package aggregate

import (
	"slices"

	"github.com/outofforest/pulse/wire"
)

var _ Aggregator[[]wire.Touch] = &Touches{}

// NewTouches creates touch averaging aggregator.
func NewTouches() *Touches {
	return &Touches{
		gate: newEmptyGate(),
	}
}

// Touches averages touches collected between flushes.
//
// Fingers are matched by id going back from the current tick. Motion (delta position, delta time)
// is summed, tap count is the maximum, pressure, radius and radius variance are averaged over the
// consecutive ticks the finger was present in. Fingers absent in the current tick are carried
// over from the most recent tick they appeared in, unchanged.
type Touches struct {
	history [][]wire.Touch
	current []wire.Touch
	gate    emptyGate
}

// Accumulate implements Aggregator.
func (a *Touches) Accumulate(touches []wire.Touch) {
	if len(a.current) > 0 {
		a.history = append(a.history, a.current)
	}
	a.current = slices.Clone(touches)
}

// Flush implements Aggregator.
func (a *Touches) Flush() (any, bool) {
	touches := mergeTouches(a.current, a.history)

	clear(a.history)
	a.history = a.history[:0]
	a.current = nil

	if !a.gate.pass(len(touches) == 0) {
		return nil, false
	}
	return &wire.Touches{Touches: touches}, true
}

type mergedTouch struct {
	wire.Touch

	ticks uint64
	open  bool
}

// mergeTouches is O(ticks * touches^2). Number of simultaneous touches is small.
func mergeTouches(current []wire.Touch, history [][]wire.Touch) []wire.Touch {
	merged := make([]mergedTouch, 0, len(current))
	for _, t := range current {
		merged = append(merged, mergedTouch{Touch: t, ticks: 1, open: true})
	}

	for i := len(history) - 1; i >= 0; i-- {
		prior := history[i]
		for j := range merged {
			m := &merged[j]
			if !m.open {
				continue
			}
			k := findTouch(prior, m.FingerID)
			if k < 0 {
				m.open = false
				continue
			}

			p := prior[k]
			m.DeltaPosition.X += p.DeltaPosition.X
			m.DeltaPosition.Y += p.DeltaPosition.Y
			m.DeltaTime += p.DeltaTime
			m.TapCount = max(m.TapCount, p.TapCount)
			m.Pressure += p.Pressure
			m.Radius += p.Radius
			m.RadiusVariance += p.RadiusVariance
			m.ticks++
		}

		for _, p := range prior {
			if findMerged(merged, p.FingerID) < 0 {
				merged = append(merged, mergedTouch{Touch: p, ticks: 1})
			}
		}
	}

	touches := make([]wire.Touch, 0, len(merged))
	for _, m := range merged {
		t := m.Touch
		if m.ticks > 1 {
			n := float64(m.ticks)
			t.Pressure /= n
			t.Radius /= n
			t.RadiusVariance /= n
		}
		touches = append(touches, t)
	}
	return touches
}

func findTouch(touches []wire.Touch, fingerID uint64) int {
	for i, t := range touches {
		if t.FingerID == fingerID {
			return i
		}
	}
	return -1
}

func findMerged(touches []mergedTouch, fingerID uint64) int {
	for i, t := range touches {
		if t.FingerID == fingerID {
			return i
		}
	}
	return -1
}
