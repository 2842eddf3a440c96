// Package ease provides easing curves and a timed driver that reports
// eased progress through a callback.
package ease

import (
	"fmt"
	"math"
)

// Type selects an easing curve.
type Type uint8

const (
	// Linear progresses at constant speed.
	Linear Type = iota

	// Cubic is the smoothstep curve 3t^2 - 2t^3.
	Cubic

	// Quint is the smootherstep curve 6t^5 - 15t^4 + 10t^3.
	Quint

	// Sine is the half-cosine curve 0.5 - 0.5cos(pi t).
	Sine
)

// String returns a human-readable name for the curve.
func (t Type) String() string {
	switch t {
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	case Quint:
		return "quint"
	case Sine:
		return "sine"
	default:
		return fmt.Sprintf("Type(%d)", t)
	}
}

// Apply maps linear progress f in [0, 1] through the curve.
func (t Type) Apply(f float32) float32 {
	switch t {
	case Cubic:
		return (-2*f + 3) * f * f
	case Quint:
		return (6*f*f - 15*f + 10) * f * f * f
	case Sine:
		return float32(0.5 - 0.5*math.Cos(math.Pi*float64(f)))
	default:
		return f
	}
}

// Lerp interpolates from start to end at progress f shaped by curve t.
func Lerp(start, end, f float32, t Type) float32 {
	return start + (end-start)*t.Apply(f)
}

// Ease drives a callback with linear progress in [0, 1] over a duration.
// The zero value is finished and never calls back.
type Ease struct {
	t  float32
	d  float32
	cb func(float32)
}

// New returns an Ease that runs for duration seconds. It has not started:
// the first Update reports progress 0 regardless of dt.
func New(duration float32, cb func(progress float32)) Ease {
	if cb == nil {
		cb = func(float32) {}
	}
	return Ease{t: -1, d: duration, cb: cb}
}

// Finished reports whether the ease has reached its duration.
func (e *Ease) Finished() bool {
	return e.t >= e.d
}

// Update advances the ease by dt seconds and invokes the callback.
// A non-positive duration completes on the first update.
func (e *Ease) Update(dt float32) {
	if e.cb == nil {
		return
	}
	if e.d > 0 {
		if e.t < 0 {
			e.t = 0
		} else {
			e.t = min(e.t+dt, e.d)
		}
		e.cb(min(1, e.t/e.d))
		return
	}
	e.t = e.d
	e.cb(1)
}
