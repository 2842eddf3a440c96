package label

import (
	"fmt"

	"github.com/gogpu/maplabel/ease"
)

// FadeState is a state of the label fade state machine.
type FadeState uint8

// Fade states.
const (
	FadeHidden FadeState = iota
	FadeAppearing
	FadeVisible
	FadeFadingOut
)

// String returns the state name.
func (s FadeState) String() string {
	switch s {
	case FadeHidden:
		return "hidden"
	case FadeAppearing:
		return "appearing"
	case FadeVisible:
		return "visible"
	case FadeFadingOut:
		return "fading-out"
	default:
		return fmt.Sprintf("FadeState(%d)", s)
	}
}

// FadeOptions configures label fade transitions. Durations are seconds.
type FadeOptions struct {
	In   float32
	Out  float32
	Ease ease.Type
}

// DefaultFadeOptions returns 0.2s cubic fades in both directions.
func DefaultFadeOptions() FadeOptions {
	return FadeOptions{In: 0.2, Out: 0.2, Ease: ease.Cubic}
}

// Fade is the visibility state machine of a label. It starts hidden and
// moves towards visible while the label is not occluded and towards
// hidden while it is. Reversing mid-transition continues from the
// current alpha.
type Fade struct {
	opts  FadeOptions
	state FadeState
	alpha float32
	from  float32
	to    float32
	ease  ease.Ease
}

func newFade(opts FadeOptions) *Fade {
	return &Fade{opts: opts}
}

// State returns the current state.
func (f *Fade) State() FadeState { return f.state }

// Alpha returns the current opacity in [0, 1].
func (f *Fade) Alpha() float32 { return f.alpha }

// Visible reports whether the label draws this frame.
func (f *Fade) Visible() bool { return f.state != FadeHidden }

// Update advances the machine by dt seconds given this frame's occlusion.
func (f *Fade) Update(dt float32, occluded bool) {
	switch f.state {
	case FadeHidden:
		if occluded {
			return
		}
		f.start(FadeAppearing, 1, f.opts.In)
	case FadeVisible:
		if !occluded {
			return
		}
		f.start(FadeFadingOut, 0, f.opts.Out)
	case FadeAppearing:
		if occluded {
			f.start(FadeFadingOut, 0, f.opts.Out)
		}
	case FadeFadingOut:
		if !occluded {
			f.start(FadeAppearing, 1, f.opts.In)
		}
	}

	f.ease.Update(dt)
	if !f.ease.Finished() {
		return
	}
	f.alpha = f.to
	if f.state == FadeAppearing {
		f.state = FadeVisible
	} else {
		f.state = FadeHidden
	}
}

// start begins a transition to alpha target, scaling the duration by the
// remaining distance.
func (f *Fade) start(state FadeState, target, duration float32) {
	f.state = state
	f.from = f.alpha
	f.to = target
	dist := target - f.alpha
	if dist < 0 {
		dist = -dist
	}
	f.ease = ease.New(duration*dist, func(p float32) {
		f.alpha = ease.Lerp(f.from, f.to, p, f.opts.Ease)
	})
}
