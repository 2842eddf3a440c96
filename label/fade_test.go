package label

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/maplabel/ease"
)

func TestFadeAppear(t *testing.T) {
	f := newFade(FadeOptions{In: 0.2, Out: 0.2, Ease: ease.Linear})
	if f.State() != FadeHidden || f.Visible() {
		t.Fatalf("new fade state = %v, want hidden", f.State())
	}

	f.Update(0.1, false)
	if f.State() != FadeAppearing || f.Alpha() != 0 {
		t.Fatalf("after start: %v alpha %v, want appearing 0", f.State(), f.Alpha())
	}
	f.Update(0.1, false)
	if f.State() != FadeAppearing || !near(f.Alpha(), 0.5) {
		t.Fatalf("half way: %v alpha %v, want appearing 0.5", f.State(), f.Alpha())
	}
	f.Update(0.1, false)
	if f.State() != FadeVisible || f.Alpha() != 1 {
		t.Fatalf("after 0.2s: %v alpha %v, want visible 1", f.State(), f.Alpha())
	}
	f.Update(0.1, false)
	if f.State() != FadeVisible {
		t.Errorf("visible label changed to %v", f.State())
	}
}

func TestFadeOut(t *testing.T) {
	f := newFade(FadeOptions{})
	f.Update(0, false)
	if f.State() != FadeVisible {
		t.Fatalf("instant fade in ended %v, want visible", f.State())
	}

	f = newFade(FadeOptions{In: 0, Out: 0.2, Ease: ease.Cubic})
	f.Update(0, false)
	f.Update(0.05, true)
	if f.State() != FadeFadingOut || f.Alpha() != 1 {
		t.Fatalf("fade out start: %v alpha %v", f.State(), f.Alpha())
	}
	for range 3 {
		f.Update(0.1, true)
	}
	if f.State() != FadeHidden || f.Alpha() != 0 || f.Visible() {
		t.Errorf("after fade out: %v alpha %v, want hidden 0", f.State(), f.Alpha())
	}

	f.Update(1, true)
	if f.State() != FadeHidden {
		t.Errorf("occluded hidden label changed to %v", f.State())
	}
}

func TestFadeReverse(t *testing.T) {
	f := newFade(FadeOptions{In: 1, Out: 1, Ease: ease.Linear})
	f.Update(0, false)
	f.Update(0.6, false)
	if !near(f.Alpha(), 0.6) {
		t.Fatalf("alpha = %v, want 0.6", f.Alpha())
	}

	// reversing continues from 0.6 and needs 0.6s to reach 0
	f.Update(0, true)
	if f.State() != FadeFadingOut || !near(f.Alpha(), 0.6) {
		t.Fatalf("reversed: %v alpha %v, want fading-out 0.6", f.State(), f.Alpha())
	}
	f.Update(0.3, true)
	if !near(f.Alpha(), 0.3) {
		t.Errorf("alpha = %v, want 0.3", f.Alpha())
	}
	f.Update(0.3, true)
	if f.State() != FadeHidden {
		t.Errorf("state = %v, want hidden", f.State())
	}
}

func TestFadeStateString(t *testing.T) {
	tests := map[FadeState]string{
		FadeHidden:    "hidden",
		FadeAppearing: "appearing",
		FadeVisible:   "visible",
		FadeFadingOut: "fading-out",
		FadeState(9):  "FadeState(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindPoint: "point",
		KindText:  "text",
		KindDebug: "debug",
		Kind(7):   "Kind(7)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestAnchor(t *testing.T) {
	dim := mgl32.Vec2{20, 10}
	tests := []struct {
		name string
		want mgl32.Vec2
	}{
		{"center", mgl32.Vec2{0, 0}},
		{"top", mgl32.Vec2{0, -5}},
		{"bottom", mgl32.Vec2{0, 5}},
		{"left", mgl32.Vec2{-10, 0}},
		{"right", mgl32.Vec2{10, 0}},
		{"top-left", mgl32.Vec2{-10, -5}},
		{"top-right", mgl32.Vec2{10, -5}},
		{"bottom-left", mgl32.Vec2{-10, 5}},
		{"bottom-right", mgl32.Vec2{10, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAnchor(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if a.String() != tt.name {
				t.Errorf("String() = %q", a.String())
			}
			if got := anchorOffset([]Anchor{a, AnchorTop}, dim); got != tt.want {
				t.Errorf("anchorOffset = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := ParseAnchor("middle"); err == nil {
		t.Error("ParseAnchor(middle) succeeded")
	}
	if got := anchorOffset(nil, dim); got != (mgl32.Vec2{}) {
		t.Errorf("anchorOffset(nil) = %v, want zero", got)
	}
}
