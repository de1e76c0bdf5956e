package common

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestWrap01(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"inside", 0.25, 0.25},
		{"one", 1, 0},
		{"past_one", 2.5, 0.5},
		{"negative", -0.25, 0.75},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Wrap01(c.in); math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("Wrap01(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestWrapDegrees(t *testing.T) {
	if got := WrapDegrees(-90); got != 270 {
		t.Fatalf("expected 270, got %v", got)
	}
	if got := WrapDegrees(720); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestUnitZero(t *testing.T) {
	if got := Unit(cp.Vector{}); got != (cp.Vector{}) {
		t.Fatalf("expected zero vector, got %v", got)
	}
	got := Unit(cp.Vector{X: 3, Y: 4})
	if math.Abs(got.X-0.6) > 1e-9 || math.Abs(got.Y-0.8) > 1e-9 {
		t.Fatalf("unexpected unit vector %v", got)
	}
}
