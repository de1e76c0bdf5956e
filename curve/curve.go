// Package curve provides the scalar curves kits sample over a bullet's
// normalized lifetime.
package curve

import (
	"fmt"
	"sort"

	"github.com/milk9111/bullets/common"
)

type Mode int

const (
	Linear Mode = iota
	// Smooth interpolates with a cubic Hermite spline using Catmull-Rom
	// style tangents, so the curve passes through every point.
	Smooth
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "linear":
		return Linear, nil
	case "smooth", "cubic":
		return Smooth, nil
	}
	return Linear, fmt.Errorf("curve: unknown mode %q", s)
}

// Point is a control point; X is the normalized lifetime in [0,1].
type Point struct {
	X float64
	Y float64
}

// Curve is a piecewise curve over [0,1]. Inputs outside the range clamp to
// the end points.
type Curve struct {
	mode   Mode
	points []Point
}

// New sorts points by X. At least one point is required.
func New(mode Mode, points ...Point) (*Curve, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("curve: no points")
	}
	ps := append([]Point(nil), points...)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].X < ps[j].X })
	for i := 1; i < len(ps); i++ {
		if ps[i].X == ps[i-1].X {
			return nil, fmt.Errorf("curve: duplicate point at x=%v", ps[i].X)
		}
	}
	return &Curve{mode: mode, points: ps}, nil
}

// Constant samples to v everywhere.
func Constant(v float64) *Curve {
	return &Curve{points: []Point{{X: 0, Y: v}}}
}

// Ramp goes linearly from a at 0 to b at 1.
func Ramp(a, b float64) *Curve {
	return &Curve{points: []Point{{X: 0, Y: a}, {X: 1, Y: b}}}
}

func (c *Curve) Mode() Mode {
	if c == nil {
		return Linear
	}
	return c.mode
}

func (c *Curve) Points() []Point {
	if c == nil {
		return nil
	}
	return append([]Point(nil), c.points...)
}

func (c *Curve) Sample(t float64) float64 {
	if c == nil || len(c.points) == 0 {
		return 0
	}
	t = common.Clamp01(t)
	ps := c.points
	if t <= ps[0].X {
		return ps[0].Y
	}
	last := len(ps) - 1
	if t >= ps[last].X {
		return ps[last].Y
	}
	// first point strictly right of t
	i := sort.Search(len(ps), func(i int) bool { return ps[i].X > t })
	a, b := ps[i-1], ps[i]
	u := (t - a.X) / (b.X - a.X)
	if c.mode == Linear {
		return common.Lerp(a.Y, b.Y, u)
	}
	w := b.X - a.X
	m0 := c.slope(i-1) * w
	m1 := c.slope(i) * w
	return hermite(a.Y, b.Y, m0, m1, u)
}

// slope is the tangent dy/dx at point i.
func (c *Curve) slope(i int) float64 {
	ps := c.points
	switch {
	case len(ps) < 2:
		return 0
	case i == 0:
		return (ps[1].Y - ps[0].Y) / (ps[1].X - ps[0].X)
	case i == len(ps)-1:
		return (ps[i].Y - ps[i-1].Y) / (ps[i].X - ps[i-1].X)
	}
	return (ps[i+1].Y - ps[i-1].Y) / (ps[i+1].X - ps[i-1].X)
}

func hermite(p0, p1, m0, m1, u float64) float64 {
	u2 := u * u
	u3 := u2 * u
	return (2*u3-3*u2+1)*p0 + (u3-2*u2+u)*m0 + (-2*u3+3*u2)*p1 + (u3-u2)*m1
}
