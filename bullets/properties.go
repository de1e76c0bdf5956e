package bullets

import (
	"image/color"
	"maps"

	"github.com/jakecoffman/cp"
)

// Properties is a sparse set of named bullet fields applied at spawn or later.
// Keys that no motion model knows are kept in the bullet's Data map.
type Properties map[string]any

const (
	PropTransform          = "transform"
	PropPosition           = "position"
	PropRotation           = "rotation"
	PropVelocity           = "velocity"
	PropAccelerationBasis  = "acceleration_basis_vector"
	PropAccelerationSpeed  = "acceleration_speed"
	PropMaxSpeed           = "max_speed"
	PropModulate           = "modulate"
	PropGlowDegree         = "glow_degree"
	PropAnimationName      = "animation_name"
	PropAnimationStartTime = "animation_start_time"
	PropLifetime           = "lifetime"
	PropLifetimeCurvesSpan = "lifetime_curves_span"
	PropData               = "data"
	PropGeneration         = "generation"
	PropCycle              = "cycle"
	PropShapeIndex         = "shape_index"
	PropItem               = "item"

	PropStartingTransform = "starting_transform"
	PropStartingSpeed     = "starting_speed"

	PropRInit       = "r_init"
	PropThetaOffset = "theta_offset"
	PropThetaMult   = "theta_mult"
	PropRSpeed      = "r_speed"
	PropThetaSpeed  = "theta_speed"
)

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

func toBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func toVector(v any) (cp.Vector, bool) {
	switch t := v.(type) {
	case cp.Vector:
		return t, true
	case *cp.Vector:
		if t == nil {
			return cp.Vector{}, false
		}
		return *t, true
	case [2]float64:
		return cp.Vector{X: t[0], Y: t[1]}, true
	case []float64:
		if len(t) != 2 {
			return cp.Vector{}, false
		}
		return cp.Vector{X: t[0], Y: t[1]}, true
	case []any:
		if len(t) != 2 {
			return cp.Vector{}, false
		}
		x, okx := toFloat(t[0])
		y, oky := toFloat(t[1])
		return cp.Vector{X: x, Y: y}, okx && oky
	default:
		return cp.Vector{}, false
	}
}

func toTransform(v any) (Transform, bool) {
	switch t := v.(type) {
	case Transform:
		return t, true
	case *Transform:
		if t == nil {
			return Transform{}, false
		}
		return *t, true
	default:
		if o, ok := toVector(v); ok {
			return Transform{Origin: o, Scale: cp.Vector{X: 1, Y: 1}}, true
		}
		return Transform{}, false
	}
}

func toColor(v any) (Color, bool) {
	switch c := v.(type) {
	case Color:
		return c, true
	case color.Color:
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		return Color{
			R: float64(nc.R) / 255,
			G: float64(nc.G) / 255,
			B: float64(nc.B) / 255,
			A: float64(nc.A) / 255,
		}, true
	default:
		return Color{}, false
	}
}

func toString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// setCommon handles the fields every motion model shares. It reports whether
// name is a known field, even if the value had the wrong type.
func (m *motionBase) setCommon(b *Bullet, name string, v any) bool {
	switch name {
	case PropTransform:
		if t, ok := toTransform(v); ok {
			b.Transform = t
		}
	case PropPosition:
		if o, ok := toVector(v); ok {
			b.Transform.Origin = o
		}
	case PropRotation:
		if r, ok := toFloat(v); ok {
			b.Transform.Rotation = r
		}
	case PropVelocity:
		if vel, ok := toVector(v); ok {
			b.Velocity = vel
		}
	case PropAccelerationBasis:
		if vel, ok := toVector(v); ok {
			b.AccelerationBasis = vel
		}
	case PropAccelerationSpeed:
		if f, ok := toFloat(v); ok {
			b.AccelerationSpeed = f
		}
	case PropMaxSpeed:
		if f, ok := toFloat(v); ok {
			b.MaxSpeed = f
		}
	case PropModulate:
		if c, ok := toColor(v); ok {
			b.Modulate = c
		}
	case PropGlowDegree:
		if f, ok := toFloat(v); ok {
			b.GlowDegree = f
		}
	case PropAnimationName:
		if s, ok := toString(v); ok {
			m.applyAnimation(b, s)
		}
	case PropAnimationStartTime:
		if f, ok := toFloat(v); ok {
			b.AnimationStartTime = f
		}
	case PropLifetime:
		if f, ok := toFloat(v); ok {
			b.Lifetime = f
		}
	case PropLifetimeCurvesSpan:
		if f, ok := toFloat(v); ok && f > 0 {
			b.LifetimeCurvesSpan = f
		}
	case PropData:
		if d, ok := v.(map[string]any); ok {
			clear(b.Data)
			if len(d) > 0 {
				if b.Data == nil {
					b.Data = make(map[string]any, len(d))
				}
				maps.Copy(b.Data, d)
			}
		}
	case PropGeneration, PropCycle, PropShapeIndex, PropItem:
		// read only
	default:
		return false
	}
	return true
}

func (m *motionBase) common(b *Bullet, name string) (any, bool) {
	switch name {
	case PropTransform:
		return b.Transform, true
	case PropPosition:
		return b.Transform.Origin, true
	case PropRotation:
		return b.Transform.Rotation, true
	case PropVelocity:
		return b.Velocity, true
	case PropAccelerationBasis:
		return b.AccelerationBasis, true
	case PropAccelerationSpeed:
		return b.AccelerationSpeed, true
	case PropMaxSpeed:
		return b.MaxSpeed, true
	case PropModulate:
		return b.Modulate, true
	case PropGlowDegree:
		return b.GlowDegree, true
	case PropAnimationName:
		return b.AnimationName, true
	case PropAnimationStartTime:
		return b.AnimationStartTime, true
	case PropLifetime:
		return b.Lifetime, true
	case PropLifetimeCurvesSpan:
		return b.LifetimeCurvesSpan, true
	case PropData:
		return b.Data, true
	case PropGeneration, PropCycle:
		return b.Generation, true
	case PropShapeIndex:
		return b.ShapeIndex, true
	case PropItem:
		return b.Item, true
	default:
		return nil, false
	}
}
