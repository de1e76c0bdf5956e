package bullets

import (
	"math"
	"strings"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/bullets/common"
)

// polarModel orbits each bullet around a center that itself travels along
// the bullet's velocity. Radius and angle follow per-bullet axes; angles are
// kept in degrees until the point of evaluation.
type polarModel struct {
	motionBase
}

func (m *polarModel) Kind() Kind { return KindPolar }

func (m *polarModel) Reset(b *Bullet) {
	m.reset(b)
	cfg := m.kit.Polar
	mult := cfg.ThetaMult
	if mult == 0 {
		mult = 1
	}
	b.Polar = PolarState{
		UnitDir:     cp.Vector{X: 1},
		RInit:       cfg.RInit,
		ThetaOffset: cfg.ThetaOffset,
		ThetaMult:   mult,
		RSpeed:      cfg.RSpeed,
		ThetaSpeed:  cfg.ThetaSpeed,
		RAxis:       cfg.R,
		ThetaAxis:   cfg.Theta,
	}
}

func (m *polarModel) OnActivate(b *Bullet) {
	m.activate(b)
	p := &b.Polar
	p.R = p.RInit
	p.Theta = 0
	p.PrevR, p.PrevTheta = p.R, p.Theta
	p.DeltaVelocity = cp.Vector{}
	if speed := b.Velocity.Length(); speed > 0 {
		p.UnitDir = b.Velocity.Mult(1 / speed)
		b.StartingSpeed = speed
	}
	b.world = m.orbit(b)
	m.draw(b, m.zIndex(b))
}

func (m *polarModel) Step(b *Bullet, dt float64) bool {
	m.accelerate(b, dt)

	p := &b.Polar
	p.PrevR, p.PrevTheta = p.R, p.Theta
	p.R = advanceAxis(p.R, p.RAxis, p.RSpeed, b.Lifetime, dt)
	p.Theta = advanceAxis(p.Theta, p.ThetaAxis, p.ThetaSpeed, b.Lifetime, dt)
	if m.kit.SpeedMultiplier != nil {
		t := curveParam(b.Lifetime, b.LifetimeCurvesSpan, m.kit.LifetimeCurvesLoop)
		b.Velocity = p.UnitDir.Mult(b.StartingSpeed * m.kit.SpeedMultiplier.Sample(t))
	}
	m.animate(b)

	p.DeltaVelocity = b.Velocity.Mult(dt)
	b.Transform.Origin = b.Transform.Origin.Add(p.DeltaVelocity)
	b.world = m.orbit(b)
	if !m.contains(b.world.Origin) {
		return true
	}
	if m.age(b, dt) {
		return true
	}
	m.draw(b, m.zIndex(b))
	return false
}

// advanceAxis moves one polar coordinate forward by dt.
func advanceAxis(value float64, ax PolarAxis, speed, lifetime, dt float64) float64 {
	if ax.Curve == nil {
		return value + speed*dt
	}
	v := common.Lerp(ax.Min, ax.Max, ax.Curve.Sample(curveParam(lifetime, ax.LifetimeSpan, ax.Loop)))
	if ax.AsSpeed {
		return value + v*dt
	}
	return v
}

func (m *polarModel) orbitPoint(b *Bullet, r, theta float64) cp.Vector {
	angle := common.DegToRad(theta+b.Polar.ThetaOffset) * b.Polar.ThetaMult
	return b.Transform.Origin.Add(cp.ForAngle(angle).Mult(r))
}

// orbit places the bullet on its orbit and, when the kit rotates, faces it
// along the combined orbital and center motion.
func (m *polarModel) orbit(b *Bullet) Transform {
	p := &b.Polar
	cur := m.orbitPoint(b, p.R, p.Theta)
	world := Transform{Origin: cur, Rotation: b.world.Rotation, Scale: b.Transform.Scale}
	if !m.kit.Rotate {
		world.Rotation = b.Transform.Rotation
		return world
	}
	dir := cur.Sub(m.orbitPoint(b, p.PrevR, p.PrevTheta)).Add(p.DeltaVelocity)
	if dir != (cp.Vector{}) {
		world.Rotation = dir.ToAngle()
	}
	return world
}

func (m *polarModel) zIndex(b *Bullet) int {
	if !m.kit.Polar.DepthSort {
		return m.z
	}
	angle := common.DegToRad(b.Polar.Theta+b.Polar.ThetaOffset) * b.Polar.ThetaMult
	if math.Sin(angle) >= 0 {
		return m.z + 1
	}
	return m.z - 1
}

func (m *polarModel) SetProperty(b *Bullet, name string, v any) bool {
	p := &b.Polar
	switch name {
	case PropVelocity:
		if vel, ok := toVector(v); ok {
			b.Velocity = vel
			b.StartingSpeed = vel.Length()
			p.UnitDir = unitOr(vel, p.UnitDir)
		}
		return true
	case PropStartingSpeed:
		return setFloat(&b.StartingSpeed, v)
	case PropRInit:
		return setFloat(&p.RInit, v)
	case PropThetaOffset:
		return setFloat(&p.ThetaOffset, v)
	case PropThetaMult:
		return setFloat(&p.ThetaMult, v)
	case PropRSpeed:
		return setFloat(&p.RSpeed, v)
	case PropThetaSpeed:
		return setFloat(&p.ThetaSpeed, v)
	}
	if rest, ok := strings.CutPrefix(name, "r_"); ok {
		if setAxis(&p.RAxis, rest, v) {
			return true
		}
	}
	if rest, ok := strings.CutPrefix(name, "theta_"); ok {
		if setAxis(&p.ThetaAxis, rest, v) {
			return true
		}
	}
	return m.setCommon(b, name, v)
}

func (m *polarModel) Property(b *Bullet, name string) (any, bool) {
	p := &b.Polar
	switch name {
	case PropStartingSpeed:
		return b.StartingSpeed, true
	case PropRInit:
		return p.RInit, true
	case PropThetaOffset:
		return p.ThetaOffset, true
	case PropThetaMult:
		return p.ThetaMult, true
	case PropRSpeed:
		return p.RSpeed, true
	case PropThetaSpeed:
		return p.ThetaSpeed, true
	case "r":
		return p.R, true
	case "theta":
		return p.Theta, true
	}
	if rest, ok := strings.CutPrefix(name, "r_"); ok {
		if v, ok := axisProperty(p.RAxis, rest); ok {
			return v, true
		}
	}
	if rest, ok := strings.CutPrefix(name, "theta_"); ok {
		if v, ok := axisProperty(p.ThetaAxis, rest); ok {
			return v, true
		}
	}
	return m.common(b, name)
}

func setFloat(dst *float64, v any) bool {
	if f, ok := toFloat(v); ok {
		*dst = f
	}
	return true
}

func setAxis(ax *PolarAxis, field string, v any) bool {
	switch field {
	case "loop":
		if b, ok := toBool(v); ok {
			ax.Loop = b
		}
	case "as_speed":
		if b, ok := toBool(v); ok {
			ax.AsSpeed = b
		}
	case "min":
		setFloat(&ax.Min, v)
	case "max":
		setFloat(&ax.Max, v)
	case "lifetime_span":
		setFloat(&ax.LifetimeSpan, v)
	case "over_lifetime", "curve":
		switch c := v.(type) {
		case Curve:
			ax.Curve = c
		case nil:
			ax.Curve = nil
		}
	default:
		return false
	}
	return true
}

func axisProperty(ax PolarAxis, field string) (any, bool) {
	switch field {
	case "loop":
		return ax.Loop, true
	case "as_speed":
		return ax.AsSpeed, true
	case "min":
		return ax.Min, true
	case "max":
		return ax.Max, true
	case "lifetime_span":
		return ax.LifetimeSpan, true
	case "over_lifetime", "curve":
		return ax.Curve, true
	default:
		return nil, false
	}
}
