package bullets

import "github.com/jakecoffman/cp"

// dynamicModel reshapes velocity and color over the bullet's lifetime using
// the kit's curves.
type dynamicModel struct {
	motionBase
}

func (m *dynamicModel) Kind() Kind { return KindDynamic }

func (m *dynamicModel) Reset(b *Bullet) { m.reset(b) }

func (m *dynamicModel) OnActivate(b *Bullet) {
	m.activate(b)
	m.draw(b, m.z)
}

func (m *dynamicModel) Step(b *Bullet, dt float64) bool {
	m.accelerate(b, dt)
	m.lifetimeCurves(b)
	m.animate(b)
	b.Transform.Origin = b.Transform.Origin.Add(b.Velocity.Mult(dt))
	if !m.contains(b.Transform.Origin) {
		return true
	}
	m.rotateToVelocity(b)
	if m.age(b, dt) {
		return true
	}
	b.world = b.Transform
	m.draw(b, m.z)
	return false
}

func (m *dynamicModel) lifetimeCurves(b *Bullet) {
	k := m.kit
	t := curveParam(b.Lifetime, b.LifetimeCurvesSpan, k.LifetimeCurvesLoop)
	if k.SpeedMultiplier != nil {
		dir := unitOr(b.Velocity, b.startDir)
		b.Velocity = dir.Mult(b.StartingSpeed * k.SpeedMultiplier.Sample(t))
	}
	if k.RotationOffset != nil {
		// heading is the starting direction turned by the curve value
		speed := b.Velocity.Length()
		b.Velocity = b.startDir.Rotate(cp.ForAngle(k.RotationOffset.Sample(t))).Mult(speed)
	}
	if k.Alpha != nil {
		b.Modulate.A = k.Alpha.Sample(t)
	}
	if k.Red != nil {
		b.Modulate.R = k.Red.Sample(t)
	}
}

func (m *dynamicModel) SetProperty(b *Bullet, name string, v any) bool {
	switch name {
	case PropStartingTransform:
		if t, ok := toTransform(v); ok {
			b.StartingTransform = t
		}
		return true
	case PropStartingSpeed:
		if f, ok := toFloat(v); ok {
			b.StartingSpeed = f
		}
		return true
	case PropTransform:
		if t, ok := toTransform(v); ok {
			b.Transform = t
			b.StartingTransform = t
		}
		return true
	case PropVelocity:
		if vel, ok := toVector(v); ok {
			b.Velocity = vel
			b.StartingSpeed = vel.Length()
			b.startDir = unitOr(vel, b.startDir)
		}
		return true
	}
	return m.setCommon(b, name, v)
}

func (m *dynamicModel) Property(b *Bullet, name string) (any, bool) {
	switch name {
	case PropStartingTransform:
		return b.StartingTransform, true
	case PropStartingSpeed:
		return b.StartingSpeed, true
	}
	return m.common(b, name)
}
