package bullets

// linearModel moves bullets along their velocity. Composite kits use it.
type linearModel struct {
	motionBase
}

func (m *linearModel) Kind() Kind { return KindComposite }

func (m *linearModel) Reset(b *Bullet) { m.reset(b) }

func (m *linearModel) OnActivate(b *Bullet) {
	m.activate(b)
	m.draw(b, m.z)
}

func (m *linearModel) Step(b *Bullet, dt float64) bool {
	m.accelerate(b, dt)
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

func (m *linearModel) SetProperty(b *Bullet, name string, v any) bool {
	return m.setCommon(b, name, v)
}

func (m *linearModel) Property(b *Bullet, name string) (any, bool) {
	return m.common(b, name)
}
