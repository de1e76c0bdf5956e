package bullets

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/bullets/common"
)

// MotionModel advances bullets of one kind. A pool owns exactly one model
// bound to its kit.
type MotionModel interface {
	Kind() Kind
	// Reset restores spawn defaults before property overrides are applied.
	Reset(b *Bullet)
	// OnActivate runs once when a slot becomes active.
	OnActivate(b *Bullet)
	// Step advances b by dt seconds and reports whether it expired.
	Step(b *Bullet, dt float64) bool
	OnDeactivate(b *Bullet)
	SetProperty(b *Bullet, name string, v any) bool
	Property(b *Bullet, name string) (any, bool)
	ApplyAnimation(b *Bullet, name string)
}

func newMotionModel(kit *Kit, canvas Canvas, rect cp.BB, z int) (MotionModel, error) {
	base := motionBase{kit: kit, canvas: canvas, rect: rect, z: z}
	switch kit.Kind {
	case KindComposite:
		return &linearModel{motionBase: base}, nil
	case KindDynamic:
		return &dynamicModel{motionBase: base}, nil
	case KindPolar:
		return &polarModel{motionBase: base}, nil
	default:
		return nil, ErrUnknownKind
	}
}

// motionBase carries the steps every model shares.
type motionBase struct {
	kit    *Kit
	canvas Canvas
	rect   cp.BB
	z      int
}

func (m *motionBase) reset(b *Bullet) {
	b.Transform = IdentityTransform()
	b.Velocity = cp.Vector{}
	b.AccelerationBasis = cp.Vector{}
	b.AccelerationSpeed = 0
	b.MaxSpeed = DefaultMaxSpeed
	b.Modulate = White
	b.GlowDegree = 1
	b.AnimationName = ""
	b.AnimationStartTime = 0
	b.anim = nil
	b.Lifetime = 0
	b.LifetimeCurvesSpan = m.kit.lifetimeSpan()
	clear(b.Data)
	b.StartingTransform = b.Transform
	b.StartingSpeed = 0
	b.startDir = cp.Vector{X: 1}
	b.animScale = 1
	b.animRotation = 0
	b.animAlpha = 1
	b.world = b.Transform
	b.drawn = false
}

func (m *motionBase) activate(b *Bullet) {
	b.Lifetime = 0
	b.StartingTransform = b.Transform
	b.StartingSpeed = b.Velocity.Length()
	if dir := common.Unit(b.Velocity); dir != (cp.Vector{}) {
		b.startDir = dir
	} else {
		b.startDir = cp.ForAngle(b.Transform.Rotation)
	}
	b.world = b.Transform
	m.animate(b)
	if m.canvas != nil {
		m.canvas.SetItemTexture(b.Item, m.kit.Texture)
		m.canvas.SetItemVisible(b.Item, true)
	}
	b.drawn = false
}

func (m *motionBase) OnDeactivate(b *Bullet) {
	if m.canvas != nil {
		m.canvas.ClearItem(b.Item)
		m.canvas.SetItemVisible(b.Item, false)
	}
	b.drawn = false
	b.anim = nil
}

func (m *motionBase) ApplyAnimation(b *Bullet, name string) {
	m.applyAnimation(b, name)
}

func (m *motionBase) applyAnimation(b *Bullet, name string) {
	anim, ok := m.kit.Animations[name]
	if !ok || name == "" {
		b.AnimationName = ""
		b.anim = nil
		b.animScale, b.animRotation, b.animAlpha = 1, 0, 1
		return
	}
	b.AnimationName = name
	b.AnimationStartTime = b.Lifetime
	b.anim = anim
}

// accelerate pushes velocity along the basis and caps its magnitude.
func (m *motionBase) accelerate(b *Bullet, dt float64) {
	if b.AccelerationSpeed != 0 {
		b.Velocity = b.Velocity.Add(b.AccelerationBasis.Mult(b.AccelerationSpeed * dt))
	}
	if b.MaxSpeed >= 0 && b.Velocity.Length() > b.MaxSpeed {
		b.Velocity = b.Velocity.Clamp(b.MaxSpeed)
	}
}

// curveParam maps a lifetime onto a curve's [0,1] domain.
func curveParam(lifetime, span float64, loop bool) float64 {
	if span <= 0 {
		span = 1
	}
	t := lifetime / span
	if loop {
		return common.Wrap01(t)
	}
	return common.Clamp01(t)
}

// animate samples the applied animation, if any.
func (m *motionBase) animate(b *Bullet) {
	a := b.anim
	if a == nil {
		return
	}
	p := 1.0
	if a.Duration > 0 {
		p = common.Clamp01((b.Lifetime - b.AnimationStartTime) / a.Duration)
	}
	if a.Glow != nil {
		b.GlowDegree = a.Glow.Sample(p)
	}
	if a.Scale != nil {
		b.animScale = a.Scale.Sample(p)
	}
	if a.Rotation != nil {
		b.animRotation = a.Rotation.Sample(p)
	}
	if a.Alpha != nil {
		b.animAlpha = a.Alpha.Sample(p)
	}
}

func (m *motionBase) contains(p cp.Vector) bool {
	return m.rect.ContainsVect(p)
}

func (m *motionBase) rotateToVelocity(b *Bullet) {
	if !m.kit.Rotate || b.Velocity == (cp.Vector{}) {
		return
	}
	b.Transform.Rotation = b.Velocity.ToAngle()
}

// age advances the lifetime and reports a hard lifetime expiry.
func (m *motionBase) age(b *Bullet, dt float64) bool {
	b.Lifetime += dt
	return m.kit.FreeAfterLifetime && b.Lifetime > b.LifetimeCurvesSpan
}

func (m *motionBase) visualModulate(b *Bullet) Color {
	c := b.Modulate
	c.R *= b.GlowDegree
	c.G *= b.GlowDegree
	c.B *= b.GlowDegree
	c.A *= b.animAlpha
	if m.kit.UniqueModulateComponent != ModulateNone {
		v := float64(b.ShapeIndex%256) / 255
		switch m.kit.UniqueModulateComponent {
		case ModulateRed:
			c.R = v
		case ModulateGreen:
			c.G = v
		case ModulateBlue:
			c.B = v
		case ModulateAlpha:
			c.A = v
		}
	}
	return c
}

// draw sends the world transform, color and z to the canvas, skipping values
// that did not change since the last draw.
func (m *motionBase) draw(b *Bullet, z int) {
	vt := b.world
	vt.Rotation += b.animRotation
	vt.Scale = cp.Vector{X: b.animScale, Y: b.animScale}
	vm := m.visualModulate(b)
	if m.canvas == nil {
		b.visualTransform, b.visualModulate, b.visualZ = vt, vm, z
		b.drawn = true
		return
	}
	if !b.drawn || vt != b.visualTransform {
		m.canvas.SetItemTransform(b.Item, vt)
		b.visualTransform = vt
	}
	if !b.drawn || vm != b.visualModulate {
		m.canvas.SetItemModulate(b.Item, vm)
		b.visualModulate = vm
	}
	if z != b.visualZ {
		m.canvas.SetItemZIndex(b.Item, z)
		b.visualZ = z
	}
	b.drawn = true
}

func unitOr(v, fallback cp.Vector) cp.Vector {
	if u := common.Unit(v); u != (cp.Vector{}) {
		return u
	}
	return fallback
}
