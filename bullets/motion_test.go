package bullets

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestCurveParam(t *testing.T) {
	cases := []struct {
		name     string
		lifetime float64
		span     float64
		loop     bool
		want     float64
	}{
		{"inside", 0.5, 2, false, 0.25},
		{"clamped", 3, 1, false, 1},
		{"looped", 1.5, 1, true, 0.5},
		{"looped_span", 5, 2, true, 0.5},
		{"zero_span_is_one", 0.25, 0, false, 0.25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := curveParam(c.lifetime, c.span, c.loop); !near(got, c.want) {
				t.Fatalf("curveParam(%v, %v, %v) = %v, want %v", c.lifetime, c.span, c.loop, got, c.want)
			}
		})
	}
}

func TestAccelerationClampsToMaxSpeed(t *testing.T) {
	kit := testKit("accel")
	m := mountOne(kit, 1)
	h := m.Spawn(kit, Properties{
		PropAccelerationBasis: cp.Vector{X: 1},
		PropAccelerationSpeed: 100.0,
		PropMaxSpeed:          30.0,
	})
	m.Process(1)
	b, _ := m.Bullet(h)
	if !near(b.Velocity.Length(), 30) {
		t.Fatalf("expected speed clamped to 30, got %v", b.Velocity.Length())
	}
	if !nearVec(b.Transform.Origin, cp.Vector{X: 30}) {
		t.Fatalf("acceleration should apply before integration, got %v", b.Transform.Origin)
	}
}

func TestRotateToVelocity(t *testing.T) {
	cases := []struct {
		name     string
		rotate   bool
		velocity cp.Vector
		want     float64
	}{
		{"rotates", true, cp.Vector{Y: 10}, math.Pi / 2},
		{"zero_velocity_keeps", true, cp.Vector{}, 0.3},
		{"disabled", false, cp.Vector{Y: 10}, 0.3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			kit := testKit("rot")
			kit.Rotate = c.rotate
			m := mountOne(kit, 1)
			h := m.Spawn(kit, Properties{PropRotation: 0.3, PropVelocity: c.velocity})
			m.Process(0.1)
			b, _ := m.Bullet(h)
			if !near(b.Transform.Rotation, c.want) {
				t.Fatalf("rotation = %v, want %v", b.Transform.Rotation, c.want)
			}
		})
	}
}

func TestFreeAfterLifetime(t *testing.T) {
	kit := testKit("short")
	kit.Kind = KindDynamic
	kit.FreeAfterLifetime = true
	kit.LifetimeCurvesSpan = 1
	m := mountOne(kit, 1)
	h := m.Spawn(kit, nil)
	if m.Process(0.6) != 0 {
		t.Fatalf("bullet should survive the first step")
	}
	if m.Process(0.6) != -1 {
		t.Fatalf("bullet should expire once lifetime passes the span")
	}
	if m.IsBulletValid(h) {
		t.Fatalf("expired bullet still valid")
	}
}

func TestDynamicCurves(t *testing.T) {
	t.Run("speed_multiplier", func(t *testing.T) {
		kit := testKit("dyn")
		kit.Kind = KindDynamic
		kit.SpeedMultiplier = constCurve(2)
		m := mountOne(kit, 1)
		h := m.Spawn(kit, Properties{PropVelocity: cp.Vector{X: 10}})
		m.Process(0.5)
		b, _ := m.Bullet(h)
		if !nearVec(b.Velocity, cp.Vector{X: 20}) || !nearVec(b.Transform.Origin, cp.Vector{X: 10}) {
			t.Fatalf("got velocity %v position %v", b.Velocity, b.Transform.Origin)
		}
	})
	t.Run("rotation_offset_is_not_cumulative", func(t *testing.T) {
		kit := testKit("dyn")
		kit.Kind = KindDynamic
		kit.RotationOffset = constCurve(math.Pi / 2)
		m := mountOne(kit, 1)
		h := m.Spawn(kit, Properties{PropVelocity: cp.Vector{X: 10}})
		m.Process(0.1)
		m.Process(0.1)
		b, _ := m.Bullet(h)
		if !nearVec(b.Velocity, cp.Vector{Y: 10}) {
			t.Fatalf("expected velocity (0,10), got %v", b.Velocity)
		}
		if !nearVec(b.Transform.Origin, cp.Vector{Y: 2}) {
			t.Fatalf("expected position (0,2), got %v", b.Transform.Origin)
		}
	})
	t.Run("alpha_and_red", func(t *testing.T) {
		kit := testKit("dyn")
		kit.Kind = KindDynamic
		kit.Alpha = identityCurve{}
		kit.Red = constCurve(0.25)
		kit.LifetimeCurvesSpan = 2
		m := mountOne(kit, 1)
		h := m.Spawn(kit, nil)
		m.Process(1)
		m.Process(0.1)
		b, _ := m.Bullet(h)
		if !near(b.Modulate.A, 0.5) || !near(b.Modulate.R, 0.25) {
			t.Fatalf("expected alpha 0.5 red 0.25, got %+v", b.Modulate)
		}
		if !near(b.VisualModulate().A, 0.5) {
			t.Fatalf("visual alpha should follow modulate, got %v", b.VisualModulate().A)
		}
	})
}

func TestPolarOrbit(t *testing.T) {
	kit := testKit("orbit")
	kit.Kind = KindPolar
	kit.Polar = PolarConfig{RInit: 10, ThetaSpeed: 90}
	m := mountOne(kit, 1)
	h := m.Spawn(kit, Properties{PropPosition: cp.Vector{X: 5, Y: 5}})

	b, _ := m.Bullet(h)
	if !nearVec(b.WorldTransform().Origin, cp.Vector{X: 15, Y: 5}) {
		t.Fatalf("initial orbit point = %v, want (15,5)", b.WorldTransform().Origin)
	}
	m.Process(1)
	b, _ = m.Bullet(h)
	if !near(b.Polar.Theta, 90) || !near(b.Polar.R, 10) {
		t.Fatalf("expected r=10 theta=90, got r=%v theta=%v", b.Polar.R, b.Polar.Theta)
	}
	if !nearVec(b.WorldTransform().Origin, cp.Vector{X: 5, Y: 15}) {
		t.Fatalf("orbit point = %v, want (5,15)", b.WorldTransform().Origin)
	}
	if !nearVec(b.Transform.Origin, cp.Vector{X: 5, Y: 5}) {
		t.Fatalf("center should not move without velocity, got %v", b.Transform.Origin)
	}
}

func TestPolarAxisCurves(t *testing.T) {
	cases := []struct {
		name    string
		asSpeed bool
		steps   int
		want    float64
	}{
		{"direct", false, 2, 15},
		{"as_speed", true, 2, 15},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			kit := testKit("axis")
			kit.Kind = KindPolar
			kit.Polar = PolarConfig{R: PolarAxis{Min: 10, Max: 20, Curve: constCurve(0.5), AsSpeed: c.asSpeed}}
			m := mountOne(kit, 1)
			h := m.Spawn(kit, nil)
			for range c.steps {
				m.Process(0.5)
			}
			v, _ := m.BulletProperty(h, "r")
			if !near(v.(float64), c.want) {
				t.Fatalf("r = %v, want %v", v, c.want)
			}
		})
	}
}

func TestPolarRotatesAlongMotion(t *testing.T) {
	kit := testKit("orbit")
	kit.Kind = KindPolar
	kit.Rotate = true
	kit.Polar = PolarConfig{RSpeed: 10}
	m := mountOne(kit, 1)
	h := m.Spawn(kit, Properties{PropThetaOffset: 90.0})
	m.Process(1)
	b, _ := m.Bullet(h)
	if !near(b.WorldTransform().Rotation, math.Pi/2) {
		t.Fatalf("expected to face outward at pi/2, got %v", b.WorldTransform().Rotation)
	}
}

func TestPolarSpeedMultiplier(t *testing.T) {
	kit := testKit("orbit")
	kit.Kind = KindPolar
	kit.SpeedMultiplier = constCurve(0.5)
	m := mountOne(kit, 1)
	h := m.Spawn(kit, Properties{PropVelocity: cp.Vector{X: 0, Y: -20}})
	m.Process(1)
	b, _ := m.Bullet(h)
	if !nearVec(b.Velocity, cp.Vector{Y: -10}) || !nearVec(b.Transform.Origin, cp.Vector{Y: -10}) {
		t.Fatalf("got velocity %v center %v", b.Velocity, b.Transform.Origin)
	}
}

func TestPolarDepthSort(t *testing.T) {
	kit := testKit("orbit")
	kit.Kind = KindPolar
	kit.Polar = PolarConfig{RInit: 5, ThetaSpeed: 270, DepthSort: true}
	m := NewManager(newRecordCanvas(), nil)
	if err := m.Mount(NewEnvironment("z", testRect, EnvironmentEntry{Kit: kit, PoolSize: 1, ZIndex: 10})); err != nil {
		t.Fatalf("mount: %v", err)
	}
	h := m.Spawn(kit, nil)
	b, _ := m.Bullet(h)
	if b.ZIndex() != 11 {
		t.Fatalf("expected near half z 11, got %d", b.ZIndex())
	}
	m.Process(1)
	b, _ = m.Bullet(h)
	if b.ZIndex() != 9 {
		t.Fatalf("expected far half z 9, got %d", b.ZIndex())
	}
}

func TestPolarLeavesActiveRectFromOrbit(t *testing.T) {
	kit := testKit("orbit")
	kit.Kind = KindPolar
	kit.Polar = PolarConfig{RSpeed: 100}
	m := mountOne(kit, 1)
	h := m.Spawn(kit, nil)
	if m.Process(1) != -1 || m.IsBulletValid(h) {
		t.Fatalf("bullet whose orbit point leaves the rect should expire")
	}
}

func TestAnimation(t *testing.T) {
	kit := testKit("anim")
	kit.Animations = map[string]*Animation{
		"pulse": {Duration: 1, Scale: constCurve(2), Glow: identityCurve{}},
	}
	m := mountOne(kit, 1)
	h := m.Spawn(kit, nil)
	m.Process(0.5)
	if !m.ApplyAnimation(h, "pulse") {
		t.Fatalf("apply animation failed")
	}
	if v, _ := m.BulletProperty(h, PropAnimationStartTime); v != 0.5 {
		t.Fatalf("animation should start at the current lifetime, got %v", v)
	}
	m.Process(0.5)
	m.Process(0.5)
	b, _ := m.Bullet(h)
	if b.VisualTransform().Scale != (cp.Vector{X: 2, Y: 2}) {
		t.Fatalf("expected scale 2, got %v", b.VisualTransform().Scale)
	}
	if !near(b.GlowDegree, 0.5) {
		t.Fatalf("expected glow 0.5 halfway through, got %v", b.GlowDegree)
	}

	m.ApplyAnimation(h, "missing")
	if v, _ := m.BulletProperty(h, PropAnimationName); v != "" {
		t.Fatalf("unknown animation should clear the name, got %v", v)
	}
}

func TestUniqueModulateComponent(t *testing.T) {
	kit := testKit("unique")
	kit.UniqueModulateComponent = ModulateBlue
	m := mountOne(kit, 4)
	m.Spawn(kit, nil)
	h := m.Spawn(kit, nil)
	b, _ := m.Bullet(h)
	if !near(b.VisualModulate().B, 1.0/255) {
		t.Fatalf("expected blue channel 1/255, got %v", b.VisualModulate().B)
	}
}

func TestDrawOnlyOnChange(t *testing.T) {
	canvas := newRecordCanvas()
	kit := testKit("still")
	m := NewManager(canvas, nil)
	if err := m.Mount(NewEnvironment("e", testRect, EnvironmentEntry{Kit: kit, PoolSize: 1})); err != nil {
		t.Fatalf("mount: %v", err)
	}
	m.Spawn(kit, nil)
	transforms := canvas.calls["SetItemTransform"]
	modulates := canvas.calls["SetItemModulate"]
	for range 5 {
		m.Process(0.1)
	}
	if canvas.calls["SetItemTransform"] != transforms || canvas.calls["SetItemModulate"] != modulates {
		t.Fatalf("still bullet should not redraw")
	}
	if canvas.calls["SetItemZIndex"] != 0 {
		t.Fatalf("z index never changed, got %d calls", canvas.calls["SetItemZIndex"])
	}
}
