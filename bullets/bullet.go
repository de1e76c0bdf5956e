package bullets

import (
	"math"

	"github.com/jakecoffman/cp"
)

// DefaultMaxSpeed leaves acceleration effectively unbounded.
const DefaultMaxSpeed = math.MaxFloat32

// Bullet is the live state of one slot.
type Bullet struct {
	Item       ItemID
	Generation int32
	ShapeIndex int32

	Transform         Transform
	Velocity          cp.Vector
	AccelerationBasis cp.Vector
	AccelerationSpeed float64
	MaxSpeed          float64

	Modulate           Color
	GlowDegree         float64
	AnimationName      string
	AnimationStartTime float64

	Lifetime           float64
	LifetimeCurvesSpan float64
	Data               map[string]any

	StartingTransform Transform
	StartingSpeed     float64

	Polar PolarState

	startDir cp.Vector
	anim     *Animation

	// world is where the bullet is, which differs from Transform for polar
	// bullets orbiting Transform.Origin.
	world Transform

	animScale    float64
	animRotation float64
	animAlpha    float64

	drawn           bool
	visualTransform Transform
	visualModulate  Color
	visualZ         int
	shapeTransform  Transform
}

// PolarState is the per-bullet orbit. Transform.Origin is the orbit center.
type PolarState struct {
	R         float64
	Theta     float64
	PrevR     float64
	PrevTheta float64
	UnitDir   cp.Vector
	// center displacement of the last step
	DeltaVelocity cp.Vector

	RInit       float64
	ThetaOffset float64
	ThetaMult   float64
	RSpeed      float64
	ThetaSpeed  float64

	RAxis     PolarAxis
	ThetaAxis PolarAxis
}

// WorldTransform is the placement used for drawing and collision, before
// animation scale and rotation.
func (b *Bullet) WorldTransform() Transform {
	return b.world
}

// VisualTransform is the last transform sent to the canvas.
func (b *Bullet) VisualTransform() Transform {
	return b.visualTransform
}

// VisualModulate is the last color sent to the canvas.
func (b *Bullet) VisualModulate() Color {
	return b.visualModulate
}

func (b *Bullet) ZIndex() int {
	return b.visualZ
}

func (b *Bullet) setData(key string, v any) {
	if b.Data == nil {
		b.Data = make(map[string]any)
	}
	b.Data[key] = v
}
