package bullets

//go:generate go tool mockgen -destination=./mocks/collaborators_mock.go -package=mocks . Canvas,CollisionServer

import (
	"errors"
	"image"

	"github.com/jakecoffman/cp"
)

// ItemID names a drawable owned by a Canvas. Zero is never a valid item.
type ItemID int64

// DomainID names a collision domain owned by a CollisionServer. Zero means
// no domain.
type DomainID int64

// Texture is the part of an image the core needs to size a textured rect.
// *ebiten.Image satisfies it.
type Texture interface {
	Bounds() image.Rectangle
}

// Curve maps a normalized lifetime in [0,1] to a scalar.
type Curve interface {
	Sample(t float64) float64
}

// Canvas receives draw side effects. The core never reads from it.
type Canvas interface {
	CreateItem(parent string, z int) ItemID
	FreeItem(item ItemID)
	SetItemTexture(item ItemID, tex Texture)
	ClearItem(item ItemID)
	SetItemTransform(item ItemID, t Transform)
	SetItemModulate(item ItemID, c Color)
	SetItemZIndex(item ItemID, z int)
	SetItemVisible(item ItemID, visible bool)
}

// CollisionServer owns broad-phase domains. Each domain holds size shapes
// addressed by index; the core toggles them as slots come and go.
type CollisionServer interface {
	CreateDomain(layer, mask uint32, size int) (DomainID, error)
	FreeDomain(d DomainID)
	SetShape(d DomainID, index int32, shape Shape, t Transform)
	SetShapeTransform(d DomainID, index int32, t Transform)
	SetShapeDisabled(d DomainID, index int32, disabled bool)
}

var ErrDomainCreate = errors.New("bullets: collision domain creation failed")

// Shape is a collision template. A positive Radius is a circle, otherwise a
// Width x Height box centered on the bullet.
type Shape struct {
	Radius float64
	Width  float64
	Height float64
}

func (s Shape) Valid() bool {
	return s.Radius > 0 || (s.Width > 0 && s.Height > 0)
}

func (s Shape) IsCircle() bool {
	return s.Radius > 0
}

// Transform is a 2D placement. A zero Scale component draws at scale 1.
type Transform struct {
	Origin   cp.Vector
	Rotation float64
	Scale    cp.Vector
}

func IdentityTransform() Transform {
	return Transform{Scale: cp.Vector{X: 1, Y: 1}}
}

func TransformAt(x, y, rotation float64) Transform {
	return Transform{Origin: cp.Vector{X: x, Y: y}, Rotation: rotation, Scale: cp.Vector{X: 1, Y: 1}}
}

type Color struct {
	R, G, B, A float64
}

var White = Color{R: 1, G: 1, B: 1, A: 1}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	ch := func(v float64) uint32 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint32(v * c.alpha() * 0xffff)
	}
	return ch(c.R), ch(c.G), ch(c.B), uint32(c.alpha() * 0xffff)
}

func (c Color) alpha() float64 {
	if c.A < 0 {
		return 0
	}
	if c.A > 1 {
		return 1
	}
	return c.A
}
