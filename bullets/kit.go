package bullets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
)

var (
	ErrInvalidKit  = errors.New("bullets: invalid kit")
	ErrUnknownKind = errors.New("bullets: unknown kit kind")
)

// Kind selects the motion model a kit's pool runs.
type Kind int

const (
	KindComposite Kind = iota
	KindDynamic
	KindPolar
)

func (k Kind) String() string {
	switch k {
	case KindComposite:
		return "composite"
	case KindDynamic:
		return "dynamic"
	case KindPolar:
		return "polar"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "composite", "linear":
		return KindComposite, nil
	case "dynamic", "accelerating":
		return KindDynamic, nil
	case "polar", "orbital":
		return KindPolar, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// ModulateComponent picks a color channel that carries a per-bullet value so
// shaders can tell bullets apart.
type ModulateComponent int

const (
	ModulateNone ModulateComponent = iota
	ModulateRed
	ModulateGreen
	ModulateBlue
	ModulateAlpha
)

func ParseModulateComponent(s string) (ModulateComponent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ModulateNone, nil
	case "red", "r":
		return ModulateRed, nil
	case "green", "g":
		return ModulateGreen, nil
	case "blue", "b":
		return ModulateBlue, nil
	case "alpha", "a":
		return ModulateAlpha, nil
	default:
		return ModulateNone, fmt.Errorf("bullets: unknown modulate component %q", s)
	}
}

// Animation is a named set of curves sampled over Duration seconds once
// applied to a bullet.
type Animation struct {
	Duration float64
	Glow     Curve
	Scale    Curve
	Rotation Curve
	Alpha    Curve
}

// PolarAxis configures how one polar coordinate evolves. With a Curve the
// value is lerp(Min, Max, Curve(t)), taken as a rate when AsSpeed is set.
// Without a Curve the coordinate advances by the bullet's own speed.
type PolarAxis struct {
	Loop         bool
	AsSpeed      bool
	Min          float64
	Max          float64
	Curve        Curve
	LifetimeSpan float64
}

// PolarConfig holds the per-bullet defaults a polar pool starts each spawn
// from. Theta values are in degrees.
type PolarConfig struct {
	R           PolarAxis
	Theta       PolarAxis
	RInit       float64
	ThetaOffset float64
	ThetaMult   float64
	RSpeed      float64
	ThetaSpeed  float64
	// DepthSort raises bullets on the near half of the orbit above the base
	// z index and lowers the far half below it.
	DepthSort bool
}

// Kit is the read-only template a pool is built from.
type Kit struct {
	Name    string
	Kind    Kind
	Texture Texture

	CollisionsEnabled bool
	CollisionLayer    uint32
	CollisionMask     uint32
	CollisionShape    Shape

	UseViewportAsActiveRect bool
	ActiveRect              cp.BB
	Rotate                  bool

	UniqueModulateComponent ModulateComponent
	Data                    map[string]any
	Animations              map[string]*Animation

	LifetimeCurvesSpan float64
	LifetimeCurvesLoop bool
	FreeAfterLifetime  bool

	SpeedMultiplier Curve
	RotationOffset  Curve
	Alpha           Curve
	Red             Curve

	Polar PolarConfig
}

// CollisionKey is the pool set grouping key. Zero means the kit does not
// collide.
func (k *Kit) CollisionKey() uint64 {
	if k == nil || !k.CollisionsEnabled || !k.CollisionShape.Valid() {
		return 0
	}
	return uint64(k.CollisionLayer) | uint64(k.CollisionMask)<<32
}

func (k *Kit) lifetimeSpan() float64 {
	if k.LifetimeCurvesSpan <= 0 {
		return 1
	}
	return k.LifetimeCurvesSpan
}

// Validate reports structural problems that make the kit unusable.
func (k *Kit) Validate() error {
	if k == nil {
		return fmt.Errorf("%w: nil kit", ErrInvalidKit)
	}
	if k.Kind < KindComposite || k.Kind > KindPolar {
		return fmt.Errorf("%w: %s: %w", ErrInvalidKit, k.Name, ErrUnknownKind)
	}
	if k.Texture == nil {
		return fmt.Errorf("%w: %s: missing texture", ErrInvalidKit, k.Name)
	}
	if k.LifetimeCurvesSpan < 0 {
		return fmt.Errorf("%w: %s: negative lifetime curves span", ErrInvalidKit, k.Name)
	}
	if !k.UseViewportAsActiveRect && (k.ActiveRect.R <= k.ActiveRect.L || k.ActiveRect.T <= k.ActiveRect.B) {
		return fmt.Errorf("%w: %s: empty active rect", ErrInvalidKit, k.Name)
	}
	for name, a := range k.Animations {
		if a == nil || a.Duration < 0 {
			return fmt.Errorf("%w: %s: bad animation %q", ErrInvalidKit, k.Name, name)
		}
	}
	if k.Kind == KindPolar && (k.Polar.R.LifetimeSpan < 0 || k.Polar.Theta.LifetimeSpan < 0) {
		return fmt.Errorf("%w: %s: negative polar lifetime span", ErrInvalidKit, k.Name)
	}
	return nil
}
