package prefabs

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bullets/assets"
	"github.com/milk9111/bullets/bullets"
	"github.com/milk9111/bullets/curve"
	"golang.org/x/sync/errgroup"
)

// TextureLoader resolves a kit's texture key.
type TextureLoader func(key string) (bullets.Texture, error)

// BoundsTexture is a texture that only knows its size. Headless tools use
// it in place of a GPU image.
type BoundsTexture image.Rectangle

func (b BoundsTexture) Bounds() image.Rectangle {
	return image.Rectangle(b)
}

// AssetBounds reads the embedded image header for key without decoding
// pixels.
func AssetBounds(key string) (bullets.Texture, error) {
	data, err := assets.LoadFile(key)
	if err != nil {
		return nil, fmt.Errorf("prefabs: texture %s: %w", key, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("prefabs: texture %s: %w", key, err)
	}
	return BoundsTexture(image.Rect(0, 0, cfg.Width, cfg.Height)), nil
}

// BuildKit turns a decoded spec into a kit. The result is not validated;
// the manager skips kits that fail bullets.Kit.Validate at mount.
func BuildKit(spec KitSpec, load TextureLoader) (*bullets.Kit, error) {
	kind, err := bullets.ParseKind(spec.Kind)
	if err != nil {
		return nil, fmt.Errorf("prefabs: kit %s: %w", spec.Name, err)
	}
	unique, err := bullets.ParseModulateComponent(spec.UniqueModulateComponent)
	if err != nil {
		return nil, fmt.Errorf("prefabs: kit %s: %w", spec.Name, err)
	}

	kit := &bullets.Kit{
		Name:                    spec.Name,
		Kind:                    kind,
		CollisionsEnabled:       spec.Collision.Enabled,
		CollisionLayer:          spec.Collision.Layer,
		CollisionMask:           spec.Collision.Mask,
		CollisionShape:          bullets.Shape(spec.Collision.Shape),
		UseViewportAsActiveRect: spec.ActiveRect.UseViewport,
		Rotate:                  spec.Rotate,
		UniqueModulateComponent: unique,
		Data:                    spec.Data,
		LifetimeCurvesSpan:      spec.Lifetime.Span,
		LifetimeCurvesLoop:      spec.Lifetime.Loop,
		FreeAfterLifetime:       spec.Lifetime.FreeAfter,
	}
	if spec.ActiveRect.Rect != nil {
		kit.ActiveRect = spec.ActiveRect.Rect.BB()
	}

	if strings.TrimSpace(spec.Texture) != "" {
		if load == nil {
			load = AssetBounds
		}
		tex, err := load(spec.Texture)
		if err != nil {
			return nil, fmt.Errorf("prefabs: kit %s: %w", spec.Name, err)
		}
		kit.Texture = tex
	}

	curves := []struct {
		name string
		spec *CurveSpec
		dst  *bullets.Curve
	}{
		{"speed_multiplier", spec.Curves.SpeedMultiplier, &kit.SpeedMultiplier},
		{"rotation_offset", spec.Curves.RotationOffset, &kit.RotationOffset},
		{"alpha", spec.Curves.Alpha, &kit.Alpha},
		{"red", spec.Curves.Red, &kit.Red},
	}
	for _, c := range curves {
		if *c.dst, err = c.spec.Build(); err != nil {
			return nil, fmt.Errorf("prefabs: kit %s: curve %s: %w", spec.Name, c.name, err)
		}
	}

	kit.Polar = bullets.PolarConfig{
		RInit:       spec.Polar.RInit,
		ThetaOffset: spec.Polar.ThetaOffset,
		ThetaMult:   spec.Polar.ThetaMult,
		RSpeed:      spec.Polar.RSpeed,
		ThetaSpeed:  spec.Polar.ThetaSpeed,
		DepthSort:   spec.Polar.DepthSort,
	}
	if kit.Polar.R, err = spec.Polar.R.build(); err != nil {
		return nil, fmt.Errorf("prefabs: kit %s: polar r: %w", spec.Name, err)
	}
	if kit.Polar.Theta, err = spec.Polar.Theta.build(); err != nil {
		return nil, fmt.Errorf("prefabs: kit %s: polar theta: %w", spec.Name, err)
	}

	if len(spec.Animations) > 0 {
		kit.Animations = make(map[string]*bullets.Animation, len(spec.Animations))
		for name, a := range spec.Animations {
			anim, err := a.build()
			if err != nil {
				return nil, fmt.Errorf("prefabs: kit %s: animation %s: %w", spec.Name, name, err)
			}
			kit.Animations[name] = anim
		}
	}
	return kit, nil
}

// LoadKit reads and builds one kit file.
func LoadKit(name string, load TextureLoader) (*bullets.Kit, error) {
	spec, err := LoadSpec[KitSpec](name)
	if err != nil {
		return nil, err
	}
	return BuildKit(spec, load)
}

func (r RectSpec) BB() cp.BB {
	return cp.BB{L: r.Min[0], B: r.Min[1], R: r.Max[0], T: r.Max[1]}
}

// Build returns nil for an absent curve so kits can tell "no curve" from a
// curve that samples zero.
func (c *CurveSpec) Build() (bullets.Curve, error) {
	if c == nil {
		return nil, nil
	}
	if c.Constant != nil {
		return curve.Constant(*c.Constant), nil
	}
	mode, err := curve.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	pts := make([]curve.Point, len(c.Points))
	for i, p := range c.Points {
		pts[i] = curve.Point{X: p[0], Y: p[1]}
	}
	cv, err := curve.New(mode, pts...)
	if err != nil {
		return nil, err
	}
	return cv, nil
}

func (a PolarAxisSpec) build() (bullets.PolarAxis, error) {
	cv, err := a.Curve.Build()
	if err != nil {
		return bullets.PolarAxis{}, err
	}
	return bullets.PolarAxis{
		Loop:         a.Loop,
		AsSpeed:      a.AsSpeed,
		Min:          a.Min,
		Max:          a.Max,
		Curve:        cv,
		LifetimeSpan: a.LifetimeSpan,
	}, nil
}

func (a AnimationSpec) build() (*bullets.Animation, error) {
	anim := &bullets.Animation{Duration: a.Duration}
	var err error
	if anim.Glow, err = a.Glow.Build(); err != nil {
		return nil, err
	}
	if anim.Scale, err = a.Scale.Build(); err != nil {
		return nil, err
	}
	if anim.Rotation, err = a.Rotation.Build(); err != nil {
		return nil, err
	}
	if anim.Alpha, err = a.Alpha.Build(); err != nil {
		return nil, err
	}
	return anim, nil
}

// Modulate converts to a bullets.Color; an absent color is white.
func (c *ColorSpec) Modulate() bullets.Color {
	if c == nil || c.Color == nil {
		return bullets.White
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return bullets.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// Stage is a loaded environment plus the patterns and timing that drive it.
type Stage struct {
	Environment *bullets.Environment
	Music       MusicSpec
	Patterns    []PatternSpec
}

// LoadEnvironment reads an environment file and builds every kit it names.
// Kit files load concurrently; an entry repeating a file shares the kit.
func LoadEnvironment(name string, load TextureLoader) (*Stage, error) {
	spec, err := LoadSpec[EnvironmentSpec](name)
	if err != nil {
		return nil, err
	}

	var files []string
	index := map[string]int{}
	for _, e := range spec.Kits {
		if _, ok := index[e.Kit]; !ok {
			index[e.Kit] = len(files)
			files = append(files, e.Kit)
		}
	}

	kits := make([]*bullets.Kit, len(files))
	var g errgroup.Group
	g.SetLimit(4)
	for i, file := range files {
		g.Go(func() error {
			kit, err := LoadKit(file, load)
			if err != nil {
				return err
			}
			kits[i] = kit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("prefabs: environment %s: %w", name, err)
	}

	entries := make([]bullets.EnvironmentEntry, 0, len(spec.Kits))
	for _, e := range spec.Kits {
		entries = append(entries, bullets.EnvironmentEntry{
			Kit:      kits[index[e.Kit]],
			PoolSize: e.PoolSize,
			Parent:   e.Parent,
			ZIndex:   e.ZIndex,
		})
	}

	envName := spec.Name
	if envName == "" {
		envName = strings.TrimSuffix(cleanPrefabPath(name), ".yaml")
	}
	return &Stage{
		Environment: bullets.NewEnvironment(envName, spec.Viewport.BB(), entries...),
		Music:       spec.Music,
		Patterns:    spec.Patterns,
	}, nil
}
