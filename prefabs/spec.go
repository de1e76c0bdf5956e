package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type KitSpec struct {
	Name                    string                   `yaml:"name"`
	Kind                    string                   `yaml:"kind"`
	Texture                 string                   `yaml:"texture"`
	Collision               CollisionSpec            `yaml:"collision"`
	ActiveRect              ActiveRectSpec           `yaml:"active_rect"`
	Rotate                  bool                     `yaml:"rotate"`
	UniqueModulateComponent string                   `yaml:"unique_modulate_component"`
	Data                    map[string]any           `yaml:"data"`
	Lifetime                LifetimeSpec             `yaml:"lifetime"`
	Curves                  CurvesSpec               `yaml:"curves"`
	Polar                   PolarSpec                `yaml:"polar"`
	Animations              map[string]AnimationSpec `yaml:"animations"`
}

type CollisionSpec struct {
	Enabled bool      `yaml:"enabled"`
	Layer   uint32    `yaml:"layer"`
	Mask    uint32    `yaml:"mask"`
	Shape   ShapeSpec `yaml:"shape"`
}

type ShapeSpec struct {
	Radius float64 `yaml:"radius"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// RectSpec is an axis-aligned rect given by its min and max corners.
type RectSpec struct {
	Min [2]float64 `yaml:"min"`
	Max [2]float64 `yaml:"max"`
}

type ActiveRectSpec struct {
	UseViewport bool      `yaml:"use_viewport"`
	Rect        *RectSpec `yaml:"rect"`
}

type LifetimeSpec struct {
	Span      float64 `yaml:"span"`
	Loop      bool    `yaml:"loop"`
	FreeAfter bool    `yaml:"free_after"`
}

type CurvesSpec struct {
	SpeedMultiplier *CurveSpec `yaml:"speed_multiplier"`
	RotationOffset  *CurveSpec `yaml:"rotation_offset"`
	Alpha           *CurveSpec `yaml:"alpha"`
	Red             *CurveSpec `yaml:"red"`
}

type PolarSpec struct {
	RInit       float64       `yaml:"r_init"`
	ThetaOffset float64       `yaml:"theta_offset"`
	ThetaMult   float64       `yaml:"theta_mult"`
	RSpeed      float64       `yaml:"r_speed"`
	ThetaSpeed  float64       `yaml:"theta_speed"`
	DepthSort   bool          `yaml:"depth_sort"`
	R           PolarAxisSpec `yaml:"r"`
	Theta       PolarAxisSpec `yaml:"theta"`
}

type PolarAxisSpec struct {
	Loop         bool       `yaml:"loop"`
	AsSpeed      bool       `yaml:"as_speed"`
	Min          float64    `yaml:"min"`
	Max          float64    `yaml:"max"`
	Curve        *CurveSpec `yaml:"curve"`
	LifetimeSpan float64    `yaml:"lifetime_span"`
}

type AnimationSpec struct {
	Duration float64    `yaml:"duration"`
	Glow     *CurveSpec `yaml:"glow"`
	Scale    *CurveSpec `yaml:"scale"`
	Rotation *CurveSpec `yaml:"rotation"`
	Alpha    *CurveSpec `yaml:"alpha"`
}

// CurveSpec is either a bare number, read as a constant curve, or a mode
// with [x, y] points.
type CurveSpec struct {
	Mode     string       `yaml:"mode"`
	Points   [][2]float64 `yaml:"points"`
	Constant *float64     `yaml:"constant"`
}

func (c *CurveSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var v float64
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("curve must be a number or a mapping: %w", err)
		}
		*c = CurveSpec{Constant: &v}
		return nil
	}
	type plain CurveSpec
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = CurveSpec(p)
	return nil
}

type EnvironmentSpec struct {
	Name     string        `yaml:"name"`
	Viewport RectSpec      `yaml:"viewport"`
	Music    MusicSpec     `yaml:"music"`
	Kits     []EntrySpec   `yaml:"kits"`
	Patterns []PatternSpec `yaml:"patterns"`
}

// EntrySpec points at a kit file relative to the prefabs dir.
type EntrySpec struct {
	Kit      string `yaml:"kit"`
	PoolSize int    `yaml:"pool_size"`
	Parent   string `yaml:"parent"`
	ZIndex   int    `yaml:"z_index"`
}

type MusicSpec struct {
	BPM           float64 `yaml:"bpm"`
	TimeSigTop    int     `yaml:"time_sig_top"`
	TimeSigBottom int     `yaml:"time_sig_bottom"`
}

// PatternSpec fires Script every Count notes of value Note with bullets of
// the named Kit.
type PatternSpec struct {
	Name     string         `yaml:"name"`
	Script   string         `yaml:"script"`
	Kit      string         `yaml:"kit"`
	Origin   [2]float64     `yaml:"origin"`
	Note     int            `yaml:"note"`
	Count    int            `yaml:"count"`
	Modulate *ColorSpec     `yaml:"modulate"`
	Data     map[string]any `yaml:"data"`
}

// ColorSpec accepts "#rrggbb", "#rrggbbaa" or an SVG color name.
type ColorSpec struct {
	color.Color
}

func (c *ColorSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(strings.TrimSpace(value.Value))]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return fmt.Errorf("invalid color %s: %w", value.Value, err)
		}
		rgba[i] = v
	}

	c.Color = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}
