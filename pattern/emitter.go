// Package pattern drives bullet spawns from tengo scripts timed to music.
package pattern

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/bullets/bullets"
	"github.com/milk9111/bullets/common"
	"github.com/milk9111/bullets/prefabs"
)

// MaxShots caps how many shots one run may fire.
const MaxShots = 4096

var ErrTooManyShots = errors.New("pattern: too many shots")

// Shot is one fire() call. Angle is in degrees.
type Shot struct {
	Angle float64
	Speed float64
	Extra bullets.Properties
}

// Spawner is the part of bullets.Manager an emitter fires into.
type Spawner interface {
	Spawn(kit *bullets.Kit, props bullets.Properties) bullets.Handle
}

// Emitter runs a compiled script once per firing. The script sees the
// globals tick, time, origin_x and origin_y and calls
// fire(angle_degrees, speed[, extra]) for every bullet it wants.
type Emitter struct {
	name     string
	compiled *tengo.Compiled
	shots    []Shot
	overflow bool
	base     bullets.Properties
}

// Load compiles a script from the prefabs scripts dir.
func Load(script string) (*Emitter, error) {
	src, err := prefabs.LoadScript(script)
	if err != nil {
		return nil, fmt.Errorf("pattern: load %s: %w", script, err)
	}
	return Compile(script, src)
}

func Compile(name string, src []byte) (*Emitter, error) {
	e := &Emitter{name: name}

	script := tengo.NewScript(src)
	_ = script.Add("tick", 0)
	_ = script.Add("time", 0.0)
	_ = script.Add("origin_x", 0.0)
	_ = script.Add("origin_y", 0.0)
	_ = script.Add("fire", &tengo.UserFunction{Name: "fire", Value: e.fire})
	script.SetImports(stdlib.GetModuleMap("math", "rand", "text"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("pattern: compile %s: %w", name, err)
	}
	e.compiled = compiled
	return e, nil
}

func (e *Emitter) Name() string {
	if e == nil {
		return ""
	}
	return e.name
}

// SetBase sets properties applied to every fired bullet before the shot's
// own extras.
func (e *Emitter) SetBase(props bullets.Properties) {
	if e != nil {
		e.base = props
	}
}

// Shots runs the script and returns what it fired. The slice is reused by
// the next call.
func (e *Emitter) Shots(tick int, time float64, origin cp.Vector) ([]Shot, error) {
	if e == nil || e.compiled == nil {
		return nil, fmt.Errorf("pattern: nil emitter")
	}
	e.shots = e.shots[:0]
	e.overflow = false
	if err := e.compiled.Set("tick", tick); err != nil {
		return nil, err
	}
	if err := e.compiled.Set("time", time); err != nil {
		return nil, err
	}
	if err := e.compiled.Set("origin_x", origin.X); err != nil {
		return nil, err
	}
	if err := e.compiled.Set("origin_y", origin.Y); err != nil {
		return nil, err
	}
	if err := e.compiled.Run(); err != nil {
		if e.overflow {
			err = ErrTooManyShots
		}
		return nil, fmt.Errorf("pattern: run %s: %w", e.name, err)
	}
	return e.shots, nil
}

// Fire runs the script and spawns every shot from origin. Shots the pool
// has no room for are dropped; only spawned handles are returned.
func (e *Emitter) Fire(s Spawner, kit *bullets.Kit, tick int, time float64, origin cp.Vector) ([]bullets.Handle, error) {
	shots, err := e.Shots(tick, time, origin)
	if err != nil {
		return nil, err
	}
	handles := make([]bullets.Handle, 0, len(shots))
	for _, shot := range shots {
		rad := common.DegToRad(shot.Angle)
		props := bullets.Properties{
			bullets.PropTransform: bullets.TransformAt(origin.X, origin.Y, rad),
			bullets.PropVelocity:  cp.ForAngle(rad).Mult(shot.Speed),
		}
		for k, v := range e.base {
			props[k] = v
		}
		for k, v := range shot.Extra {
			props[k] = v
		}
		if h := s.Spawn(kit, props); h.Valid() {
			handles = append(handles, h)
		}
	}
	return handles, nil
}

func (e *Emitter) fire(args ...tengo.Object) (tengo.Object, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, tengo.ErrWrongNumArguments
	}
	angle, ok := tengo.ToFloat64(args[0])
	if !ok || math.IsNaN(angle) {
		return nil, tengo.ErrInvalidArgumentType{Name: "angle", Expected: "float", Found: args[0].TypeName()}
	}
	speed, ok := tengo.ToFloat64(args[1])
	if !ok || math.IsNaN(speed) {
		return nil, tengo.ErrInvalidArgumentType{Name: "speed", Expected: "float", Found: args[1].TypeName()}
	}
	if len(e.shots) >= MaxShots {
		e.overflow = true
		return nil, ErrTooManyShots
	}
	shot := Shot{Angle: angle, Speed: speed}
	if len(args) == 3 {
		extra, ok := objectToAny(args[2]).(map[string]any)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "extra", Expected: "map", Found: args[2].TypeName()}
		}
		shot.Extra = extra
	}
	e.shots = append(e.shots, shot)
	return tengo.TrueValue, nil
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.ImmutableArray:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return strings.Trim(v.String(), "\"")
	}
}
