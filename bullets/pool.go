package bullets

import (
	"iter"

	"github.com/jakecoffman/cp"
)

// Pool is a fixed capacity set of bullets of one kit. Its slots map onto the
// shape range [start, start+size) of the owning set's collision domain.
type Pool struct {
	kit     *Kit
	model   MotionModel
	arena   *Arena
	bullets []Bullet

	canvas    Canvas
	collision CollisionServer
	domain    DomainID

	set        int32
	start      int32
	zIndex     int
	parent     string
	activeRect cp.BB
	collide    bool
}

type poolConfig struct {
	kit       *Kit
	size      int
	parent    string
	zIndex    int
	set       int32
	start     int32
	domain    DomainID
	viewport  cp.BB
	canvas    Canvas
	collision CollisionServer
}

func newPool(cfg poolConfig) (*Pool, error) {
	rect := cfg.kit.ActiveRect
	if cfg.kit.UseViewportAsActiveRect {
		rect = cfg.viewport
	}
	model, err := newMotionModel(cfg.kit, cfg.canvas, rect, cfg.zIndex)
	if err != nil {
		return nil, err
	}
	p := &Pool{
		kit:        cfg.kit,
		model:      model,
		arena:      NewArena(cfg.size),
		bullets:    make([]Bullet, cfg.size),
		canvas:     cfg.canvas,
		collision:  cfg.collision,
		domain:     cfg.domain,
		set:        cfg.set,
		start:      cfg.start,
		zIndex:     cfg.zIndex,
		parent:     cfg.parent,
		activeRect: rect,
		collide:    cfg.domain != 0,
	}
	for i := range p.bullets {
		b := &p.bullets[i]
		b.ShapeIndex = p.start + int32(i)
		b.visualZ = p.zIndex
		if p.canvas != nil {
			b.Item = p.canvas.CreateItem(p.parent, p.zIndex)
			p.canvas.SetItemVisible(b.Item, false)
		}
		if p.domain != 0 {
			p.collision.SetShape(p.domain, b.ShapeIndex, p.kit.CollisionShape, IdentityTransform())
			p.collision.SetShapeDisabled(p.domain, b.ShapeIndex, true)
		}
	}
	return p, nil
}

// free releases canvas items. Shapes go away with the domain.
func (p *Pool) free() {
	if p == nil {
		return
	}
	if p.canvas != nil {
		for i := range p.bullets {
			p.canvas.FreeItem(p.bullets[i].Item)
		}
	}
	p.bullets = nil
	p.arena = NewArena(0)
}

func (p *Pool) Kit() *Kit {
	if p == nil {
		return nil
	}
	return p.kit
}

func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return p.arena.Cap()
}

func (p *Pool) Available() int {
	if p == nil {
		return 0
	}
	return p.arena.Available()
}

func (p *Pool) Active() int {
	if p == nil {
		return 0
	}
	return p.arena.Active()
}

func (p *Pool) ZIndex() int {
	if p == nil {
		return 0
	}
	return p.zIndex
}

// StartingShape is the first shape index of the pool in its domain.
func (p *Pool) StartingShape() int32 {
	if p == nil {
		return -1
	}
	return p.start
}

func (p *Pool) ActiveRect() cp.BB {
	if p == nil {
		return cp.BB{}
	}
	return p.activeRect
}

// local maps a handle onto a slot index, or -1 when it does not belong here.
func (p *Pool) local(h Handle) int32 {
	if p == nil || h.PoolSet != p.set {
		return -1
	}
	i := h.Index - p.start
	if i < 0 || int(i) >= len(p.bullets) || !p.arena.IsValid(i, h.Generation) {
		return -1
	}
	return i
}

func (p *Pool) handle(i int32) Handle {
	return Handle{Index: p.start + i, Generation: p.arena.Generation(i), PoolSet: p.set}
}

// Spawn activates the lowest free slot with props applied. A full pool
// returns InvalidHandle.
func (p *Pool) Spawn(props Properties) Handle {
	if p == nil {
		return InvalidHandle
	}
	i, gen, ok := p.arena.Acquire()
	if !ok {
		return InvalidHandle
	}
	b := &p.bullets[i]
	b.Generation = gen
	p.model.Reset(b)
	p.applyProperties(b, props)
	p.model.OnActivate(b)
	if p.collide {
		b.shapeTransform = b.world
		p.collision.SetShapeTransform(p.domain, b.ShapeIndex, b.world)
		p.collision.SetShapeDisabled(p.domain, b.ShapeIndex, false)
	}
	return p.handle(i)
}

func (p *Pool) Release(h Handle) bool {
	i := p.local(h)
	if i < 0 {
		return false
	}
	p.release(i)
	return true
}

func (p *Pool) release(i int32) {
	b := &p.bullets[i]
	p.model.OnDeactivate(b)
	if p.collide {
		p.collision.SetShapeDisabled(p.domain, b.ShapeIndex, true)
	}
	p.arena.Release(i, b.Generation)
}

func (p *Pool) IsValid(h Handle) bool {
	return p.local(h) >= 0
}

// Process steps every active bullet and releases the ones that expired. It
// returns the change in active count, which is never positive.
func (p *Pool) Process(dt float64) int {
	if p == nil {
		return 0
	}
	released := 0
	for i := range p.arena.All() {
		b := &p.bullets[i]
		if p.model.Step(b, dt) {
			p.release(i)
			released++
			continue
		}
		if p.collide && b.world != b.shapeTransform {
			p.collision.SetShapeTransform(p.domain, b.ShapeIndex, b.world)
			b.shapeTransform = b.world
		}
	}
	return -released
}

// BulletFromShape maps a shape index of the set's domain to the bullet that
// currently owns it.
func (p *Pool) BulletFromShape(shape int32) Handle {
	if p == nil {
		return InvalidHandle
	}
	i := shape - p.start
	if !p.arena.IsActive(i) {
		return InvalidHandle
	}
	return p.handle(i)
}

func (p *Pool) IsBulletExisting(shape int32) bool {
	return p != nil && p.arena.IsActive(shape-p.start)
}

// Bullet returns a copy of the bullet's state.
func (p *Pool) Bullet(h Handle) (Bullet, bool) {
	i := p.local(h)
	if i < 0 {
		return Bullet{}, false
	}
	return p.bullets[i], true
}

// Bullets yields the handles of active bullets in slot order.
func (p *Pool) Bullets() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		if p == nil {
			return
		}
		for i := range p.arena.All() {
			if !yield(p.handle(i)) {
				return
			}
		}
	}
}

func (p *Pool) SetProperty(h Handle, name string, v any) bool {
	i := p.local(h)
	if i < 0 {
		return false
	}
	p.setProperty(&p.bullets[i], name, v)
	return true
}

func (p *Pool) setProperty(b *Bullet, name string, v any) {
	if !p.model.SetProperty(b, name, v) {
		b.setData(name, v)
	}
}

// wholeProperties are applied before the rest of a batch so that narrower
// keys like position or rotation refine them instead of being overwritten.
var wholeProperties = [...]string{PropTransform, PropStartingTransform, PropVelocity}

func (p *Pool) applyProperties(b *Bullet, props Properties) {
	for _, name := range wholeProperties {
		if v, ok := props[name]; ok {
			p.setProperty(b, name, v)
		}
	}
	for name, v := range props {
		if name == PropTransform || name == PropStartingTransform || name == PropVelocity {
			continue
		}
		p.setProperty(b, name, v)
	}
}

func (p *Pool) Property(h Handle, name string) (any, bool) {
	i := p.local(h)
	if i < 0 {
		return nil, false
	}
	b := &p.bullets[i]
	if v, ok := p.model.Property(b, name); ok {
		return v, true
	}
	v, ok := b.Data[name]
	return v, ok
}

func (p *Pool) ApplyProperties(h Handle, props Properties) bool {
	i := p.local(h)
	if i < 0 {
		return false
	}
	p.applyProperties(&p.bullets[i], props)
	return true
}

func (p *Pool) ApplyAnimation(h Handle, name string) bool {
	i := p.local(h)
	if i < 0 {
		return false
	}
	p.model.ApplyAnimation(&p.bullets[i], name)
	return true
}

// ApplyAll applies props to every active bullet.
func (p *Pool) ApplyAll(props Properties) {
	if p == nil {
		return
	}
	for i := range p.arena.All() {
		p.applyProperties(&p.bullets[i], props)
	}
}

func (p *Pool) ApplyAnimationToAll(name string) {
	if p == nil {
		return
	}
	for i := range p.arena.All() {
		p.model.ApplyAnimation(&p.bullets[i], name)
	}
}

// EnableCollisions toggles the pool's shapes in the shared domain. Pools
// without a domain ignore it.
func (p *Pool) EnableCollisions(enabled bool) {
	if p == nil || p.domain == 0 || p.collide == enabled {
		return
	}
	p.collide = enabled
	for i := range p.arena.All() {
		b := &p.bullets[i]
		if enabled {
			p.collision.SetShapeTransform(p.domain, b.ShapeIndex, b.world)
			b.shapeTransform = b.world
		}
		p.collision.SetShapeDisabled(p.domain, b.ShapeIndex, !enabled)
	}
}

func (p *Pool) CollisionsEnabled() bool {
	return p != nil && p.collide
}
