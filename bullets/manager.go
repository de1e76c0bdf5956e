package bullets

import (
	"fmt"
	"iter"

	"go.uber.org/zap"
)

type poolRef struct {
	set  int32
	pool int32
}

// Manager owns every pool of the mounted environment and routes handles to
// them. It is not safe for concurrent use.
type Manager struct {
	log       *zap.Logger
	canvas    Canvas
	collision CollisionServer

	env     *Environment
	sets    []*PoolSet
	kits    map[*Kit]poolRef
	byName  map[string]*Kit
	domains map[DomainID]int32

	available int
	active    int
	total     int
}

type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// NewManager creates an unmounted manager. Either collaborator may be nil:
// without a canvas nothing is drawn, without a collision server every set is
// collisionless.
func NewManager(canvas Canvas, collision CollisionServer, opts ...Option) *Manager {
	m := &Manager{
		log:       zap.NewNop(),
		canvas:    canvas,
		collision: collision,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Mounted() bool {
	return m != nil && m.env != nil
}

func (m *Manager) Environment() *Environment {
	if m == nil {
		return nil
	}
	return m.env
}

type group struct {
	key     uint64
	entries []EnvironmentEntry
}

// Mount builds pools for env, replacing whatever was mounted. Malformed kits
// are skipped with a warning. A collision domain that cannot be created fails
// the mount and leaves the manager unmounted.
func (m *Manager) Mount(env *Environment) error {
	if m == nil {
		return ErrNilEnvironment
	}
	if env == nil {
		return ErrNilEnvironment
	}
	if m.env == env {
		return nil
	}
	if m.env != nil {
		m.teardown()
	}

	var groups []*group
	byKey := make(map[uint64]*group)
	seen := make(map[*Kit]bool, len(env.Entries))
	for _, entry := range env.Entries {
		if err := entry.Kit.Validate(); err != nil {
			m.log.Warn("skipping malformed bullet kit", zap.String("environment", env.Name), zap.Error(err))
			continue
		}
		if entry.PoolSize < 0 {
			m.log.Warn("skipping bullet kit with negative pool size",
				zap.String("kit", entry.Kit.Name), zap.Int("pool_size", entry.PoolSize))
			continue
		}
		if seen[entry.Kit] {
			m.log.Warn("skipping duplicate bullet kit", zap.String("kit", entry.Kit.Name))
			continue
		}
		seen[entry.Kit] = true
		key := entry.Kit.CollisionKey()
		g, ok := byKey[key]
		if !ok {
			g = &group{key: key}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.entries = append(g.entries, entry)
	}

	m.kits = make(map[*Kit]poolRef, len(seen))
	m.byName = make(map[string]*Kit, len(seen))
	m.domains = make(map[DomainID]int32)
	m.env = env

	for gi, g := range groups {
		set := &PoolSet{index: int32(gi), key: g.key, offsets: make([]int32, 1, len(g.entries)+1)}
		var size int32
		for _, entry := range g.entries {
			size += int32(entry.PoolSize)
			set.offsets = append(set.offsets, size)
		}
		if g.key != 0 && m.collision != nil && size > 0 {
			d, err := m.collision.CreateDomain(uint32(g.key), uint32(g.key>>32), int(size))
			if err != nil || d == 0 {
				m.log.Error("collision domain creation failed",
					zap.String("environment", env.Name), zap.Uint64("key", g.key), zap.Error(err))
				m.teardown()
				return fmt.Errorf("bullets: mount %s: %w: %v", env.Name, ErrDomainCreate, err)
			}
			set.domain = d
			m.domains[d] = set.index
		}
		m.sets = append(m.sets, set)

		for pi, entry := range g.entries {
			p, err := newPool(poolConfig{
				kit:       entry.Kit,
				size:      entry.PoolSize,
				parent:    entry.Parent,
				zIndex:    entry.ZIndex,
				set:       set.index,
				start:     set.offsets[pi],
				domain:    set.domain,
				viewport:  env.Viewport,
				canvas:    m.canvas,
				collision: m.collision,
			})
			if err != nil {
				m.teardown()
				return fmt.Errorf("bullets: mount %s: kit %s: %w", env.Name, entry.Kit.Name, err)
			}
			set.pools = append(set.pools, p)
			m.kits[entry.Kit] = poolRef{set: set.index, pool: int32(pi)}
			if entry.Kit.Name != "" {
				m.byName[entry.Kit.Name] = entry.Kit
			}
			m.available += entry.PoolSize
			m.total += entry.PoolSize
		}
	}

	m.log.Debug("mounted bullet environment",
		zap.String("environment", env.Name),
		zap.String("id", env.ID.String()),
		zap.Int("sets", len(m.sets)),
		zap.Int("kits", len(m.kits)),
		zap.Int("bullets", m.total))
	return nil
}

// Unmount releases every pool and collision domain.
func (m *Manager) Unmount() {
	if m == nil || m.env == nil {
		return
	}
	m.teardown()
}

// UnmountEnvironment unmounts only if env is the mounted environment.
func (m *Manager) UnmountEnvironment(env *Environment) bool {
	if m == nil || m.env == nil {
		return false
	}
	if env != m.env {
		name := ""
		if env != nil {
			name = env.Name
		}
		m.log.Warn("unmount requested for an environment that is not mounted",
			zap.String("requested", name), zap.String("mounted", m.env.Name))
		return false
	}
	m.teardown()
	return true
}

func (m *Manager) teardown() {
	for _, set := range m.sets {
		for _, p := range set.pools {
			p.free()
		}
		if set.domain != 0 && m.collision != nil {
			m.collision.FreeDomain(set.domain)
		}
	}
	m.sets = nil
	m.kits = nil
	m.byName = nil
	m.domains = nil
	m.env = nil
	m.available, m.active, m.total = 0, 0, 0
}

// Process steps every pool once and returns the change in active bullets.
func (m *Manager) Process(dt float64) int {
	if !m.Mounted() {
		return 0
	}
	delta := 0
	for _, set := range m.sets {
		delta += set.process(dt)
	}
	m.active += delta
	m.available -= delta
	return delta
}

func (m *Manager) poolOf(kit *Kit) *Pool {
	if !m.Mounted() {
		return nil
	}
	ref, ok := m.kits[kit]
	if !ok {
		return nil
	}
	return m.sets[ref.set].pools[ref.pool]
}

// locate routes a handle to the pool owning its shape index.
func (m *Manager) locate(h Handle) *Pool {
	if !m.Mounted() || h.PoolSet < 0 || int(h.PoolSet) >= len(m.sets) {
		return nil
	}
	return m.sets[h.PoolSet].pool(h.Index)
}

func (m *Manager) Spawn(kit *Kit, props Properties) Handle {
	p := m.poolOf(kit)
	if p == nil {
		return InvalidHandle
	}
	h := p.Spawn(props)
	if h.Valid() {
		m.active++
		m.available--
	}
	return h
}

func (m *Manager) Release(h Handle) bool {
	p := m.locate(h)
	if p == nil || !p.Release(h) {
		return false
	}
	m.active--
	m.available++
	return true
}

// Clear releases every active bullet and returns how many were released.
func (m *Manager) Clear() int {
	if !m.Mounted() {
		return 0
	}
	n := 0
	for _, set := range m.sets {
		for _, p := range set.pools {
			for i := range p.arena.All() {
				p.release(i)
				n++
			}
		}
	}
	m.active -= n
	m.available += n
	return n
}

func (m *Manager) IsBulletValid(h Handle) bool {
	return m.locate(h).IsValid(h)
}

func (m *Manager) IsKitValid(kit *Kit) bool {
	return m.poolOf(kit) != nil
}

func (m *Manager) KitByName(name string) *Kit {
	if !m.Mounted() {
		return nil
	}
	return m.byName[name]
}

func (m *Manager) KitFromBullet(h Handle) *Kit {
	p := m.locate(h)
	if !p.IsValid(h) {
		return nil
	}
	return p.Kit()
}

func (m *Manager) Pool(kit *Kit) *Pool {
	return m.poolOf(kit)
}

func (m *Manager) Sets() []*PoolSet {
	if !m.Mounted() {
		return nil
	}
	return m.sets
}

func (m *Manager) Available(kit *Kit) int { return m.poolOf(kit).Available() }
func (m *Manager) Active(kit *Kit) int    { return m.poolOf(kit).Active() }
func (m *Manager) PoolSize(kit *Kit) int  { return m.poolOf(kit).Size() }

// ZIndex returns the kit's base z index, or 0 for unknown kits.
func (m *Manager) ZIndex(kit *Kit) int { return m.poolOf(kit).ZIndex() }

func (m *Manager) TotalAvailable() int {
	if m == nil {
		return 0
	}
	return m.available
}

func (m *Manager) TotalActive() int {
	if m == nil {
		return 0
	}
	return m.active
}

func (m *Manager) TotalBullets() int {
	if m == nil {
		return 0
	}
	return m.total
}

func (m *Manager) setOf(d DomainID) *PoolSet {
	if !m.Mounted() || d == 0 {
		return nil
	}
	i, ok := m.domains[d]
	if !ok {
		return nil
	}
	return m.sets[i]
}

// IsBulletExisting reports whether a shape of a collision domain currently
// belongs to an active bullet.
func (m *Manager) IsBulletExisting(d DomainID, shape int32) bool {
	set := m.setOf(d)
	if set == nil {
		return false
	}
	return set.pool(shape).IsBulletExisting(shape)
}

// BulletFromShape translates a collision callback into a bullet handle.
func (m *Manager) BulletFromShape(d DomainID, shape int32) Handle {
	set := m.setOf(d)
	if set == nil {
		return InvalidHandle
	}
	return set.pool(shape).BulletFromShape(shape)
}

func (m *Manager) Bullet(h Handle) (Bullet, bool) {
	return m.locate(h).Bullet(h)
}

// Bullets yields the active bullets of kit.
func (m *Manager) Bullets(kit *Kit) iter.Seq[Handle] {
	return m.poolOf(kit).Bullets()
}

func (m *Manager) SetBulletProperty(h Handle, name string, v any) bool {
	return m.locate(h).SetProperty(h, name, v)
}

func (m *Manager) BulletProperty(h Handle, name string) (any, bool) {
	return m.locate(h).Property(h, name)
}

func (m *Manager) ApplyBulletProperties(h Handle, props Properties) bool {
	return m.locate(h).ApplyProperties(h, props)
}

func (m *Manager) ApplyAnimation(h Handle, name string) bool {
	return m.locate(h).ApplyAnimation(h, name)
}

func (m *Manager) ApplyPropertiesToKit(kit *Kit, props Properties) {
	m.poolOf(kit).ApplyAll(props)
}

func (m *Manager) ApplyAnimationToKit(kit *Kit, name string) {
	m.poolOf(kit).ApplyAnimationToAll(name)
}

func (m *Manager) EnableCollisionsToKit(kit *Kit, enabled bool) {
	m.poolOf(kit).EnableCollisions(enabled)
}
