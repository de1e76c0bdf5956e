package bullets

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

func TestManagerFullPoolAndStillBullets(t *testing.T) {
	kit := testKit("still")
	m := mountOne(kit, 10)

	for i := range 10 {
		if h := m.Spawn(kit, Properties{PropPosition: cp.Vector{X: float64(i), Y: 0}}); !h.Valid() {
			t.Fatalf("spawn %d failed", i)
		}
	}
	for _, dt := range []float64{0, 0.016, 1, 10} {
		if delta := m.Process(dt); delta != 0 {
			t.Fatalf("Process(%v) delta = %d, want 0", dt, delta)
		}
	}
	if m.Active(kit) != 10 || m.Available(kit) != 0 {
		t.Fatalf("expected 10 active 0 available, got %d/%d", m.Active(kit), m.Available(kit))
	}
	if h := m.Spawn(kit, nil); h != InvalidHandle {
		t.Fatalf("spawn on full pool should return the invalid handle, got %v", h)
	}
	if m.TotalActive() != 10 {
		t.Fatalf("expected 10 active, got %d", m.TotalActive())
	}
}

func TestManagerBulletLeavesActiveRect(t *testing.T) {
	kit := testKit("mover")
	m := mountOne(kit, 10)

	h := m.Spawn(kit, Properties{PropVelocity: cp.Vector{X: 100}})
	if m.Available(kit) != 9 {
		t.Fatalf("expected 9 available after spawn, got %d", m.Available(kit))
	}
	if delta := m.Process(1.0); delta != -1 {
		t.Fatalf("expected delta -1, got %d", delta)
	}
	if m.IsBulletValid(h) {
		t.Fatalf("bullet outside the active rect should be released")
	}
	if m.Available(kit) != 10 || m.TotalAvailable() != 10 || m.TotalActive() != 0 {
		t.Fatalf("counters not restored: kit=%d total=%d active=%d", m.Available(kit), m.TotalAvailable(), m.TotalActive())
	}
	visited := 0
	for range m.Bullets(kit) {
		visited++
	}
	if visited != 0 {
		t.Fatalf("expired bullet still visited")
	}
}

func TestManagerMovesBulletWithinRect(t *testing.T) {
	kit := testKit("mover")
	m := mountOne(kit, 1)
	h := m.Spawn(kit, Properties{PropVelocity: cp.Vector{X: 100}})
	m.Process(0.25)
	b, ok := m.Bullet(h)
	if !ok {
		t.Fatalf("bullet should still be alive")
	}
	if !nearVec(b.Transform.Origin, cp.Vector{X: 25}) {
		t.Fatalf("expected position (25,0), got %v", b.Transform.Origin)
	}
	if !near(b.Lifetime, 0.25) {
		t.Fatalf("expected lifetime 0.25, got %v", b.Lifetime)
	}
}

func TestManagerStaleHandleRejected(t *testing.T) {
	kit := testKit("stale")
	m := mountOne(kit, 1)

	old := m.Spawn(kit, Properties{"tag": "old"})
	if !m.Release(old) {
		t.Fatalf("release should succeed")
	}
	fresh := m.Spawn(kit, Properties{"tag": "new"})
	if fresh.Index != old.Index || fresh.Generation == old.Generation {
		t.Fatalf("expected same slot with new generation, old=%v fresh=%v", old, fresh)
	}

	if m.IsBulletValid(old) {
		t.Fatalf("old handle should be invalid")
	}
	if _, ok := m.BulletProperty(old, "tag"); ok {
		t.Fatalf("property read through stale handle should fail")
	}
	if m.SetBulletProperty(old, "tag", "hijack") {
		t.Fatalf("property write through stale handle should fail")
	}
	if m.Release(old) {
		t.Fatalf("release through stale handle should fail")
	}
	if m.KitFromBullet(old) != nil {
		t.Fatalf("stale handle should have no kit")
	}
	if v, _ := m.BulletProperty(fresh, "tag"); v != "new" {
		t.Fatalf("new occupant was modified: tag=%v", v)
	}
	if !m.IsBulletValid(fresh) {
		t.Fatalf("new occupant should still be valid")
	}
}

func TestManagerReleaseTwice(t *testing.T) {
	kit := testKit("twice")
	m := mountOne(kit, 3)
	h := m.Spawn(kit, nil)
	m.Spawn(kit, nil)
	if !m.Release(h) {
		t.Fatalf("first release should succeed")
	}
	if m.Release(h) {
		t.Fatalf("second release should fail")
	}
	if m.Active(kit) != 1 || m.Available(kit) != 2 || m.TotalActive() != 1 {
		t.Fatalf("second release changed counters: active=%d available=%d", m.Active(kit), m.Available(kit))
	}
}

func TestManagerGroupsByCollisionKey(t *testing.T) {
	a := collidingKit("a", 1, 2)
	b := testKit("b")
	c := collidingKit("c", 1, 2)
	d := collidingKit("d", 4, 1)
	noShape := collidingKit("no_shape", 1, 2)
	noShape.CollisionShape = Shape{}

	coll := newFakeCollision()
	m := NewManager(newRecordCanvas(), coll)
	env := NewEnvironment("groups", testRect,
		EnvironmentEntry{Kit: a, PoolSize: 3},
		EnvironmentEntry{Kit: b, PoolSize: 2},
		EnvironmentEntry{Kit: c, PoolSize: 5},
		EnvironmentEntry{Kit: d, PoolSize: 1},
		EnvironmentEntry{Kit: noShape, PoolSize: 4},
	)
	if err := m.Mount(env); err != nil {
		t.Fatalf("mount: %v", err)
	}

	sets := m.Sets()
	if len(sets) != 3 {
		t.Fatalf("expected 3 sets, got %d", len(sets))
	}
	cases := []struct {
		name      string
		kit       *Kit
		set       int32
		start     int32
		hasDomain bool
	}{
		{"a", a, 0, 0, true},
		{"c", c, 0, 3, true},
		{"b", b, 1, 0, false},
		{"no_shape", noShape, 1, 2, false},
		{"d", d, 2, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := m.Pool(tc.kit)
			if p == nil {
				t.Fatalf("kit not mounted")
			}
			if p.set != tc.set || p.StartingShape() != tc.start {
				t.Fatalf("got set %d start %d, want set %d start %d", p.set, p.StartingShape(), tc.set, tc.start)
			}
			if (sets[tc.set].Domain() != 0) != tc.hasDomain {
				t.Fatalf("domain presence mismatch for set %d", tc.set)
			}
		})
	}
	if got := coll.domains[sets[0].Domain()]; got.layer != 1 || got.mask != 2 || got.size != 8 {
		t.Fatalf("unexpected domain for set 0: %+v", got)
	}
	if len(coll.domains) != 2 {
		t.Fatalf("expected 2 collision domains, got %d", len(coll.domains))
	}

	h := m.Spawn(c, nil)
	if h.Index != 3 || h.PoolSet != 0 {
		t.Fatalf("first bullet of c should use shape 3 of set 0, got %v", h)
	}
	if got := m.BulletFromShape(sets[0].Domain(), 3); got != h {
		t.Fatalf("BulletFromShape = %v, want %v", got, h)
	}
	if !m.IsBulletExisting(sets[0].Domain(), 3) || m.IsBulletExisting(sets[0].Domain(), 4) {
		t.Fatalf("IsBulletExisting disagrees with spawned shapes")
	}
	if m.BulletFromShape(sets[0].Domain(), 99) != InvalidHandle {
		t.Fatalf("out of range shape should map to the invalid handle")
	}
	if m.KitFromBullet(h) != c {
		t.Fatalf("KitFromBullet should return c")
	}
	if coll.domains[sets[0].Domain()].disabled[3] {
		t.Fatalf("spawned bullet shape should be enabled")
	}
	m.Release(h)
	if !coll.domains[sets[0].Domain()].disabled[3] {
		t.Fatalf("released bullet shape should be disabled")
	}
}

func TestManagerMountRoundTrip(t *testing.T) {
	a := collidingKit("a", 1, 1)
	b := testKit("b")
	c := collidingKit("c", 1, 1)
	env := NewEnvironment("round", testRect,
		EnvironmentEntry{Kit: a, PoolSize: 4},
		EnvironmentEntry{Kit: b, PoolSize: 6},
		EnvironmentEntry{Kit: c, PoolSize: 2},
	)
	coll := newFakeCollision()
	m := NewManager(newRecordCanvas(), coll)

	type layout struct {
		key   uint64
		start int32
		size  int
	}
	snapshot := func() []layout {
		var out []layout
		for _, s := range m.Sets() {
			for _, p := range s.Pools() {
				out = append(out, layout{s.Key(), p.StartingShape(), p.Size()})
			}
		}
		return out
	}

	if err := m.Mount(env); err != nil {
		t.Fatalf("mount: %v", err)
	}
	first := snapshot()
	firstAvail, firstActive := m.TotalAvailable(), m.TotalActive()
	m.Spawn(a, nil)

	m.Unmount()
	if m.Mounted() || m.TotalAvailable() != 0 || m.TotalActive() != 0 {
		t.Fatalf("unmount should zero the manager")
	}
	if len(coll.domains) != 0 {
		t.Fatalf("unmount leaked %d domains", len(coll.domains))
	}

	if err := m.Mount(env); err != nil {
		t.Fatalf("remount: %v", err)
	}
	second := snapshot()
	if len(first) != len(second) {
		t.Fatalf("layout length changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("layout %d changed: %+v vs %+v", i, first[i], second[i])
		}
	}
	if m.TotalAvailable() != firstAvail || m.TotalActive() != firstActive {
		t.Fatalf("counts changed across remount")
	}
}

func TestManagerRemountReleasesDomains(t *testing.T) {
	coll := newFakeCollision()
	m := NewManager(nil, coll)
	envA := NewEnvironment("a", testRect, EnvironmentEntry{Kit: collidingKit("a", 1, 1), PoolSize: 2})
	envB := NewEnvironment("b", testRect, EnvironmentEntry{Kit: collidingKit("b", 2, 2), PoolSize: 2})
	if err := m.Mount(envA); err != nil {
		t.Fatalf("mount a: %v", err)
	}
	if err := m.Mount(envB); err != nil {
		t.Fatalf("mount b: %v", err)
	}
	if len(coll.freed) != 1 || len(coll.domains) != 1 {
		t.Fatalf("expected the first domain freed before remount, freed=%v live=%d", coll.freed, len(coll.domains))
	}
	if m.Environment() != envB {
		t.Fatalf("expected env b mounted")
	}
	if m.UnmountEnvironment(envA) {
		t.Fatalf("unmounting a stale environment should be refused")
	}
	if !m.Mounted() {
		t.Fatalf("refused unmount must leave the manager mounted")
	}
	if !m.UnmountEnvironment(envB) {
		t.Fatalf("unmounting the current environment should succeed")
	}
}

func TestManagerSkipsMalformedKits(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	good := testKit("good")
	noTexture := testKit("no_texture")
	noTexture.Texture = nil
	emptyRect := testKit("empty_rect")
	emptyRect.ActiveRect = cp.BB{}

	m := NewManager(nil, nil, WithLogger(zap.New(core)))
	env := NewEnvironment("mixed", testRect,
		EnvironmentEntry{Kit: noTexture, PoolSize: 5},
		EnvironmentEntry{Kit: good, PoolSize: 5},
		EnvironmentEntry{Kit: emptyRect, PoolSize: 5},
		EnvironmentEntry{Kit: nil, PoolSize: 5},
	)
	if err := m.Mount(env); err != nil {
		t.Fatalf("mount should succeed without the bad kits: %v", err)
	}
	if !m.IsKitValid(good) || m.IsKitValid(noTexture) || m.IsKitValid(emptyRect) {
		t.Fatalf("only the good kit should be mounted")
	}
	if m.TotalBullets() != 5 {
		t.Fatalf("expected 5 bullets, got %d", m.TotalBullets())
	}
	if n := logs.FilterMessage("skipping malformed bullet kit").Len(); n != 3 {
		t.Fatalf("expected 3 warnings, got %d", n)
	}
	if m.Spawn(noTexture, nil) != InvalidHandle {
		t.Fatalf("spawning an unmounted kit should fail soft")
	}
}

func TestManagerDomainFailureFailsMount(t *testing.T) {
	coll := newFakeCollision()
	m := NewManager(nil, coll)
	ok := NewEnvironment("ok", testRect, EnvironmentEntry{Kit: testKit("plain"), PoolSize: 1})
	if err := m.Mount(ok); err != nil {
		t.Fatalf("mount: %v", err)
	}
	coll.fail = true
	bad := NewEnvironment("bad", testRect, EnvironmentEntry{Kit: collidingKit("c", 1, 1), PoolSize: 1})
	err := m.Mount(bad)
	if !errors.Is(err, ErrDomainCreate) {
		t.Fatalf("expected ErrDomainCreate, got %v", err)
	}
	if m.Mounted() {
		t.Fatalf("failed mount should leave the manager unmounted")
	}
}

func TestManagerUnmountedFailsSoft(t *testing.T) {
	m := NewManager(nil, nil)
	kit := testKit("k")
	h := Handle{Index: 0, Generation: 1, PoolSet: 0}
	if m.Spawn(kit, nil) != InvalidHandle {
		t.Fatalf("spawn before mount should return the invalid handle")
	}
	if m.Release(h) || m.IsBulletValid(h) || m.SetBulletProperty(h, PropLifetime, 1.0) {
		t.Fatalf("handle operations before mount should fail")
	}
	if _, ok := m.BulletProperty(h, PropLifetime); ok {
		t.Fatalf("property read before mount should fail")
	}
	if m.Process(1) != 0 || m.Available(kit) != 0 || m.ZIndex(kit) != 0 {
		t.Fatalf("counters before mount should be zero")
	}
	m.ApplyPropertiesToKit(kit, Properties{PropLifetime: 1.0})
	m.ApplyAnimationToKit(kit, "x")
	m.EnableCollisionsToKit(kit, false)
	m.Unmount()
	if m.Mount(nil) == nil {
		t.Fatalf("mounting nil should error")
	}
}

func TestManagerPropertiesAndData(t *testing.T) {
	kit := testKit("props")
	kit.Kind = KindDynamic
	m := mountOne(kit, 2)
	h := m.Spawn(kit, Properties{
		PropVelocity: cp.Vector{X: 3, Y: 4},
		"owner":      "boss",
	})
	if v, _ := m.BulletProperty(h, PropStartingSpeed); v != 5.0 {
		t.Fatalf("expected starting speed 5, got %v", v)
	}
	b, _ := m.Bullet(h)
	if b.Data["owner"] != "boss" {
		t.Fatalf("unknown key should land in Data, got %v", b.Data)
	}
	if !m.SetBulletProperty(h, PropMaxSpeed, 2) {
		t.Fatalf("set max speed failed")
	}
	if v, _ := m.BulletProperty(h, PropMaxSpeed); v != 2.0 {
		t.Fatalf("expected max speed 2, got %v", v)
	}
	if v, _ := m.BulletProperty(h, PropGeneration); v != h.Generation {
		t.Fatalf("generation property = %v, want %v", v, h.Generation)
	}
	m.SetBulletProperty(h, PropShapeIndex, int32(9))
	if v, _ := m.BulletProperty(h, PropShapeIndex); v != h.Index {
		t.Fatalf("shape index should be read only, got %v", v)
	}

	other := m.Spawn(kit, nil)
	m.ApplyPropertiesToKit(kit, Properties{PropGlowDegree: 3.0})
	for _, hh := range []Handle{h, other} {
		if v, _ := m.BulletProperty(hh, PropGlowDegree); v != 3.0 {
			t.Fatalf("glow not applied to %v: %v", hh, v)
		}
	}

	m.Release(h)
	again := m.Spawn(kit, nil)
	nb, _ := m.Bullet(again)
	if len(nb.Data) != 0 || nb.GlowDegree != 1 {
		t.Fatalf("respawned bullet kept old state: data=%v glow=%v", nb.Data, nb.GlowDegree)
	}
}

func TestManagerEnableCollisionsToKit(t *testing.T) {
	kit := collidingKit("c", 1, 1)
	coll := newFakeCollision()
	m := NewManager(nil, coll)
	if err := m.Mount(NewEnvironment("e", testRect, EnvironmentEntry{Kit: kit, PoolSize: 2})); err != nil {
		t.Fatalf("mount: %v", err)
	}
	d := m.Sets()[0].Domain()
	m.Spawn(kit, nil)

	m.EnableCollisionsToKit(kit, false)
	if !coll.domains[d].disabled[0] {
		t.Fatalf("shape should be disabled")
	}
	m.Spawn(kit, nil)
	if !coll.domains[d].disabled[1] {
		t.Fatalf("spawn while collisions are off should keep the shape disabled")
	}
	m.EnableCollisionsToKit(kit, true)
	if coll.domains[d].disabled[0] || coll.domains[d].disabled[1] {
		t.Fatalf("shapes should be enabled again")
	}
}

func TestManagerShapeFollowsBullet(t *testing.T) {
	kit := collidingKit("c", 1, 1)
	coll := newFakeCollision()
	m := NewManager(nil, coll)
	if err := m.Mount(NewEnvironment("e", testRect, EnvironmentEntry{Kit: kit, PoolSize: 1})); err != nil {
		t.Fatalf("mount: %v", err)
	}
	m.Spawn(kit, Properties{PropVelocity: cp.Vector{Y: 10}})
	m.Process(1)
	got := coll.domains[m.Sets()[0].Domain()].transforms[0].Origin
	if !nearVec(got, cp.Vector{Y: 10}) {
		t.Fatalf("shape at %v, want (0,10)", got)
	}
}

func TestManagerUnmountFreesItems(t *testing.T) {
	canvas := newRecordCanvas()
	m := NewManager(canvas, nil)
	if err := m.Mount(NewEnvironment("e", testRect, EnvironmentEntry{Kit: testKit("k"), PoolSize: 4})); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if canvas.calls["CreateItem"] != 4 {
		t.Fatalf("expected 4 items, got %d", canvas.calls["CreateItem"])
	}
	m.Unmount()
	if len(canvas.freed) != 4 {
		t.Fatalf("expected 4 freed items, got %d", len(canvas.freed))
	}
}

func TestManagerChurnProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kits := []*Kit{testKit("a"), collidingKit("b", 1, 1), collidingKit("c", 1, 1)}
		sizes := make([]int, len(kits))
		entries := make([]EnvironmentEntry, len(kits))
		total := 0
		for i, k := range kits {
			sizes[i] = rapid.IntRange(0, 20).Draw(t, "size")
			entries[i] = EnvironmentEntry{Kit: k, PoolSize: sizes[i]}
			total += sizes[i]
		}
		m := NewManager(nil, newFakeCollision())
		if err := m.Mount(NewEnvironment("churn", testRect, entries...)); err != nil {
			t.Fatalf("mount: %v", err)
		}

		var live []Handle
		for range rapid.IntRange(1, 200).Draw(t, "steps") {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				k := rapid.IntRange(0, len(kits)-1).Draw(t, "kit")
				vx := rapid.Float64Range(-200, 200).Draw(t, "vx")
				h := m.Spawn(kits[k], Properties{PropVelocity: cp.Vector{X: vx}})
				if h.Valid() {
					live = append(live, h)
				}
			case 1:
				if len(live) == 0 {
					continue
				}
				i := rapid.IntRange(0, len(live)-1).Draw(t, "victim")
				m.Release(live[i])
				if m.Release(live[i]) {
					t.Fatalf("double release succeeded for %v", live[i])
				}
				live = append(live[:i], live[i+1:]...)
			case 2:
				m.Process(rapid.Float64Range(0, 0.5).Draw(t, "dt"))
			}

			if m.TotalAvailable()+m.TotalActive() != total {
				t.Fatalf("available %d + active %d != %d", m.TotalAvailable(), m.TotalActive(), total)
			}
			sum := 0
			for _, k := range kits {
				if m.Available(k)+m.Active(k) != m.PoolSize(k) {
					t.Fatalf("kit %s counts drifted", k.Name)
				}
				sum += m.Active(k)
			}
			if sum != m.TotalActive() {
				t.Fatalf("aggregate active %d != sum %d", m.TotalActive(), sum)
			}

			seen := make(map[[2]int32]bool)
			for _, k := range kits {
				for h := range m.Bullets(k) {
					key := [2]int32{h.Index, h.PoolSet}
					if seen[key] {
						t.Fatalf("two live bullets share %v", key)
					}
					seen[key] = true
				}
			}
		}
	})
}

func TestManagerClear(t *testing.T) {
	a := collidingKit("a", 1, 2)
	b := testKit("b")
	m := NewManager(newRecordCanvas(), newFakeCollision())
	env := NewEnvironment("clear", testRect,
		EnvironmentEntry{Kit: a, PoolSize: 3},
		EnvironmentEntry{Kit: b, PoolSize: 2})
	if err := m.Mount(env); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	ha := m.Spawn(a, nil)
	m.Spawn(a, nil)
	m.Spawn(b, nil)

	if n := m.Clear(); n != 3 {
		t.Fatalf("Clear released %d, want 3", n)
	}
	if m.TotalActive() != 0 || m.TotalAvailable() != 5 || m.Active(a) != 0 {
		t.Fatalf("counters after clear: active=%d available=%d", m.TotalActive(), m.TotalAvailable())
	}
	if m.IsBulletValid(ha) {
		t.Fatalf("cleared handle still valid")
	}
	if m.Clear() != 0 {
		t.Fatalf("second clear should release nothing")
	}
}

func TestSpawnAppliesTransformBeforePosition(t *testing.T) {
	kit := testKit("order")
	kit.Kind = KindDynamic
	m := mountOne(kit, 1)
	for i := 0; i < 20; i++ {
		h := m.Spawn(kit, Properties{
			PropPosition:  cp.Vector{X: 5, Y: 6},
			PropTransform: TransformAt(1, 2, 0.5),
			PropVelocity:  cp.Vector{X: 3, Y: 4},
		})
		b, _ := m.Bullet(h)
		if b.Transform.Origin != (cp.Vector{X: 5, Y: 6}) || b.Transform.Rotation != 0.5 {
			t.Fatalf("position should refine transform, got %+v", b.Transform)
		}
		if b.StartingSpeed != 5 || b.StartingTransform.Origin != b.Transform.Origin {
			t.Fatalf("starting values not captured: speed %v transform %+v", b.StartingSpeed, b.StartingTransform)
		}
		m.Release(h)
	}
}
