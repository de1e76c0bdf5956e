package bullets

import (
	"fmt"
	"image"
	"math"

	"github.com/jakecoffman/cp"
)

type fakeTexture struct{ w, h int }

func (f fakeTexture) Bounds() image.Rectangle { return image.Rect(0, 0, f.w, f.h) }

type constCurve float64

func (c constCurve) Sample(float64) float64 { return float64(c) }

// identityCurve returns its input.
type identityCurve struct{}

func (identityCurve) Sample(t float64) float64 { return t }

// recordCanvas counts canvas calls per method.
type recordCanvas struct {
	next    ItemID
	visible map[ItemID]bool
	freed   map[ItemID]bool
	calls   map[string]int
}

func newRecordCanvas() *recordCanvas {
	return &recordCanvas{
		visible: make(map[ItemID]bool),
		freed:   make(map[ItemID]bool),
		calls:   make(map[string]int),
	}
}

func (c *recordCanvas) CreateItem(string, int) ItemID {
	c.calls["CreateItem"]++
	c.next++
	return c.next
}

func (c *recordCanvas) FreeItem(item ItemID) {
	c.calls["FreeItem"]++
	c.freed[item] = true
}

func (c *recordCanvas) SetItemTexture(ItemID, Texture) { c.calls["SetItemTexture"]++ }
func (c *recordCanvas) ClearItem(ItemID) { c.calls["ClearItem"]++ }
func (c *recordCanvas) SetItemTransform(ItemID, Transform) { c.calls["SetItemTransform"]++ }
func (c *recordCanvas) SetItemModulate(ItemID, Color) { c.calls["SetItemModulate"]++ }
func (c *recordCanvas) SetItemZIndex(ItemID, int) { c.calls["SetItemZIndex"]++ }

func (c *recordCanvas) SetItemVisible(item ItemID, v bool) {
	c.calls["SetItemVisible"]++
	c.visible[item] = v
}

type fakeDomain struct {
	layer, mask uint32
	size        int
	disabled    []bool
	transforms  []Transform
}

type fakeCollision struct {
	next    DomainID
	fail    bool
	domains map[DomainID]*fakeDomain
	freed   []DomainID
}

func newFakeCollision() *fakeCollision {
	return &fakeCollision{domains: make(map[DomainID]*fakeDomain)}
}

func (f *fakeCollision) CreateDomain(layer, mask uint32, size int) (DomainID, error) {
	if f.fail {
		return 0, fmt.Errorf("out of shapes")
	}
	f.next++
	f.domains[f.next] = &fakeDomain{
		layer:      layer,
		mask:       mask,
		size:       size,
		disabled:   make([]bool, size),
		transforms: make([]Transform, size),
	}
	return f.next, nil
}

func (f *fakeCollision) FreeDomain(d DomainID) {
	delete(f.domains, d)
	f.freed = append(f.freed, d)
}

func (f *fakeCollision) SetShape(d DomainID, index int32, _ Shape, t Transform) {
	f.domains[d].transforms[index] = t
}

func (f *fakeCollision) SetShapeTransform(d DomainID, index int32, t Transform) {
	f.domains[d].transforms[index] = t
}

func (f *fakeCollision) SetShapeDisabled(d DomainID, index int32, disabled bool) {
	f.domains[d].disabled[index] = disabled
}

var testRect = cp.BB{L: -50, B: -50, R: 50, T: 50}

func testKit(name string) *Kit {
	return &Kit{
		Name:       name,
		Texture:    fakeTexture{8, 8},
		ActiveRect: testRect,
	}
}

func collidingKit(name string, layer, mask uint32) *Kit {
	k := testKit(name)
	k.CollisionsEnabled = true
	k.CollisionLayer = layer
	k.CollisionMask = mask
	k.CollisionShape = Shape{Radius: 4}
	return k
}

// mountOne mounts a single pool of kit and returns the manager.
func mountOne(kit *Kit, size int) *Manager {
	m := NewManager(newRecordCanvas(), newFakeCollision())
	env := NewEnvironment("test", testRect, EnvironmentEntry{Kit: kit, PoolSize: size})
	if err := m.Mount(env); err != nil {
		panic(err)
	}
	return m
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func nearVec(a, b cp.Vector) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}
