// Package render draws bullet items onto an ebiten screen.
package render

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/bullets/bullets"
)

// Item is the retained draw state of one canvas item.
type Item struct {
	ID        bullets.ItemID
	Parent    string
	Z         int
	Visible   bool
	Texture   bullets.Texture
	Transform bullets.Transform
	Modulate  bullets.Color
}

// Canvas is a retained-mode bullets.Canvas. Items live in a slice indexed by
// id-1; freed ids are recycled.
type Canvas struct {
	items []Item
	alive []bool
	free  []bullets.ItemID
	order []int
	dirty bool
}

var _ bullets.Canvas = (*Canvas)(nil)

func NewCanvas() *Canvas {
	return &Canvas{}
}

func (c *Canvas) CreateItem(parent string, z int) bullets.ItemID {
	if c == nil {
		return 0
	}
	item := Item{
		Parent:    parent,
		Z:         z,
		Transform: bullets.IdentityTransform(),
		Modulate:  bullets.White,
	}
	c.dirty = true
	if n := len(c.free); n > 0 {
		id := c.free[n-1]
		c.free = c.free[:n-1]
		item.ID = id
		c.items[id-1] = item
		c.alive[id-1] = true
		return id
	}
	item.ID = bullets.ItemID(len(c.items) + 1)
	c.items = append(c.items, item)
	c.alive = append(c.alive, true)
	return item.ID
}

func (c *Canvas) FreeItem(id bullets.ItemID) {
	it := c.item(id)
	if it == nil {
		return
	}
	*it = Item{}
	c.alive[id-1] = false
	c.free = append(c.free, id)
	c.dirty = true
}

func (c *Canvas) SetItemTexture(id bullets.ItemID, tex bullets.Texture) {
	if it := c.item(id); it != nil {
		it.Texture = tex
	}
}

func (c *Canvas) ClearItem(id bullets.ItemID) {
	if it := c.item(id); it != nil {
		it.Texture = nil
	}
}

func (c *Canvas) SetItemTransform(id bullets.ItemID, t bullets.Transform) {
	if it := c.item(id); it != nil {
		it.Transform = t
	}
}

func (c *Canvas) SetItemModulate(id bullets.ItemID, col bullets.Color) {
	if it := c.item(id); it != nil {
		it.Modulate = col
	}
}

func (c *Canvas) SetItemZIndex(id bullets.ItemID, z int) {
	if it := c.item(id); it != nil && it.Z != z {
		it.Z = z
		c.dirty = true
	}
}

func (c *Canvas) SetItemVisible(id bullets.ItemID, visible bool) {
	if it := c.item(id); it != nil {
		it.Visible = visible
	}
}

// Item returns a copy of the item's state.
func (c *Canvas) Item(id bullets.ItemID) (Item, bool) {
	it := c.item(id)
	if it == nil {
		return Item{}, false
	}
	return *it, true
}

// Len reports live items.
func (c *Canvas) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items) - len(c.free)
}

// Visible returns the ids of items that would be drawn, in draw order.
func (c *Canvas) Visible() []bullets.ItemID {
	if c == nil {
		return nil
	}
	var out []bullets.ItemID
	for _, i := range c.drawOrder() {
		if c.drawable(i) {
			out = append(out, c.items[i].ID)
		}
	}
	return out
}

// Draw renders visible textured items sorted by z then id.
func (c *Canvas) Draw(screen *ebiten.Image, camX, camY, zoom float64) {
	if c == nil || screen == nil {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	for _, i := range c.drawOrder() {
		if !c.drawable(i) {
			continue
		}
		it := &c.items[i]
		img, ok := it.Texture.(*ebiten.Image)
		if !ok || img == nil {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM = itemGeoM(it, camX, camY, zoom)
		m := it.Modulate
		op.ColorScale.Scale(float32(m.R*m.A), float32(m.G*m.A), float32(m.B*m.A), float32(m.A))
		screen.DrawImage(img, op)
	}
}

func itemGeoM(it *Item, camX, camY, zoom float64) ebiten.GeoM {
	var g ebiten.GeoM
	if it.Texture != nil {
		b := it.Texture.Bounds()
		g.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	}
	t := it.Transform
	sx := t.Scale.X
	if sx == 0 {
		sx = 1
	}
	sy := t.Scale.Y
	if sy == 0 {
		sy = 1
	}
	g.Scale(sx, sy)
	g.Rotate(t.Rotation)
	g.Scale(zoom, zoom)
	g.Translate((t.Origin.X-camX)*zoom, (t.Origin.Y-camY)*zoom)
	return g
}

func (c *Canvas) drawable(i int) bool {
	it := &c.items[i]
	return c.alive[i] && it.Visible && it.Texture != nil && it.Modulate.A > 0
}

func (c *Canvas) drawOrder() []int {
	if !c.dirty && len(c.order) == len(c.items) {
		return c.order
	}
	c.order = c.order[:0]
	for i := range c.items {
		c.order = append(c.order, i)
	}
	sort.SliceStable(c.order, func(a, b int) bool {
		ia, ib := &c.items[c.order[a]], &c.items[c.order[b]]
		if ia.Z != ib.Z {
			return ia.Z < ib.Z
		}
		return c.order[a] < c.order[b]
	})
	c.dirty = false
	return c.order
}

func (c *Canvas) item(id bullets.ItemID) *Item {
	if c == nil || id <= 0 || int(id) > len(c.items) || !c.alive[id-1] {
		return nil
	}
	return &c.items[id-1]
}
