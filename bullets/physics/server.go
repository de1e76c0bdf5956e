// Package physics backs the bullet collision domains with a Chipmunk space.
// Every slot of a domain gets a kinematic body carrying one sensor shape whose
// filter is switched off while the slot is free.
package physics

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/bullets/bullets"
)

const (
	collisionTypeBullet cp.CollisionType = iota + 1
	collisionTypeTarget
)

var (
	ErrBadSize  = errors.New("physics: domain size must be positive")
	ErrCapacity = errors.New("physics: shape budget exhausted")
)

// Contact is a bullet shape touching something else in the space.
type Contact struct {
	Domain bullets.DomainID
	Shape  int32
	Other  *cp.Shape
}

type slotRef struct {
	domain bullets.DomainID
	index  int32
}

type domain struct {
	layer    uint32
	mask     uint32
	bodies   []*cp.Body
	shapes   []*cp.Shape
	disabled []bool
}

// Server implements bullets.CollisionServer.
type Server struct {
	space     *cp.Space
	next      bullets.DomainID
	domains   map[bullets.DomainID]*domain
	slots     map[*cp.Shape]slotRef
	contacts  []Contact
	maxShapes int
	shapes    int
}

// NewServer wraps space, creating one when nil. maxShapes caps the number of
// bullet shapes across all domains; zero means unlimited.
func NewServer(space *cp.Space, maxShapes int) *Server {
	if space == nil {
		space = cp.NewSpace()
	}
	s := &Server{
		space:     space,
		domains:   make(map[bullets.DomainID]*domain),
		slots:     make(map[*cp.Shape]slotRef),
		maxShapes: maxShapes,
	}
	s.setupHandlers()
	return s
}

func (s *Server) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

func (s *Server) setupHandlers() {
	h := s.space.NewWildcardCollisionHandler(collisionTypeBullet)
	h.UserData = s
	h.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		srv, ok := userData.(*Server)
		if !ok || srv == nil {
			return true
		}
		a, b := arb.Shapes()
		if ref, ok := srv.slots[a]; ok && !srv.isDisabled(ref) {
			srv.contacts = append(srv.contacts, Contact{Domain: ref.domain, Shape: ref.index, Other: b})
		} else if ref, ok := srv.slots[b]; ok && !srv.isDisabled(ref) {
			srv.contacts = append(srv.contacts, Contact{Domain: ref.domain, Shape: ref.index, Other: a})
		}
		return true
	}
}

func (s *Server) isDisabled(ref slotRef) bool {
	d := s.domains[ref.domain]
	return d == nil || d.disabled[ref.index]
}

func (s *Server) CreateDomain(layer, mask uint32, size int) (bullets.DomainID, error) {
	if s == nil {
		return 0, ErrCapacity
	}
	if size <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if s.maxShapes > 0 && s.shapes+size > s.maxShapes {
		return 0, fmt.Errorf("%w: need %d, have %d", ErrCapacity, size, s.maxShapes-s.shapes)
	}
	s.next++
	s.domains[s.next] = &domain{
		layer:    layer,
		mask:     mask,
		bodies:   make([]*cp.Body, size),
		shapes:   make([]*cp.Shape, size),
		disabled: make([]bool, size),
	}
	s.shapes += size
	return s.next, nil
}

func (s *Server) FreeDomain(id bullets.DomainID) {
	if s == nil {
		return
	}
	d, ok := s.domains[id]
	if !ok {
		return
	}
	for i := range d.shapes {
		s.removeSlot(d, i)
	}
	s.shapes -= len(d.shapes)
	delete(s.domains, id)
}

func (s *Server) removeSlot(d *domain, i int) {
	if shape := d.shapes[i]; shape != nil {
		delete(s.slots, shape)
		s.space.RemoveShape(shape)
		d.shapes[i] = nil
	}
	if body := d.bodies[i]; body != nil {
		s.space.RemoveBody(body)
		d.bodies[i] = nil
	}
}

func (s *Server) slot(id bullets.DomainID, index int32) (*domain, bool) {
	if s == nil {
		return nil, false
	}
	d, ok := s.domains[id]
	if !ok || index < 0 || int(index) >= len(d.shapes) {
		return nil, false
	}
	return d, true
}

// SetShape installs the collision template for one slot, replacing any
// shape it had.
func (s *Server) SetShape(id bullets.DomainID, index int32, shape bullets.Shape, t bullets.Transform) {
	d, ok := s.slot(id, index)
	if !ok || !shape.Valid() {
		return
	}
	s.removeSlot(d, int(index))

	body := cp.NewKinematicBody()
	body.SetPosition(t.Origin)
	body.SetAngle(t.Rotation)
	var cs *cp.Shape
	if shape.IsCircle() {
		cs = cp.NewCircle(body, shape.Radius, cp.Vector{})
	} else {
		cs = cp.NewBox(body, shape.Width, shape.Height, 0)
	}
	cs.SetSensor(true)
	cs.SetCollisionType(collisionTypeBullet)
	cs.SetFilter(d.filter(d.disabled[index]))

	s.space.AddBody(body)
	s.space.AddShape(cs)
	d.bodies[index] = body
	d.shapes[index] = cs
	s.slots[cs] = slotRef{domain: id, index: index}
}

func (s *Server) SetShapeTransform(id bullets.DomainID, index int32, t bullets.Transform) {
	d, ok := s.slot(id, index)
	if !ok || d.bodies[index] == nil {
		return
	}
	body := d.bodies[index]
	body.SetPosition(t.Origin)
	body.SetAngle(t.Rotation)
}

func (s *Server) SetShapeDisabled(id bullets.DomainID, index int32, disabled bool) {
	d, ok := s.slot(id, index)
	if !ok {
		return
	}
	d.disabled[index] = disabled
	if shape := d.shapes[index]; shape != nil {
		shape.SetFilter(d.filter(disabled))
	}
}

func (d *domain) filter(disabled bool) cp.ShapeFilter {
	if disabled {
		return cp.SHAPE_FILTER_NONE
	}
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: uint(d.layer), Mask: uint(d.mask)}
}

// AddTarget puts a dynamic circle in the space that bullets of domains whose
// mask includes layer will report contacts with.
func (s *Server) AddTarget(pos cp.Vector, radius float64, layer, mask uint32) *cp.Shape {
	if s == nil {
		return nil
	}
	body := cp.NewBody(1, cp.MomentForCircle(1, 0, radius, cp.Vector{}))
	body.SetPosition(pos)
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetCollisionType(collisionTypeTarget)
	shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: uint(layer), Mask: uint(mask)})
	s.space.AddBody(body)
	s.space.AddShape(shape)
	return shape
}

func (s *Server) RemoveTarget(shape *cp.Shape) {
	if s == nil || shape == nil {
		return
	}
	body := shape.Body()
	s.space.RemoveShape(shape)
	if body != nil {
		s.space.RemoveBody(body)
	}
}

func (s *Server) Step(dt float64) {
	if s == nil || dt <= 0 {
		return
	}
	s.space.Step(dt)
}

// Contacts returns the contacts gathered since the last call.
func (s *Server) Contacts() []Contact {
	if s == nil || len(s.contacts) == 0 {
		return nil
	}
	out := s.contacts
	s.contacts = nil
	return out
}

// Shape returns the Chipmunk shape of a slot, nil when unset.
func (s *Server) Shape(id bullets.DomainID, index int32) *cp.Shape {
	d, ok := s.slot(id, index)
	if !ok {
		return nil
	}
	return d.shapes[index]
}

func (s *Server) Domains() int {
	if s == nil {
		return 0
	}
	return len(s.domains)
}
