// Package surface is a retained-mode scene graph for legend rendering.
//
// A scene is a tree of Groups holding Shapes (rects, paths, text). Groups
// carry an affine transform applied to everything below them; shapes carry
// their own transform which can be animated over time. Sinks in
// pkg/legend/sink walk the tree to produce SVG, PNG or JSON.
//
// Animation is lazy: nothing runs in the background. A shape's transform is
// interpolated whenever it is read, using the scene clock, and a finished
// animation is committed on the next read. Tests swap the clock with
// WithClock to step time deterministically.
package surface

import (
	"slices"
	"time"

	"github.com/gogpu/gg"

	"github.com/matzehuels/ramplegend/pkg/legend/layout"
)

// Clock returns the current time for animations.
type Clock func() time.Time

// Node is a Group or a Shape.
type Node interface {
	node()
}

// Option configures a canvas.
type Option func(*Group)

// WithClock sets the clock used by every animation in the scene.
func WithClock(c Clock) Option {
	return func(g *Group) { g.clock = c }
}

// Group is a container node with a transform.
type Group struct {
	ID    string
	Class string
	// Data is exported by sinks as data-* attributes.
	Data map[string]string

	parent    *Group
	nodes     []Node
	transform gg.Matrix
	clock     Clock
	detached  bool
}

func (*Group) node() {}

// NewCanvas creates a root group.
func NewCanvas(opts ...Option) *Group {
	g := &Group{transform: gg.Identity(), clock: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddGroup appends a child group.
func (g *Group) AddGroup() *Group {
	child := &Group{parent: g, transform: gg.Identity(), clock: g.clock}
	g.nodes = append(g.nodes, child)
	return child
}

// AddShape appends a shape and returns it.
func (g *Group) AddShape(kind Kind, attrs Attrs) *Shape {
	s := &Shape{Kind: kind, Attrs: attrs, group: g, matrix: gg.Identity()}
	g.nodes = append(g.nodes, s)
	return s
}

// Nodes returns the children in paint order.
func (g *Group) Nodes() []Node {
	return slices.Clone(g.nodes)
}

// Shapes returns the direct child shapes in paint order.
func (g *Group) Shapes() []*Shape {
	var out []*Shape
	for _, n := range g.nodes {
		if s, ok := n.(*Shape); ok {
			out = append(out, s)
		}
	}
	return out
}

// Groups returns the direct child groups.
func (g *Group) Groups() []*Group {
	var out []*Group
	for _, n := range g.nodes {
		if c, ok := n.(*Group); ok {
			out = append(out, c)
		}
	}
	return out
}

// Parent returns the parent group, or nil for a root or detached group.
func (g *Group) Parent() *Group { return g.parent }

// Clear removes all children but keeps the group usable.
func (g *Group) Clear() {
	for _, n := range g.nodes {
		switch c := n.(type) {
		case *Shape:
			c.anim = nil
			c.group = nil
		case *Group:
			c.parent = nil
			c.detached = true
		}
	}
	g.nodes = nil
}

// Remove detaches the group from its parent. A removed group keeps its
// children but is no longer reachable from the scene.
func (g *Group) Remove() {
	if g.parent != nil {
		g.parent.removeNode(g)
		g.parent = nil
	}
	g.detached = true
}

// Detached reports whether Remove has been called.
func (g *Group) Detached() bool { return g.detached }

func (g *Group) removeNode(n Node) {
	i := slices.Index(g.nodes, n)
	if i < 0 {
		return
	}
	g.nodes = slices.Delete(g.nodes, i, i+1)
	if s, ok := n.(*Shape); ok {
		s.group = nil
	}
}

// Transform returns the group's own transform.
func (g *Group) Transform() gg.Matrix { return g.transform }

// SetTransform replaces the group's transform.
func (g *Group) SetTransform(m gg.Matrix) { g.transform = m }

// Translate appends a translation to the current transform.
func (g *Group) Translate(x, y float64) {
	g.transform = g.transform.Multiply(gg.Translate(x, y))
}

// WorldTransform composes the transforms from the root down to g.
func (g *Group) WorldTransform() gg.Matrix {
	if g.parent == nil {
		return g.transform
	}
	return g.parent.WorldTransform().Multiply(g.transform)
}

// Now returns the scene clock's current time.
func (g *Group) Now() time.Time { return g.clock() }

// BBox returns the union of the children's boxes in the group's local
// coordinates (its own transform is not applied).
func (g *Group) BBox() layout.Rect {
	var box layout.Rect
	for _, n := range g.nodes {
		switch c := n.(type) {
		case *Shape:
			box = box.Union(c.BBox())
		case *Group:
			if len(c.nodes) == 0 {
				continue
			}
			box = box.Union(transformRect(c.transform, c.BBox()))
		}
	}
	return box
}
