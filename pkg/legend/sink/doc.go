// Package sink exports a rendered scene to SVG, PNG, or JSON.
//
// Every sink walks a surface.Group tree from its root and reads each shape's
// transform at the moment of export, so a legend anchor caught mid-animation
// is written where it currently is.
//
// # SVG
//
// [RenderSVG] keeps the group structure: every group becomes a <g> with its
// transform, gradients are collected into <defs>, and data attributes are
// written as data-* attributes. [WithInteraction] embeds a small script that
// moves each legend's anchor when a heatmap cell or legend label is hovered,
// using the same ratio mapping and clamping as the Go legend and a 400ms
// linear transition.
//
// # PNG
//
// [RenderPNG] rasterizes the scene with gogpu/gg. Coordinates are resolved
// to absolute pixels before drawing and labels use the Go Regular font.
//
// # JSON
//
// [RenderJSON] flattens the scene into a list of shapes with absolute
// transforms and bounding boxes, plus one entry per legend group.
package sink

import (
	"math"
	"strconv"

	"github.com/gogpu/gg"

	"github.com/matzehuels/ramplegend/pkg/legend/surface"
)

// placed is a shape with its absolute transform.
type placed struct {
	shape *surface.Shape
	world gg.Matrix
	owner *surface.Group
}

// flatten lists every shape under root in paint order.
func flatten(root *surface.Group) []placed {
	var out []placed
	var walk func(g *surface.Group, parent gg.Matrix)
	walk = func(g *surface.Group, parent gg.Matrix) {
		m := parent.Multiply(g.Transform())
		for _, n := range g.Nodes() {
			switch c := n.(type) {
			case *surface.Shape:
				out = append(out, placed{shape: c, world: m.Multiply(c.Matrix()), owner: g})
			case *surface.Group:
				walk(c, m)
			}
		}
	}
	walk(root, gg.Identity())
	return out
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
