package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"maps"
	"slices"

	"github.com/gogpu/gg"

	"github.com/matzehuels/ramplegend/pkg/legend/surface"
)

const anchorInteractionCSS = `
    .legend-anchor { transition: transform 0.4s linear; }
    .cell, .legend-label { cursor: crosshair; }`

const anchorInteractionJS = `
    document.querySelectorAll('g.legend').forEach(lg => {
      const min = parseFloat(lg.dataset.min), max = parseFloat(lg.dataset.max);
      const height = parseFloat(lg.dataset.height);
      const overflow = lg.dataset.overflow === 'true';
      const trigger = lg.dataset.trigger || 'mousemove';
      const field = lg.dataset.field || 'value';
      const anchor = lg.querySelector('.legend-anchor');
      if (!anchor) return;
      function move(v) {
        if (isNaN(v)) return;
        let ratio = max === min ? 0 : (v - min) / (max - min);
        if (!overflow) ratio = Math.min(1, Math.max(0, ratio));
        anchor.style.transform = 'translate(0px, ' + (height * ratio) + 'px)';
      }
      document.querySelectorAll('.cell').forEach(el => el.addEventListener(trigger, () => move(parseFloat(el.getAttribute('data-' + field)))));
      lg.querySelectorAll('.legend-label').forEach(el => el.addEventListener(trigger, () => move(parseFloat(el.dataset.value))));
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	interaction bool
	background  string
	title       string
}

// WithInteraction embeds the anchor-tracking script and styles.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interaction = true } }

// WithBackground fills the frame before drawing.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTitle sets the document title.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG renders the scene under root into a width x height frame.
func RenderSVG(root *surface.Group, width, height float64, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(width), num(height), num(width), num(height))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}

	renderDefs(&buf, root)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="%s" height="%s" fill="%s"/>`+"\n", num(width), num(height), escapeXML(r.background))
	}

	if m := root.Transform(); !m.IsIdentity() {
		fmt.Fprintf(&buf, `  <g transform="%s">`+"\n", svgTransform(m))
		renderChildren(&buf, root, 2)
		buf.WriteString("  </g>\n")
	} else {
		renderChildren(&buf, root, 1)
	}

	if r.interaction {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", anchorInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", anchorInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, root *surface.Group) {
	seen := make(map[string]bool)
	var grads []*surface.Gradient
	for _, p := range flatten(root) {
		g := p.shape.Attrs.Gradient
		if g == nil || seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		grads = append(grads, g)
	}
	if len(grads) == 0 {
		return
	}

	buf.WriteString("  <defs>\n")
	for _, g := range grads {
		fmt.Fprintf(buf, `    <linearGradient id="%s" x1="%s" y1="%s" x2="%s" y2="%s">`+"\n",
			escapeXML(g.ID), num(g.X1), num(g.Y1), num(g.X2), num(g.Y2))
		for _, s := range g.Stops {
			fmt.Fprintf(buf, `      <stop offset="%s" stop-color="%s"/>`+"\n", num(s.Offset), escapeXML(s.Color))
		}
		buf.WriteString("    </linearGradient>\n")
	}
	buf.WriteString("  </defs>\n")
}

func renderChildren(buf *bytes.Buffer, g *surface.Group, depth int) {
	for _, n := range g.Nodes() {
		switch c := n.(type) {
		case *surface.Shape:
			renderShape(buf, c, depth)
		case *surface.Group:
			renderGroup(buf, c, depth)
		}
	}
}

func renderGroup(buf *bytes.Buffer, g *surface.Group, depth int) {
	indent(buf, depth)
	buf.WriteString("<g")
	attr(buf, "id", g.ID)
	attr(buf, "class", g.Class)
	if m := g.Transform(); !m.IsIdentity() {
		attr(buf, "transform", svgTransform(m))
	}
	dataAttrs(buf, g.Data)
	buf.WriteString(">\n")
	renderChildren(buf, g, depth+1)
	indent(buf, depth)
	buf.WriteString("</g>\n")
}

func renderShape(buf *bytes.Buffer, s *surface.Shape, depth int) {
	a := s.Attrs
	indent(buf, depth)
	switch s.Kind {
	case surface.KindRect:
		buf.WriteString("<rect")
		attr(buf, "x", num(a.X))
		attr(buf, "y", num(a.Y))
		attr(buf, "width", num(a.Width))
		attr(buf, "height", num(a.Height))
	case surface.KindPath:
		buf.WriteString("<path")
		attr(buf, "d", pathData(a.Path))
	default:
		buf.WriteString("<text")
		attr(buf, "x", num(a.X))
		attr(buf, "y", num(a.Y))
		attr(buf, "font-family", "sans-serif")
		attr(buf, "font-size", num(a.FontSize))
		attr(buf, "text-anchor", textAnchor(a.TextAlign))
		attr(buf, "dominant-baseline", dominantBaseline(a.TextBaseline))
	}

	paintAttrs(buf, s.Kind, a)
	if m := s.Matrix(); !m.IsIdentity() {
		attr(buf, "transform", svgTransform(m))
	}
	attr(buf, "class", a.Class)
	dataAttrs(buf, a.Data)

	if s.Kind == surface.KindText {
		fmt.Fprintf(buf, ">%s</text>\n", escapeXML(a.Text))
		return
	}
	buf.WriteString("/>\n")
}

func paintAttrs(buf *bytes.Buffer, kind surface.Kind, a surface.Attrs) {
	switch {
	case a.Gradient != nil:
		attr(buf, "fill", "url(#"+a.Gradient.ID+")")
	case a.Fill != "":
		attr(buf, "fill", a.Fill)
	case kind != surface.KindText:
		attr(buf, "fill", "none")
	}
	if a.Stroke != "" && a.LineWidth > 0 {
		attr(buf, "stroke", a.Stroke)
		attr(buf, "stroke-width", num(a.LineWidth))
	}
	if op := a.EffectiveOpacity(); op != 1 {
		attr(buf, "opacity", num(op))
	}
}

func pathData(path []surface.Segment) string {
	var buf bytes.Buffer
	for i, seg := range path {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if seg.Op == 'Z' {
			buf.WriteByte('Z')
			continue
		}
		fmt.Fprintf(&buf, "%c%s,%s", seg.Op, num(seg.X), num(seg.Y))
	}
	return buf.String()
}

func svgTransform(m gg.Matrix) string {
	if m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1 {
		return fmt.Sprintf("translate(%s,%s)", num(m.C), num(m.F))
	}
	return fmt.Sprintf("matrix(%s %s %s %s %s %s)", num(m.A), num(m.D), num(m.B), num(m.E), num(m.C), num(m.F))
}

func textAnchor(align string) string {
	switch align {
	case "center":
		return "middle"
	case "right":
		return "end"
	default:
		return "start"
	}
}

func dominantBaseline(baseline string) string {
	switch baseline {
	case "middle":
		return "middle"
	case "top":
		return "hanging"
	default:
		return "alphabetic"
	}
}

func dataAttrs(buf *bytes.Buffer, data map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(data)) {
		attr(buf, "data-"+k, data[k])
	}
}

func attr(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, ` %s="%s"`, name, escapeXML(value))
}

func indent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString("  ")
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
