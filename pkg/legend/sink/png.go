package sink

import (
	"bytes"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/legend/surface"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
}

// WithScale sets the PNG scale factor (default 1.0).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground fills the image before drawing. The default is white.
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

func labelFont() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

// RenderPNG rasterizes the scene under root into a width x height image.
func RenderPNG(root *surface.Group, width, height float64, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %v", r.scale)
	}
	w, h := int(math.Ceil(width*r.scale)), int(math.Ceil(height*r.scale))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png size must be positive, got %dx%d", w, h)
	}

	src, err := labelFont()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load label font")
	}

	ctx := gg.NewContext(w, h)
	defer ctx.Close()
	if r.background != "" {
		ctx.ClearWithColor(gg.Hex(r.background))
	}

	scale := gg.Scale(r.scale, r.scale)
	faces := make(map[float64]text.Face)
	for _, p := range flatten(root) {
		m := scale.Multiply(p.world)
		a := p.shape.Attrs
		switch p.shape.Kind {
		case surface.KindRect:
			err = drawRect(ctx, m, a)
		case surface.KindPath:
			err = drawPath(ctx, m, a)
		default:
			size := a.FontSize * r.scale
			face, ok := faces[size]
			if !ok {
				face = src.Face(size)
				faces[size] = face
			}
			drawText(ctx, m, a, face)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "draw %s", p.shape.Kind)
		}
	}

	_ = ctx.FlushGPU()
	var buf bytes.Buffer
	if err := ctx.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func color(hex string, opacity float64) gg.RGBA {
	c := gg.Hex(hex)
	c.A *= opacity
	return c
}

func pt(m gg.Matrix, x, y float64) gg.Point {
	return m.TransformPoint(gg.Point{X: x, Y: y})
}

func drawRect(ctx *gg.Context, m gg.Matrix, a surface.Attrs) error {
	corners := [4]gg.Point{
		pt(m, a.X, a.Y), pt(m, a.X+a.Width, a.Y),
		pt(m, a.X+a.Width, a.Y+a.Height), pt(m, a.X, a.Y+a.Height),
	}
	trace := func() {
		ctx.MoveTo(corners[0].X, corners[0].Y)
		for _, c := range corners[1:] {
			ctx.LineTo(c.X, c.Y)
		}
		ctx.ClosePath()
	}
	op := a.EffectiveOpacity()

	switch {
	case a.Gradient != nil:
		g := a.Gradient
		from := pt(m, a.X+g.X1*a.Width, a.Y+g.Y1*a.Height)
		to := pt(m, a.X+g.X2*a.Width, a.Y+g.Y2*a.Height)
		brush := gg.NewLinearGradientBrush(from.X, from.Y, to.X, to.Y)
		for _, s := range g.Stops {
			brush.AddColorStop(s.Offset, color(s.Color, op))
		}
		ctx.SetFillBrush(brush)
	case a.Fill != "":
		ctx.SetFillBrush(gg.Solid(color(a.Fill, op)))
	default:
		return strokeOnly(ctx, a, trace)
	}
	trace()
	if err := ctx.Fill(); err != nil {
		return err
	}
	return strokeOnly(ctx, a, trace)
}

func drawPath(ctx *gg.Context, m gg.Matrix, a surface.Attrs) error {
	trace := func() {
		for _, seg := range a.Path {
			p := pt(m, seg.X, seg.Y)
			switch seg.Op {
			case 'M':
				ctx.MoveTo(p.X, p.Y)
			case 'L':
				ctx.LineTo(p.X, p.Y)
			case 'Z':
				ctx.ClosePath()
			}
		}
	}
	if a.Fill != "" {
		ctx.SetFillBrush(gg.Solid(color(a.Fill, a.EffectiveOpacity())))
		trace()
		if err := ctx.Fill(); err != nil {
			return err
		}
	}
	return strokeOnly(ctx, a, trace)
}

func strokeOnly(ctx *gg.Context, a surface.Attrs, trace func()) error {
	if a.Stroke == "" || a.LineWidth <= 0 {
		return nil
	}
	ctx.SetStrokeBrush(gg.Solid(color(a.Stroke, a.EffectiveOpacity())))
	ctx.SetLineWidth(a.LineWidth)
	trace()
	return ctx.Stroke()
}

func drawText(ctx *gg.Context, m gg.Matrix, a surface.Attrs, face text.Face) {
	fill := a.Fill
	if fill == "" {
		fill = "#000000"
	}
	c := color(fill, a.EffectiveOpacity())
	ctx.SetRGBA(c.R, c.G, c.B, c.A)
	ctx.SetFont(face)

	var ax, ay float64
	switch a.TextAlign {
	case "center":
		ax = 0.5
	case "right":
		ax = 1
	}
	switch a.TextBaseline {
	case "middle":
		ay = 0.5
	case "top":
		ay = 1
	}
	p := pt(m, a.X, a.Y)
	ctx.DrawStringAnchored(a.Text, p.X, p.Y, ax, ay)
}
