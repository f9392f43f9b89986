package ebitenhost

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/vellum"
)

var whiteSubImage *ebiten.Image

// solidSource returns a 1×1 white source image for DrawTriangles.
func solidSource() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// Layer is a vellum.DrawSink rasterizing into an offscreen ebiten image
// with ebiten's vector package. Points are transformed on the CPU so
// stroke widths stay in device pixels.
type Layer struct {
	AntiAlias bool

	img  *ebiten.Image
	m    vellum.Affine
	path *vector.Path

	vs []ebiten.Vertex
	is []uint16
}

// NewLayer creates a transparent w×h layer.
func NewLayer(w, h int) *Layer {
	return &Layer{
		AntiAlias: true,
		img:       ebiten.NewImage(w, h),
		m:         vellum.Identity,
		path:      &vector.Path{},
	}
}

// Image returns the layer's offscreen image.
func (l *Layer) Image() *ebiten.Image { return l.img }

// Resize replaces the offscreen image when the size changed.
func (l *Layer) Resize(w, h int) {
	b := l.img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return
	}
	l.img.Deallocate()
	l.img = ebiten.NewImage(w, h)
}

func (l *Layer) Clear()                       { l.img.Clear() }
func (l *Layer) BeginPath()                   { l.path = &vector.Path{} }
func (l *Layer) SetTransform(m vellum.Affine) { l.m = m }
func (l *Layer) ClosePath()                   { l.path.Close() }

func (l *Layer) MoveTo(x, y float64) {
	x, y = l.m.Apply(x, y)
	l.path.MoveTo(float32(x), float32(y))
}

func (l *Layer) LineTo(x, y float64) {
	x, y = l.m.Apply(x, y)
	l.path.LineTo(float32(x), float32(y))
}

func (l *Layer) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	c1x, c1y = l.m.Apply(c1x, c1y)
	c2x, c2y = l.m.Apply(c2x, c2y)
	x, y = l.m.Apply(x, y)
	l.path.CubicTo(float32(c1x), float32(c1y), float32(c2x), float32(c2y), float32(x), float32(y))
}

// Fill fills the current path with the even-odd rule.
func (l *Layer) Fill(c vellum.Color) error {
	l.vs, l.is = l.path.AppendVerticesAndIndicesForFilling(l.vs[:0], l.is[:0])
	l.draw(c, ebiten.FillRuleEvenOdd)
	return nil
}

// Stroke outlines the current path.
func (l *Layer) Stroke(c vellum.Color, width float64) error {
	opts := &vector.StrokeOptions{
		Width:    float32(width),
		LineJoin: vector.LineJoinMiter,
	}
	l.vs, l.is = l.path.AppendVerticesAndIndicesForStroke(l.vs[:0], l.is[:0], opts)
	l.draw(c, ebiten.FillRuleFillAll)
	return nil
}

func (l *Layer) draw(c vellum.Color, rule ebiten.FillRule) {
	if len(l.is) == 0 {
		return
	}
	for i := range l.vs {
		l.vs[i].SrcX = 1
		l.vs[i].SrcY = 1
		l.vs[i].ColorR = float32(c.R)
		l.vs[i].ColorG = float32(c.G)
		l.vs[i].ColorB = float32(c.B)
		l.vs[i].ColorA = float32(c.A)
	}
	l.img.DrawTriangles(l.vs, l.is, solidSource(), &ebiten.DrawTrianglesOptions{
		AntiAlias: l.AntiAlias,
		FillRule:  rule,
	})
}
