// Package ggsink implements vellum draw sinks on top of the gogpu/gg
// software rasterizer, for headless rendering, snapshots and tests.
package ggsink

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"

	"github.com/gogpu/gg"
	"github.com/xfmoulet/qoi"

	"github.com/phanxgames/vellum"
)

// Layer is a vellum.DrawSink backed by its own gg context. Path points are
// mapped through the sink transform before they reach gg, so stroke widths
// stay in device pixels at every zoom.
type Layer struct {
	dc *gg.Context
	m  vellum.Affine
}

// NewLayer creates a transparent w×h layer.
func NewLayer(w, h int) *Layer {
	return &Layer{dc: gg.NewContext(w, h), m: vellum.Identity}
}

// Context returns the underlying gg context.
func (l *Layer) Context() *gg.Context { return l.dc }

// Image returns the layer's pixels.
func (l *Layer) Image() image.Image { return l.dc.Image() }

// Size returns the layer dimensions in pixels.
func (l *Layer) Size() (w, h int) { return l.dc.Width(), l.dc.Height() }

// Close releases the gg context.
func (l *Layer) Close() error { return l.dc.Close() }

func (l *Layer) Clear()                       { l.dc.Clear() }
func (l *Layer) BeginPath()                   { l.dc.ClearPath() }
func (l *Layer) SetTransform(m vellum.Affine) { l.m = m }
func (l *Layer) ClosePath()                   { l.dc.ClosePath() }

func (l *Layer) MoveTo(x, y float64) { l.dc.MoveTo(l.m.Apply(x, y)) }
func (l *Layer) LineTo(x, y float64) { l.dc.LineTo(l.m.Apply(x, y)) }

func (l *Layer) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	c1x, c1y = l.m.Apply(c1x, c1y)
	c2x, c2y = l.m.Apply(c2x, c2y)
	x, y = l.m.Apply(x, y)
	l.dc.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

// Fill fills the current path, keeping it for a following Stroke.
func (l *Layer) Fill(c vellum.Color) error {
	l.dc.SetRGBA(c.R, c.G, c.B, c.A)
	return l.dc.FillPreserve()
}

// Stroke outlines the current path with a width in device pixels.
func (l *Layer) Stroke(c vellum.Color, width float64) error {
	l.dc.SetRGBA(c.R, c.G, c.B, c.A)
	l.dc.SetLineWidth(width)
	return l.dc.StrokePreserve()
}

// Compositor flattens layers bottom to top over a background color.
type Compositor struct {
	Background vellum.Color
	layers     []*Layer
}

// NewCompositor creates a compositor over the given layers, bottom first.
func NewCompositor(background vellum.Color, layers ...*Layer) *Compositor {
	return &Compositor{Background: background, layers: layers}
}

// Composite draws every layer into a fresh context of the bottom layer's
// size. The caller owns the returned context and must Close it.
func (c *Compositor) Composite() (*gg.Context, error) {
	if len(c.layers) == 0 {
		return nil, fmt.Errorf("ggsink: nothing to composite")
	}
	w, h := c.layers[0].Size()
	out := gg.NewContext(w, h)
	bg := c.Background
	out.ClearWithColor(gg.RGBA{R: bg.R, G: bg.G, B: bg.B, A: bg.A})
	for _, l := range c.layers {
		out.DrawImage(gg.ImageBufFromImage(l.Image()), 0, 0)
	}
	return out, nil
}

// Image returns a copy of the composited pixels.
func (c *Compositor) Image() (*image.RGBA, error) {
	out, err := c.Composite()
	if err != nil {
		return nil, err
	}
	defer out.Close()
	src := out.Image()
	img := image.NewRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	return img, nil
}

// EncodePNG writes the composited image as PNG.
func (c *Compositor) EncodePNG(w io.Writer) error {
	out, err := c.Composite()
	if err != nil {
		return err
	}
	defer out.Close()
	return out.EncodePNG(w)
}

// EncodeQOI writes the composited image in the QOI format.
func (c *Compositor) EncodeQOI(w io.Writer) error {
	img, err := c.Image()
	if err != nil {
		return err
	}
	return qoi.Encode(w, img)
}

// SavePNG writes the composited image to path as PNG.
func (c *Compositor) SavePNG(path string) error {
	out, err := c.Composite()
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.SavePNG(path); err != nil {
		return fmt.Errorf("ggsink: save %s: %w", path, err)
	}
	return nil
}

// SaveQOI writes the composited image to path in the QOI format.
func (c *Compositor) SaveQOI(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ggsink: save %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("ggsink: save %s: %w", path, cerr)
		}
	}()
	if err := c.EncodeQOI(f); err != nil {
		return fmt.Errorf("ggsink: save %s: %w", path, err)
	}
	return nil
}
