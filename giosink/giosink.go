// Package giosink implements a vellum draw sink that records Gio
// operations, so an editor can be embedded in a Gio window.
package giosink

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/phanxgames/vellum"
)

type verb uint8

const (
	verbMove verb = iota
	verbLine
	verbCube
	verbClose
)

type segment struct {
	verb verb
	pts  [3]f32.Point
}

// Layer is a vellum.DrawSink recording into its own op.Ops. The recording
// survives until the next Clear, so a clean render part costs nothing but
// replaying Call each Gio frame:
//
//	layer.Call().Add(gtx.Ops)
type Layer struct {
	ops  op.Ops
	m    vellum.Affine
	path []segment

	macro     op.MacroOp
	call      op.CallOp
	recording bool
}

// NewLayer creates an empty layer.
func NewLayer() *Layer {
	l := &Layer{m: vellum.Identity}
	l.Clear()
	return l
}

// Call returns the recorded operations. Drawing after Call and before the
// next Clear is not allowed.
func (l *Layer) Call() op.CallOp {
	if l.recording {
		l.call = l.macro.Stop()
		l.recording = false
	}
	return l.call
}

// Clear drops the recording and starts a new one.
func (l *Layer) Clear() {
	l.ops.Reset()
	l.path = l.path[:0]
	l.macro = op.Record(&l.ops)
	l.call = op.CallOp{}
	l.recording = true
}

func (l *Layer) BeginPath()                   { l.path = l.path[:0] }
func (l *Layer) SetTransform(m vellum.Affine) { l.m = m }

func (l *Layer) MoveTo(x, y float64) {
	l.path = append(l.path, segment{verb: verbMove, pts: [3]f32.Point{l.point(x, y)}})
}

func (l *Layer) LineTo(x, y float64) {
	l.path = append(l.path, segment{verb: verbLine, pts: [3]f32.Point{l.point(x, y)}})
}

func (l *Layer) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	l.path = append(l.path, segment{verb: verbCube, pts: [3]f32.Point{
		l.point(c1x, c1y), l.point(c2x, c2y), l.point(x, y),
	}})
}

func (l *Layer) ClosePath() {
	l.path = append(l.path, segment{verb: verbClose})
}

// Fill paints the interior of the current path.
func (l *Layer) Fill(c vellum.Color) error {
	stack := clip.Outline{Path: l.pathSpec()}.Op().Push(&l.ops)
	paint.ColorOp{Color: nrgba(c)}.Add(&l.ops)
	paint.PaintOp{}.Add(&l.ops)
	stack.Pop()
	return nil
}

// Stroke outlines the current path with a width in device pixels.
func (l *Layer) Stroke(c vellum.Color, width float64) error {
	stack := clip.Stroke{Path: l.pathSpec(), Width: float32(width)}.Op().Push(&l.ops)
	paint.ColorOp{Color: nrgba(c)}.Add(&l.ops)
	paint.PaintOp{}.Add(&l.ops)
	stack.Pop()
	return nil
}

// Segments returns the number of recorded path segments.
func (l *Layer) Segments() int {
	return len(l.path)
}

func (l *Layer) point(x, y float64) f32.Point {
	x, y = l.m.Apply(x, y)
	return f32.Point{X: float32(x), Y: float32(y)}
}

// pathSpec replays the current path into a clip path.
func (l *Layer) pathSpec() clip.PathSpec {
	var p clip.Path
	p.Begin(&l.ops)
	for _, s := range l.path {
		switch s.verb {
		case verbMove:
			p.MoveTo(s.pts[0])
		case verbLine:
			p.LineTo(s.pts[0])
		case verbCube:
			p.CubeTo(s.pts[0], s.pts[1], s.pts[2])
		case verbClose:
			p.Close()
		}
	}
	return p.End()
}

func nrgba(c vellum.Color) color.NRGBA {
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
