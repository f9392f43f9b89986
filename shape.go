package vellum

import (
	"fmt"
	"math"
)

// ShapeKind enumerates the closed set of shape variants.
type ShapeKind uint8

const (
	ShapeRect    ShapeKind = iota // axis-aligned rectangle in local space
	ShapeEllipse                  // ellipse inscribed in its local box
	ShapePolygon                  // closed polygon, even-odd fill
)

// String returns the variant name.
func (k ShapeKind) String() string {
	switch k {
	case ShapeRect:
		return "rect"
	case ShapeEllipse:
		return "ellipse"
	case ShapePolygon:
		return "polygon"
	default:
		return fmt.Sprintf("ShapeKind(%d)", uint8(k))
	}
}

// ParseShapeKind maps a name produced by String back to its kind.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch s {
	case "rect":
		return ShapeRect, nil
	case "ellipse":
		return ShapeEllipse, nil
	case "polygon":
		return ShapePolygon, nil
	}
	return 0, illegalArgument("unknown shape kind %q", s)
}

// PathBuilder receives path construction calls.
type PathBuilder interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()
}

// Shape is the capability every shape variant implements. All coordinates
// are in the owning node's local space.
type Shape interface {
	Kind() ShapeKind
	// LocalBounds returns the local-space box enclosing the geometry.
	LocalBounds() AABB
	// Contains is the exact hit test (not a bounding-box test).
	Contains(x, y float64) bool
	// BuildPath emits the outline.
	BuildPath(p PathBuilder)
}

// NewShape creates a shape of the given kind filling a w×h box anchored at
// the local origin. Polygons are created as the box outline.
func NewShape(kind ShapeKind, w, h float64) Shape {
	switch kind {
	case ShapeRect:
		return Rect{Width: w, Height: h}
	case ShapeEllipse:
		return Ellipse{Width: w, Height: h}
	case ShapePolygon:
		return Polygon{Points: []Vec2{{0, 0}, {w, 0}, {w, h}, {0, h}}}
	default:
		panic(unknownVariant("ShapeKind", kind))
	}
}

// --- Rect ---

// Rect is a rectangle spanning (0,0)-(Width,Height) in local space.
type Rect struct {
	Width, Height float64
}

func (r Rect) Kind() ShapeKind { return ShapeRect }

func (r Rect) LocalBounds() AABB {
	return NewAABB(0, 0, r.Width, r.Height)
}

// Contains reports whether (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return r.LocalBounds().Contains(x, y)
}

func (r Rect) BuildPath(p PathBuilder) {
	p.MoveTo(0, 0)
	p.LineTo(r.Width, 0)
	p.LineTo(r.Width, r.Height)
	p.LineTo(0, r.Height)
	p.ClosePath()
}

// --- Ellipse ---

// kappa is the control-point distance for a quarter circle approximated by
// one cubic Bézier.
const kappa = 0.5522847498307936

// Ellipse is the ellipse inscribed in (0,0)-(Width,Height) in local space.
type Ellipse struct {
	Width, Height float64
}

func (e Ellipse) Kind() ShapeKind { return ShapeEllipse }

func (e Ellipse) LocalBounds() AABB {
	return NewAABB(0, 0, e.Width, e.Height)
}

// Contains reports whether (x, y) lies inside or on the ellipse.
func (e Ellipse) Contains(x, y float64) bool {
	rx, ry := math.Abs(e.Width)/2, math.Abs(e.Height)/2
	if rx == 0 || ry == 0 {
		return false
	}
	cx, cy := e.Width/2, e.Height/2
	dx := (x - cx) / rx
	dy := (y - cy) / ry
	return dx*dx+dy*dy <= 1
}

func (e Ellipse) BuildPath(p PathBuilder) {
	rx, ry := e.Width/2, e.Height/2
	cx, cy := rx, ry
	ox, oy := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.ClosePath()
}

// --- Polygon ---

// Polygon is a closed polygon in local space. Self-intersecting and concave
// outlines are hit-tested with the even-odd rule.
type Polygon struct {
	Points []Vec2
}

func (p Polygon) Kind() ShapeKind { return ShapePolygon }

func (p Polygon) LocalBounds() AABB {
	b := emptyAABB
	for _, pt := range p.Points {
		b = b.Union(AABB{pt.X, pt.Y, pt.X, pt.Y})
	}
	return b
}

// Contains reports whether (x, y) lies inside the polygon.
func (p Polygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := p.Points[i].X, p.Points[i].Y
		xj, yj := p.Points[j].X, p.Points[j].Y
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

func (p Polygon) BuildPath(b PathBuilder) {
	if len(p.Points) == 0 {
		return
	}
	b.MoveTo(p.Points[0].X, p.Points[0].Y)
	for _, pt := range p.Points[1:] {
		b.LineTo(pt.X, pt.Y)
	}
	b.ClosePath()
}
