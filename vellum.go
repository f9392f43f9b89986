package vellum

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Commonly used colors.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// Style is the minimal paint description attached to a shape node. Zero
// alpha disables the corresponding pass.
type Style struct {
	Fill        Color
	Stroke      Color
	StrokeWidth float64
}

// DefaultStyle is applied to nodes created by the interaction modes.
var DefaultStyle = Style{
	Fill:        Color{0.85, 0.88, 0.95, 1},
	Stroke:      Color{0.2, 0.25, 0.35, 1},
	StrokeWidth: 1,
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// AABB is an axis-aligned bounding box [MinX,MinY]-[MaxX,MaxY]. The
// coordinate system has its origin at the top-left, with Y increasing
// downward. Edges are inclusive.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewAABB returns the box spanned by two opposite corners in any order.
func NewAABB(x0, y0, x1, y1 float64) AABB {
	return AABB{
		MinX: math.Min(x0, x1),
		MinY: math.Min(y0, y1),
		MaxX: math.Max(x0, x1),
		MaxY: math.Max(y0, y1),
	}
}

// emptyAABB is the identity for Union: it contains nothing and extends to
// whatever it is unioned with.
var emptyAABB = AABB{
	MinX: math.Inf(1), MinY: math.Inf(1),
	MaxX: math.Inf(-1), MaxY: math.Inf(-1),
}

// Valid reports whether the box is well formed: finite or infinite bounds
// with min <= max on both axes and no NaN.
func (b AABB) Valid() bool {
	return b.MinX <= b.MaxX && b.MinY <= b.MaxY
}

// Empty reports whether the box encloses nothing (the Union identity or any
// malformed box).
func (b AABB) Empty() bool {
	return !b.Valid()
}

// Width returns MaxX-MinX.
func (b AABB) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY-MinY.
func (b AABB) Height() float64 { return b.MaxY - b.MinY }

// Area returns the box area. Malformed boxes have zero area.
func (b AABB) Area() float64 {
	if !b.Valid() {
		return 0
	}
	return b.Width() * b.Height()
}

// Margin returns half the perimeter.
func (b AABB) Margin() float64 {
	if !b.Valid() {
		return 0
	}
	return b.Width() + b.Height()
}

// Contains reports whether the point (x, y) lies inside the box.
func (b AABB) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// ContainsAABB reports whether other lies entirely inside b.
func (b AABB) ContainsAABB(other AABB) bool {
	return b.MinX <= other.MinX && b.MinY <= other.MinY &&
		other.MaxX <= b.MaxX && other.MaxY <= b.MaxY
}

// Intersects reports whether b and other overlap.
// Adjacent boxes (sharing only an edge) are considered intersecting.
func (b AABB) Intersects(other AABB) bool {
	return b.MinX <= other.MaxX && b.MaxX >= other.MinX &&
		b.MinY <= other.MaxY && b.MaxY >= other.MinY
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		MinX: math.Min(b.MinX, other.MinX),
		MinY: math.Min(b.MinY, other.MinY),
		MaxX: math.Max(b.MaxX, other.MaxX),
		MaxY: math.Max(b.MaxY, other.MaxY),
	}
}

// Intersection returns the overlapping area of two boxes, or 0.
func (b AABB) Intersection(other AABB) float64 {
	minX := math.Max(b.MinX, other.MinX)
	minY := math.Max(b.MinY, other.MinY)
	maxX := math.Min(b.MaxX, other.MaxX)
	maxY := math.Min(b.MaxY, other.MaxY)
	return math.Max(0, maxX-minX) * math.Max(0, maxY-minY)
}

// Expand grows the box by d on every side.
func (b AABB) Expand(d float64) AABB {
	return AABB{b.MinX - d, b.MinY - d, b.MaxX + d, b.MaxY + d}
}

// Center returns the center point of the box.
func (b AABB) Center() (float64, float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// Buttons is a bitmask of pressed mouse buttons.
type Buttons uint8

const (
	ButtonPrimary   Buttons = 1 << MouseButtonLeft
	ButtonSecondary Buttons = 1 << MouseButtonRight
	ButtonTertiary  Buttons = 1 << MouseButtonMiddle
)

// Has reports whether button b is pressed.
func (bs Buttons) Has(b MouseButton) bool {
	return bs&(1<<b) != 0
}

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
// ModSpace is reported while the space bar is held, the conventional
// hand-tool trigger in design editors.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
	ModSpace                          // Space bar held
)
