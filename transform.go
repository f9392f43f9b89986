package vellum

import "math"

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// Identity is the identity affine matrix.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Translation returns a matrix translating by (tx, ty).
func Translation(tx, ty float64) Affine {
	return Affine{1, 0, 0, 1, tx, ty}
}

// Multiply returns m * c (c is applied first).
func (m Affine) Multiply(c Affine) Affine {
	return Affine{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Determinant returns a*d - c*b.
func (m Affine) Determinant() float64 {
	return m[0]*m[3] - m[2]*m[1]
}

// Invertible reports whether the matrix has a finite, non-zero determinant.
func (m Affine) Invertible() bool {
	det := m.Determinant()
	return det != 0 && !math.IsNaN(det) && !math.IsInf(det, 0)
}

// Invert returns the inverse matrix.
// Returns Identity if the matrix is singular; check Invertible first when
// that matters.
func (m Affine) Invert() Affine {
	if !m.Invertible() {
		return Identity
	}
	det := m.Determinant()
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms a point.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyVector transforms a direction, ignoring translation.
func (m Affine) ApplyVector(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y, m[1]*x + m[3]*y
}

// TransformAABB returns the axis-aligned box enclosing the four transformed
// corners of b. Empty boxes stay empty.
func (m Affine) TransformAABB(b AABB) AABB {
	if b.Empty() {
		return emptyAABB
	}
	x0, y0 := m.Apply(b.MinX, b.MinY)
	x1, y1 := m.Apply(b.MaxX, b.MinY)
	x2, y2 := m.Apply(b.MaxX, b.MaxY)
	x3, y3 := m.Apply(b.MinX, b.MaxY)
	return AABB{
		MinX: math.Min(math.Min(x0, x1), math.Min(x2, x3)),
		MinY: math.Min(math.Min(y0, y1), math.Min(y2, y3)),
		MaxX: math.Max(math.Max(x0, x1), math.Max(x2, x3)),
		MaxY: math.Max(math.Max(y0, y1), math.Max(y2, y3)),
	}
}

// computeLocalTransform computes the local affine matrix from the node's
// transform properties.
//
// Composition order:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Rotate -> Translate(X, Y)
func computeLocalTransform(n *Node) Affine {
	sx, sy := n.scaleX, n.scaleY
	sin, cos := math.Sincos(n.rotation)

	preTx := -n.pivotX * sx
	preTy := -n.pivotY * sy

	return Affine{
		cos * sx,
		sin * sx,
		-sin * sy,
		cos * sy,
		cos*preTx - sin*preTy + n.x,
		sin*preTx + cos*preTy + n.y,
	}
}

// --- Transform property setters ---

// SetPosition sets the node's local position.
func (n *Node) SetPosition(x, y float64) {
	if n.x == x && n.y == y {
		return
	}
	n.x, n.y = x, y
	n.transformChanged()
}

// Translate moves the node by (dx, dy) in its parent's space.
func (n *Node) Translate(dx, dy float64) {
	n.SetPosition(n.x+dx, n.y+dy)
}

// SetScale sets the node's scale factors.
func (n *Node) SetScale(sx, sy float64) {
	if n.scaleX == sx && n.scaleY == sy {
		return
	}
	n.scaleX, n.scaleY = sx, sy
	n.transformChanged()
}

// SetRotation sets the node's rotation in radians.
func (n *Node) SetRotation(r float64) {
	if n.rotation == r {
		return
	}
	n.rotation = r
	n.transformChanged()
}

// SetPivot sets the local point the node scales and rotates around.
func (n *Node) SetPivot(px, py float64) {
	if n.pivotX == px && n.pivotY == py {
		return
	}
	n.pivotX, n.pivotY = px, py
	n.transformChanged()
}

// Position returns the node's local position.
func (n *Node) Position() (x, y float64) { return n.x, n.y }

// Scale returns the node's scale factors.
func (n *Node) Scale() (sx, sy float64) { return n.scaleX, n.scaleY }

// Rotation returns the node's rotation in radians.
func (n *Node) Rotation() float64 { return n.rotation }

// Pivot returns the node's pivot point.
func (n *Node) Pivot() (px, py float64) { return n.pivotX, n.pivotY }

// LocalTransform returns the matrix mapping local space to parent space.
func (n *Node) LocalTransform() Affine {
	return computeLocalTransform(n)
}

// WorldTransform returns the matrix mapping local space to world space,
// recomputing it first if this node or an ancestor changed since the last
// read.
func (n *Node) WorldTransform() Affine {
	if n.transformStale {
		parent := Identity
		if n.parent != nil {
			parent = n.parent.WorldTransform()
		}
		n.worldTransform = parent.Multiply(computeLocalTransform(n))
		n.transformStale = false
	}
	return n.worldTransform
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return n.WorldTransform().Invert().Apply(wx, wy)
}

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return n.WorldTransform().Apply(lx, ly)
}
