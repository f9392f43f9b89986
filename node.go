package vellum

import (
	"github.com/google/uuid"
)

// nodeIDCounter is a plain counter (not atomic; vellum is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element. A node with a nil Shape is a pure
// container; any node may have children. Children paint after (on top of)
// their parent and later siblings paint on top of earlier ones.
//
// The parent link is a non-owning back-reference: a parent owns its
// children through its child slice, never the other way round.
type Node struct {
	// ID is a process-local handle, unique per process run.
	ID uint32
	// UID is the stable identity handed to persistence and export
	// collaborators.
	UID  uuid.UUID
	Name string

	parent   *Node
	children []*Node
	scene    *Scene

	shape   Shape
	style   Style
	visible bool

	// Local transform
	x, y           float64
	scaleX, scaleY float64
	rotation       float64
	pivotX, pivotY float64

	// Cached world state. Stale flags are set eagerly on mutation and
	// cleared lazily on read.
	worldTransform Affine
	transformStale bool
	worldBounds    AABB
	boundsStale    bool

	paintOrder int
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.UID = uuid.New()
	n.scaleX = 1
	n.scaleY = 1
	n.visible = true
	n.transformStale = true
	n.boundsStale = true
}

// NewContainer creates a node with no geometry of its own.
func NewContainer(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewShapeNode creates a node drawing shape with DefaultStyle.
func NewShapeNode(name string, shape Shape) *Node {
	n := &Node{Name: name, shape: shape, style: DefaultStyle}
	nodeDefaults(n)
	return n
}

// NewRect creates a rectangle node of size w×h positioned at (x, y).
func NewRect(name string, x, y, w, h float64) *Node {
	n := NewShapeNode(name, Rect{Width: w, Height: h})
	n.x, n.y = x, y
	return n
}

// NewEllipse creates an ellipse node inscribed in the w×h box at (x, y).
func NewEllipse(name string, x, y, w, h float64) *Node {
	n := NewShapeNode(name, Ellipse{Width: w, Height: h})
	n.x, n.y = x, y
	return n
}

// NewPolygon creates a polygon node from local-space points.
func NewPolygon(name string, points []Vec2) *Node {
	pts := make([]Vec2, len(points))
	copy(pts, points)
	return NewShapeNode(name, Polygon{Points: pts})
}

// --- Accessors ---

// Parent returns the node's parent, or nil for a root or detached node.
func (n *Node) Parent() *Node { return n.parent }

// Scene returns the scene this node is attached to, or nil.
func (n *Node) Scene() *Scene { return n.scene }

// Shape returns the node's geometry, nil for containers.
func (n *Node) Shape() Shape { return n.shape }

// Style returns the node's paint style.
func (n *Node) Style() Style { return n.style }

// Visible reports the node's own visibility flag.
func (n *Node) Visible() bool { return n.visible }

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// See AddChildAt for the failure cases.
func (n *Node) AddChild(child *Node) error {
	return n.AddChildAt(child, len(n.children))
}

// AddChildAt inserts child at index, which must lie in [0, NumChildren()].
// It fails with ErrIllegalArgument if child is nil, already has a parent,
// is the root of a scene, or is n itself or one of its ancestors. On
// failure nothing is modified.
func (n *Node) AddChildAt(child *Node, index int) error {
	switch {
	case child == nil:
		return illegalArgument("cannot add nil child to %q", n.Name)
	case child.parent != nil:
		return illegalArgument("node %q already has parent %q", child.Name, child.parent.Name)
	case child.scene != nil:
		return illegalArgument("node %q is the root of a scene", child.Name)
	case isAncestor(child, n):
		return illegalArgument("adding %q to %q would create a cycle", child.Name, n.Name)
	case index < 0 || index > len(n.children):
		return illegalArgument("child index %d out of range [0, %d]", index, len(n.children))
	}

	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	markSubtreeStale(child)
	n.Invalidate()

	if n.scene != nil {
		n.scene.attach(n, child)
		if n.scene.debug {
			debugCheckTreeDepth(child)
			debugCheckChildCount(n)
		}
	}
	return nil
}

// RemoveChild detaches child from this node, removing the spatial index
// entries of its whole subtree. It fails with ErrIllegalArgument if child is
// not a direct child of n; a second removal of the same node therefore
// fails rather than being a no-op.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.parent != n {
		name := "<nil>"
		if child != nil {
			name = child.Name
		}
		return illegalArgument("node %q is not a child of %q", name, n.Name)
	}
	n.removeChildAt(n.IndexOf(child))
	return nil
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) (*Node, error) {
	if index < 0 || index >= len(n.children) {
		return nil, illegalArgument("child index %d out of range [0, %d)", index, len(n.children))
	}
	return n.removeChildAt(index), nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.removeChildAt(n.parent.IndexOf(n))
}

// RemoveChildren detaches all children from this node.
func (n *Node) RemoveChildren() {
	for len(n.children) > 0 {
		n.removeChildAt(len(n.children) - 1)
	}
}

// removeChildAt uses copy+nil to avoid retaining a dangling pointer in the
// backing array.
func (n *Node) removeChildAt(i int) *Node {
	child := n.children[i]
	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.parent = nil
	markSubtreeStale(child)
	n.Invalidate()
	if n.scene != nil {
		n.scene.detach(n, child)
	}
	return child
}

// SetChildIndex moves child to a new index among its siblings, changing its
// paint order.
func (n *Node) SetChildIndex(child *Node, index int) error {
	if child == nil || child.parent != n {
		return illegalArgument("node is not a child of %q", n.Name)
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		return illegalArgument("child index %d out of range [0, %d)", index, nc)
	}
	oldIndex := n.IndexOf(child)
	if oldIndex == index {
		return nil
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
	if n.scene != nil {
		n.scene.orderChanged()
	}
	return nil
}

// --- Geometry ---

// SetShape replaces the node's geometry. A nil shape turns the node into a
// pure container.
func (n *Node) SetShape(s Shape) {
	n.shape = s
	n.Invalidate()
	if n.scene != nil {
		n.scene.reindex(n, false)
	}
}

// SetStyle replaces the node's paint style. Only rendering is affected.
func (n *Node) SetStyle(st Style) {
	n.style = st
	if n.scene != nil {
		n.scene.changed()
	}
}

// SetVisible shows or hides the node and its subtree. Hidden nodes have no
// spatial index entries and are neither drawn nor hit.
func (n *Node) SetVisible(v bool) {
	if n.visible == v {
		return
	}
	n.visible = v
	if n.scene != nil {
		n.scene.reindex(n, true)
	}
}

// EffectiveVisible reports whether this node and all its ancestors are visible.
func (n *Node) EffectiveVisible() bool {
	for p := n; p != nil; p = p.parent {
		if !p.visible {
			return false
		}
	}
	return true
}

// Invalidate marks the node's cached world bounding box stale and
// propagates the staleness to every ancestor, whose bounds enclose it.
// Descendants are not touched.
func (n *Node) Invalidate() {
	for p := n; p != nil; p = p.parent {
		p.boundsStale = true
	}
}

// WorldBoundingBox returns the world-space box enclosing this node's
// transformed geometry and all of its descendants, recomputing it first if
// stale. A container with no geometry below it returns an empty box.
func (n *Node) WorldBoundingBox() AABB {
	if !n.boundsStale {
		return n.worldBounds
	}
	b := n.ownWorldBounds()
	for _, c := range n.children {
		b = b.Union(c.WorldBoundingBox())
	}
	n.worldBounds = b
	n.boundsStale = false
	return b
}

// ownWorldBounds is the box of the node's own shape, excluding children.
func (n *Node) ownWorldBounds() AABB {
	if n.shape == nil {
		return emptyAABB
	}
	return n.WorldTransform().TransformAABB(n.shape.LocalBounds())
}

// HitTestLocal reports whether the world point lies on the node's own
// geometry using the exact shape test. A node whose world transform is
// singular (e.g. scaled to zero) covers no area and is never hit.
func (n *Node) HitTestLocal(wx, wy float64) bool {
	if n.shape == nil {
		return false
	}
	m := n.WorldTransform()
	if !m.Invertible() {
		return false
	}
	lx, ly := m.Invert().Apply(wx, wy)
	return n.shape.Contains(lx, ly)
}

// Walk visits n and its descendants depth-first in paint order. Returning
// false from fn skips the visited node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// --- Helpers ---

// transformChanged invalidates cached world state after a local transform
// change: the whole subtree moves, and every ancestor's bounds change.
func (n *Node) transformChanged() {
	markSubtreeStale(n)
	n.Invalidate()
	if n.scene != nil {
		n.scene.reindex(n, true)
	}
}

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// markSubtreeStale marks the world transform and bounds of node and all its
// descendants stale.
func markSubtreeStale(node *Node) {
	node.transformStale = true
	node.boundsStale = true
	for _, child := range node.children {
		markSubtreeStale(child)
	}
}
