package vellum

import (
	"fmt"
	"slices"
)

// Subtrees with at least this many indexable nodes are attached with a
// single bulk Load instead of one Insert per node.
const bulkLoadThreshold = 32

// Scene owns the node tree and keeps the spatial index consistent with it.
// Every attached, effectively visible node with a shape has exactly one
// index entry whose box equals its WorldBoundingBox. The index is updated
// synchronously on every mutation.
type Scene struct {
	root  *Node
	index *SpatialIndex
	debug bool

	// Paint order numbers are recomputed lazily after structural changes.
	orderStale bool

	onChange func()
	hitBuf   []*Node
}

// NewScene creates a new scene with a pre-created root container and an
// index using DefaultIndexMaxEntries.
func NewScene() *Scene {
	return NewSceneWithIndex(DefaultIndexMaxEntries)
}

// NewSceneWithIndex creates a scene whose spatial index splits nodes above
// maxEntries children.
func NewSceneWithIndex(maxEntries int) *Scene {
	s := &Scene{
		root:       NewContainer("root"),
		index:      NewSpatialIndex(maxEntries),
		orderStale: true,
	}
	s.root.scene = s
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Index returns the scene's spatial index. Callers must treat it as
// read-only; the scene is the only writer.
func (s *Scene) Index() *SpatialIndex {
	return s.index
}

// SetDebugMode enables tree-shape warnings and index consistency checks.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// SetChangeListener registers fn to be called after every mutation that
// changes what the scene looks like. The editor uses it to mark render
// parts dirty.
func (s *Scene) SetChangeListener(fn func()) {
	s.onChange = fn
}

// HitTest returns the topmost node whose exact geometry contains the world
// point, or nil. Bounding boxes from the index are only a pre-filter.
func (s *Scene) HitTest(wx, wy float64) *Node {
	s.hitBuf = s.index.AppendQueryRect(s.hitBuf[:0], AABB{wx, wy, wx, wy})
	if len(s.hitBuf) == 0 {
		return nil
	}
	s.ensureOrder()
	var best *Node
	for _, n := range s.hitBuf {
		if !n.HitTestLocal(wx, wy) {
			continue
		}
		if best == nil || n.paintOrder > best.paintOrder {
			best = n
		}
	}
	clear(s.hitBuf)
	return best
}

// QueryRect returns every indexed node whose world box overlaps rect, in
// paint order (bottom first). A malformed rect returns nil.
func (s *Scene) QueryRect(rect AABB) []*Node {
	nodes := s.index.QueryRect(rect)
	s.SortPaintOrder(nodes)
	return nodes
}

// SortPaintOrder sorts nodes of this scene bottom-to-top.
func (s *Scene) SortPaintOrder(nodes []*Node) {
	if len(nodes) < 2 {
		return
	}
	s.ensureOrder()
	slices.SortFunc(nodes, func(a, b *Node) int { return a.paintOrder - b.paintOrder })
}

// PaintOrder returns n's position in depth-first paint order, or -1 when n
// is not attached to this scene.
func (s *Scene) PaintOrder(n *Node) int {
	if n == nil || n.scene != s {
		return -1
	}
	s.ensureOrder()
	return n.paintOrder
}

// CheckIndex verifies that the index holds exactly one entry for every
// attached, effectively visible shape node, with a box equal to the node's
// current world bounding box, and nothing else.
func (s *Scene) CheckIndex() error {
	var err error
	want := 0
	var walk func(n *Node, visible bool)
	walk = func(n *Node, visible bool) {
		if err != nil {
			return
		}
		visible = visible && n.visible
		if n.scene != s {
			err = fmt.Errorf("vellum: node %q (ID %d) attached without scene link", n.Name, n.ID)
			return
		}
		if n.shape != nil && visible {
			want++
			box, ok := s.index.Box(n)
			switch {
			case !ok:
				err = fmt.Errorf("vellum: node %q (ID %d) has no index entry", n.Name, n.ID)
				return
			case box != n.WorldBoundingBox():
				err = fmt.Errorf("vellum: node %q (ID %d) indexed at %v, bounds are %v",
					n.Name, n.ID, box, n.WorldBoundingBox())
				return
			}
		} else if s.index.Has(n) {
			err = fmt.Errorf("vellum: node %q (ID %d) must not be indexed", n.Name, n.ID)
			return
		}
		for _, c := range n.children {
			walk(c, visible)
		}
	}
	walk(s.root, true)
	if err != nil {
		return err
	}
	if got := s.index.Len(); got != want {
		return fmt.Errorf("vellum: index holds %d entries, scene has %d indexable nodes", got, want)
	}
	return nil
}

// --- Node hooks ---

// attach links a freshly added subtree to the scene and indexes it.
func (s *Scene) attach(parent, child *Node) {
	var batch []IndexEntry
	var collect func(n *Node, visible bool)
	collect = func(n *Node, visible bool) {
		n.scene = s
		visible = visible && n.visible
		if visible && n.shape != nil {
			batch = append(batch, IndexEntry{Node: n, Box: n.WorldBoundingBox()})
		}
		for _, c := range n.children {
			collect(c, visible)
		}
	}
	collect(child, parent.EffectiveVisible())

	if len(batch) >= bulkLoadThreshold {
		s.index.Load(batch)
	} else {
		for _, e := range batch {
			s.index.Insert(e.Node, e.Box)
		}
	}
	s.syncAncestors(parent)
	s.orderChanged()
}

// detach unlinks a removed subtree and drops all of its index entries.
func (s *Scene) detach(parent, child *Node) {
	child.Walk(func(n *Node) bool {
		s.index.Remove(n)
		n.scene = nil
		return true
	})
	s.syncAncestors(parent)
	s.orderChanged()
}

// reindex brings n's entry (and with subtree, its descendants' entries) in
// line with the tree, then refreshes ancestors whose boxes enclose n.
func (s *Scene) reindex(n *Node, subtree bool) {
	if subtree {
		s.syncSubtree(n, n.parent == nil || n.parent.EffectiveVisible())
	} else {
		s.syncEntry(n, n.EffectiveVisible())
	}
	s.syncAncestors(n.parent)
	s.changed()
}

func (s *Scene) syncSubtree(n *Node, visible bool) {
	visible = visible && n.visible
	s.syncEntry(n, visible)
	for _, c := range n.children {
		s.syncSubtree(c, visible)
	}
}

func (s *Scene) syncAncestors(n *Node) {
	for p := n; p != nil; p = p.parent {
		if p.shape != nil {
			s.syncEntry(p, p.EffectiveVisible())
		}
	}
}

func (s *Scene) syncEntry(n *Node, visible bool) {
	if n.shape == nil || !visible {
		s.index.Remove(n)
		return
	}
	s.index.Update(n, n.WorldBoundingBox())
}

func (s *Scene) orderChanged() {
	s.orderStale = true
	s.changed()
}

func (s *Scene) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Scene) ensureOrder() {
	if !s.orderStale {
		return
	}
	order := 0
	s.root.Walk(func(n *Node) bool {
		n.paintOrder = order
		order++
		return true
	})
	s.orderStale = false
}
