package vellum

import (
	"math"
	"slices"
)

// Default R-tree fan-out. Nodes split above maxEntries and the split keeps
// at least minEntries (40% of max) on each side.
const (
	DefaultIndexMaxEntries = 16
	minIndexMaxEntries     = 4
)

// IndexEntry pairs a scene node with the world box it is indexed under.
type IndexEntry struct {
	Node *Node
	Box  AABB
}

// rnode is an R-tree node. Entries (height 0) carry the indexed scene node;
// leaves (height 1) hold entries; internal nodes hold rnodes one level
// lower. Every rnode except the root has a parent.
type rnode struct {
	box      AABB
	height   int
	children []*rnode
	parent   *rnode
	item     *Node
}

func (r *rnode) leaf() bool { return r.height == 1 }

// SpatialIndex is a dynamic bounding-box tree over scene nodes. It holds
// non-owning references: removing a node from the index never touches the
// node, and the index never notices geometry changes on its own.
//
// Queries never fail; malformed rectangles yield an empty result.
type SpatialIndex struct {
	root       *rnode
	maxEntries int
	minEntries int
	entries    map[*Node]*rnode
}

// NewSpatialIndex creates an empty index with the given maximum fan-out.
// Values below 4 use DefaultIndexMaxEntries.
func NewSpatialIndex(maxEntries int) *SpatialIndex {
	if maxEntries < minIndexMaxEntries {
		maxEntries = DefaultIndexMaxEntries
	}
	idx := &SpatialIndex{
		maxEntries: maxEntries,
		minEntries: max(2, int(math.Ceil(float64(maxEntries)*0.4))),
	}
	idx.Clear()
	return idx
}

// Clear removes all entries.
func (idx *SpatialIndex) Clear() {
	idx.root = newLeaf(nil)
	idx.entries = make(map[*Node]*rnode)
}

func newLeaf(children []*rnode) *rnode {
	r := &rnode{height: 1, children: children}
	r.refit()
	return r
}

// Len returns the number of indexed nodes.
func (idx *SpatialIndex) Len() int { return len(idx.entries) }

// Height returns the tree height (1 for a single leaf).
func (idx *SpatialIndex) Height() int { return idx.root.height }

// Bounds returns the box enclosing every entry; empty when the index is.
func (idx *SpatialIndex) Bounds() AABB { return idx.root.box }

// Has reports whether node has an entry.
func (idx *SpatialIndex) Has(node *Node) bool {
	_, ok := idx.entries[node]
	return ok
}

// Box returns the box node is indexed under.
func (idx *SpatialIndex) Box(node *Node) (AABB, bool) {
	e, ok := idx.entries[node]
	if !ok {
		return AABB{}, false
	}
	return e.box, true
}

// Insert adds node under box. A node that already has an entry is moved to
// the new box, so there is never more than one entry per node. Malformed
// boxes remove the entry instead.
func (idx *SpatialIndex) Insert(node *Node, box AABB) {
	if node == nil {
		return
	}
	if _, ok := idx.entries[node]; ok {
		idx.Remove(node)
	}
	if !box.Valid() {
		return
	}
	e := &rnode{box: box, item: node}
	idx.entries[node] = e
	idx.insert(e)
}

// Remove deletes node's entry. Removing a node without an entry is a no-op.
func (idx *SpatialIndex) Remove(node *Node) {
	e, ok := idx.entries[node]
	if !ok {
		return
	}
	delete(idx.entries, node)
	leaf := e.parent
	leaf.children = removeRNode(leaf.children, e)
	e.parent = nil
	idx.condense(leaf)
}

// Update moves node's entry to box, inserting it when absent. When box
// still fits inside the entry's leaf the entry is updated in place.
func (idx *SpatialIndex) Update(node *Node, box AABB) {
	e, ok := idx.entries[node]
	if !ok || !box.Valid() {
		idx.Insert(node, box)
		return
	}
	if e.box == box {
		return
	}
	if e.parent.box.ContainsAABB(box) {
		// Enclosing boxes stay valid; they are tightened by the next
		// structural change along this path.
		e.box = box
		return
	}
	idx.Insert(node, box)
}

// QueryRect returns every node whose box overlaps rect. Order is
// unspecified. A malformed rect returns nil.
func (idx *SpatialIndex) QueryRect(rect AABB) []*Node {
	return idx.appendQuery(nil, rect)
}

// QueryPoint returns every node whose box contains (x, y).
func (idx *SpatialIndex) QueryPoint(x, y float64) []*Node {
	return idx.appendQuery(nil, AABB{x, y, x, y})
}

// AppendQueryRect is QueryRect appending into buf to avoid allocation on
// hot paths.
func (idx *SpatialIndex) AppendQueryRect(buf []*Node, rect AABB) []*Node {
	return idx.appendQuery(buf, rect)
}

func (idx *SpatialIndex) appendQuery(buf []*Node, rect AABB) []*Node {
	if !rect.Valid() || !rect.Intersects(idx.root.box) {
		return buf
	}
	stack := []*rnode{idx.root}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range r.children {
			if !rect.Intersects(c.box) {
				continue
			}
			switch {
			case r.leaf():
				buf = append(buf, c.item)
			case rect.ContainsAABB(c.box):
				buf = appendAll(buf, c)
			default:
				stack = append(stack, c)
			}
		}
	}
	return buf
}

func appendAll(buf []*Node, r *rnode) []*Node {
	if r.item != nil {
		return append(buf, r.item)
	}
	for _, c := range r.children {
		buf = appendAll(buf, c)
	}
	return buf
}

// Entries returns every entry. Order is unspecified.
func (idx *SpatialIndex) Entries() []IndexEntry {
	out := make([]IndexEntry, 0, len(idx.entries))
	for n, e := range idx.entries {
		out = append(out, IndexEntry{Node: n, Box: e.box})
	}
	return out
}

// Load bulk-inserts entries. Into an empty index this builds the tree
// top-down in one pass (OMT packing), which is both faster than repeated
// Insert calls and produces a better-shaped tree. Into a non-empty index
// the batch is packed separately and grafted in at the matching level.
func (idx *SpatialIndex) Load(entries []IndexEntry) {
	items := make([]*rnode, 0, len(entries))
	batch := make(map[*Node]*rnode, len(entries))
	for _, ent := range entries {
		if ent.Node == nil {
			continue
		}
		if e, ok := batch[ent.Node]; ok {
			// Last box wins within one batch.
			e.box = ent.Box
			continue
		}
		idx.Remove(ent.Node)
		e := &rnode{box: ent.Box, item: ent.Node}
		batch[ent.Node] = e
		items = append(items, e)
	}
	items = slices.DeleteFunc(items, func(e *rnode) bool { return !e.box.Valid() })
	if len(items) == 0 {
		return
	}
	for _, e := range items {
		idx.entries[e.item] = e
	}
	if len(items) < idx.minEntries {
		for _, e := range items {
			idx.insert(e)
		}
		return
	}

	tree := idx.build(items, 0)
	setParents(tree)

	switch {
	case len(idx.root.children) == 0:
		idx.root = tree
		return
	case idx.root.height == tree.height:
		idx.splitRoot(idx.root, tree)
	default:
		if idx.root.height < tree.height {
			idx.root, tree = tree, idx.root
		}
		idx.insert(tree)
	}
	// A packed root may hold more than maxEntries children; that is only
	// allowed at the top of the tree.
	idx.splitUp(tree)
}

// build packs items[...] into a subtree of the given height (0 computes it).
func (idx *SpatialIndex) build(items []*rnode, height int) *rnode {
	n := len(items)
	m := idx.maxEntries
	if n <= m {
		return newLeaf(slices.Clone(items))
	}
	if height == 0 {
		height = int(math.Ceil(math.Log(float64(n)) / math.Log(float64(m))))
		// Target number of root entries to maximize storage utilization.
		m = int(math.Ceil(float64(n) / math.Pow(float64(m), float64(height-1))))
	}
	node := &rnode{height: height}

	n2 := int(math.Ceil(float64(n) / float64(m)))
	n1 := n2 * int(math.Ceil(math.Sqrt(float64(m))))

	sortByMinX(items)
	for i := 0; i < n; i += n1 {
		slab := items[i:min(i+n1, n)]
		sortByMinY(slab)
		for j := 0; j < len(slab); j += n2 {
			child := idx.build(slab[j:min(j+n2, len(slab))], height-1)
			if child.height < height-1 {
				// Short runs produce shallow leaves; wrap them so every
				// child of node sits exactly one level down.
				child = wrap(child, height-1)
			}
			node.children = append(node.children, child)
		}
	}
	node.refit()
	return node
}

func wrap(r *rnode, height int) *rnode {
	for r.height < height {
		r = &rnode{height: r.height + 1, children: []*rnode{r}, box: r.box}
	}
	return r
}

func setParents(r *rnode) {
	for _, c := range r.children {
		c.parent = r
		if c.item == nil {
			setParents(c)
		}
	}
}

// insert places r (an entry or a packed subtree) into the tree at the level
// directly above its height, splitting overflowing nodes on the way up.
func (idx *SpatialIndex) insert(r *rnode) {
	target := idx.chooseSubtree(r.box, r.height+1)
	target.children = append(target.children, r)
	r.parent = target
	for p := target; p != nil; p = p.parent {
		p.box = p.box.Union(r.box)
	}
	idx.splitUp(target)
}

// splitUp splits every overflowing node from r up to the root.
func (idx *SpatialIndex) splitUp(r *rnode) {
	for p := r; p != nil; {
		next := p.parent
		if len(p.children) > idx.maxEntries {
			idx.split(p)
		}
		p = next
	}
}

// chooseSubtree descends from the root to the node at the given height,
// preferring the child needing the least enlargement, then the smallest.
func (idx *SpatialIndex) chooseSubtree(box AABB, height int) *rnode {
	node := idx.root
	for node.height > height {
		var best *rnode
		minEnlargement, minArea := math.Inf(1), math.Inf(1)
		for _, c := range node.children {
			area := c.box.Area()
			enlargement := c.box.Union(box).Area() - area
			if enlargement < minEnlargement || (enlargement == minEnlargement && area < minArea) {
				minEnlargement, minArea = enlargement, area
				best = c
			}
		}
		if best == nil {
			break
		}
		node = best
	}
	return node
}

// split divides an overflowing node in two along the axis with the smallest
// total margin, at the distribution with the least overlap.
func (idx *SpatialIndex) split(node *rnode) {
	m := idx.minEntries
	total := len(node.children)
	idx.chooseSplitAxis(node, m, total)
	at := chooseSplitIndex(node, m, total)

	sibling := &rnode{height: node.height}
	sibling.children = slices.Clone(node.children[at:])
	clear(node.children[at:])
	node.children = node.children[:at]
	for _, c := range sibling.children {
		c.parent = sibling
	}
	node.refit()
	sibling.refit()

	if node.parent == nil {
		idx.splitRoot(node, sibling)
		return
	}
	sibling.parent = node.parent
	node.parent.children = append(node.parent.children, sibling)
}

func (idx *SpatialIndex) splitRoot(a, b *rnode) {
	root := &rnode{height: a.height + 1, children: []*rnode{a, b}}
	a.parent, b.parent = root, root
	root.refit()
	idx.root = root
}

func (idx *SpatialIndex) chooseSplitAxis(node *rnode, m, total int) {
	sortByMinX(node.children)
	xMargin := distMargin(node.children, m, total)
	sortByMinY(node.children)
	yMargin := distMargin(node.children, m, total)
	if xMargin < yMargin {
		sortByMinX(node.children)
	}
}

// distMargin sums the margins of every legal split distribution.
func distMargin(children []*rnode, m, total int) float64 {
	left := boxOf(children[:m])
	right := boxOf(children[total-m:])
	margin := left.Margin() + right.Margin()
	for i := m; i < total-m; i++ {
		left = left.Union(children[i].box)
		margin += left.Margin()
	}
	for i := total - m - 1; i >= m; i-- {
		right = right.Union(children[i].box)
		margin += right.Margin()
	}
	return margin
}

func chooseSplitIndex(node *rnode, m, total int) int {
	index := total - m
	minOverlap, minArea := math.Inf(1), math.Inf(1)
	for i := m; i <= total-m; i++ {
		b1 := boxOf(node.children[:i])
		b2 := boxOf(node.children[i:])
		overlap := b1.Intersection(b2)
		area := b1.Area() + b2.Area()
		if overlap < minOverlap || (overlap == minOverlap && area < minArea) {
			minOverlap, minArea = overlap, area
			index = i
		}
	}
	return index
}

// condense walks up from a node that lost a child, dropping empty nodes
// and shrinking boxes.
func (idx *SpatialIndex) condense(r *rnode) {
	for r != nil {
		parent := r.parent
		if len(r.children) == 0 && parent != nil {
			parent.children = removeRNode(parent.children, r)
			r.parent = nil
		} else {
			r.refit()
		}
		r = parent
	}
	if len(idx.root.children) == 0 {
		idx.root = newLeaf(nil)
		return
	}
	// Collapse single-child roots left behind by removals.
	for !idx.root.leaf() && len(idx.root.children) == 1 {
		idx.root = idx.root.children[0]
		idx.root.parent = nil
	}
}

func (r *rnode) refit() {
	r.box = boxOf(r.children)
}

func boxOf(rs []*rnode) AABB {
	b := emptyAABB
	for _, c := range rs {
		b = b.Union(c.box)
	}
	return b
}

func removeRNode(rs []*rnode, r *rnode) []*rnode {
	i := slices.Index(rs, r)
	if i < 0 {
		return rs
	}
	copy(rs[i:], rs[i+1:])
	rs[len(rs)-1] = nil
	return rs[:len(rs)-1]
}

func sortByMinX(rs []*rnode) {
	slices.SortFunc(rs, func(a, b *rnode) int {
		switch {
		case a.box.MinX < b.box.MinX:
			return -1
		case a.box.MinX > b.box.MinX:
			return 1
		}
		return 0
	})
}

func sortByMinY(rs []*rnode) {
	slices.SortFunc(rs, func(a, b *rnode) int {
		switch {
		case a.box.MinY < b.box.MinY:
			return -1
		case a.box.MinY > b.box.MinY:
			return 1
		}
		return 0
	})
}
