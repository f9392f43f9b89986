package vellum

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

func mustCheckIndex(t *testing.T, s *Scene) {
	t.Helper()
	if err := s.CheckIndex(); err != nil {
		t.Fatal(err)
	}
}

func TestNewScene(t *testing.T) {
	s := NewScene()
	if s.Root() == nil || s.Root().Scene() != s {
		t.Fatal("root should be linked to the scene")
	}
	if s.Index().Len() != 0 {
		t.Errorf("index Len = %d, want 0", s.Index().Len())
	}
	mustCheckIndex(t, s)
}

func TestSceneAttachIndexesSubtree(t *testing.T) {
	s := NewScene()
	group := NewContainer("group")
	_ = group.AddChild(NewRect("a", 0, 0, 10, 10))
	_ = group.AddChild(NewEllipse("b", 20, 0, 10, 10))
	if err := s.Root().AddChild(group); err != nil {
		t.Fatal(err)
	}
	if s.Index().Len() != 2 {
		t.Errorf("index Len = %d, want 2 (containers are not indexed)", s.Index().Len())
	}
	mustCheckIndex(t, s)
}

func TestSceneBulkAttach(t *testing.T) {
	s := NewScene()
	group := NewContainer("group")
	for i := 0; i < 3*bulkLoadThreshold; i++ {
		_ = group.AddChild(NewRect(fmt.Sprint(i), float64(i%10)*20, float64(i/10)*20, 10, 10))
	}
	_ = s.Root().AddChild(group)
	if s.Index().Len() != 3*bulkLoadThreshold {
		t.Errorf("index Len = %d", s.Index().Len())
	}
	mustCheckIndex(t, s)
}

func TestSceneDetachRemovesEntries(t *testing.T) {
	s := NewScene()
	group := NewContainer("group")
	child := NewRect("a", 0, 0, 10, 10)
	_ = group.AddChild(child)
	_ = s.Root().AddChild(group)

	group.RemoveFromParent()
	if s.Index().Len() != 0 {
		t.Errorf("index Len = %d, want 0", s.Index().Len())
	}
	if child.Scene() != nil {
		t.Error("detached descendants should lose their scene link")
	}
	mustCheckIndex(t, s)

	// A detached subtree can be attached again.
	if err := s.Root().AddChild(group); err != nil {
		t.Fatal(err)
	}
	mustCheckIndex(t, s)
}

func TestSceneMoveUpdatesIndex(t *testing.T) {
	s := NewScene()
	group := NewContainer("group")
	n := NewRect("a", 0, 0, 10, 10)
	_ = group.AddChild(n)
	_ = s.Root().AddChild(group)

	group.SetPosition(500, 500)
	if got := s.Index().QueryPoint(5, 5); len(got) != 0 {
		t.Errorf("old position still indexed: %v", got)
	}
	if got := s.Index().QueryPoint(505, 505); len(got) != 1 || got[0] != n {
		t.Errorf("new position query = %v", got)
	}
	mustCheckIndex(t, s)
}

func TestSceneAncestorShapeEntryGrows(t *testing.T) {
	s := NewScene()
	parent := NewRect("parent", 0, 0, 10, 10)
	child := NewRect("child", 0, 0, 10, 10)
	_ = parent.AddChild(child)
	_ = s.Root().AddChild(parent)

	child.SetPosition(100, 100)
	box, ok := s.Index().Box(parent)
	if !ok || box != (AABB{0, 0, 110, 110}) {
		t.Errorf("parent entry = %v, %v; want box enclosing the child", box, ok)
	}
	mustCheckIndex(t, s)
}

func TestSceneVisibility(t *testing.T) {
	s := NewScene()
	group := NewContainer("group")
	a := NewRect("a", 0, 0, 10, 10)
	_ = group.AddChild(a)
	_ = s.Root().AddChild(group)

	group.SetVisible(false)
	if s.Index().Has(a) {
		t.Error("hidden subtree should not be indexed")
	}
	if s.HitTest(5, 5) != nil {
		t.Error("hidden node should not be hit")
	}
	mustCheckIndex(t, s)

	// Adding under a hidden parent does not index either.
	b := NewRect("b", 0, 0, 10, 10)
	_ = group.AddChild(b)
	mustCheckIndex(t, s)

	group.SetVisible(true)
	if !s.Index().Has(a) || !s.Index().Has(b) {
		t.Error("shown subtree should be indexed")
	}
	mustCheckIndex(t, s)
}

func TestSceneSetShape(t *testing.T) {
	s := NewScene()
	n := NewContainer("n")
	_ = s.Root().AddChild(n)
	n.SetShape(Rect{10, 10})
	if !s.Index().Has(n) {
		t.Error("node with a new shape should be indexed")
	}
	n.SetShape(nil)
	if s.Index().Has(n) {
		t.Error("node without a shape should not be indexed")
	}
	mustCheckIndex(t, s)
}

func TestHitTestTopmost(t *testing.T) {
	s := NewScene()
	a := NewRect("A", 0, 0, 100, 100)
	b := NewRect("B", 50, 50, 100, 100)
	_ = s.Root().AddChild(a)
	_ = s.Root().AddChild(b)

	if got := s.HitTest(75, 75); got != b {
		t.Errorf("HitTest(75,75) = %v, want B", got)
	}
	if got := s.HitTest(25, 25); got != a {
		t.Errorf("HitTest(25,25) = %v, want A", got)
	}
	if got := s.HitTest(500, 500); got != nil {
		t.Errorf("HitTest(500,500) = %v, want nil", got)
	}

	// Reordering changes the winner.
	_ = s.Root().SetChildIndex(b, 0)
	if got := s.HitTest(75, 75); got != a {
		t.Errorf("after reorder HitTest(75,75) = %v, want A", got)
	}
}

func TestHitTestUsesExactGeometry(t *testing.T) {
	s := NewScene()
	rect := NewRect("rect", 0, 0, 100, 100)
	ell := NewEllipse("ellipse", 0, 0, 100, 100)
	_ = s.Root().AddChild(rect)
	_ = s.Root().AddChild(ell)

	// Inside the ellipse's box but outside its outline: the rect below wins.
	if got := s.HitTest(3, 3); got != rect {
		t.Errorf("HitTest(3,3) = %v, want rect", got)
	}
	if got := s.HitTest(50, 50); got != ell {
		t.Errorf("HitTest(50,50) = %v, want ellipse", got)
	}
}

func TestHitTestSkipsZeroScale(t *testing.T) {
	s := NewScene()
	below := NewRect("below", 0, 0, 200, 200)
	big := NewRect("big", 100, 100, 500, 500)
	_ = s.Root().AddChild(below)
	_ = s.Root().AddChild(big)

	big.SetScale(0, 0)
	if b := big.WorldBoundingBox(); b != (AABB{100, 100, 100, 100}) {
		t.Errorf("box after zero scale = %v", b)
	}
	mustCheckIndex(t, s)
	if got := s.HitTest(100, 100); got != below {
		t.Errorf("HitTest(100,100) = %v, want below", got)
	}
	if got := s.HitTest(300, 300); got != nil {
		t.Errorf("HitTest(300,300) = %v, want nil", got)
	}

	big.SetScale(1, 1)
	if got := s.HitTest(100, 100); got != big {
		t.Errorf("HitTest after restoring scale = %v, want big", got)
	}
}

func TestHitTestChildOverParent(t *testing.T) {
	s := NewScene()
	parent := NewRect("parent", 0, 0, 100, 100)
	child := NewRect("child", 10, 10, 10, 10)
	_ = parent.AddChild(child)
	_ = s.Root().AddChild(parent)
	if got := s.HitTest(15, 15); got != child {
		t.Errorf("HitTest = %v, want child", got)
	}
}

func TestQueryRectPaintOrder(t *testing.T) {
	s := NewScene()
	var want []*Node
	for i := 0; i < 10; i++ {
		n := NewRect(fmt.Sprint(i), float64(i), 0, 10, 10)
		_ = s.Root().AddChild(n)
		want = append(want, n)
	}
	got := s.QueryRect(AABB{0, 0, 100, 100})
	if len(got) != len(want) {
		t.Fatalf("QueryRect returned %d nodes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("QueryRect[%d] = %q, want %q", i, got[i].Name, want[i].Name)
		}
	}
}

func TestPaintOrder(t *testing.T) {
	s := NewScene()
	a := NewContainer("a")
	a1 := NewRect("a1", 0, 0, 1, 1)
	b := NewRect("b", 0, 0, 1, 1)
	_ = a.AddChild(a1)
	_ = s.Root().AddChild(a)
	_ = s.Root().AddChild(b)
	if !(s.PaintOrder(a) < s.PaintOrder(a1) && s.PaintOrder(a1) < s.PaintOrder(b)) {
		t.Errorf("paint order a=%d a1=%d b=%d", s.PaintOrder(a), s.PaintOrder(a1), s.PaintOrder(b))
	}
	if s.PaintOrder(NewContainer("loose")) != -1 {
		t.Error("detached node should have paint order -1")
	}
}

func TestSceneChangeListener(t *testing.T) {
	s := NewScene()
	calls := 0
	s.SetChangeListener(func() { calls++ })
	n := NewRect("n", 0, 0, 1, 1)
	_ = s.Root().AddChild(n)
	n.SetPosition(5, 5)
	n.SetStyle(Style{})
	if calls < 3 {
		t.Errorf("listener called %d times, want at least 3", calls)
	}
}

func TestCheckIndexDetectsCorruption(t *testing.T) {
	s := NewScene()
	n := NewRect("n", 0, 0, 10, 10)
	_ = s.Root().AddChild(n)
	s.index.Remove(n)
	if s.CheckIndex() == nil {
		t.Error("CheckIndex should report a missing entry")
	}
	s.index.Insert(n, AABB{1, 1, 2, 2})
	if s.CheckIndex() == nil {
		t.Error("CheckIndex should report a stale box")
	}
}

func TestSceneRandomOpsKeepIndexConsistent(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	s := NewSceneWithIndex(4)
	nodes := []*Node{s.Root()}

	pick := func() *Node { return nodes[r.IntN(len(nodes))] }
	for step := 0; step < 2000; step++ {
		switch r.IntN(8) {
		case 0, 1:
			var n *Node
			switch r.IntN(3) {
			case 0:
				n = NewContainer(fmt.Sprint(step))
			case 1:
				n = NewRect(fmt.Sprint(step), r.Float64()*500, r.Float64()*500, 1+r.Float64()*40, 1+r.Float64()*40)
			default:
				n = NewEllipse(fmt.Sprint(step), r.Float64()*500, r.Float64()*500, 1+r.Float64()*40, 1+r.Float64()*40)
			}
			if err := pick().AddChild(n); err != nil {
				t.Fatal(err)
			}
			nodes = append(nodes, n)
		case 2:
			n := pick()
			if n == s.Root() {
				continue
			}
			n.RemoveFromParent()
			// Re-attach elsewhere half the time; otherwise forget it.
			if r.IntN(2) == 0 {
				target := pick()
				if target.Scene() == s && !isAncestor(n, target) {
					_ = target.AddChild(n)
					continue
				}
			}
			kept := nodes[:0]
			for _, m := range nodes {
				if m.Scene() == s {
					kept = append(kept, m)
				}
			}
			nodes = kept
		case 3, 4:
			pick().Translate(r.Float64()*40-20, r.Float64()*40-20)
		case 5:
			n := pick()
			n.SetRotation(r.Float64() * 6.28)
			n.SetScale(0.5+r.Float64(), 0.5+r.Float64())
		case 6:
			n := pick()
			if n != s.Root() {
				n.SetVisible(!n.Visible())
			}
		case 7:
			n := pick()
			if p := n.Parent(); p != nil {
				_ = p.SetChildIndex(n, r.IntN(p.NumChildren()))
			}
		}
		if step%50 == 0 {
			mustCheckIndex(t, s)
		}
	}
	mustCheckIndex(t, s)
}
