package vellum

import (
	"errors"
	"testing"
)

// eventLog is an EventSink recording every event.
type eventLog struct {
	events []EditorEvent
}

func (l *eventLog) EmitEvent(ev EditorEvent) { l.events = append(l.events, ev) }

func (l *eventLog) count(typ EditorEventType) int {
	n := 0
	for _, ev := range l.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// newTestEditor returns an editor whose screen and world coordinates
// coincide: the camera centers on the viewport center at zoom 1.
func newTestEditor(t *testing.T) (*Editor, *recordSink, *recordSink) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ViewportWidth, cfg.ViewportHeight = 800, 600
	canvas, overlay := &recordSink{}, &recordSink{}
	ed, err := NewEditor(cfg, canvas, overlay)
	if err != nil {
		t.Fatal(err)
	}
	ed.Camera().CenterOn(400, 300)
	t.Cleanup(func() { _ = ed.Close() })
	return ed, canvas, overlay
}

func press(ed *Editor, x, y float64) {
	ed.HandlePointer(PointerEvent{Type: PointerDown, X: x, Y: y, Button: MouseButtonLeft, Buttons: ButtonPrimary})
}

func drag(ed *Editor, x, y float64) {
	ed.HandlePointer(PointerEvent{Type: PointerMove, X: x, Y: y, Buttons: ButtonPrimary})
}

func release(ed *Editor, x, y float64) {
	ed.HandlePointer(PointerEvent{Type: PointerUp, X: x, Y: y, Button: MouseButtonLeft})
}

func TestNewEditorValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WheelZoomStep = -1
	if _, err := NewEditor(cfg, &recordSink{}, &recordSink{}); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("bad config err = %v", err)
	}
	if _, err := NewEditor(DefaultConfig(), nil, &recordSink{}); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("nil sink err = %v", err)
	}
}

func TestEditorCreateEllipse(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	log := &eventLog{}
	ed.AddEventSink(log)

	ed.SetMode(ModeCreateEllipse)
	press(ed, 0, 0)
	drag(ed, 50, 25)
	release(ed, 100, 50)

	root := ed.Scene().Root()
	if root.NumChildren() != 1 {
		t.Fatalf("root has %d children, want 1", root.NumChildren())
	}
	n := root.ChildAt(0)
	if n.Shape().Kind() != ShapeEllipse {
		t.Errorf("Kind = %v, want ellipse", n.Shape().Kind())
	}
	b := n.WorldBoundingBox()
	if !approxEqual(b.MinX, 0, epsilon) || !approxEqual(b.MinY, 0, epsilon) ||
		!approxEqual(b.MaxX, 100, epsilon) || !approxEqual(b.MaxY, 50, epsilon) {
		t.Errorf("bounding box = %v, want [0,0]-[100,50]", b)
	}
	if ed.Selection() != n {
		t.Error("committed shape should be selected")
	}
	if ed.Mode() != ModeIdle {
		t.Errorf("Mode = %v, want idle after commit", ed.Mode())
	}
	if log.count(EventShapeCommitted) != 1 {
		t.Errorf("committed events = %d, want 1", log.count(EventShapeCommitted))
	}
	if err := ed.Scene().CheckIndex(); err != nil {
		t.Error(err)
	}
}

func TestEditorModeSwitchMidDragCreatesNothing(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ed.SetMode(ModeCreateRect)
	press(ed, 10, 10)
	drag(ed, 80, 80)
	if ed.preview == nil {
		t.Fatal("drag should show a preview")
	}

	ed.SetMode(ModePanCamera)
	release(ed, 80, 80)

	if ed.Scene().Root().NumChildren() != 0 {
		t.Error("switching modes mid-drag must not create a node")
	}
	if ed.preview != nil {
		t.Error("preview should be cleared")
	}
}

func TestEditorCommitIntoTransformedContainer(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	group := NewContainer("group")
	group.SetPosition(100, 100)
	group.SetScale(2, 2)
	_ = ed.Scene().Root().AddChild(group)
	if err := ed.SetActiveContainer(group); err != nil {
		t.Fatal(err)
	}

	ed.SetMode(ModeCreateRect)
	press(ed, 120, 140)
	release(ed, 220, 240)

	if group.NumChildren() != 1 {
		t.Fatalf("group has %d children, want 1", group.NumChildren())
	}
	n := group.ChildAt(0)
	if n.Shape() != (Rect{50, 50}) {
		t.Errorf("local shape = %v, want 50×50", n.Shape())
	}
	b := n.WorldBoundingBox()
	if !approxEqual(b.MinX, 120, epsilon) || !approxEqual(b.MaxY, 240, epsilon) {
		t.Errorf("world box = %v", b)
	}
}

func TestEditorCommitIntoSingularContainerSkipped(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	log := &eventLog{}
	ed.AddEventSink(log)
	group := NewContainer("flat")
	group.SetScale(0, 1)
	_ = ed.Scene().Root().AddChild(group)
	if err := ed.SetActiveContainer(group); err != nil {
		t.Fatal(err)
	}

	ed.SetMode(ModeCreateRect)
	press(ed, 10, 10)
	drag(ed, 60, 60)
	release(ed, 60, 60)

	if group.NumChildren() != 0 {
		t.Errorf("singular container got %d children", group.NumChildren())
	}
	if log.count(EventShapeCommitted) != 0 {
		t.Error("no commit event expected")
	}
	if ed.preview != nil {
		t.Error("preview should still be cleared")
	}
	if ed.Mode() != ModeIdle {
		t.Errorf("Mode = %v, want idle", ed.Mode())
	}
}

func TestEditorActiveContainerFallsBack(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	if err := ed.SetActiveContainer(NewContainer("loose")); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("detached container err = %v", err)
	}
	group := NewContainer("group")
	_ = ed.Scene().Root().AddChild(group)
	_ = ed.SetActiveContainer(group)
	group.RemoveFromParent()
	if ed.ActiveContainer() != ed.Scene().Root() {
		t.Error("removed container should fall back to root")
	}
}

func TestEditorSelectTopmost(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	a := NewRect("A", 0, 0, 100, 100)
	b := NewRect("B", 50, 50, 100, 100)
	_ = ed.Scene().Root().AddChild(a)
	_ = ed.Scene().Root().AddChild(b)

	press(ed, 75, 75)
	release(ed, 75, 75)
	if ed.Selection() != b {
		t.Errorf("Selection = %v, want B", ed.Selection())
	}

	// Clicking empty space keeps the selection.
	press(ed, 500, 500)
	if ed.Selection() != b {
		t.Error("miss should keep the selection")
	}
}

func TestEditorSelectionClearedByRemoval(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	n := NewRect("n", 0, 0, 10, 10)
	_ = ed.Scene().Root().AddChild(n)
	if err := ed.Select(n); err != nil {
		t.Fatal(err)
	}
	n.RemoveFromParent()
	if ed.Selection() != nil {
		t.Error("removed node should not read as selected")
	}
	if err := ed.Select(n); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("selecting a detached node err = %v", err)
	}
}

func TestEditorWheelZoomKeepsCursorPoint(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	wx, wy := ed.Camera().ScreenToWorld(200, 100)
	ed.HandlePointer(PointerEvent{Type: PointerWheel, X: 200, Y: 100, WheelDelta: 3})
	if ed.Camera().Zoom() <= 1 {
		t.Errorf("Zoom = %v, want > 1", ed.Camera().Zoom())
	}
	sx, sy := ed.Camera().WorldToScreen(wx, wy)
	if !approxEqual(sx, 200, 1e-9) || !approxEqual(sy, 100, 1e-9) {
		t.Errorf("cursor point moved to (%v, %v)", sx, sy)
	}
}

func TestEditorPanDragMovesContent(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ed.SetMode(ModePanCamera)
	wx, wy := ed.Camera().ScreenToWorld(100, 100)
	press(ed, 100, 100)
	drag(ed, 130, 120)
	release(ed, 130, 120)
	// The world point grabbed follows the pointer.
	sx, sy := ed.Camera().WorldToScreen(wx, wy)
	if !approxEqual(sx, 130, 1e-9) || !approxEqual(sy, 120, 1e-9) {
		t.Errorf("grabbed point at (%v, %v), want (130, 120)", sx, sy)
	}
}

func TestEditorFrameDrawsOnlyDirtyParts(t *testing.T) {
	ed, canvas, overlay := newTestEditor(t)
	_ = ed.Scene().Root().AddChild(NewRect("r", 10, 10, 20, 20))

	stats, err := ed.Frame()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Drawn != 2 {
		t.Errorf("first frame drew %d parts, want 2", stats.Drawn)
	}
	if len(canvas.fills) != 1 {
		t.Errorf("canvas fills = %d, want 1", len(canvas.fills))
	}

	stats, _ = ed.Frame()
	if stats.Drawn != 0 {
		t.Errorf("idle frame drew %d parts", stats.Drawn)
	}

	// Selection only touches the overlay.
	canvasClears := canvas.clears
	_ = ed.Select(ed.Scene().Root().ChildAt(0))
	_, _ = ed.Frame()
	if canvas.clears != canvasClears {
		t.Error("selection change redrew the canvas")
	}
	if len(overlay.strokes) == 0 {
		t.Error("overlay should outline the selection")
	}

	// A camera change redraws both.
	ed.Camera().PanBy(5, 0)
	stats, _ = ed.Frame()
	if stats.Drawn != 2 {
		t.Errorf("camera change drew %d parts, want 2", stats.Drawn)
	}
}

func TestEditorResizeForcesRedraw(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	_, _ = ed.Frame()
	if err := ed.Resize(1024, 768); err != nil {
		t.Fatal(err)
	}
	for _, p := range ed.Scheduler().Parts() {
		if !p.NeedsRender() {
			t.Errorf("part %q should be dirty after resize", p.Name)
		}
	}
	stats, _ := ed.Frame()
	if stats.Drawn != len(ed.Scheduler().Parts()) {
		t.Errorf("drew %d parts, want all", stats.Drawn)
	}
	if err := ed.Resize(0, 10); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("Resize(0, 10) err = %v", err)
	}
}

func TestEditorCanvasCullsOffscreen(t *testing.T) {
	ed, canvas, _ := newTestEditor(t)
	_ = ed.Scene().Root().AddChild(NewRect("on", 10, 10, 20, 20))
	_ = ed.Scene().Root().AddChild(NewRect("off", 5000, 5000, 20, 20))
	_, _ = ed.Frame()
	if len(canvas.fills) != 1 {
		t.Errorf("canvas fills = %d, want only the visible node", len(canvas.fills))
	}
}

func TestEditorModeEvents(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	log := &eventLog{}
	ed.AddEventSink(log)
	ed.SetMode(ModeZoomCamera)
	ed.SetMode(ModeZoomCamera)
	ed.SetMode(ModeIdle)
	if got := log.count(EventModeChanged); got != 2 {
		t.Errorf("mode events = %d, want 2", got)
	}
}

func TestEditorCloseClosesRegistry(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	c := &closer{}
	_ = ed.Registry().Register("exporter", c)
	if err := ed.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ed.Close(); err != nil {
		t.Fatal(err)
	}
	if c.closed != 1 {
		t.Errorf("closed %d times, want 1", c.closed)
	}
}
