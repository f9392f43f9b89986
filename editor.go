package vellum

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// EditorEventType identifies an editor notification.
type EditorEventType uint8

const (
	EventShapeCommitted EditorEventType = iota
	EventSelectionChanged
	EventModeChanged
)

// String returns the event type name.
func (t EditorEventType) String() string {
	switch t {
	case EventShapeCommitted:
		return "shape-committed"
	case EventSelectionChanged:
		return "selection-changed"
	case EventModeChanged:
		return "mode-changed"
	default:
		return fmt.Sprintf("EditorEventType(%d)", uint8(t))
	}
}

// EditorEvent carries a notification to EventSinks. NodeID and UID are zero
// when the selection was cleared or for mode changes.
type EditorEvent struct {
	Type   EditorEventType
	NodeID uint32
	UID    uuid.UUID
	Kind   ShapeKind
	Box    AABB
	Mode   Mode
}

// EventSink receives editor notifications, e.g. to forward them to an ECS.
// Sinks are called synchronously and must not mutate the editor.
type EventSink interface {
	EmitEvent(event EditorEvent)
}

// preview is the pending shape of a create gesture.
type preview struct {
	kind ShapeKind
	box  AABB
}

// Editor wires the scene, camera, render scheduler, capability registry and
// interaction state machine together. Pointer events go in through
// HandlePointer; drawing happens only in Frame.
type Editor struct {
	cfg       Config
	scene     *Scene
	camera    *Camera
	scheduler *Scheduler
	registry  *Registry

	machine   Machine
	active    *Node
	selection *Node
	preview   *preview
	sinks     []EventSink
	created   int

	injectQueue []PointerEvent
	testRunner  *TestRunner
	snapshotter Snapshotter

	closed bool
}

// NewEditor creates an editor whose scene renders into canvas and whose
// preview and selection render into overlay, drawn on top.
func NewEditor(cfg Config, canvas, overlay DrawSink) (*Editor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if canvas == nil || overlay == nil {
		return nil, illegalArgument("editor needs canvas and overlay sinks")
	}
	e := &Editor{
		cfg:      cfg,
		scene:    NewSceneWithIndex(cfg.IndexMaxEntries),
		camera:   NewCamera(AABB{0, 0, cfg.ViewportWidth, cfg.ViewportHeight}),
		registry: NewRegistry(),
	}
	e.camera.MinZoom, e.camera.MaxZoom = cfg.MinZoom, cfg.MaxZoom
	e.scheduler = NewScheduler(e.camera)

	// Parts are valid by construction; AddPart cannot fail here.
	_ = e.scheduler.AddPart(&RenderPart{
		Name:    PartCanvas,
		Depends: DependsScene | DependsCamera,
		Sink:    canvas,
		Draw:    canvasDraw(e.scene, e.camera, e.scheduler),
	})
	_ = e.scheduler.AddPart(&RenderPart{
		Name:    PartOverlay,
		Depends: DependsAll,
		Sink:    overlay,
		Draw:    overlayDraw(e),
	})

	e.scene.SetChangeListener(func() { e.scheduler.Invalidate(DependsScene) })
	e.camera.SetChangeListener(func() { e.scheduler.Invalidate(DependsCamera) })
	e.SetDebugMode(cfg.Debug)
	return e, nil
}

// Scene returns the edited scene.
func (e *Editor) Scene() *Scene { return e.scene }

// Camera returns the view camera.
func (e *Editor) Camera() *Camera { return e.camera }

// Scheduler returns the render scheduler.
func (e *Editor) Scheduler() *Scheduler { return e.scheduler }

// Registry returns the editor's capability registry. It is closed by Close.
func (e *Editor) Registry() *Registry { return e.registry }

// Config returns the settings the editor was created with.
func (e *Editor) Config() Config { return e.cfg }

// Mode returns the active interaction mode.
func (e *Editor) Mode() Mode { return e.machine.Mode }

// Machine returns a copy of the interaction state.
func (e *Editor) Machine() Machine { return e.machine }

// SetDebugMode enables debug checks and per-frame debug logging.
func (e *Editor) SetDebugMode(enabled bool) {
	e.cfg.Debug = enabled
	e.scene.SetDebugMode(enabled)
	e.scheduler.SetDebugMode(enabled)
}

// AddEventSink registers s to receive editor notifications.
func (e *Editor) AddEventSink(s EventSink) {
	if s != nil {
		e.sinks = append(e.sinks, s)
	}
}

// SetMode selects a tool. A gesture in progress is abandoned: a pending
// shape is discarded, never committed.
func (e *Editor) SetMode(m Mode) {
	next, effects := Switch(e.machine, m)
	e.machine = next
	e.apply(effects)
}

// HandlePointer feeds one pointer event through the state machine and
// applies the resulting effects immediately.
func (e *Editor) HandlePointer(ev PointerEvent) {
	wx, wy := e.camera.ScreenToWorld(ev.X, ev.Y)
	next, effects := Step(e.machine, Input{Event: ev, WorldX: wx, WorldY: wy}, e.cfg)
	e.machine = next
	e.apply(effects)
}

// Selection returns the selected node, or nil. A selected node that has
// since been removed from the scene reads as no selection.
func (e *Editor) Selection() *Node {
	if e.selection == nil || e.selection.scene != e.scene {
		return nil
	}
	return e.selection
}

// Select sets the selection. n must be attached to the editor's scene, or
// nil to clear the selection.
func (e *Editor) Select(n *Node) error {
	if n != nil && n.scene != e.scene {
		return illegalArgument("node %q is not in the editor's scene", n.Name)
	}
	e.setSelection(n)
	return nil
}

// ActiveContainer returns the node new shapes are added to. It falls back
// to the scene root when unset or when the container left the scene.
func (e *Editor) ActiveContainer() *Node {
	if e.active == nil || e.active.scene != e.scene {
		return e.scene.root
	}
	return e.active
}

// SetActiveContainer sets the node new shapes are added to. nil selects the
// scene root.
func (e *Editor) SetActiveContainer(n *Node) error {
	if n != nil && n.scene != e.scene {
		return illegalArgument("container %q is not in the editor's scene", n.Name)
	}
	e.active = n
	return nil
}

// Resize changes the viewport and forces a full repaint.
func (e *Editor) Resize(width, height float64) error {
	if err := e.camera.SetViewport(AABB{0, 0, width, height}); err != nil {
		return err
	}
	e.scheduler.ForceRedraw()
	return nil
}

// Update advances the test runner, consumes one injected event and
// advances camera animations. dt is in seconds.
func (e *Editor) Update(dt float32) {
	if e.testRunner != nil {
		e.testRunner.step(e)
	}
	e.processInjectedInput()
	e.camera.update(dt)
}

// Frame runs one frame tick of the render scheduler.
func (e *Editor) Frame() (FrameStats, error) {
	stats, err := e.scheduler.OnFrameTick()
	if e.cfg.Debug {
		debugCheckIndex(e.scene)
	}
	return stats, err
}

// Close releases the editor's capability registry. It is safe to call more
// than once.
func (e *Editor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.registry.Close()
}

// apply performs the effects of one transition in order.
func (e *Editor) apply(effects []Effect) {
	for _, fx := range effects {
		switch fx.Kind {
		case EffectPanCamera:
			e.camera.PanBy(fx.DX, fx.DY)
		case EffectZoomCamera:
			if err := e.camera.ZoomAt(fx.X, fx.Y, fx.Factor); err != nil {
				Logger().Warn("zoom rejected", slog.Float64("factor", fx.Factor), slog.Any("err", err))
			}
		case EffectPreview:
			e.preview = &preview{kind: fx.Shape, box: fx.Box}
			e.scheduler.Invalidate(DependsSelection)
		case EffectClearPreview:
			if e.preview != nil {
				e.preview = nil
				e.scheduler.Invalidate(DependsSelection)
			}
		case EffectCommit:
			e.commit(fx.Shape, fx.Box)
		case EffectSelect:
			if hit := e.scene.HitTest(fx.X, fx.Y); hit != nil {
				e.setSelection(hit)
			}
		case EffectModeChanged:
			Logger().Info("mode changed", slog.String("mode", fx.Mode.String()))
			e.emit(EditorEvent{Type: EventModeChanged, Mode: fx.Mode})
		default:
			panic(unknownVariant("EffectKind", fx.Kind))
		}
	}
}

// commit creates a shape node covering the world box inside the active
// container and selects it.
func (e *Editor) commit(kind ShapeKind, box AABB) {
	parent := e.ActiveContainer()
	if !parent.WorldTransform().Invertible() {
		Logger().Warn("commit skipped: container transform is singular",
			slog.String("parent", parent.Name), slog.String("kind", kind.String()))
		return
	}
	x0, y0 := parent.WorldToLocal(box.MinX, box.MinY)
	x1, y1 := parent.WorldToLocal(box.MaxX, box.MaxY)
	local := NewAABB(x0, y0, x1, y1)

	e.created++
	n := NewShapeNode(fmt.Sprintf("%s-%d", kind, e.created), NewShape(kind, local.Width(), local.Height()))
	n.SetPosition(local.MinX, local.MinY)
	if err := parent.AddChild(n); err != nil {
		Logger().Warn("commit failed", slog.String("parent", parent.Name), slog.Any("err", err))
		return
	}
	Logger().Info("shape committed",
		slog.String("kind", kind.String()), slog.String("name", n.Name), slog.Any("box", box))
	e.emit(EditorEvent{Type: EventShapeCommitted, NodeID: n.ID, UID: n.UID, Kind: kind, Box: n.WorldBoundingBox()})
	e.setSelection(n)
}

func (e *Editor) setSelection(n *Node) {
	if e.selection == n {
		return
	}
	e.selection = n
	e.scheduler.Invalidate(DependsSelection)
	ev := EditorEvent{Type: EventSelectionChanged}
	if n != nil {
		ev.NodeID, ev.UID, ev.Box = n.ID, n.UID, n.WorldBoundingBox()
		if n.shape != nil {
			ev.Kind = n.shape.Kind()
		}
	}
	e.emit(ev)
}

func (e *Editor) emit(ev EditorEvent) {
	for _, s := range e.sinks {
		s.EmitEvent(ev)
	}
}
