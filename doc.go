// Package vellum is the geometry and interaction core of a 2D vector
// design editor.
//
// It keeps a mutable tree of transformed shapes, a spatial index over their
// world bounding boxes, a camera, a dirty-flag render scheduler and a
// pointer-interaction state machine consistent with one another while the
// user pans, zooms and draws.
//
// # Quick start
//
// An [Editor] wires everything together. It draws through two [DrawSink]
// layers supplied by the host: the canvas holding the scene and an overlay
// holding the creation preview and selection outline. Package ggsink
// provides headless sinks on gogpu/gg; ebitenhost runs an editor in a
// window.
//
//	ed, err := vellum.NewEditor(vellum.DefaultConfig(), canvas, overlay)
//	if err != nil {
//		return err
//	}
//	defer ed.Close()
//
//	ed.SetMode(vellum.ModeCreateRect)
//	ed.HandlePointer(vellum.PointerEvent{Type: vellum.PointerDown, X: 10, Y: 10})
//	ed.HandlePointer(vellum.PointerEvent{Type: vellum.PointerMove, X: 90, Y: 60})
//	ed.HandlePointer(vellum.PointerEvent{Type: vellum.PointerUp, X: 90, Y: 60})
//
//	// once per display frame
//	ed.Update(1.0 / 60)
//	stats, err := ed.Frame()
//
// # Scene graph
//
// Every element is a [Node]. A node with a nil [Shape] is a pure container.
// Nodes form a tree rooted at [Scene.Root]; children inherit their parent's
// transform and paint on top of it, later siblings on top of earlier ones.
//
//	group := vellum.NewContainer("group")
//	_ = scene.Root().AddChild(group)
//	_ = group.AddChild(vellum.NewRect("a", 0, 0, 100, 60))
//
// Structural mistakes such as re-parenting an attached node, an
// out-of-range index or removing a non-child return errors wrapping
// [ErrIllegalArgument] and leave the tree untouched.
//
// # Spatial index
//
// Each attached, visible shape node has exactly one entry in the scene's
// [SpatialIndex], an R-tree keyed by node. The scene updates it
// synchronously on every mutation. [Scene.HitTest] uses it as a pre-filter
// and then tests exact geometry, picking the topmost node in paint order.
//
// # Rendering
//
// Mutations never draw. They mark [RenderPart]s dirty; [Scheduler.OnFrameTick]
// redraws each dirty part exactly once and skips clean ones.
//
// # Interaction
//
// [Step] is a pure transition function from ([Machine], [Input]) to the next
// machine and a list of [Effect]s, which the editor applies to the camera
// and scene. Switching tools mid-gesture discards the gesture.
//
// # Logging
//
// vellum logs through [log/slog]. Nothing is logged until [SetLogger] is
// called.
package vellum
