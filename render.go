package vellum

import "fmt"

// Names of the render parts every editor creates.
const (
	PartCanvas  = "canvas"
	PartOverlay = "overlay"
)

// Overlay styles.
var (
	PreviewStyle = Style{
		Fill:        Color{0.25, 0.5, 0.95, 0.2},
		Stroke:      Color{0.25, 0.5, 0.95, 1},
		StrokeWidth: 1,
	}
	SelectionStyle = Style{
		Stroke:      Color{0.1, 0.45, 1, 1},
		StrokeWidth: 1,
	}
)

// drawShape emits one shape through m and fills and strokes it as st says.
// A zero alpha skips the corresponding pass.
func drawShape(sink DrawSink, m Affine, shape Shape, st Style) error {
	sink.BeginPath()
	sink.SetTransform(m)
	shape.BuildPath(sink)
	if st.Fill.A > 0 {
		if err := sink.Fill(st.Fill); err != nil {
			return err
		}
	}
	if st.Stroke.A > 0 && st.StrokeWidth > 0 {
		if err := sink.Stroke(st.Stroke, st.StrokeWidth); err != nil {
			return err
		}
	}
	return nil
}

// drawBox emits a world-space box as a rectangle.
func drawBox(sink DrawSink, view Affine, b AABB, st Style) error {
	m := view.Multiply(Translation(b.MinX, b.MinY))
	return drawShape(sink, m, Rect{Width: b.Width(), Height: b.Height()}, st)
}

// canvasDraw draws the indexed nodes overlapping the camera's visible area
// in paint order.
func canvasDraw(scene *Scene, cam *Camera, sched *Scheduler) DrawFunc {
	var buf []*Node
	return func(sink DrawSink, view Affine) error {
		buf = scene.index.AppendQueryRect(buf[:0], cam.VisibleBounds())
		scene.SortPaintOrder(buf)
		sched.nodeCount = len(buf)
		defer clear(buf)
		for _, n := range buf {
			if err := drawShape(sink, view.Multiply(n.WorldTransform()), n.shape, n.style); err != nil {
				return fmt.Errorf("node %q: %w", n.Name, err)
			}
		}
		return nil
	}
}

// overlayDraw draws the creation preview and the selection outline.
func overlayDraw(e *Editor) DrawFunc {
	return func(sink DrawSink, view Affine) error {
		if p := e.preview; p != nil {
			m := view.Multiply(Translation(p.box.MinX, p.box.MinY))
			if err := drawShape(sink, m, NewShape(p.kind, p.box.Width(), p.box.Height()), PreviewStyle); err != nil {
				return fmt.Errorf("preview: %w", err)
			}
		}
		if sel := e.Selection(); sel != nil {
			b := sel.WorldBoundingBox()
			if b.Valid() {
				if err := drawBox(sink, view, b, SelectionStyle); err != nil {
					return fmt.Errorf("selection: %w", err)
				}
			}
		}
		return nil
	}
}
