package giosink

import (
	"image/color"
	"log/slog"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/phanxgames/vellum"
)

// Host embeds a vellum editor in a Gio layout. Call Layout from the
// window's frame handler; it feeds pointer input to the editor, runs a
// frame tick and replays the canvas and overlay recordings.
type Host struct {
	Background color.NRGBA

	editor  *vellum.Editor
	canvas  *Layer
	overlay *Layer
	buttons pointer.Buttons
	w, h    int
}

// NewHost creates an editor drawing into two Gio layers.
func NewHost(cfg vellum.Config) (*Host, error) {
	canvas, overlay := NewLayer(), NewLayer()
	ed, err := vellum.NewEditor(cfg, canvas, overlay)
	if err != nil {
		return nil, err
	}
	return &Host{
		Background: color.NRGBA{R: 0x1c, G: 0x1e, B: 0x24, A: 0xff},
		editor:     ed,
		canvas:     canvas,
		overlay:    overlay,
		w:          int(cfg.ViewportWidth),
		h:          int(cfg.ViewportHeight),
	}, nil
}

// Editor returns the hosted editor.
func (h *Host) Editor() *vellum.Editor { return h.editor }

// Layout handles input and draws the editor filling gtx.Constraints.Max.
func (h *Host) Layout(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	if size.X != h.w || size.Y != h.h {
		h.w, h.h = size.X, size.Y
		if err := h.editor.Resize(float64(size.X), float64(size.Y)); err != nil {
			vellum.Logger().Warn("resize rejected", slog.Any("err", err))
		}
	}

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	event.Op(gtx.Ops, h)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  h,
			Kinds:   pointer.Press | pointer.Release | pointer.Drag | pointer.Move | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			for _, pev := range h.translate(pe) {
				h.editor.HandlePointer(pev)
			}
		}
	}

	h.editor.Update(1.0 / 60)
	if _, err := h.editor.Frame(); err != nil {
		vellum.Logger().Warn("frame failed", slog.Any("err", err))
	}
	if h.editor.Camera().Animating() || h.editor.PendingInput() > 0 {
		gtx.Execute(op.InvalidateCmd{})
	}

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	paint.ColorOp{Color: h.Background}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	h.canvas.Call().Add(gtx.Ops)
	h.overlay.Call().Add(gtx.Ops)
	return layout.Dimensions{Size: size}
}

var gioButtons = [...]struct {
	gb pointer.Buttons
	vb vellum.MouseButton
}{
	{pointer.ButtonPrimary, vellum.MouseButtonLeft},
	{pointer.ButtonSecondary, vellum.MouseButtonRight},
	{pointer.ButtonTertiary, vellum.MouseButtonMiddle},
}

// translate converts one Gio pointer event into vellum events. Gio reports
// the held set on press and release; the changed button is the difference
// from the previous set.
func (h *Host) translate(pe pointer.Event) []vellum.PointerEvent {
	base := vellum.PointerEvent{
		X:         float64(pe.Position.X),
		Y:         float64(pe.Position.Y),
		Buttons:   vellumButtons(pe.Buttons),
		Modifiers: vellumModifiers(pe.Modifiers),
	}
	var out []vellum.PointerEvent
	switch pe.Kind {
	case pointer.Press, pointer.Release:
		for _, b := range gioButtons {
			was, is := h.buttons.Contain(b.gb), pe.Buttons.Contain(b.gb)
			if was == is {
				continue
			}
			ev := base
			ev.Button = b.vb
			ev.Type = vellum.PointerUp
			if is {
				ev.Type = vellum.PointerDown
			}
			out = append(out, ev)
		}
		h.buttons = pe.Buttons
	case pointer.Drag, pointer.Move:
		ev := base
		ev.Type = vellum.PointerMove
		out = append(out, ev)
	case pointer.Scroll:
		if pe.Scroll.Y != 0 {
			ev := base
			ev.Type = vellum.PointerWheel
			// Gio scrolls positive toward the user.
			ev.WheelDelta = -float64(pe.Scroll.Y) / 10
			out = append(out, ev)
		}
	}
	return out
}

func vellumButtons(b pointer.Buttons) vellum.Buttons {
	var out vellum.Buttons
	for _, gb := range gioButtons {
		if b.Contain(gb.gb) {
			out |= 1 << gb.vb
		}
	}
	return out
}

func vellumModifiers(m key.Modifiers) vellum.KeyModifiers {
	var out vellum.KeyModifiers
	if m.Contain(key.ModShift) {
		out |= vellum.ModShift
	}
	if m.Contain(key.ModCtrl) {
		out |= vellum.ModCtrl
	}
	if m.Contain(key.ModAlt) {
		out |= vellum.ModAlt
	}
	if m.Contain(key.ModSuper) {
		out |= vellum.ModMeta
	}
	return out
}
