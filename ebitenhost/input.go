package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/vellum"
)

// mouseState is one frame's sample of the mouse and keyboard.
type mouseState struct {
	x, y    float64
	buttons vellum.Buttons
	wheel   float64
	mods    vellum.KeyModifiers
}

var ebitenButtons = [...]struct {
	eb ebiten.MouseButton
	vb vellum.MouseButton
}{
	{ebiten.MouseButtonLeft, vellum.MouseButtonLeft},
	{ebiten.MouseButtonRight, vellum.MouseButtonRight},
	{ebiten.MouseButtonMiddle, vellum.MouseButtonMiddle},
}

// readMouse samples the current input state.
func readMouse() mouseState {
	mx, my := ebiten.CursorPosition()
	st := mouseState{x: float64(mx), y: float64(my), mods: readModifiers()}
	for _, b := range ebitenButtons {
		if ebiten.IsMouseButtonPressed(b.eb) {
			st.buttons |= 1 << b.vb
		}
	}
	_, st.wheel = ebiten.Wheel()
	return st
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() vellum.KeyModifiers {
	var mods vellum.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= vellum.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= vellum.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= vellum.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= vellum.ModMeta
	}
	if ebiten.IsKeyPressed(ebiten.KeySpace) {
		mods |= vellum.ModSpace
	}
	return mods
}

// pointerEvents turns two consecutive samples into discrete events: one
// move if the cursor moved, then one down or up per changed button, then a
// wheel event.
func pointerEvents(prev, cur mouseState, dst []vellum.PointerEvent) []vellum.PointerEvent {
	base := vellum.PointerEvent{X: cur.x, Y: cur.y, Modifiers: cur.mods}
	if cur.x != prev.x || cur.y != prev.y {
		ev := base
		ev.Type = vellum.PointerMove
		ev.Buttons = prev.buttons
		dst = append(dst, ev)
	}
	held := prev.buttons
	for _, b := range ebitenButtons {
		was, is := prev.buttons.Has(b.vb), cur.buttons.Has(b.vb)
		if was == is {
			continue
		}
		ev := base
		ev.Button = b.vb
		if is {
			held |= 1 << b.vb
			ev.Type = vellum.PointerDown
		} else {
			held &^= 1 << b.vb
			ev.Type = vellum.PointerUp
		}
		ev.Buttons = held
		dst = append(dst, ev)
	}
	if cur.wheel != 0 {
		ev := base
		ev.Type = vellum.PointerWheel
		ev.Buttons = cur.buttons
		ev.WheelDelta = cur.wheel
		dst = append(dst, ev)
	}
	return dst
}

// Tool shortcuts.
var toolKeys = map[ebiten.Key]vellum.Mode{
	ebiten.KeyV:      vellum.ModeIdle,
	ebiten.KeyEscape: vellum.ModeIdle,
	ebiten.KeyH:      vellum.ModePanCamera,
	ebiten.KeyZ:      vellum.ModeZoomCamera,
	ebiten.KeyR:      vellum.ModeCreateRect,
	ebiten.KeyE:      vellum.ModeCreateEllipse,
}

// readToolKey returns the tool whose shortcut was pressed this tick.
func readToolKey() (vellum.Mode, bool) {
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if m, ok := toolKeys[k]; ok {
			return m, true
		}
	}
	return 0, false
}
