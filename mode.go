package vellum

import (
	"fmt"
	"math"
)

// Mode is the active interaction mode. Exactly one is active at a time.
type Mode uint8

const (
	ModeIdle          Mode = iota // selection by click
	ModePanCamera                 // drag pans the camera
	ModeZoomCamera                // vertical drag zooms around the press point
	ModeCreateRect                // drag out a rectangle
	ModeCreateEllipse             // drag out an ellipse
)

var modeNames = [...]string{
	ModeIdle:          "idle",
	ModePanCamera:     "pan",
	ModeZoomCamera:    "zoom",
	ModeCreateRect:    "rect",
	ModeCreateEllipse: "ellipse",
}

// String returns the mode's tool name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode maps a tool name produced by String back to its mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return 0, illegalArgument("unknown mode %q", s)
}

// CreateKind returns the shape kind a create mode produces. ok is false for
// modes that create nothing.
func (m Mode) CreateKind() (kind ShapeKind, ok bool) {
	switch m {
	case ModeIdle, ModePanCamera, ModeZoomCamera:
		return 0, false
	case ModeCreateRect:
		return ShapeRect, true
	case ModeCreateEllipse:
		return ShapeEllipse, true
	default:
		panic(unknownVariant("Mode", m))
	}
}

// PointerEventType is the kind of a pointer event.
type PointerEventType uint8

const (
	PointerDown PointerEventType = iota
	PointerMove
	PointerUp
	PointerWheel
)

// String returns the event type name.
func (t PointerEventType) String() string {
	switch t {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerWheel:
		return "wheel"
	default:
		return fmt.Sprintf("PointerEventType(%d)", uint8(t))
	}
}

// PointerEvent is one discrete pointer event in screen coordinates.
type PointerEvent struct {
	Type PointerEventType
	X, Y float64
	// Button is the button that changed state on Down and Up.
	Button MouseButton
	// Buttons is the set of buttons held after the event.
	Buttons   Buttons
	Modifiers KeyModifiers
	// WheelDelta is the number of notches scrolled, positive away from the
	// user (zoom in).
	WheelDelta float64
}

// Input is a pointer event paired with its world-space position, resolved
// through the camera before the transition function runs.
type Input struct {
	Event          PointerEvent
	WorldX, WorldY float64
}

// EffectKind identifies a side effect requested by a transition.
type EffectKind uint8

const (
	EffectPanCamera    EffectKind = iota // Camera.PanBy(DX, DY)
	EffectZoomCamera                     // Camera.ZoomAt(X, Y, Factor)
	EffectPreview                        // show a pending Shape over Box
	EffectClearPreview                   // drop the pending shape
	EffectCommit                         // create a Shape node covering Box
	EffectSelect                         // hit test at world point (X, Y)
	EffectModeChanged                    // Mode became the active mode
)

// String returns the effect name.
func (k EffectKind) String() string {
	switch k {
	case EffectPanCamera:
		return "pan"
	case EffectZoomCamera:
		return "zoom"
	case EffectPreview:
		return "preview"
	case EffectClearPreview:
		return "clear-preview"
	case EffectCommit:
		return "commit"
	case EffectSelect:
		return "select"
	case EffectModeChanged:
		return "mode"
	default:
		return fmt.Sprintf("EffectKind(%d)", uint8(k))
	}
}

// Effect is a side effect for the editor to apply. Which fields are set
// depends on Kind.
type Effect struct {
	Kind EffectKind
	// DX, DY is a camera pan in screen pixels.
	DX, DY float64
	// X, Y is the zoom anchor in screen space or the select point in world
	// space.
	X, Y   float64
	Factor float64
	Shape  ShapeKind
	// Box is the world-space box of a preview or commit.
	Box  AABB
	Mode Mode
}

// gesture is the transient state of one pointer-down-to-up sequence.
type gesture struct {
	active           bool
	button           MouseButton
	startX, startY   float64 // screen
	lastX, lastY     float64 // screen
	anchorX, anchorY float64 // world
}

// Machine is the interaction state. The zero value is idle with no gesture.
// It is a plain value: Step and Switch return the next state rather than
// mutating their argument.
type Machine struct {
	// Mode is the active mode.
	Mode Mode
	// Tool is the explicitly selected mode. Temporary pan and zoom
	// gestures return to it on release.
	Tool Mode

	g gesture
}

// Gesturing reports whether a pointer gesture is in progress.
func (m Machine) Gesturing() bool {
	return m.g.active
}

// Switch selects a tool. Any gesture in progress is discarded without
// committing anything.
func Switch(m Machine, to Mode) (Machine, []Effect) {
	to.CreateKind() // rejects unknown modes
	var effects []Effect
	if _, creating := m.Mode.CreateKind(); creating && m.g.active {
		effects = append(effects, Effect{Kind: EffectClearPreview})
	}
	prev := m.Mode
	m = Machine{Mode: to, Tool: to}
	if prev != to {
		effects = append(effects, Effect{Kind: EffectModeChanged, Mode: to})
	}
	return m, effects
}

// Step is the transition function: it returns the state after in and the
// effects to apply, in order. It never touches the scene or camera.
func Step(m Machine, in Input, cfg Config) (Machine, []Effect) {
	ev := in.Event
	switch ev.Type {
	case PointerDown, PointerMove, PointerUp:
	case PointerWheel:
		return m, wheelEffects(ev, cfg)
	default:
		panic(unknownVariant("PointerEventType", ev.Type))
	}

	if ev.Type == PointerDown && !m.g.active {
		if mode, ok := triggeredMode(ev, cfg); ok {
			return begin(m, mode, in)
		}
	}

	switch m.Mode {
	case ModeIdle:
		return stepIdle(m, in)
	case ModePanCamera:
		return stepPan(m, in)
	case ModeZoomCamera:
		return stepZoom(m, in, cfg)
	case ModeCreateRect, ModeCreateEllipse:
		return stepCreate(m, in, cfg)
	default:
		panic(unknownVariant("Mode", m.Mode))
	}
}

// triggeredMode reports whether a press starts a temporary pan or zoom.
func triggeredMode(ev PointerEvent, cfg Config) (Mode, bool) {
	switch {
	case ev.Button == cfg.PanButton && cfg.PanButton != MouseButtonLeft:
		return ModePanCamera, true
	case ev.Button == MouseButtonLeft && ev.Modifiers&ModSpace != 0:
		return ModePanCamera, true
	case ev.Button == MouseButtonLeft && cfg.ZoomModifier != 0 && ev.Modifiers&cfg.ZoomModifier == cfg.ZoomModifier:
		return ModeZoomCamera, true
	}
	return 0, false
}

func begin(m Machine, mode Mode, in Input) (Machine, []Effect) {
	m.g = gesture{
		active:  true,
		button:  in.Event.Button,
		startX:  in.Event.X,
		startY:  in.Event.Y,
		lastX:   in.Event.X,
		lastY:   in.Event.Y,
		anchorX: in.WorldX,
		anchorY: in.WorldY,
	}
	var effects []Effect
	if m.Mode != mode {
		m.Mode = mode
		effects = append(effects, Effect{Kind: EffectModeChanged, Mode: mode})
	}
	return m, effects
}

// end finishes a gesture and returns to the selected tool.
func end(m Machine, effects []Effect) (Machine, []Effect) {
	m.g = gesture{}
	if m.Mode != m.Tool {
		m.Mode = m.Tool
		effects = append(effects, Effect{Kind: EffectModeChanged, Mode: m.Mode})
	}
	return m, effects
}

func stepIdle(m Machine, in Input) (Machine, []Effect) {
	ev := in.Event
	if ev.Type == PointerDown && ev.Button == MouseButtonLeft {
		return m, []Effect{{Kind: EffectSelect, X: in.WorldX, Y: in.WorldY}}
	}
	return m, nil
}

func stepPan(m Machine, in Input) (Machine, []Effect) {
	ev := in.Event
	switch {
	case ev.Type == PointerDown && !m.g.active && ev.Button == MouseButtonLeft:
		m, _ = begin(m, ModePanCamera, in)
		return m, nil
	case !m.g.active:
		return m, nil
	case ev.Type == PointerMove:
		dx, dy := ev.X-m.g.lastX, ev.Y-m.g.lastY
		m.g.lastX, m.g.lastY = ev.X, ev.Y
		if dx == 0 && dy == 0 {
			return m, nil
		}
		// The content follows the pointer, so the focal point moves against it.
		return m, []Effect{{Kind: EffectPanCamera, DX: -dx, DY: -dy}}
	case ev.Type == PointerUp && ev.Button == m.g.button:
		return end(m, nil)
	}
	return m, nil
}

func stepZoom(m Machine, in Input, cfg Config) (Machine, []Effect) {
	ev := in.Event
	switch {
	case ev.Type == PointerDown && !m.g.active && ev.Button == MouseButtonLeft:
		m, _ = begin(m, ModeZoomCamera, in)
		return m, nil
	case !m.g.active:
		return m, nil
	case ev.Type == PointerMove:
		dy := ev.Y - m.g.lastY
		m.g.lastX, m.g.lastY = ev.X, ev.Y
		if dy == 0 {
			return m, nil
		}
		// Dragging up zooms in.
		factor := math.Exp(-dy * cfg.ZoomSensitivity)
		return m, []Effect{{Kind: EffectZoomCamera, X: m.g.startX, Y: m.g.startY, Factor: factor}}
	case ev.Type == PointerUp && ev.Button == m.g.button:
		return end(m, nil)
	}
	return m, nil
}

func stepCreate(m Machine, in Input, cfg Config) (Machine, []Effect) {
	kind, _ := m.Mode.CreateKind()
	ev := in.Event
	switch {
	case ev.Type == PointerDown && !m.g.active && ev.Button == MouseButtonLeft:
		m, _ = begin(m, m.Mode, in)
		box := AABB{in.WorldX, in.WorldY, in.WorldX, in.WorldY}
		return m, []Effect{{Kind: EffectPreview, Shape: kind, Box: box}}
	case !m.g.active:
		return m, nil
	case ev.Type == PointerMove:
		m.g.lastX, m.g.lastY = ev.X, ev.Y
		box := NewAABB(m.g.anchorX, m.g.anchorY, in.WorldX, in.WorldY)
		return m, []Effect{{Kind: EffectPreview, Shape: kind, Box: box}}
	case ev.Type == PointerUp && ev.Button == m.g.button:
		effects := []Effect{{Kind: EffectClearPreview}}
		travelX, travelY := math.Abs(ev.X-m.g.startX), math.Abs(ev.Y-m.g.startY)
		if travelX > cfg.DragDeadZone || travelY > cfg.DragDeadZone {
			box := NewAABB(m.g.anchorX, m.g.anchorY, in.WorldX, in.WorldY)
			effects = append(effects, Effect{Kind: EffectCommit, Shape: kind, Box: box})
		}
		if !cfg.StayInTool {
			m.Tool = ModeIdle
		}
		return end(m, effects)
	}
	return m, nil
}

func wheelEffects(ev PointerEvent, cfg Config) []Effect {
	if ev.WheelDelta == 0 {
		return nil
	}
	factor := math.Pow(cfg.WheelZoomStep, ev.WheelDelta)
	return []Effect{{Kind: EffectZoomCamera, X: ev.X, Y: ev.Y, Factor: factor}}
}
