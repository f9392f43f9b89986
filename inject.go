package vellum

// Synthetic input uses screen coordinates, matching what a script author sees
// in a snapshot, and goes through the same camera conversion and state
// machine as real pointer input. One queued event is consumed per Update.

// InjectEvent queues an arbitrary pointer event.
func (e *Editor) InjectEvent(ev PointerEvent) {
	e.injectQueue = append(e.injectQueue, ev)
}

// InjectPress queues a left-button press at the given screen coordinates.
func (e *Editor) InjectPress(x, y float64) {
	e.InjectEvent(PointerEvent{
		Type: PointerDown, X: x, Y: y,
		Button:  MouseButtonLeft,
		Buttons: ButtonPrimary,
	})
}

// InjectMove queues a pointer move at the given screen coordinates with the
// left button held down. Use this between InjectPress and InjectRelease to
// simulate a drag.
func (e *Editor) InjectMove(x, y float64) {
	e.InjectEvent(PointerEvent{
		Type: PointerMove, X: x, Y: y,
		Button:  MouseButtonLeft,
		Buttons: ButtonPrimary,
	})
}

// InjectRelease queues a left-button release at the given screen coordinates.
func (e *Editor) InjectRelease(x, y float64) {
	e.InjectEvent(PointerEvent{
		Type: PointerUp, X: x, Y: y,
		Button: MouseButtonLeft,
	})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two frames.
func (e *Editor) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (e *Editor) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		e.InjectMove(x, y)
	}
	e.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel event of delta notches at the given screen
// coordinates.
func (e *Editor) InjectWheel(x, y, delta float64) {
	e.InjectEvent(PointerEvent{Type: PointerWheel, X: x, Y: y, WheelDelta: delta})
}

// PendingInput returns the number of queued synthetic events.
func (e *Editor) PendingInput() int {
	return len(e.injectQueue)
}

// processInjectedInput pops one event from the inject queue and handles it.
// Returns true if an event was consumed (real input should be skipped).
func (e *Editor) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	ev := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]
	e.HandlePointer(ev)
	return true
}
