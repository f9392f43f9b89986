package vellum

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Snapshotter captures the current frame under a label. Hosts implement it
// on top of their draw sinks, e.g. by encoding the composited layers to PNG.
type Snapshotter interface {
	Snapshot(label string) error
}

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Tool   string  `json:"tool,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input events, tool changes and snapshots
// across frames for automated testing. Attach to an Editor via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	errs      []error
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to an Editor via SetTestRunner. Unknown actions and tools
// are rejected here rather than at playback.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "click", "drag", "wheel", "wait", "snapshot":
		case "tool":
			if _, err := ParseMode(st.Tool); err != nil {
				return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the editor. The runner's step
// method is called from Editor.Update before injected input is consumed.
func (e *Editor) SetTestRunner(runner *TestRunner) {
	e.testRunner = runner
}

// SetSnapshotter sets the target of "snapshot" steps.
func (e *Editor) SetSnapshotter(s Snapshotter) {
	e.snapshotter = s
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Errors returns the snapshot failures seen so far.
func (r *TestRunner) Errors() []error {
	return r.errs
}

// step advances the test runner by one frame. Called from Editor.Update.
func (r *TestRunner) step(e *Editor) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
		return
	}
	// Count down wait frames. A trailing wait ends the script on its last frame.
	if r.waitCount > 0 {
		r.waitCount--
		if r.waitCount == 0 && r.cursor >= len(r.steps) {
			r.done = true
		}
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "snapshot":
		r.snapshot(e, st.Label)
	case "click":
		e.InjectClick(st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "wheel":
		e.InjectWheel(st.X, st.Y, st.Delta)
	case "tool":
		m, _ := ParseMode(st.Tool)
		e.SetMode(m)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}

// snapshot renders any dirty parts first so the capture shows the state
// after every preceding step.
func (r *TestRunner) snapshot(e *Editor, label string) {
	if e.snapshotter == nil {
		Logger().Warn("snapshot step without snapshotter", slog.String("label", label))
		return
	}
	if _, err := e.Frame(); err != nil {
		r.errs = append(r.errs, fmt.Errorf("snapshot %q: %w", label, err))
		return
	}
	if err := e.snapshotter.Snapshot(label); err != nil {
		r.errs = append(r.errs, fmt.Errorf("snapshot %q: %w", label, err))
	}
}
