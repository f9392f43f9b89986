package vellum

import (
	"errors"
	"testing"
)

// fakeSnapshotter records snapshot labels and the selection at capture time.
type fakeSnapshotter struct {
	labels []string
	err    error
}

func (s *fakeSnapshotter) Snapshot(label string) error {
	s.labels = append(s.labels, label)
	return s.err
}

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "snapshot", "label": "initial"},
			{"action": "tool", "tool": "rect"},
			{"action": "drag", "fromX": 10, "fromY": 10, "toX": 90, "toY": 60, "frames": 4},
			{"action": "wait", "frames": 3},
			{"action": "wheel", "x": 100, "y": 100, "delta": -1},
			{"action": "click", "x": 100, "y": 200}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(runner.steps))
	}
	if runner.steps[1].Tool != "rect" {
		t.Error("step 1 mismatch")
	}
	if st := runner.steps[2]; st.FromX != 10 || st.ToY != 60 || st.Frames != 4 {
		t.Errorf("step 2 mismatch: %+v", st)
	}
	if runner.steps[4].Delta != -1 {
		t.Error("step 4 mismatch")
	}
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `not json`},
		{"no steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "teleport"}]}`},
		{"unknown tool", `{"steps": [{"action": "tool", "tool": "lasso"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTestScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// runScript plays runner on ed until done, failing after limit frames.
func runScript(t *testing.T, ed *Editor, runner *TestRunner, limit int) int {
	t.Helper()
	ed.SetTestRunner(runner)
	frames := 0
	for !runner.Done() {
		if frames >= limit {
			t.Fatalf("script not done after %d frames", limit)
		}
		ed.Update(1.0 / 60)
		if _, err := ed.Frame(); err != nil {
			t.Fatal(err)
		}
		frames++
	}
	return frames
}

func TestTestRunnerDrawsShape(t *testing.T) {
	ed, canvas, _ := newTestEditor(t)
	snaps := &fakeSnapshotter{}
	ed.SetSnapshotter(snaps)

	runner, err := LoadTestScript([]byte(`{
		"steps": [
			{"action": "tool", "tool": "ellipse"},
			{"action": "drag", "fromX": 0, "fromY": 0, "toX": 100, "toY": 50, "frames": 3},
			{"action": "snapshot", "label": "after-drag"},
			{"action": "wait", "frames": 2}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, ed, runner, 100)

	if len(snaps.labels) != 1 || snaps.labels[0] != "after-drag" {
		t.Errorf("snapshots = %v", snaps.labels)
	}
	if len(runner.Errors()) != 0 {
		t.Errorf("errors = %v", runner.Errors())
	}
	root := ed.Scene().Root()
	if root.NumChildren() != 1 || root.ChildAt(0).Shape().Kind() != ShapeEllipse {
		t.Fatalf("scene should hold one ellipse")
	}
	if len(canvas.fills) == 0 {
		t.Error("canvas never drew the ellipse")
	}
}

func TestTestRunnerWaitCountsFrames(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   int
	}{
		{"single frame", `{"steps": [{"action": "wait", "frames": 1}]}`, 1},
		{"trailing wait", `{"steps": [{"action": "wait", "frames": 5}]}`, 5},
		{"wait then tool", `{"steps": [{"action": "wait", "frames": 3}, {"action": "tool", "tool": "rect"}]}`, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, _, _ := newTestEditor(t)
			runner, err := LoadTestScript([]byte(tt.script))
			if err != nil {
				t.Fatal(err)
			}
			if frames := runScript(t, ed, runner, 100); frames != tt.want {
				t.Errorf("script took %d frames, want %d", frames, tt.want)
			}
		})
	}
}

func TestTestRunnerSnapshotErrors(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	boom := errors.New("disk full")
	ed.SetSnapshotter(&fakeSnapshotter{err: boom})
	runner, _ := LoadTestScript([]byte(`{"steps": [{"action": "snapshot", "label": "x"}]}`))
	runScript(t, ed, runner, 10)
	if errs := runner.Errors(); len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Errorf("errors = %v", errs)
	}
}

func TestTestRunnerWithoutSnapshotter(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	runner, _ := LoadTestScript([]byte(`{"steps": [{"action": "snapshot", "label": "x"}, {"action": "click", "x": 1, "y": 1}]}`))
	runScript(t, ed, runner, 10)
	if len(runner.Errors()) != 0 {
		t.Errorf("missing snapshotter should only warn, got %v", runner.Errors())
	}
}
