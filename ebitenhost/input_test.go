package ebitenhost

import (
	"testing"

	"github.com/phanxgames/vellum"
)

var _ vellum.DrawSink = (*Layer)(nil)

func TestPointerEvents(t *testing.T) {
	left := vellum.ButtonPrimary
	middle := vellum.ButtonTertiary

	tests := []struct {
		name      string
		prev, cur mouseState
		want      []vellum.PointerEventType
	}{
		{"idle", mouseState{x: 1, y: 1}, mouseState{x: 1, y: 1}, nil},
		{"move", mouseState{}, mouseState{x: 3, y: 4}, []vellum.PointerEventType{vellum.PointerMove}},
		{"press", mouseState{}, mouseState{buttons: left}, []vellum.PointerEventType{vellum.PointerDown}},
		{"move then release", mouseState{buttons: left}, mouseState{x: 9, y: 9}, []vellum.PointerEventType{vellum.PointerMove, vellum.PointerUp}},
		{"two buttons", mouseState{}, mouseState{buttons: left | middle}, []vellum.PointerEventType{vellum.PointerDown, vellum.PointerDown}},
		{"wheel", mouseState{}, mouseState{wheel: -1}, []vellum.PointerEventType{vellum.PointerWheel}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pointerEvents(tt.prev, tt.cur, nil)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events, want %d", len(got), len(tt.want))
			}
			for i, ev := range got {
				if ev.Type != tt.want[i] {
					t.Errorf("event %d = %v, want %v", i, ev.Type, tt.want[i])
				}
				if ev.X != tt.cur.x || ev.Y != tt.cur.y {
					t.Errorf("event %d at (%v, %v)", i, ev.X, ev.Y)
				}
			}
		})
	}
}

func TestPointerEventsButtonState(t *testing.T) {
	left := vellum.ButtonPrimary
	mods := vellum.ModSpace

	// The move is reported with the previous buttons, the press with the new.
	got := pointerEvents(mouseState{}, mouseState{x: 5, buttons: left, mods: mods}, nil)
	if len(got) != 2 {
		t.Fatalf("got %d events", len(got))
	}
	if got[0].Buttons != 0 || got[1].Buttons != left {
		t.Errorf("buttons = %v, %v", got[0].Buttons, got[1].Buttons)
	}
	if got[1].Button != vellum.MouseButtonLeft || got[1].Modifiers != mods {
		t.Errorf("press = %+v", got[1])
	}

	got = pointerEvents(mouseState{buttons: left}, mouseState{}, got[:0])
	if len(got) != 1 || got[0].Type != vellum.PointerUp || got[0].Buttons != 0 {
		t.Errorf("release = %+v", got)
	}
}

func TestToolKeysCoverEveryMode(t *testing.T) {
	seen := map[vellum.Mode]bool{}
	for _, m := range toolKeys {
		seen[m] = true
	}
	for _, m := range []vellum.Mode{vellum.ModeIdle, vellum.ModePanCamera, vellum.ModeZoomCamera, vellum.ModeCreateRect, vellum.ModeCreateEllipse} {
		if !seen[m] {
			t.Errorf("no shortcut for %v", m)
		}
	}
}
