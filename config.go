package vellum

import (
	"fmt"
	"math"
	"strings"
)

// Config holds editor behavior settings. The zero value is not useful; start
// from DefaultConfig. Tags drive internal/config, which layers a YAML file
// and VELLUM_* environment variables over the defaults.
type Config struct {
	// StayInTool keeps a create tool active after a shape is committed.
	StayInTool bool `yaml:"stay_in_tool" envconfig:"STAY_IN_TOOL"`
	// DragDeadZone is the screen distance in pixels a create gesture must
	// travel on at least one axis before it commits a shape.
	DragDeadZone float64 `yaml:"drag_dead_zone" envconfig:"DRAG_DEAD_ZONE"`
	// ZoomSensitivity scales vertical drag pixels in the zoom mode:
	// factor = exp(-dy * ZoomSensitivity).
	ZoomSensitivity float64 `yaml:"zoom_sensitivity" envconfig:"ZOOM_SENSITIVITY"`
	// WheelZoomStep is the zoom factor applied per wheel notch.
	WheelZoomStep float64 `yaml:"wheel_zoom_step" envconfig:"WHEEL_ZOOM_STEP"`
	MinZoom       float64 `yaml:"min_zoom" envconfig:"MIN_ZOOM"`
	MaxZoom       float64 `yaml:"max_zoom" envconfig:"MAX_ZOOM"`
	// PanButton starts a temporary pan from any mode. Holding space with
	// the primary button does the same.
	PanButton MouseButton `yaml:"pan_button" envconfig:"PAN_BUTTON"`
	// ZoomModifier held with the primary button starts a temporary zoom.
	ZoomModifier    KeyModifiers `yaml:"zoom_modifier" envconfig:"ZOOM_MODIFIER"`
	IndexMaxEntries int          `yaml:"index_max_entries" envconfig:"INDEX_MAX_ENTRIES"`
	ViewportWidth   float64      `yaml:"viewport_width" envconfig:"VIEWPORT_WIDTH"`
	ViewportHeight  float64      `yaml:"viewport_height" envconfig:"VIEWPORT_HEIGHT"`
	Debug           bool         `yaml:"debug" envconfig:"DEBUG"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		DragDeadZone:    0,
		ZoomSensitivity: 0.01,
		WheelZoomStep:   1.1,
		MinZoom:         0.01,
		MaxZoom:         256,
		PanButton:       MouseButtonMiddle,
		ZoomModifier:    ModAlt,
		IndexMaxEntries: DefaultIndexMaxEntries,
		ViewportWidth:   1280,
		ViewportHeight:  800,
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	positive := func(v float64) bool { return v > 0 && !math.IsInf(v, 0) }
	switch {
	case c.DragDeadZone < 0 || math.IsNaN(c.DragDeadZone):
		return illegalArgument("drag_dead_zone %v must not be negative", c.DragDeadZone)
	case !positive(c.ZoomSensitivity):
		return illegalArgument("zoom_sensitivity %v must be positive", c.ZoomSensitivity)
	case !positive(c.WheelZoomStep) || c.WheelZoomStep == 1:
		return illegalArgument("wheel_zoom_step %v must be positive and not 1", c.WheelZoomStep)
	case !positive(c.MinZoom) || !positive(c.MaxZoom) || c.MinZoom > c.MaxZoom:
		return illegalArgument("zoom range [%v, %v] is invalid", c.MinZoom, c.MaxZoom)
	case c.PanButton > MouseButtonMiddle:
		return illegalArgument("pan_button %v is unknown", c.PanButton)
	case c.ZoomModifier == 0:
		return illegalArgument("zoom_modifier must name at least one key")
	case c.IndexMaxEntries < minIndexMaxEntries:
		return illegalArgument("index_max_entries %d must be at least %d", c.IndexMaxEntries, minIndexMaxEntries)
	case !positive(c.ViewportWidth) || !positive(c.ViewportHeight):
		return illegalArgument("viewport %vx%v must be positive", c.ViewportWidth, c.ViewportHeight)
	}
	return nil
}

var mouseButtonNames = [...]string{
	MouseButtonLeft:   "left",
	MouseButtonRight:  "right",
	MouseButtonMiddle: "middle",
}

// String returns "left", "right" or "middle".
func (b MouseButton) String() string {
	if int(b) < len(mouseButtonNames) {
		return mouseButtonNames[b]
	}
	return fmt.Sprintf("MouseButton(%d)", uint8(b))
}

// UnmarshalText parses a button name as produced by String.
func (b *MouseButton) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range mouseButtonNames {
		if s == name {
			*b = MouseButton(i)
			return nil
		}
	}
	return illegalArgument("unknown mouse button %q", s)
}

var modifierNames = []struct {
	mod  KeyModifiers
	name string
}{
	{ModShift, "shift"},
	{ModCtrl, "ctrl"},
	{ModAlt, "alt"},
	{ModMeta, "meta"},
	{ModSpace, "space"},
}

// String joins the held modifier names with "+", e.g. "ctrl+alt".
func (m KeyModifiers) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if m&mn.mod != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "+")
}

// UnmarshalText parses a "+"-separated modifier list such as "ctrl+alt".
func (m *KeyModifiers) UnmarshalText(text []byte) error {
	var out KeyModifiers
	for _, part := range strings.Split(string(text), "+") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		found := false
		for _, mn := range modifierNames {
			if part == mn.name {
				out |= mn.mod
				found = true
				break
			}
		}
		if !found {
			return illegalArgument("unknown modifier %q", part)
		}
	}
	*m = out
	return nil
}
