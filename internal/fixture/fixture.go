// Package fixture reads scene fixtures: YAML lists of shapes, optionally
// nested in groups, used by the CLI and by tests to populate a scene.
//
//	shapes:
//	  - {kind: rect, name: a, x: 0, y: 0, w: 100, h: 60, fill: "#d9e0f2"}
//	  - kind: group
//	    name: g
//	    x: 200
//	    children:
//	      - {kind: ellipse, w: 80, h: 40}
package fixture

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/vellum"
)

// Shape is one fixture entry. Kind is a vellum.ShapeKind name or "group".
type Shape struct {
	Kind     string       `yaml:"kind"`
	Name     string       `yaml:"name,omitempty"`
	X        float64      `yaml:"x,omitempty"`
	Y        float64      `yaml:"y,omitempty"`
	W        float64      `yaml:"w,omitempty"`
	H        float64      `yaml:"h,omitempty"`
	Rotation float64      `yaml:"rotation,omitempty"`
	Points   [][2]float64 `yaml:"points,omitempty"`
	Fill     string       `yaml:"fill,omitempty"`
	Stroke   string       `yaml:"stroke,omitempty"`
	Width    float64      `yaml:"stroke_width,omitempty"`
	Hidden   bool         `yaml:"hidden,omitempty"`
	Children []Shape      `yaml:"children,omitempty"`
}

// Fixture is the top-level document.
type Fixture struct {
	Shapes []Shape `yaml:"shapes"`
}

// Parse decodes a fixture document.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return &f, nil
}

// Load reads and decodes the fixture file at path.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return Parse(data)
}

// Build creates the fixture's nodes under a new container named name. The
// container is detached, so adding it to a scene indexes the whole tree in
// one bulk load.
func (f *Fixture) Build(name string) (*vellum.Node, error) {
	root := vellum.NewContainer(name)
	for i, s := range f.Shapes {
		if err := s.build(root, fmt.Sprintf("%d", i)); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// Populate builds the fixture and adds it to parent.
func (f *Fixture) Populate(parent *vellum.Node) (*vellum.Node, error) {
	group, err := f.Build("fixture")
	if err != nil {
		return nil, err
	}
	if err := parent.AddChild(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s Shape) build(parent *vellum.Node, path string) error {
	name := s.Name
	if name == "" {
		name = s.Kind + "-" + path
	}

	var n *vellum.Node
	if s.Kind == "group" {
		n = vellum.NewContainer(name)
	} else {
		kind, err := vellum.ParseShapeKind(s.Kind)
		if err != nil {
			return fmt.Errorf("fixture: shape %s: %w", path, err)
		}
		var shape vellum.Shape
		if kind == vellum.ShapePolygon && len(s.Points) > 0 {
			pts := make([]vellum.Vec2, len(s.Points))
			for i, p := range s.Points {
				pts[i] = vellum.Vec2{X: p[0], Y: p[1]}
			}
			shape = vellum.Polygon{Points: pts}
		} else {
			shape = vellum.NewShape(kind, s.W, s.H)
		}
		n = vellum.NewShapeNode(name, shape)
		st, err := s.style()
		if err != nil {
			return fmt.Errorf("fixture: shape %s: %w", path, err)
		}
		n.SetStyle(st)
	}
	n.SetPosition(s.X, s.Y)
	n.SetRotation(s.Rotation)
	n.SetVisible(!s.Hidden)

	for i, c := range s.Children {
		if err := c.build(n, path+"."+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	return parent.AddChild(n)
}

func (s Shape) style() (vellum.Style, error) {
	st := vellum.DefaultStyle
	var err error
	if s.Fill != "" {
		if st.Fill, err = ParseColor(s.Fill); err != nil {
			return st, err
		}
	}
	if s.Stroke != "" {
		if st.Stroke, err = ParseColor(s.Stroke); err != nil {
			return st, err
		}
	}
	if s.Width > 0 {
		st.StrokeWidth = s.Width
	}
	return st, nil
}

// ParseColor parses "#rrggbb", "#rrggbbaa" or "none".
func ParseColor(s string) (vellum.Color, error) {
	if s == "none" {
		return vellum.Color{}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return vellum.Color{}, fmt.Errorf("fixture: bad color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return vellum.Color{}, fmt.Errorf("fixture: bad color %q: %w", s, err)
	}
	return vellum.Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
