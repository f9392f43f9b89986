package ggsink

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Snapshot formats.
const (
	FormatPNG = "png"
	FormatQOI = "qoi"
)

var unsafeLabel = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileSnapshotter implements vellum.Snapshotter by writing the composited
// layers to Dir, one file per label.
type FileSnapshotter struct {
	Dir        string
	Format     string
	Compositor *Compositor

	written []string
}

// Snapshot writes <Dir>/<label>.<Format>.
func (s *FileSnapshotter) Snapshot(label string) error {
	name := unsafeLabel.ReplaceAllString(label, "_")
	if name == "" {
		name = fmt.Sprintf("snapshot-%d", len(s.written)+1)
	}
	var err error
	path := filepath.Join(s.Dir, name+"."+s.format())
	switch s.format() {
	case FormatPNG:
		err = s.Compositor.SavePNG(path)
	case FormatQOI:
		err = s.Compositor.SaveQOI(path)
	default:
		return fmt.Errorf("ggsink: unknown snapshot format %q", s.Format)
	}
	if err != nil {
		return err
	}
	s.written = append(s.written, path)
	return nil
}

// Written returns the paths written so far.
func (s *FileSnapshotter) Written() []string {
	return s.written
}

func (s *FileSnapshotter) format() string {
	if s.Format == "" {
		return FormatPNG
	}
	return s.Format
}
