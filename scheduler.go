package vellum

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DrawSink is an immediate-mode 2D drawing surface. Path coordinates are
// mapped through the transform set with SetTransform; stroke widths are in
// device pixels. Fill and Stroke leave the current path in place so a shape
// can be filled and outlined from one path; BeginPath discards it.
type DrawSink interface {
	PathBuilder
	BeginPath()
	// Clear erases the whole surface to transparent.
	Clear()
	SetTransform(m Affine)
	Fill(c Color) error
	Stroke(c Color, width float64) error
}

// Dependency is a bitmask of the state a render part reads.
type Dependency uint8

const (
	DependsScene     Dependency = 1 << iota // node tree geometry, style, order
	DependsCamera                           // view matrix and viewport
	DependsSelection                        // selection and creation preview
)

// DependsAll matches every dependency.
const DependsAll = DependsScene | DependsCamera | DependsSelection

// DrawFunc redraws a part onto sink. view is the camera's current
// world-to-screen matrix.
type DrawFunc func(sink DrawSink, view Affine) error

// RenderPart is a unit of drawable content with its own surface. It starts
// dirty and is redrawn in full whenever it is dirty at a frame tick.
type RenderPart struct {
	Name    string
	Depends Dependency
	Sink    DrawSink
	Draw    DrawFunc

	needsRender bool
	draws       uint64
}

// MarkDirty requests a redraw at the next frame tick. Calling it repeatedly
// between ticks costs nothing extra.
func (p *RenderPart) MarkDirty() {
	p.needsRender = true
}

// NeedsRender reports whether the part will be redrawn at the next tick.
func (p *RenderPart) NeedsRender() bool {
	return p.needsRender
}

// DrawCount returns how many times the part has been drawn successfully.
func (p *RenderPart) DrawCount() uint64 {
	return p.draws
}

// FrameStats summarizes one frame tick.
type FrameStats struct {
	Frame   uint64
	Drawn   int
	Skipped int
	Failed  int
	Elapsed time.Duration
}

// Scheduler decides, once per frame tick, which render parts redraw.
// Mutations only flip flags; no drawing happens outside OnFrameTick.
type Scheduler struct {
	camera *Camera
	parts  []*RenderPart
	frame  uint64
	debug  bool

	// nodeCount is reported in debug stats by the canvas part.
	nodeCount int
}

// NewScheduler creates a scheduler drawing through cam's view matrix.
func NewScheduler(cam *Camera) *Scheduler {
	return &Scheduler{camera: cam}
}

// SetDebugMode enables per-frame debug logging.
func (s *Scheduler) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// AddPart registers p in draw order; later parts draw over earlier ones.
// The part starts dirty.
func (s *Scheduler) AddPart(p *RenderPart) error {
	switch {
	case p == nil:
		return illegalArgument("nil render part")
	case p.Name == "":
		return illegalArgument("render part has no name")
	case p.Sink == nil || p.Draw == nil:
		return illegalArgument("render part %q needs a sink and a draw func", p.Name)
	case s.Part(p.Name) != nil:
		return illegalArgument("render part %q already registered", p.Name)
	}
	p.needsRender = true
	s.parts = append(s.parts, p)
	return nil
}

// Part returns the part registered under name, or nil.
func (s *Scheduler) Part(name string) *RenderPart {
	for _, p := range s.parts {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Parts returns the registered parts in draw order. The returned slice MUST
// NOT be mutated by the caller.
func (s *Scheduler) Parts() []*RenderPart {
	return s.parts
}

// Invalidate marks every part depending on any of deps dirty.
func (s *Scheduler) Invalidate(deps Dependency) {
	for _, p := range s.parts {
		if p.Depends&deps != 0 {
			p.needsRender = true
		}
	}
}

// ForceRedraw marks every part dirty, e.g. after a viewport resize.
func (s *Scheduler) ForceRedraw() {
	for _, p := range s.parts {
		p.needsRender = true
	}
}

// Dirty reports whether any part needs a redraw.
func (s *Scheduler) Dirty() bool {
	for _, p := range s.parts {
		if p.needsRender {
			return true
		}
	}
	return false
}

// OnFrameTick redraws every dirty part exactly once and clears its flag.
// Clean parts are skipped without touching their sink. A part whose draw
// fails stays dirty and is retried next tick; the failures are joined into
// the returned error.
func (s *Scheduler) OnFrameTick() (FrameStats, error) {
	s.frame++
	stats := FrameStats{Frame: s.frame}
	start := time.Now()
	view := s.camera.ViewMatrix()

	var errs []error
	for _, p := range s.parts {
		if !p.needsRender {
			stats.Skipped++
			continue
		}
		p.Sink.Clear()
		p.Sink.BeginPath()
		p.Sink.SetTransform(view)
		if err := p.Draw(p.Sink, view); err != nil {
			stats.Failed++
			Logger().Warn("render part draw failed", slog.String("part", p.Name), slog.Any("err", err))
			errs = append(errs, fmt.Errorf("vellum: draw %q: %w", p.Name, err))
			continue
		}
		p.needsRender = false
		p.draws++
		stats.Drawn++
	}
	stats.Elapsed = time.Since(start)

	if s.debug {
		debugStats{
			drawTime:  stats.Elapsed,
			drawn:     stats.Drawn,
			skipped:   stats.Skipped,
			failed:    stats.Failed,
			nodeCount: s.nodeCount,
		}.log()
	}
	return stats, errors.Join(errs...)
}
