// Package ebitenhost runs a vellum editor in an Ebitengine window. Mouse,
// wheel and keyboard input are translated into pointer events and tool
// changes; the canvas and overlay render parts draw into offscreen ebiten
// images that are composited onto the screen.
package ebitenhost

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/vellum"
)

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title string
	// ShowStats prints FPS, TPS, zoom and the active mode in the corner.
	ShowStats bool
}

// Game implements ebiten.Game around a vellum editor.
type Game struct {
	// Background fills the screen below the canvas layer.
	Background color.Color
	ShowStats  bool

	editor  *vellum.Editor
	canvas  *Layer
	overlay *Layer

	prev   mouseState
	events []vellum.PointerEvent
	last   vellum.FrameStats
	width  int
	height int
}

// New creates a game with a fresh editor sized to the configured viewport.
func New(cfg vellum.Config) (*Game, error) {
	w, h := int(cfg.ViewportWidth), int(cfg.ViewportHeight)
	canvas, overlay := NewLayer(w, h), NewLayer(w, h)
	ed, err := vellum.NewEditor(cfg, canvas, overlay)
	if err != nil {
		return nil, err
	}
	return &Game{
		Background: color.RGBA{0x1c, 0x1e, 0x24, 0xff},
		editor:     ed,
		canvas:     canvas,
		overlay:    overlay,
		width:      w,
		height:     h,
	}, nil
}

// Editor returns the hosted editor.
func (g *Game) Editor() *vellum.Editor { return g.editor }

// Update implements ebiten.Game. Synthetic input queued on the editor takes
// precedence over the real mouse until it drains.
func (g *Game) Update() error {
	if m, ok := readToolKey(); ok {
		g.editor.SetMode(m)
	}

	cur := readMouse()
	if g.editor.PendingInput() == 0 {
		g.events = pointerEvents(g.prev, cur, g.events[:0])
		for _, ev := range g.events {
			g.editor.HandlePointer(ev)
		}
	}
	g.prev = cur

	g.editor.Update(float32(1.0 / float64(ebiten.TPS())))
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	stats, err := g.editor.Frame()
	if err != nil {
		vellum.Logger().Warn("frame failed", slog.Any("err", err))
	}
	if stats.Drawn > 0 {
		g.last = stats
	}

	screen.Fill(g.Background)
	screen.DrawImage(g.canvas.Image(), nil)
	screen.DrawImage(g.overlay.Image(), nil)

	if g.ShowStats {
		cam := g.editor.Camera()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nzoom: %.2f\nmode: %s\nnodes: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), cam.Zoom(), g.editor.Mode(), g.editor.Scene().Index().Len()))
	}
}

// Layout implements ebiten.Game. A window resize resizes both layers and
// the editor viewport, which forces a full redraw.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.canvas.Resize(outsideWidth, outsideHeight)
		g.overlay.Resize(outsideWidth, outsideHeight)
		if err := g.editor.Resize(float64(outsideWidth), float64(outsideHeight)); err != nil {
			vellum.Logger().Warn("resize rejected", slog.Any("err", err))
		}
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and runs g until it is closed, then closes the editor.
func Run(g *Game, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = "vellum"
	}
	g.ShowStats = g.ShowStats || cfg.ShowStats
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(g)
	if err := g.editor.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}
