package vellum

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX, tweenY   *gween.Tween
	targetX, targetY float64
	doneX, doneY     bool
}

// Camera controls the view into the scene: focal position, zoom, rotation,
// and viewport. WorldToScreen and ScreenToWorld are exact inverses.
//
// All mutation goes through methods so the camera can notify its listener;
// the editor uses this to mark camera-dependent render parts dirty.
type Camera struct {
	// MinZoom and MaxZoom clamp the zoom factor when positive.
	MinZoom, MaxZoom float64

	x, y     float64
	zoom     float64
	rotation float64
	viewport AABB

	viewMatrix    Affine
	invViewMatrix Affine
	dirty         bool

	onChange func()

	scrollTween *scrollAnim
	zoomTween   *gween.Tween
	zoomTarget  float64
}

// NewCamera creates a camera centered on the world origin at zoom 1,
// rendering into the given screen-space viewport.
func NewCamera(viewport AABB) *Camera {
	return &Camera{
		zoom:     1,
		viewport: viewport,
		dirty:    true,
	}
}

// Position returns the world-space point the camera centers on.
func (c *Camera) Position() (x, y float64) { return c.x, c.y }

// Zoom returns the scale factor (1 = no zoom, >1 = zoom in).
func (c *Camera) Zoom() float64 { return c.zoom }

// Rotation returns the camera rotation in radians (clockwise).
func (c *Camera) Rotation() float64 { return c.rotation }

// Viewport returns the screen-space rectangle this camera renders into.
func (c *Camera) Viewport() AABB { return c.viewport }

// SetChangeListener registers fn to be called after every change to the
// view matrix.
func (c *Camera) SetChangeListener(fn func()) {
	c.onChange = fn
}

// SetViewport resizes the screen-space rectangle, e.g. after a window resize.
func (c *Camera) SetViewport(vp AABB) error {
	if !vp.Valid() || vp.Width() <= 0 || vp.Height() <= 0 ||
		math.IsInf(vp.Width(), 0) || math.IsInf(vp.Height(), 0) {
		return illegalArgument("viewport %v must have a finite positive size", vp)
	}
	if vp == c.viewport {
		return nil
	}
	c.viewport = vp
	c.changed()
	return nil
}

// CenterOn moves the focal position to the world point (x, y).
func (c *Camera) CenterOn(x, y float64) {
	if c.x == x && c.y == y {
		return
	}
	c.x, c.y = x, y
	c.changed()
}

// SetRotation sets the camera rotation in radians.
func (c *Camera) SetRotation(r float64) {
	if c.rotation == r {
		return
	}
	c.rotation = r
	c.changed()
}

// SetZoom sets the zoom factor around the viewport center. It fails if z is
// not a finite positive number.
func (c *Camera) SetZoom(z float64) error {
	if !(z > 0) || math.IsInf(z, 0) {
		return illegalArgument("zoom %v must be positive", z)
	}
	z = c.clampZoom(z)
	if z == c.zoom {
		return nil
	}
	c.zoom = z
	c.changed()
	return nil
}

// PanBy shifts the focal position by a screen-space delta converted to world
// space at the current zoom and rotation.
func (c *Camera) PanBy(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	c.computeViewMatrix()
	wx, wy := c.invViewMatrix.ApplyVector(dx, dy)
	c.x += wx
	c.y += wy
	c.changed()
}

// ZoomAt rescales the zoom by factor while keeping the world point under
// the screen point (sx, sy) fixed. It fails with ErrIllegalArgument, leaving
// the camera unchanged, if factor is not positive or the resulting zoom
// would not be a finite positive number.
func (c *Camera) ZoomAt(sx, sy, factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return illegalArgument("zoom factor %v must be positive", factor)
	}
	z := c.zoom * factor
	if !(z > 0) || math.IsInf(z, 0) {
		return illegalArgument("resulting zoom %v must be positive", z)
	}
	z = c.clampZoom(z)
	if z == c.zoom {
		return nil
	}
	wx, wy := c.ScreenToWorld(sx, sy)
	c.zoom = z
	c.dirty = true
	nx, ny := c.ScreenToWorld(sx, sy)
	c.x += wx - nx
	c.y += wy - ny
	c.changed()
	return nil
}

// FitBounds centers the camera on b and picks the largest zoom at which b,
// grown by padding screen pixels on every side, fits the viewport.
func (c *Camera) FitBounds(b AABB, padding float64) error {
	if !b.Valid() || b.Width() <= 0 || b.Height() <= 0 {
		return illegalArgument("cannot fit degenerate bounds %v", b)
	}
	vw := c.viewport.Width() - 2*padding
	vh := c.viewport.Height() - 2*padding
	if vw <= 0 || vh <= 0 {
		return illegalArgument("padding %v leaves no room in viewport", padding)
	}
	c.cancelAnimations()
	c.zoom = c.clampZoom(math.Min(vw/b.Width(), vh/b.Height()))
	c.x, c.y = b.Center()
	c.changed()
	return nil
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX:  gween.New(float32(c.x), float32(x), duration, easeFn),
		tweenY:  gween.New(float32(c.y), float32(y), duration, easeFn),
		targetX: x,
		targetY: y,
	}
}

// ZoomTo animates the zoom factor to z over duration seconds, around the
// viewport center.
func (c *Camera) ZoomTo(z float64, duration float32, easeFn ease.TweenFunc) error {
	if !(z > 0) || math.IsInf(z, 0) {
		return illegalArgument("zoom %v must be positive", z)
	}
	c.zoomTarget = c.clampZoom(z)
	c.zoomTween = gween.New(float32(c.zoom), float32(c.zoomTarget), duration, easeFn)
	return nil
}

// Animating reports whether a ScrollTo or ZoomTo is in progress.
func (c *Camera) Animating() bool {
	return c.scrollTween != nil || c.zoomTween != nil
}

func (c *Camera) cancelAnimations() {
	c.scrollTween = nil
	c.zoomTween = nil
}

// update advances scroll and zoom animations. Called from Editor.Update.
func (c *Camera) update(dt float32) {
	prevX, prevY, prevZoom := c.x, c.y, c.zoom

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.x = float64(val)
			if done {
				c.x = c.scrollTween.targetX
			}
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.y = float64(val)
			if done {
				c.y = c.scrollTween.targetY
			}
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.zoomTween != nil {
		val, done := c.zoomTween.Update(dt)
		if val > 0 {
			c.zoom = float64(val)
		}
		if done {
			c.zoom = c.zoomTarget
			c.zoomTween = nil
		}
	}

	if c.x != prevX || c.y != prevY || c.zoom != prevZoom {
		c.changed()
	}
}

func (c *Camera) clampZoom(z float64) float64 {
	if c.MinZoom > 0 && z < c.MinZoom {
		z = c.MinZoom
	}
	if c.MaxZoom > 0 && z > c.MaxZoom {
		z = c.MaxZoom
	}
	return z
}

func (c *Camera) changed() {
	c.dirty = true
	if c.onChange != nil {
		c.onChange()
	}
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (c *Camera) computeViewMatrix() Affine {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx, cy := c.viewport.Center()

	cos := math.Cos(-c.rotation)
	sin := math.Sin(-c.rotation)
	z := c.zoom

	// Combined: Translate(cx,cy) * Scale(z) * Rotate(-rot) * Translate(-X,-Y)
	// [a b tx]   [z*cos  -z*sin  cx + z*(- cos*X + sin*Y)]
	// [c d ty] = [z*sin   z*cos  cy + z*(-sin*X - cos*Y)]
	a := z * cos
	b := -z * sin
	cc := z * sin
	d := z * cos
	tx := cx + z*(-cos*c.x+sin*c.y)
	ty := cy + z*(-sin*c.x-cos*c.y)

	c.viewMatrix = Affine{a, cc, b, d, tx, ty}
	c.invViewMatrix = c.viewMatrix.Invert()
	return c.viewMatrix
}

// ViewMatrix returns the world-to-screen matrix.
func (c *Camera) ViewMatrix() Affine {
	return c.computeViewMatrix()
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.computeViewMatrix().Apply(wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	return c.invViewMatrix.Apply(sx, sy)
}

// VisibleBounds returns the axis-aligned bounding box of the camera's
// visible area in world space.
func (c *Camera) VisibleBounds() AABB {
	c.computeViewMatrix()
	return c.invViewMatrix.TransformAABB(c.viewport)
}
