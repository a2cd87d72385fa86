package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	defaultNear = 0.1
	defaultFar  = 1000
)

// Camera sits on the +Z axis looking at the globe center. Its distance
// glides toward a clamped target distance.
type Camera struct {
	fovY      float64
	near, far float64
	width     float64
	height    float64

	distance float64
	target   float64
	minZoom  float64
	maxZoom  float64
}

// NewCamera builds a camera at distance with a vertical field of view in
// degrees. distance is clamped into [minZoom, maxZoom].
func NewCamera(fovDegrees, distance, minZoom, maxZoom float64) *Camera {
	c := &Camera{
		fovY:    mgl64.DegToRad(fovDegrees),
		near:    defaultNear,
		far:     defaultFar,
		width:   1,
		height:  1,
		minZoom: minZoom,
		maxZoom: maxZoom,
	}
	c.distance = c.clamp(distance)
	c.target = c.distance
	return c
}

func (c *Camera) clamp(d float64) float64 {
	return mgl64.Clamp(d, c.minZoom, c.maxZoom)
}

func (c *Camera) Distance() float64       { return c.distance }
func (c *Camera) TargetDistance() float64 { return c.target }

// ZoomBy moves the target distance and clamps it.
func (c *Camera) ZoomBy(delta float64) {
	c.target = c.clamp(c.target + delta)
}

// SetTargetDistance clamps d and makes it the new target.
func (c *Camera) SetTargetDistance(d float64) {
	c.target = c.clamp(d)
}

// Step moves the distance a fraction of the way to the target. It never
// passes the target, so the distance stays inside the zoom range.
func (c *Camera) Step(smoothing float64) float64 {
	diff := c.target - c.distance
	if math.Abs(diff) < 1e-9 {
		c.distance = c.target
		return c.distance
	}
	c.distance += diff * mgl64.Clamp(smoothing, 0, 1)
	return c.distance
}

// SetViewport sets the drawing surface size in pointer units.
func (c *Camera) SetViewport(width, height float64) {
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
}

func (c *Camera) Viewport() (width, height float64) { return c.width, c.height }

func (c *Camera) Aspect() float64 { return c.width / c.height }

func (c *Camera) Position() mgl64.Vec3 { return mgl64.Vec3{0, 0, c.distance} }

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position(), mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(c.fovY, c.Aspect(), c.near, c.far)
}

// Ray returns the world-space ray from the camera through ndc.
func (c *Camera) Ray(ndc mgl64.Vec2) (origin, dir mgl64.Vec3) {
	invViewProj := c.Projection().Mul4(c.View()).Inv()

	far := invViewProj.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), 1, 1})
	far = far.Mul(1 / far.W())

	origin = c.Position()
	return origin, far.Vec3().Sub(origin).Normalize()
}

// ToScreen projects a world point to pointer units. ok is false when the
// point is behind the camera.
func (c *Camera) ToScreen(world mgl64.Vec3) (screen mgl64.Vec2, ok bool) {
	clip := c.Projection().Mul4(c.View()).Mul4x1(world.Vec4(1))
	if clip.W() <= 0 {
		return mgl64.Vec2{}, false
	}
	ndcX, ndcY := clip.X()/clip.W(), clip.Y()/clip.W()
	return mgl64.Vec2{
		(ndcX + 1) / 2 * c.width,
		(1 - ndcY) / 2 * c.height,
	}, true
}
