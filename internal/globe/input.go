package globe

import "github.com/go-gl/mathgl/mgl64"

// DragState is the pointer state machine.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Delta is what one pointer move produces. Yaw and Pitch are zero unless
// a drag is active; NDC is always filled in.
type Delta struct {
	Yaw   float64
	Pitch float64
	NDC   mgl64.Vec2
}

// Controller turns pointer and wheel events into rotation deltas, zoom
// deltas and normalized device coordinates.
type Controller struct {
	Sensitivity float64
	WheelScale  float64

	state  DragState
	last   mgl64.Vec2
	width  float64
	height float64
}

func NewController(sensitivity, wheelScale float64) *Controller {
	return &Controller{
		Sensitivity: sensitivity,
		WheelScale:  wheelScale,
		width:       1,
		height:      1,
	}
}

func (c *Controller) State() DragState { return c.state }

// SetViewport sets the surface size used for NDC conversion.
func (c *Controller) SetViewport(width, height float64) {
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
}

// NDC maps a pointer position to [-1,1] on both axes, +Y up.
func (c *Controller) NDC(x, y float64) mgl64.Vec2 {
	return mgl64.Vec2{
		(x/c.width)*2 - 1,
		-(y/c.height)*2 + 1,
	}
}

func (c *Controller) PointerDown(x, y float64) {
	c.state = Dragging
	c.last = mgl64.Vec2{x, y}
}

// PointerMove reports the rotation since the previous pointer position
// while dragging. The position is remembered in both states.
func (c *Controller) PointerMove(x, y float64) Delta {
	d := Delta{NDC: c.NDC(x, y)}
	if c.state == Dragging {
		d.Yaw = (x - c.last.X()) * c.Sensitivity
		d.Pitch = (y - c.last.Y()) * c.Sensitivity
	}
	c.last = mgl64.Vec2{x, y}
	return d
}

func (c *Controller) PointerUp() {
	c.state = Idle
}

// Wheel converts a wheel delta into a camera distance delta.
func (c *Controller) Wheel(deltaY float64) float64 {
	return deltaY * c.WheelScale
}
