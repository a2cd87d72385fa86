package globe

import (
	"context"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"globeview/internal/cities"
	"globeview/internal/config"
	"globeview/internal/geo"
	"globeview/internal/logging"
)

// Recorder receives globe activity. *metrics.Manager satisfies it.
type Recorder interface {
	GlyphsBuilt(n int)
	FrameRendered()
	HoverChanged()
	PickObserved(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) GlyphsBuilt(int)            {}
func (nopRecorder) FrameRendered()             {}
func (nopRecorder) HoverChanged()              {}
func (nopRecorder) PickObserved(time.Duration) {}

// Options configures a Globe.
type Options struct {
	FOVDegrees      float64
	InitialDistance float64
	MinZoom         float64
	MaxZoom         float64
	ZoomSmoothing   float64
	WheelScale      float64
	DragSensitivity float64
	PickTolerance   float64
	HighlightFactor float64
	HighlightScale  float64
	MarkerAltitude  float64

	Material Material
	Recorder Recorder
	Logger   logging.Logger
}

// NewOptions takes the globe settings from cfg. Material, Recorder and
// Logger are left for the caller.
func NewOptions(cfg *config.Config) Options {
	return Options{
		FOVDegrees:      cfg.FOVDegrees,
		InitialDistance: cfg.InitialDistance,
		MinZoom:         cfg.MinZoom,
		MaxZoom:         cfg.MaxZoom,
		ZoomSmoothing:   cfg.ZoomSmoothing,
		WheelScale:      cfg.WheelScale,
		DragSensitivity: cfg.DragSensitivity,
		PickTolerance:   cfg.PickTolerance,
		HighlightFactor: cfg.HighlightFactor,
		HighlightScale:  cfg.HighlightScale,
		MarkerAltitude:  cfg.MarkerAltitude,
	}
}

// Globe wires the scene, input, picking and loop together. Each pointer
// event is handled in one step: rotation first, then picking.
type Globe struct {
	scene   *Scene
	input   *Controller
	picker  *Picker
	loop    *Loop
	factory Factory

	rec Recorder
	log logging.Logger

	pointer    mgl64.Vec2
	hasPointer bool
	hover      PickResult
}

func New(opts Options) *Globe {
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	cam := NewCamera(opts.FOVDegrees, opts.InitialDistance, opts.MinZoom, opts.MaxZoom)
	factory := NewFactory()
	if opts.MarkerAltitude > geo.SphereRadius {
		factory.Altitude = opts.MarkerAltitude
	}
	return &Globe{
		scene:   NewScene(cam, opts.Material),
		input:   NewController(opts.DragSensitivity, opts.WheelScale),
		picker:  NewPicker(opts.PickTolerance, opts.HighlightFactor, opts.HighlightScale),
		loop:    NewLoop(cam, opts.ZoomSmoothing),
		factory: factory,
		rec:     opts.Recorder,
		log:     opts.Logger,
	}
}

func (g *Globe) Scene() *Scene      { return g.scene }
func (g *Globe) Camera() *Camera    { return g.scene.Camera }
func (g *Globe) Input() *Controller { return g.input }
func (g *Globe) Hover() PickResult  { return g.hover }
func (g *Globe) Glyphs() []*Glyph   { return g.scene.Glyphs() }
func (g *Globe) Dragging() bool     { return g.input.State() == Dragging }

// Highlighted is the glyph the picker currently holds, nil when none.
func (g *Globe) Highlighted() *Glyph { return g.picker.Highlighted() }

// NDC converts a pointer position with the current viewport.
func (g *Globe) NDC(x, y float64) mgl64.Vec2 { return g.input.NDC(x, y) }

// Load builds glyphs from records and replaces the current set. Rejected
// records are logged and returned; the rest still become glyphs.
func (g *Globe) Load(ctx context.Context, records []cities.CityRecord) []error {
	glyphs, rejected := g.factory.Build(records)
	for _, err := range rejected {
		g.log.Warn(ctx, "skipping city record", logging.Error(err))
	}
	g.SetGlyphs(glyphs)
	g.log.Info(ctx, "glyphs built",
		logging.Int("glyphs", len(glyphs)),
		logging.Int("rejected", len(rejected)))
	return rejected
}

// SetGlyphs swaps the glyph group. The old highlight is cleared first.
func (g *Globe) SetGlyphs(glyphs []*Glyph) {
	if g.picker.Reset() {
		g.rec.HoverChanged()
	}
	g.hover = PickResult{}
	g.scene.setGlyphs(glyphs)
	g.rec.GlyphsBuilt(len(glyphs))
	g.repick()
}

// Resize follows the drawing surface, in pointer units.
func (g *Globe) Resize(width, height float64) {
	g.scene.Camera.SetViewport(width, height)
	g.input.SetViewport(width, height)
	g.repick()
}

func (g *Globe) PointerDown(x, y float64) {
	g.input.PointerDown(x, y)
	g.pointer, g.hasPointer = mgl64.Vec2{x, y}, true
}

// PointerMove rotates the globe when dragging, then picks at the new
// pointer position.
func (g *Globe) PointerMove(x, y float64) PickResult {
	d := g.input.PointerMove(x, y)
	g.scene.Rotate(d.Yaw, d.Pitch)
	g.pointer, g.hasPointer = mgl64.Vec2{x, y}, true
	return g.pick(d.NDC)
}

func (g *Globe) PointerUp(x, y float64) {
	g.input.PointerUp()
	g.pointer, g.hasPointer = mgl64.Vec2{x, y}, true
}

// PointerLeave forgets the pointer and clears any hover.
func (g *Globe) PointerLeave() {
	g.input.PointerUp()
	g.hasPointer = false
	if g.picker.Reset() {
		g.rec.HoverChanged()
	}
	g.hover = PickResult{}
}

// Wheel moves the zoom target; the camera glides there on later frames.
func (g *Globe) Wheel(deltaY float64) {
	g.scene.Camera.ZoomBy(g.input.Wheel(deltaY))
}

// Rotate turns the globe directly, as the arrow keys do.
func (g *Globe) Rotate(deltaYaw, deltaPitch float64) {
	g.scene.Rotate(deltaYaw, deltaPitch)
	g.repick()
}

// FocusOn turns the globe so glyph faces the camera.
func (g *Globe) FocusOn(glyph *Glyph) {
	p := glyph.Position
	yaw := -math.Atan2(p.X(), p.Z())
	pitch := mgl64.DegToRad(glyph.Latitude)
	g.scene.SetRotation(yaw, pitch)
	g.repick()
}

// ResetView restores the initial orientation and zoom target.
func (g *Globe) ResetView(distance float64) {
	g.scene.SetRotation(0, 0)
	g.scene.Camera.SetTargetDistance(distance)
	g.repick()
}

// Frame advances the loop and re-picks at the last pointer position so
// the hover follows the globe while the camera moves.
func (g *Globe) Frame() Frame {
	f := g.loop.Tick()
	g.rec.FrameRendered()
	g.repick()
	return f
}

func (g *Globe) repick() {
	if !g.hasPointer {
		return
	}
	g.pick(g.input.NDC(g.pointer.X(), g.pointer.Y()))
}

func (g *Globe) pick(ndc mgl64.Vec2) PickResult {
	start := time.Now()
	res := g.picker.Update(ndc, g.scene.Camera, g.scene)
	g.rec.PickObserved(time.Since(start))
	if res.Changed {
		g.rec.HoverChanged()
	}
	g.hover = res
	return res
}
