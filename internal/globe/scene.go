package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"globeview/internal/geo"
)

// Sphere is the globe body.
type Sphere struct {
	Radius   float64
	Material Material
}

// Lights is an ambient term plus one directional light fixed in world
// space. Direction points from the surface toward the light.
type Lights struct {
	Ambient     float64
	Directional float64
	Direction   mgl64.Vec3
}

// DefaultLights mirror a white ambient fill with a key light up and to
// the right of the camera.
func DefaultLights() Lights {
	return Lights{
		Ambient:     0.45,
		Directional: 0.8,
		Direction:   mgl64.Vec3{5, 10, 7.5}.Normalize(),
	}
}

// Scene owns the sphere, lights, camera and glyph group. Glyphs are
// children of the sphere: the scene rotation applies to both.
type Scene struct {
	Sphere Sphere
	Lights Lights
	Camera *Camera

	glyphs []*Glyph
	yaw    float64
	pitch  float64
}

// NewScene builds an empty scene around cam.
func NewScene(cam *Camera, material Material) *Scene {
	if material == nil {
		material = FlatMaterial{Color: OceanBlue}
	}
	return &Scene{
		Sphere: Sphere{Radius: geo.SphereRadius, Material: material},
		Lights: DefaultLights(),
		Camera: cam,
	}
}

func (s *Scene) Glyphs() []*Glyph { return s.glyphs }

func (s *Scene) setGlyphs(glyphs []*Glyph) { s.glyphs = glyphs }

// Rotate adds to the yaw (about Y) and pitch (about X) angles.
func (s *Scene) Rotate(deltaYaw, deltaPitch float64) {
	s.yaw += deltaYaw
	s.pitch += deltaPitch
}

func (s *Scene) SetRotation(yaw, pitch float64) {
	s.yaw, s.pitch = yaw, pitch
}

func (s *Scene) Angles() (yaw, pitch float64) { return s.yaw, s.pitch }

// Rotation maps sphere-local space to world space: pitch applied after
// yaw, the XYZ Euler order.
func (s *Scene) Rotation() mgl64.Quat {
	return mgl64.QuatRotate(s.pitch, mgl64.Vec3{1, 0, 0}).
		Mul(mgl64.QuatRotate(s.yaw, mgl64.Vec3{0, 1, 0}))
}

func (s *Scene) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return s.Rotation().Rotate(local)
}

func (s *Scene) WorldPosition(g *Glyph) mgl64.Vec3 {
	return s.ToWorld(g.Position)
}

// Visible reports whether the glyph's base sits on the hemisphere facing
// the camera.
func (s *Scene) Visible(g *Glyph) bool {
	p := s.WorldPosition(g)
	return p.Dot(s.Camera.Position()) > s.Sphere.Radius*s.Sphere.Radius
}

// SurfaceAt returns the sphere-local geographic position under ndc.
func (s *Scene) SurfaceAt(ndc mgl64.Vec2) (latDeg, lonDeg float64, ok bool) {
	origin, dir := s.Camera.Ray(ndc)
	t, hit := raySphere(origin, dir, s.Sphere.Radius)
	if !hit {
		return 0, 0, false
	}
	local := s.Rotation().Inverse().Rotate(origin.Add(dir.Mul(t)))
	latDeg, lonDeg, _ = geo.Unproject(local)
	return latDeg, lonDeg, true
}

// Shade returns the lit sphere color under ndc, Lambert diffuse plus
// ambient. ok is false when the ray misses the globe.
func (s *Scene) Shade(ndc mgl64.Vec2) (geo.RGB, bool) {
	origin, dir := s.Camera.Ray(ndc)
	t, hit := raySphere(origin, dir, s.Sphere.Radius)
	if !hit {
		return geo.RGB{}, false
	}
	world := origin.Add(dir.Mul(t))
	local := s.Rotation().Inverse().Rotate(world)
	lat, lon, _ := geo.Unproject(local)

	lambert := math.Max(0, world.Normalize().Dot(s.Lights.Direction))
	intensity := s.Lights.Ambient + s.Lights.Directional*lambert
	return s.Sphere.Material.Sample(lat, lon).Scale(intensity), true
}

// raySphere returns the nearest positive ray parameter where a ray with a
// unit direction meets a sphere centered at the origin.
func raySphere(origin, dir mgl64.Vec3, radius float64) (float64, bool) {
	b := origin.Dot(dir)
	c := origin.Dot(origin) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
		if t < 0 {
			return 0, false
		}
	}
	return t, true
}
