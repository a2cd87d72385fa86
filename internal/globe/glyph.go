// Package globe holds the interactive scene: glyphs built from city
// records, the camera, the sphere and its lights, the drag/zoom input
// state machine, ray picking and the per-frame tick.
package globe

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"globeview/internal/geo"
)

// Appearance is the derived look of a glyph at rest. Glyph keeps it by
// value and never writes to it after construction.
type Appearance struct {
	Height float64
	Radius float64
	Color  geo.RGB
}

// Metadata is what the tooltip shows.
type Metadata struct {
	Name       string
	Country    string
	Population int64
}

// Visual is the mutable state driven by hovering.
type Visual struct {
	Color geo.RGB
	Scale float64
}

// Glyph is one city marker: a cylinder centered on Position whose length
// axis is Orientation applied to geo.UpAxis. Position and Orientation are
// in sphere-local space; the scene rotation maps them to world space.
type Glyph struct {
	ID          uuid.UUID
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Latitude    float64
	Longitude   float64

	base   Appearance
	meta   Metadata
	visual Visual
	hot    bool
}

func newGlyph(pos mgl64.Vec3, orient mgl64.Quat, lat, lon float64, base Appearance, meta Metadata) *Glyph {
	return &Glyph{
		ID:          uuid.New(),
		Position:    pos,
		Orientation: orient,
		Latitude:    lat,
		Longitude:   lon,
		base:        base,
		meta:        meta,
		visual:      Visual{Color: base.Color, Scale: 1},
	}
}

func (g *Glyph) Base() Appearance   { return g.base }
func (g *Glyph) Metadata() Metadata { return g.meta }
func (g *Glyph) Visual() Visual     { return g.visual }

// Highlighted reports whether the glyph is the hovered one. It holds even
// when the highlight factor and scale leave the look unchanged.
func (g *Glyph) Highlighted() bool { return g.hot }

func (g *Glyph) highlight(factor, scale float64) {
	g.visual = Visual{Color: g.base.Color.Scale(factor), Scale: scale}
	g.hot = true
}

func (g *Glyph) restore() {
	g.visual = Visual{Color: g.base.Color, Scale: 1}
	g.hot = false
}

// halfExtent returns the current half height and radius, scale applied.
func (g *Glyph) halfExtent() (halfHeight, radius float64) {
	return g.base.Height * g.visual.Scale / 2, g.base.Radius * g.visual.Scale
}

// Axis is the glyph's length direction in sphere-local space.
func (g *Glyph) Axis() mgl64.Vec3 {
	return g.Orientation.Rotate(geo.UpAxis)
}

// Ends returns the sphere-local base and tip of the glyph's axis.
func (g *Glyph) Ends() (base, tip mgl64.Vec3) {
	hh, _ := g.halfExtent()
	off := g.Axis().Mul(hh)
	return g.Position.Sub(off), g.Position.Add(off)
}
