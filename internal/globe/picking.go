package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"globeview/internal/geo"
)

// occlusionSlack lets a glyph that pokes through the surface stay
// pickable where the ray meets both at practically the same depth.
const occlusionSlack = 1e-6

// GlyphSet is what the picker searches: the glyphs and the rotation that
// places them in world space.
type GlyphSet interface {
	Glyphs() []*Glyph
	Rotation() mgl64.Quat
}

// PickResult is the outcome of one picking pass.
type PickResult struct {
	Hit      bool
	Glyph    *Glyph
	Metadata Metadata
	// Anchor is the screen position (pointer units) of the glyph tip.
	Anchor mgl64.Vec2
	NDC    mgl64.Vec2
	// Distance is the ray parameter of the hit.
	Distance float64
	// Changed is set when this pass moved the highlight.
	Changed bool
}

// Picker resolves the glyph under the pointer and keeps at most one glyph
// highlighted.
type Picker struct {
	// Tolerance widens every glyph by this many radians of view angle.
	Tolerance       float64
	HighlightFactor float64
	HighlightScale  float64

	highlighted *Glyph
}

func NewPicker(tolerance, factor, scale float64) *Picker {
	return &Picker{Tolerance: tolerance, HighlightFactor: factor, HighlightScale: scale}
}

func (p *Picker) Highlighted() *Glyph { return p.highlighted }

// Reset restores the highlighted glyph, if any, and forgets it.
func (p *Picker) Reset() bool {
	if p.highlighted == nil {
		return false
	}
	p.highlighted.restore()
	p.highlighted = nil
	return true
}

// Update casts a ray through ndc and moves the highlight to the nearest
// glyph it meets, or clears it.
func (p *Picker) Update(ndc mgl64.Vec2, cam *Camera, set GlyphSet) PickResult {
	origin, dir := cam.Ray(ndc)
	rot := set.Rotation()

	var (
		nearest *Glyph
		nearT   = math.Inf(1)
	)
	sphereT, sphereHit := raySphere(origin, dir, geo.SphereRadius)
	for _, g := range set.Glyphs() {
		t, ok := p.intersect(origin, dir, rot, g)
		if !ok {
			continue
		}
		if sphereHit && sphereT < t-occlusionSlack {
			continue
		}
		// strict: on equal depth the earlier glyph keeps the hit
		if t < nearT {
			nearest, nearT = g, t
		}
	}

	res := PickResult{NDC: ndc}
	if nearest == nil {
		res.Changed = p.Reset()
		return res
	}

	if nearest != p.highlighted {
		if p.highlighted != nil {
			p.highlighted.restore()
		}
		nearest.highlight(p.HighlightFactor, p.HighlightScale)
		p.highlighted = nearest
		res.Changed = true
		// report the depth of the enlarged glyph, as the next pass will
		if t, ok := p.intersect(origin, dir, rot, nearest); ok {
			nearT = t
		}
	}

	res.Hit = true
	res.Glyph = nearest
	res.Metadata = nearest.Metadata()
	res.Distance = nearT
	_, tip := nearest.Ends()
	res.Anchor, _ = cam.ToScreen(rot.Rotate(tip))
	return res
}

// intersect tests the ray against g's capped cylinder in the glyph's own
// frame, where the axis is +Y and the center is the origin.
func (p *Picker) intersect(origin, dir mgl64.Vec3, rot mgl64.Quat, g *Glyph) (float64, bool) {
	center := rot.Rotate(g.Position)
	toLocal := rot.Mul(g.Orientation).Inverse()

	o := toLocal.Rotate(origin.Sub(center))
	d := toLocal.Rotate(dir)

	hh, r := g.halfExtent()
	pad := p.Tolerance * center.Sub(origin).Len()
	hh += pad
	r += pad

	best := math.Inf(1)
	consider := func(t float64) {
		if t > 0 && t < best {
			best = t
		}
	}

	// side wall
	a := d.X()*d.X() + d.Z()*d.Z()
	if a > 1e-12 {
		b := o.X()*d.X() + o.Z()*d.Z()
		c := o.X()*o.X() + o.Z()*o.Z() - r*r
		if disc := b*b - a*c; disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]float64{(-b - sq) / a, (-b + sq) / a} {
				if y := o.Y() + t*d.Y(); y >= -hh && y <= hh {
					consider(t)
				}
			}
		}
	}

	// caps
	if math.Abs(d.Y()) > 1e-12 {
		for _, capY := range [2]float64{-hh, hh} {
			t := (capY - o.Y()) / d.Y()
			x, z := o.X()+t*d.X(), o.Z()+t*d.Z()
			if x*x+z*z <= r*r {
				consider(t)
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}
