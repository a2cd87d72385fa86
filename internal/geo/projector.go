// Package geo holds the pure math that turns geographic records into
// positioned, oriented and colored glyphs on a unit globe.
package geo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi

	// SphereRadius is the radius of the rendered globe.
	SphereRadius = 1.0
	// MarkerAltitude keeps glyph bases just outside the sphere surface so
	// they never share a depth with it.
	MarkerAltitude = 1.01
)

// UpAxis is the canonical length axis of an unrotated glyph.
var UpAxis = mgl64.Vec3{0, 1, 0}

// Project maps latitude/longitude in degrees onto a sphere of the given
// radius. Y points to the north pole, +X crosses lat 0 / lon 0 and east
// longitudes go towards -Z.
func Project(latDeg, lonDeg, radius float64) mgl64.Vec3 {
	phi := latDeg * degToRad
	theta := -lonDeg * degToRad
	sinPhi, cosPhi := math.Sincos(phi)
	sinTheta, cosTheta := math.Sincos(theta)
	return mgl64.Vec3{
		radius * cosPhi * cosTheta,
		radius * sinPhi,
		radius * cosPhi * sinTheta,
	}
}

// Unproject is the inverse of Project. The origin maps to (0, 0, 0).
func Unproject(p mgl64.Vec3) (latDeg, lonDeg, radius float64) {
	radius = p.Len()
	if radius < 1e-12 {
		return 0, 0, 0
	}
	y := mgl64.Clamp(p.Y()/radius, -1, 1)
	latDeg = math.Asin(y) * radToDeg
	lonDeg = -math.Atan2(p.Z(), p.X()) * radToDeg
	if lonDeg == -180 {
		lonDeg = 180
	}
	return latDeg, lonDeg, radius
}

// OrientOutward returns the rotation taking UpAxis onto the direction of
// p, so an extruded glyph placed at p points away from the globe center.
// p must be nonzero.
func OrientOutward(p mgl64.Vec3) mgl64.Quat {
	return rotationBetween(UpAxis, p.Normalize())
}

// rotationBetween is the shortest-arc rotation from unit vector a to unit
// vector b. mgl64.QuatBetweenVectors snaps anything within 1e-3 of
// antiparallel to a half turn, which visibly tilts glyphs near the south
// pole, so the antiparallel branch here only triggers on exact opposites.
func rotationBetween(a, b mgl64.Vec3) mgl64.Quat {
	cos := a.Dot(b)
	if cos < -1+1e-12 {
		axis := mgl64.Vec3{1, 0, 0}.Cross(a)
		if axis.Len() < 1e-6 {
			axis = mgl64.Vec3{0, 0, 1}.Cross(a)
		}
		return mgl64.QuatRotate(math.Pi, axis.Normalize())
	}
	s := math.Sqrt((1 + cos) * 2)
	axis := a.Cross(b).Mul(1 / s)
	return mgl64.Quat{W: s * 0.5, V: axis}.Normalize()
}
