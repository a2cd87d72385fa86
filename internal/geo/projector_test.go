package geo

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// near compares by absolute distance; components that should be zero come
// back as rounding noise around 1e-16.
func near(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}

func TestProject(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		r       float64
		want    mgl64.Vec3
		epsilon float64
	}{
		{name: "Equator Prime Meridian", lat: 0, lon: 0, r: 1.01, want: mgl64.Vec3{1.01, 0, 0}, epsilon: 1e-12},
		{name: "North Pole", lat: 90, lon: 0, r: 1, want: mgl64.Vec3{0, 1, 0}, epsilon: 1e-12},
		{name: "South Pole", lat: -90, lon: 45, r: 1, want: mgl64.Vec3{0, -1, 0}, epsilon: 1e-12},
		{name: "Equator 90E", lat: 0, lon: 90, r: 1, want: mgl64.Vec3{0, 0, -1}, epsilon: 1e-12},
		{name: "Equator 90W", lat: 0, lon: -90, r: 2, want: mgl64.Vec3{0, 0, 2}, epsilon: 1e-12},
		{name: "45N 45E", lat: 45, lon: 45, r: 1, want: mgl64.Vec3{0.5, math.Sqrt2 / 2, -0.5}, epsilon: 1e-12},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Project(tc.lat, tc.lon, tc.r)
			if !near(got, tc.want, tc.epsilon) {
				t.Errorf("Project(%v, %v, %v) = %v, want %v", tc.lat, tc.lon, tc.r, got, tc.want)
			}
		})
	}
}

func TestProjectStaysOnSphere(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 7.5 {
		for lon := -180.0; lon <= 180; lon += 11.25 {
			for _, r := range []float64{0.5, 1, MarkerAltitude, 3} {
				p := Project(lat, lon, r)
				if math.Abs(p.Len()-r) > 1e-12 {
					t.Fatalf("|Project(%v, %v, %v)| = %v", lat, lon, r, p.Len())
				}
			}
		}
	}
}

func TestUnprojectRoundTrip(t *testing.T) {
	for lat := -89.0; lat <= 89; lat += 4 {
		for lon := -179.0; lon <= 180; lon += 9.5 {
			gotLat, gotLon, gotR := Unproject(Project(lat, lon, MarkerAltitude))
			if math.Abs(gotLat-lat) > 1e-9 || math.Abs(gotLon-lon) > 1e-9 || math.Abs(gotR-MarkerAltitude) > 1e-12 {
				t.Fatalf("round trip (%v, %v) -> (%v, %v, %v)", lat, lon, gotLat, gotLon, gotR)
			}
		}
	}
}

func TestUnprojectOrigin(t *testing.T) {
	lat, lon, r := Unproject(mgl64.Vec3{})
	if lat != 0 || lon != 0 || r != 0 {
		t.Errorf("Unproject(origin) = %v, %v, %v", lat, lon, r)
	}
}

func TestOrientOutward(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 5 {
		for lon := -180.0; lon <= 180; lon += 15 {
			p := Project(lat, lon, MarkerAltitude)
			q := OrientOutward(p)
			for _, c := range []float64{q.W, q.V[0], q.V[1], q.V[2]} {
				if math.IsNaN(c) {
					t.Fatalf("NaN orientation at (%v, %v)", lat, lon)
				}
			}
			got := q.Rotate(UpAxis)
			if !near(got, p.Normalize(), 1e-9) {
				t.Fatalf("at (%v, %v) up maps to %v, want %v", lat, lon, got, p.Normalize())
			}
		}
	}
}

func TestOrientOutwardAntiparallel(t *testing.T) {
	q := OrientOutward(mgl64.Vec3{0, -5, 0})
	got := q.Rotate(UpAxis)
	if !near(got, mgl64.Vec3{0, -1, 0}, 1e-12) {
		t.Errorf("south pole orientation maps up to %v", got)
	}
}

func TestOrientOutwardAtSouthPoleDateline(t *testing.T) {
	p := Project(-90, -180, MarkerAltitude)
	got := OrientOutward(p).Rotate(UpAxis)
	if !near(got, mgl64.Vec3{0, -1, 0}, 1e-9) {
		t.Errorf("up maps to %v at (-90, -180)", got)
	}
}
