package globe

import (
	"globeview/internal/cities"
	"globeview/internal/geo"
)

// Factory turns city records into glyphs.
type Factory struct {
	Scaler   geo.Scaler
	Altitude float64
}

// NewFactory returns a Factory with the default scaler and marker altitude.
func NewFactory() Factory {
	return Factory{Scaler: geo.DefaultScaler(), Altitude: geo.MarkerAltitude}
}

// Build creates one glyph per valid record, in input order. Records that
// fail validation are skipped and reported as *cities.DataFormatError;
// the population maximum is taken over the accepted records only. The
// input slice is not modified.
func (f Factory) Build(records []cities.CityRecord) ([]*Glyph, []error) {
	if len(records) == 0 {
		return []*Glyph{}, nil
	}

	accepted := make([]cities.CityRecord, 0, len(records))
	var rejected []error
	var maxPop int64
	for i, rec := range records {
		if err := rec.Validate(i); err != nil {
			rejected = append(rejected, err)
			continue
		}
		accepted = append(accepted, rec)
		if rec.Population > maxPop {
			maxPop = rec.Population
		}
	}

	alt := f.Altitude
	if alt <= geo.SphereRadius {
		alt = geo.MarkerAltitude
	}

	glyphs := make([]*Glyph, 0, len(accepted))
	for _, rec := range accepted {
		ratio := f.Scaler.Ratio(rec.Population, maxPop)
		pos := geo.Project(rec.Latitude, rec.Longitude, alt)
		glyphs = append(glyphs, newGlyph(
			pos,
			geo.OrientOutward(pos),
			rec.Latitude, rec.Longitude,
			Appearance{
				Height: f.Scaler.Height(ratio),
				Radius: f.Scaler.Radius(ratio),
				Color:  f.Scaler.Color(ratio),
			},
			Metadata{Name: rec.Name, Country: rec.CountryName, Population: rec.Population},
		))
	}
	return glyphs, rejected
}
