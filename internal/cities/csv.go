package cities

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// DecodeCSV reads a CSV with a header row.
// Column detection (case-insensitive):
//
//	lat|latitude|y, lon|lng|long|longitude|x, name|city,
//	country|countryname|country_name, population|pop
//
// Latitude, longitude and population columns are required.
func DecodeCSV(r io.Reader) (Batch, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return Batch{}, &DataFormatError{Index: -1, Err: err}
	}
	if len(recs) == 0 {
		return Batch{}, &DataFormatError{Index: -1, Err: errors.New("empty csv")}
	}
	idx := map[string]int{"lat": -1, "lon": -1, "name": -1, "country": -1, "pop": -1, "id": -1}
	for i, h := range recs[0] {
		var key string
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			key = "lat"
		case "lon", "lng", "long", "longitude", "x":
			key = "lon"
		case "name", "city":
			key = "name"
		case "country", "countryname", "country_name":
			key = "country"
		case "population", "pop":
			key = "pop"
		case "id":
			key = "id"
		default:
			continue
		}
		if idx[key] == -1 {
			idx[key] = i
		}
	}
	if idx["lat"] == -1 || idx["lon"] == -1 {
		return Batch{}, &DataFormatError{Index: -1, Err: errors.New("csv: latitude/longitude columns not found")}
	}
	if idx["pop"] == -1 {
		return Batch{}, &DataFormatError{Index: -1, Err: errors.New("csv: population column not found")}
	}
	cell := func(row []string, key string) (string, bool) {
		i := idx[key]
		if i < 0 || i >= len(row) {
			return "", false
		}
		return row[i], true
	}
	var b Batch
	for n, row := range recs[1:] {
		var f rawFields
		f.id, _ = cell(row, "id")
		f.name, _ = cell(row, "name")
		f.country, _ = cell(row, "country")
		f.population, f.hasPopulation = cell(row, "pop")
		f.latitude, f.hasLat = cell(row, "lat")
		f.longitude, f.hasLon = cell(row, "lon")
		b.add(n, f)
	}
	return b, nil
}
