package cities

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

// DecodeGeoJSON reads a FeatureCollection of Point features. Name, country
// and population come from the feature properties using the same keys as
// the JSON array format; coordinates come from the geometry.
func DecodeGeoJSON(r io.Reader) (Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Batch{}, &DataFormatError{Index: -1, Err: err}
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Batch{}, &DataFormatError{Index: -1, Err: err}
	}
	var b Batch
	for i, f := range fc.Features {
		name := propText(f.Properties, "name")
		if f.Geometry == nil || !f.Geometry.IsPoint() || len(f.Geometry.Point) < 2 {
			b.Rejected = append(b.Rejected, &DataFormatError{Index: i, Name: name, Field: "geometry", Value: geometryType(f), Err: errNotPoint})
			continue
		}
		country := propText(f.Properties, "countryname")
		if country == "" {
			country = propText(f.Properties, "country")
		}
		pop, hasPop := propLookup(f.Properties, "population")
		id := propText(f.Properties, "id")
		if id == "" && f.ID != nil {
			id = fmt.Sprint(f.ID)
		}
		b.add(i, rawFields{
			id:            id,
			name:          name,
			country:       country,
			population:    pop,
			latitude:      strconv.FormatFloat(f.Geometry.Point[1], 'f', -1, 64),
			longitude:     strconv.FormatFloat(f.Geometry.Point[0], 'f', -1, 64),
			hasPopulation: hasPop,
			hasLat:        true,
			hasLon:        true,
		})
	}
	return b, nil
}

var errNotPoint = errors.New("not a point")

func geometryType(f *geojson.Feature) string {
	if f.Geometry == nil {
		return "null"
	}
	return string(f.Geometry.Type)
}

func propText(props map[string]interface{}, key string) string {
	v, _ := propLookup(props, key)
	return v
}

// propLookup finds key case-insensitively and renders the value as text.
func propLookup(props map[string]interface{}, key string) (string, bool) {
	for k, v := range props {
		if !strings.EqualFold(k, key) || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return t, true
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), true
		default:
			return fmt.Sprint(t), true
		}
	}
	return "", false
}
