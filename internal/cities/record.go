// Package cities reads city records from the external data source and
// validates them. Every input format funnels through the same field
// parser so the rejection policy is identical everywhere: a malformed
// record is skipped and reported, the rest of the batch survives.
package cities

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	errNotNumber  = errors.New("not a number")
	errNotFinite  = errors.New("not finite")
	errNegative   = errors.New("negative")
	errOutOfRange = errors.New("out of range")
	errMissing    = errors.New("missing")
)

// CityRecord is one read-only entry of the data source.
type CityRecord struct {
	ID          string
	Name        string
	CountryName string
	Population  int64
	Latitude    float64
	Longitude   float64
}

// Validate checks coordinate ranges and the population. index is only
// used to label the returned *DataFormatError.
func (c CityRecord) Validate(index int) error {
	fail := func(field string, v float64, err error) error {
		return &DataFormatError{Index: index, Name: c.Name, Field: field, Value: strconv.FormatFloat(v, 'g', -1, 64), Err: err}
	}
	if c.Population < 0 {
		return fail("population", float64(c.Population), errNegative)
	}
	if !finite(c.Latitude) {
		return fail("latitude", c.Latitude, errNotFinite)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fail("latitude", c.Latitude, errOutOfRange)
	}
	if !finite(c.Longitude) {
		return fail("longitude", c.Longitude, errNotFinite)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fail("longitude", c.Longitude, errOutOfRange)
	}
	return nil
}

// Batch is the outcome of decoding one document.
type Batch struct {
	Records  []CityRecord
	Rejected []error
}

// rawFields is the textual form every decoder reduces an entry to.
type rawFields struct {
	id, name, country string

	population, latitude, longitude string
	hasPopulation, hasLat, hasLon   bool
}

func (b *Batch) add(index int, f rawFields) {
	rec, err := f.parse(index)
	if err != nil {
		b.Rejected = append(b.Rejected, err)
		return
	}
	b.Records = append(b.Records, rec)
}

func (f rawFields) parse(index int) (CityRecord, error) {
	rec := CityRecord{
		ID:          strings.TrimSpace(f.id),
		Name:        strings.TrimSpace(f.name),
		CountryName: strings.TrimSpace(f.country),
	}
	bad := func(field, v string, err error) error {
		return &DataFormatError{Index: index, Name: rec.Name, Field: field, Value: v, Err: err}
	}

	if !f.hasPopulation {
		return CityRecord{}, bad("population", "", errMissing)
	}
	pop, err := parseNumber(f.population)
	if err != nil {
		return CityRecord{}, bad("population", f.population, err)
	}
	if pop < 0 {
		return CityRecord{}, bad("population", f.population, errNegative)
	}
	// float64(MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if pop >= math.MaxInt64 {
		return CityRecord{}, bad("population", f.population, errOutOfRange)
	}
	rec.Population = int64(math.Floor(pop))

	if !f.hasLat {
		return CityRecord{}, bad("latitude", "", errMissing)
	}
	if rec.Latitude, err = parseNumber(f.latitude); err != nil {
		return CityRecord{}, bad("latitude", f.latitude, err)
	}
	if !f.hasLon {
		return CityRecord{}, bad("longitude", "", errMissing)
	}
	if rec.Longitude, err = parseNumber(f.longitude); err != nil {
		return CityRecord{}, bad("longitude", f.longitude, err)
	}
	if err := rec.Validate(index); err != nil {
		return CityRecord{}, err
	}
	return rec, nil
}

// parseNumber accepts plain decimal or float notation, surrounding spaces
// allowed. Anything else, including NaN and infinities, is rejected.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errNotNumber
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errNotNumber
	}
	if !finite(v) {
		return 0, errNotFinite
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
