package cities

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// flexValue holds a JSON scalar that may arrive either as a string or as a
// number ("population": "123" and "population": 123 are both accepted).
type flexValue struct {
	text string
	set  bool
}

func (f *flexValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	f.set = true
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &f.text)
	}
	// numbers, booleans: keep the literal and let the field parser judge it
	f.text = string(b)
	return nil
}

type jsonCity struct {
	ID          flexValue `json:"id"`
	Name        flexValue `json:"name"`
	Country     flexValue `json:"country"`
	CountryName flexValue `json:"countryname"`
	Population  flexValue `json:"population"`
	Latitude    flexValue `json:"latitude"`
	Longitude   flexValue `json:"longitude"`
}

func (c jsonCity) fields() rawFields {
	country := c.CountryName.text
	if !c.CountryName.set {
		country = c.Country.text
	}
	return rawFields{
		id:            c.ID.text,
		name:          c.Name.text,
		country:       country,
		population:    c.Population.text,
		latitude:      c.Latitude.text,
		longitude:     c.Longitude.text,
		hasPopulation: c.Population.set,
		hasLat:        c.Latitude.set,
		hasLon:        c.Longitude.set,
	}
}

// DecodeJSON reads a JSON array of city objects. Field names match case
// insensitively, so countryName, countryname and country all work. An
// entry that is not an object, or whose numbers do not parse, is rejected
// on its own; a document that is not an array fails as a whole.
func DecodeJSON(r io.Reader) (Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Batch{}, &DataFormatError{Index: -1, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Batch{}, &DataFormatError{Index: -1, Err: errors.New("empty document")}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return Batch{}, &DataFormatError{Index: -1, Err: err}
	}
	var b Batch
	for i, raw := range entries {
		var c jsonCity
		if err := json.Unmarshal(raw, &c); err != nil {
			b.Rejected = append(b.Rejected, &DataFormatError{Index: i, Err: err})
			continue
		}
		b.add(i, c.fields())
	}
	return b, nil
}

// DecodeJSONString is DecodeJSON over an in-memory document.
func DecodeJSONString(s string) (Batch, error) {
	return DecodeJSON(strings.NewReader(s))
}
