package cities

import (
	"encoding/xml"
	"io"
	"strings"
)

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlPlacemark struct {
	Name     string `xml:"name"`
	Extended struct {
		Data []kmlData `xml:"Data"`
	} `xml:"ExtendedData"`
	Point *struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"Point"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Document   struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Folders    []struct {
			Placemarks []kmlPlacemark `xml:"Placemark"`
		} `xml:"Folder"`
	} `xml:"Document"`
}

// DecodeKML extracts Placemark > Point cities. KML coordinates are
// "lon,lat[,alt]"; altitude is ignored. Country and population are read
// from ExtendedData/Data entries.
func DecodeKML(r io.Reader) (Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Batch{}, &DataFormatError{Index: -1, Err: err}
	}
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Batch{}, &DataFormatError{Index: -1, Err: err}
	}
	pms := append([]kmlPlacemark(nil), doc.Placemarks...)
	pms = append(pms, doc.Document.Placemarks...)
	for _, f := range doc.Document.Folders {
		pms = append(pms, f.Placemarks...)
	}

	var b Batch
	for i, pm := range pms {
		if pm.Point == nil {
			b.Rejected = append(b.Rejected, &DataFormatError{Index: i, Name: pm.Name, Field: "Point", Err: errMissing})
			continue
		}
		f := rawFields{name: pm.Name}
		for _, d := range pm.Extended.Data {
			switch strings.ToLower(d.Name) {
			case "country", "countryname":
				f.country = d.Value
			case "population", "pop":
				f.population, f.hasPopulation = d.Value, true
			case "id":
				f.id = d.Value
			}
		}
		// first tuple only
		tuple := strings.Fields(pm.Point.Coordinates)
		if len(tuple) > 0 {
			vals := strings.Split(tuple[0], ",")
			if len(vals) >= 2 {
				f.longitude, f.latitude = vals[0], vals[1]
				f.hasLon, f.hasLat = true, true
			}
		}
		b.add(i, f)
	}
	return b, nil
}
