package cities_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"globeview/internal/cities"
)

const sampleJSON = `[
  {"id": 1, "name": "Paris", "countryname": "France", "population": "2148000", "latitude": "48.8566", "longitude": "2.3522"},
  {"id": 2, "name": "Tokyo", "countryName": "Japan", "population": 13960000, "latitude": 35.6762, "longitude": 139.6503},
  {"id": 3, "name": "Broken", "country": "Nowhere", "population": "abc", "latitude": 1, "longitude": 1},
  {"id": 4, "name": "Quito", "country": "Ecuador", "population": 2011000, "latitude": -0.1807, "longitude": -78.4678}
]`

func TestDecodeJSON(t *testing.T) {
	convey.Convey("Given a JSON array with mixed string and numeric fields", t, func() {
		b, err := cities.DecodeJSONString(sampleJSON)

		convey.Convey("Then valid records survive and the malformed one is rejected", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(b.Records), convey.ShouldEqual, 3)
			convey.So(len(b.Rejected), convey.ShouldEqual, 1)

			var dfe *cities.DataFormatError
			convey.So(errors.As(b.Rejected[0], &dfe), convey.ShouldBeTrue)
			convey.So(dfe.Index, convey.ShouldEqual, 2)
			convey.So(dfe.Field, convey.ShouldEqual, "population")
			convey.So(dfe.Value, convey.ShouldEqual, "abc")
			convey.So(errors.Is(b.Rejected[0], cities.ErrDataFormat), convey.ShouldBeTrue)
		})

		convey.Convey("Then string numbers are parsed and country aliases resolve", func() {
			paris := b.Records[0]
			convey.So(paris.Name, convey.ShouldEqual, "Paris")
			convey.So(paris.CountryName, convey.ShouldEqual, "France")
			convey.So(paris.Population, convey.ShouldEqual, int64(2148000))
			convey.So(paris.Latitude, convey.ShouldAlmostEqual, 48.8566)
			convey.So(paris.ID, convey.ShouldEqual, "1")

			convey.So(b.Records[1].CountryName, convey.ShouldEqual, "Japan")
			convey.So(b.Records[2].CountryName, convey.ShouldEqual, "Ecuador")
		})
	})

	convey.Convey("Given populations at the edge of int64", t, func() {
		b, err := cities.DecodeJSONString(`[
			{"name": "Huge", "population": "1e19", "latitude": 0, "longitude": 0},
			{"name": "Big", "population": 9000000000000000000, "latitude": 0, "longitude": 0}
		]`)

		convey.Convey("Then a value int64 cannot hold is out of range, not negative", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(b.Rejected, convey.ShouldHaveLength, 1)
			convey.So(b.Rejected[0].Error(), convey.ShouldContainSubstring, `population "1e19": out of range`)
			convey.So(b.Records, convey.ShouldHaveLength, 1)
			convey.So(b.Records[0].Population, convey.ShouldEqual, int64(9000000000000000000))
		})
	})

	convey.Convey("Given records violating geographic bounds", t, func() {
		b, err := cities.DecodeJSONString(`[
			{"name": "North", "population": 1, "latitude": 91, "longitude": 0},
			{"name": "East", "population": 1, "latitude": 0, "longitude": 181},
			{"name": "Negative", "population": -5, "latitude": 0, "longitude": 0},
			{"name": "NoCoords", "population": 5},
			{"name": "Inf", "population": "Inf", "latitude": 0, "longitude": 0},
			"not an object"
		]`)

		convey.Convey("Then every one of them is rejected", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(b.Records, convey.ShouldBeEmpty)
			convey.So(len(b.Rejected), convey.ShouldEqual, 6)
		})
	})

	convey.Convey("Given a document that is not an array", t, func() {
		_, err := cities.DecodeJSONString(`{"name": "Paris"}`)

		convey.Convey("Then the whole batch fails", func() {
			var dfe *cities.DataFormatError
			convey.So(errors.As(err, &dfe), convey.ShouldBeTrue)
			convey.So(dfe.Index, convey.ShouldEqual, -1)
		})
	})

	convey.Convey("Given an empty array", t, func() {
		b, err := cities.DecodeJSONString(`[]`)

		convey.Convey("Then nothing is produced and nothing fails", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(b.Records, convey.ShouldBeEmpty)
			convey.So(b.Rejected, convey.ShouldBeEmpty)
		})
	})
}

func TestDecodeOtherFormats(t *testing.T) {
	convey.Convey("Given a GeoJSON FeatureCollection", t, func() {
		doc := `{"type": "FeatureCollection", "features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [2.3522, 48.8566]},
			 "properties": {"name": "Paris", "country": "France", "population": 2148000}},
			{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
			 "properties": {"name": "Road"}}
		]}`
		b, err := cities.DecodeGeoJSON(strings.NewReader(doc))

		convey.So(err, convey.ShouldBeNil)
		convey.So(len(b.Records), convey.ShouldEqual, 1)
		convey.So(len(b.Rejected), convey.ShouldEqual, 1)
		convey.So(b.Records[0].Longitude, convey.ShouldAlmostEqual, 2.3522)
		convey.So(b.Records[0].CountryName, convey.ShouldEqual, "France")
	})

	convey.Convey("Given a CSV with a header", t, func() {
		doc := "City,Country,Population,Lat,Lng\nOslo,Norway,709000,59.91,10.75\nBad,Nowhere,x,0,0\n"
		b, err := cities.DecodeCSV(strings.NewReader(doc))

		convey.So(err, convey.ShouldBeNil)
		convey.So(len(b.Records), convey.ShouldEqual, 1)
		convey.So(b.Records[0].Name, convey.ShouldEqual, "Oslo")
		convey.So(b.Records[0].Population, convey.ShouldEqual, int64(709000))
		convey.So(len(b.Rejected), convey.ShouldEqual, 1)
	})

	convey.Convey("Given a CSV without a population column", t, func() {
		_, err := cities.DecodeCSV(strings.NewReader("lat,lon\n1,2\n"))
		convey.So(errors.Is(err, cities.ErrDataFormat), convey.ShouldBeTrue)
	})

	convey.Convey("Given a KML document", t, func() {
		doc := `<?xml version="1.0"?><kml><Document>
			<Placemark><name>Lima</name>
			  <ExtendedData><Data name="country"><value>Peru</value></Data><Data name="population"><value>9750000</value></Data></ExtendedData>
			  <Point><coordinates>-77.0428,-12.0464,0</coordinates></Point></Placemark>
			<Placemark><name>Nowhere</name></Placemark>
		</Document></kml>`
		b, err := cities.DecodeKML(strings.NewReader(doc))

		convey.So(err, convey.ShouldBeNil)
		convey.So(len(b.Records), convey.ShouldEqual, 1)
		convey.So(b.Records[0].Latitude, convey.ShouldAlmostEqual, -12.0464)
		convey.So(b.Records[0].CountryName, convey.ShouldEqual, "Peru")
		convey.So(len(b.Rejected), convey.ShouldEqual, 1)
	})
}

func TestFetcher(t *testing.T) {
	convey.Convey("Given an HTTP data source", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/location.json", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sampleJSON))
		})
		mux.HandleFunc("/down.json", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusServiceUnavailable)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()
		f := cities.Fetcher{Client: srv.Client()}

		convey.Convey("When the document is served", func() {
			b, err := f.Fetch(context.Background(), srv.URL+"/location.json")
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(b.Records), convey.ShouldEqual, 3)
		})

		convey.Convey("When the server answers with an error status", func() {
			_, err := f.Fetch(context.Background(), srv.URL+"/down.json")
			var fe *cities.FetchError
			convey.So(errors.As(err, &fe), convey.ShouldBeTrue)
			convey.So(fe.Status, convey.ShouldEqual, http.StatusServiceUnavailable)
			convey.So(errors.Is(err, cities.ErrFetch), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a file data source", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "cities.csv")
		convey.So(os.WriteFile(path, []byte("name,population,latitude,longitude\nRome,2873000,41.9,12.5\n"), 0o600), convey.ShouldBeNil)

		convey.Convey("When it exists the extension selects the decoder", func() {
			b, err := cities.Fetcher{}.Fetch(context.Background(), path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(b.Records), convey.ShouldEqual, 1)
		})

		convey.Convey("When it is missing the failure is a FetchError", func() {
			_, err := cities.Fetcher{}.Fetch(context.Background(), filepath.Join(dir, "missing.json"))
			convey.So(errors.Is(err, cities.ErrFetch), convey.ShouldBeTrue)
		})
	})
}
