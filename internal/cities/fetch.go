package cities

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Decoder turns one document into a batch of records.
type Decoder func(io.Reader) (Batch, error)

// DecoderFor picks a decoder from the source's extension. Anything that is
// not GeoJSON, CSV or KML is read as a JSON array.
func DecoderFor(source string) Decoder {
	p := source
	if i := strings.IndexAny(p, "?#"); i >= 0 && IsRemote(source) {
		p = p[:i]
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".geojson":
		return DecodeGeoJSON
	case ".csv":
		return DecodeCSV
	case ".kml":
		return DecodeKML
	default:
		return DecodeJSON
	}
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetcher loads a document from a file path or an http(s) URL. There are no
// retries: a failure is final for the call.
type Fetcher struct {
	Client *http.Client
}

// Fetch reads and decodes source. Transport failures and non-2xx statuses
// are *FetchError; an unreadable document is a *DataFormatError.
func (f Fetcher) Fetch(ctx context.Context, source string) (Batch, error) {
	if strings.TrimSpace(source) == "" {
		return Batch{}, &FetchError{Source: source, Err: errors.New("no data source configured")}
	}
	dec := DecoderFor(source)
	if !IsRemote(source) {
		fh, err := os.Open(source)
		if err != nil {
			return Batch{}, &FetchError{Source: source, Err: err}
		}
		defer fh.Close()
		return dec(fh)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return Batch{}, &FetchError{Source: source, Err: err}
	}
	req.Header.Set("Accept", "application/json, application/geo+json, text/csv, */*")
	resp, err := client.Do(req)
	if err != nil {
		return Batch{}, &FetchError{Source: source, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Batch{}, &FetchError{Source: source, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	return dec(resp.Body)
}
