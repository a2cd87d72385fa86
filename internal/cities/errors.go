package cities

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. These allow errors.Is from callers.
var (
	ErrFetch      = errors.New("fetch failed")
	ErrDataFormat = errors.New("data format")
)

// FetchError reports an unreachable source or a non-success status.
type FetchError struct {
	Source string
	Status int // HTTP status; 0 when the request never completed
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// DataFormatError identifies a record that could not be turned into a valid
// CityRecord. Index is -1 when the whole document is unreadable.
type DataFormatError struct {
	Index int
	Name  string
	Field string
	Value string
	Err   error
}

func (e *DataFormatError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed document: %v", e.Err)
	}
	who := fmt.Sprintf("record %d", e.Index)
	if e.Name != "" {
		who += fmt.Sprintf(" (%q)", e.Name)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", who, e.Err)
	}
	return fmt.Sprintf("%s: %s %q: %v", who, e.Field, e.Value, e.Err)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

func (e *DataFormatError) Is(target error) bool { return target == ErrDataFormat }
