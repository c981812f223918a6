package ride

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned for ride files the loader cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported ride file format")

// MissingColumnError reports required columns that are absent from a series.
type MissingColumnError struct {
	Columns []Column
}

func (e *MissingColumnError) Error() string {
	names := make([]string, 0, len(e.Columns))
	for _, c := range e.Columns {
		names = append(names, c.String())
	}
	return fmt.Sprintf("missing required column(s): %s", strings.Join(names, ", "))
}

// Availability describes which columns of a series carry data.
// It is computed once per series so consumers can declare their inputs.
type Availability struct {
	present        [numColumns]bool
	AltitudeSource string
	SpeedSource    string
	Samples        int
}

// Describe inspects a series. A column is present when it was loaded and
// holds at least one non-null value.
func Describe(s *Series) Availability {
	a := Availability{Samples: s.Len()}
	if s == nil {
		return a
	}
	a.AltitudeSource = s.AltitudeSource
	a.SpeedSource = s.SpeedSource
	for _, ts := range s.Timestamps {
		if !ts.IsZero() {
			a.present[ColumnTimestamp] = true
			break
		}
	}
	for c := ColumnLatitude; c < numColumns; c++ {
		values := s.Values(c)
		if len(values) != s.Len() {
			continue
		}
		for _, v := range values {
			if !IsNull(v) {
				a.present[c] = true
				break
			}
		}
	}
	return a
}

// Has reports whether a column is present.
func (a Availability) Has(c Column) bool {
	if c < 0 || c >= numColumns {
		return false
	}
	return a.present[c]
}

// Columns lists the present columns in declaration order.
func (a Availability) Columns() []Column {
	out := make([]Column, 0, numColumns)
	for c := Column(0); c < numColumns; c++ {
		if a.present[c] {
			out = append(out, c)
		}
	}
	return out
}

// Require returns a *MissingColumnError naming every absent column, or nil.
func (a Availability) Require(cols ...Column) error {
	var missing []Column
	for _, c := range cols {
		if !a.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingColumnError{Columns: missing}
}
