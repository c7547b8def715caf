package domain

import (
	"fmt"
	"time"
)

// DateFormat is the single date convention a deployment accepts for dob,
// travel_date, and the date_from/date_to query bounds.
//
// The registry has historically run under two incompatible conventions (ISO
// dates in one deployment generation, short month-first dates in another),
// and at least one generation tried to guess the format per value, which
// misread day/month and corrupted age-derived data. The format is therefore
// an explicit configuration choice: input either matches it exactly or is
// rejected with a field-level error. There is no auto-detection.
type DateFormat string

const (
	// DateFormatISO accepts "2006-01-02".
	DateFormatISO DateFormat = "YYYY-MM-DD"
	// DateFormatShortMDY accepts "01-02-06". Two-digit years follow the Go
	// pivot: 69–99 resolve to 19xx, 00–68 to 20xx.
	DateFormatShortMDY DateFormat = "MM-DD-YY"
	// DateFormatSlashDMY accepts "02/01/2006" (day first).
	DateFormatSlashDMY DateFormat = "DD/MM/YYYY"
)

// Valid reports whether f is one of the supported formats.
func (f DateFormat) Valid() bool {
	switch f {
	case DateFormatISO, DateFormatShortMDY, DateFormatSlashDMY:
		return true
	}
	return false
}

// Layout returns the Go time layout for f.
func (f DateFormat) Layout() string {
	switch f {
	case DateFormatShortMDY:
		return "01-02-06"
	case DateFormatSlashDMY:
		return "02/01/2006"
	default:
		return "2006-01-02"
	}
}

// Parse parses s strictly against the configured layout. time.Parse alone is
// lenient about zero-padding, so the parsed value is re-rendered and compared
// to the input: anything that does not round-trip byte-for-byte is rejected.
func (f DateFormat) Parse(s string) (time.Time, error) {
	t, err := time.Parse(f.Layout(), s)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be a date in %s format", f)
	}
	if t.Format(f.Layout()) != s {
		return time.Time{}, fmt.Errorf("must be a date in %s format", f)
	}
	return t, nil
}

// Format renders t in the configured layout.
func (f DateFormat) Format(t time.Time) string {
	return t.Format(f.Layout())
}
