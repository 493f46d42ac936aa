package dreams

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the layout new records are stamped with: local time with
// microseconds and no zone.
const DateLayout = "2006-01-02T15:04:05.000000"

// ErrBadDate is returned when a record date matches none of the accepted layouts.
var ErrBadDate = errors.New("unrecognised date")

var acceptedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewDate stamps t with DateLayout.
func NewDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// ParseDate accepts RFC 3339 with a zone, the zone-less layouts (interpreted
// as local time) with or without fractional seconds, and a bare date.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range acceptedLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}

// DayKey truncates a record date to YYYY-MM-DD. Dates that do not parse are
// truncated textually when long enough.
func DayKey(date string) string {
	if t, err := ParseDate(date); err == nil {
		return t.Format("2006-01-02")
	}
	if len(date) >= 10 {
		return date[:10]
	}
	return date
}

// DefaultTitle is the title given to a record recorded at t without one.
func DefaultTitle(t time.Time, inputType string) string {
	if inputType == InputTypeAudio {
		return fmt.Sprintf("Rêve vocal du %s", t.Format(titleDateLayout))
	}
	return fmt.Sprintf("Rêve du %s", t.Format(titleDateLayout))
}
