package report

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the orders-by-date filters.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("report: date must be formatted as YYYY-MM-DD")
	ErrInvalidRange = errors.New("report: start date is after end date")
)

// DateRange is an optional inclusive range of calendar days (UTC).
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseDateRange parses optional start and end dates. Empty strings leave the
// corresponding bound open.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if s := strings.TrimSpace(start); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, time.UTC)
		if err != nil {
			return DateRange{}, ErrInvalidDate
		}
		r.Start = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, time.UTC)
		if err != nil {
			return DateRange{}, ErrInvalidDate
		}
		r.End = &t
	}
	if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return DateRange{}, ErrInvalidRange
	}
	return r, nil
}

// Bounds converts the inclusive day range into half-open timestamps:
// created_at >= from and created_at < to. Nil means unbounded.
func (r DateRange) Bounds() (from, to *time.Time) {
	if r.Start != nil {
		f := StartOfDay(*r.Start)
		from = &f
	}
	if r.End != nil {
		t := StartOfDay(*r.End).AddDate(0, 0, 1)
		to = &t
	}
	return from, to
}
