package report

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeGrowth returns ((current - previous) / previous) * 100 rounded to two
// decimal places, or "0.00" when previous is not positive.
func ComputeGrowth(current, previous decimal.Decimal) string {
	if !previous.IsPositive() {
		return decimal.Zero.StringFixed(2)
	}
	return current.Sub(previous).
		DivRound(previous, 8).
		Mul(hundred).
		StringFixed(2)
}

// Window is a half-open time interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// GrowthWindows returns the current and previous seven-day windows relative to
// now. The current window starts seven calendar days before today (UTC) and
// runs through the end of today; the previous window is the seven days before it.
func GrowthWindows(now time.Time) (current, previous Window) {
	today := StartOfDay(now)
	weekAgo := today.AddDate(0, 0, -7)
	current = Window{From: weekAgo, To: today.AddDate(0, 0, 1)}
	previous = Window{From: today.AddDate(0, 0, -14), To: weekAgo}
	return current, previous
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
