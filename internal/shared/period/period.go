package period

import (
	"fmt"
	"net/http"
	"time"

	"brokmang/internal/shared/apperror"
)

// Layout is the wire format for a reporting period ("2024-01").
const Layout = "2006-01"

// Month is a calendar month used as the bucketing key for all ledger queries.
// The zero value is invalid; construct via Parse or FromTime.
type Month struct {
	Year  int
	Month time.Month
}

// Parse parses a "YYYY-MM" string. Malformed input is a validation error,
// rejected before any read or write happens.
func Parse(s string) (Month, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Month{}, apperror.Wrap(err, apperror.CodeInvalidInput,
			fmt.Sprintf("invalid period %q, expected YYYY-MM", s), http.StatusBadRequest)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// FromTime returns the month containing t, evaluated in UTC.
func FromTime(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

// Start is the first day of the month at midnight UTC. Every cost_month column
// stores exactly this value, so bucketing is equality, never a range scan.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last day of the month at midnight UTC. Effective-dated lookups
// (tax config, salaries) resolve as of this date.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

// NextStart is the first instant of the following month; closed_date filters
// use [Start, NextStart).
func (m Month) NextStart() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

func (m Month) Next() Month {
	return FromTime(m.NextStart())
}

func (m Month) String() string {
	return m.Start().Format(Layout)
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Range returns every month from from to to inclusive, in order. An inverted
// range is a validation error.
func Range(from, to Month) ([]Month, error) {
	if to.Before(from) {
		return nil, apperror.New(apperror.CodeInvalidInput,
			fmt.Sprintf("invalid period range %s..%s", from, to), http.StatusBadRequest)
	}

	months := []Month{from}
	for cur := from; cur != to; {
		cur = cur.Next()
		months = append(months, cur)
	}
	return months, nil
}
