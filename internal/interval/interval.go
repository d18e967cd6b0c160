package interval

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar date format used across the API, the
	// database and the PDF documents. ISO dates compare lexicographically,
	// which both the SQL predicates and the in-memory store rely on.
	DateLayout = "2006-01-02"

	// FarFuture stands in for the missing end of an open-ended rental.
	// It must only ever be applied through EffectiveEnd.
	FarFuture = "2999-12-31"
)

// DateRange is the occupied interval of a reservation. A nil End means the
// rental is open-ended (monthly/indefinite) and occupies the vehicle until
// further notice.
type DateRange struct {
	Start string
	End   *string
}

func (r DateRange) OpenEnded() bool {
	return r.End == nil || *r.End == ""
}

// EffectiveEnd resolves the nullable end bound for overlap math.
func (r DateRange) EffectiveEnd() string {
	if r.OpenEnded() {
		return FarFuture
	}
	return *r.End
}

// Overlaps reports whether two occupied intervals share at least one day.
// Both bounds are inclusive: [s1,e1] and [s2,e2] overlap iff s1 <= e2 and s2 <= e1.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start <= other.EffectiveEnd() && other.Start <= r.EffectiveEnd()
}

// Contains reports whether the given date falls inside the interval.
func (r DateRange) Contains(date string) bool {
	return r.Start <= date && date <= r.EffectiveEnd()
}

// Validate rejects malformed dates and ranges that end before they start.
func (r DateRange) Validate() error {
	if _, err := time.Parse(DateLayout, r.Start); err != nil {
		return fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", r.Start)
	}
	if !r.OpenEnded() {
		if _, err := time.Parse(DateLayout, *r.End); err != nil {
			return fmt.Errorf("invalid end date %q: expected YYYY-MM-DD", *r.End)
		}
		if *r.End < r.Start {
			return fmt.Errorf("end date %s is before start date %s", *r.End, r.Start)
		}
	}
	return nil
}

// Today returns the current UTC calendar date.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

// DaysFromNow returns the UTC calendar date n days ahead.
func DaysFromNow(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format(DateLayout)
}
