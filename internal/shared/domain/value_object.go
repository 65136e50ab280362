package domain

import (
	"fmt"
	"time"
)

// ValueObject represents an immutable domain concept defined by its attributes.
type ValueObject interface {
	Equals(other ValueObject) bool
}

// PersonID identifies the person a booking refers to. The engine never
// interprets it beyond equality; person details live with an external
// collaborator.
type PersonID struct {
	value string
}

// NewPersonID creates a new PersonID from a string.
func NewPersonID(value string) PersonID {
	return PersonID{value: value}
}

// String returns the string representation of the PersonID.
func (p PersonID) String() string {
	return p.value
}

// Equals checks if two PersonIDs are equal.
func (p PersonID) Equals(other ValueObject) bool {
	if otherID, ok := other.(PersonID); ok {
		return p.value == otherID.value
	}
	return false
}

// IsEmpty returns true if the PersonID is empty.
func (p PersonID) IsEmpty() bool {
	return p.value == ""
}

const dateLayout = "2006-01-02"

// Date is a calendar day without a time-of-day component. All occupancy and
// capacity arithmetic in the engine is done in whole days.
type Date struct {
	t time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a Date in ISO 8601 form (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// Today returns the current calendar day in UTC.
func Today() Date {
	return DateOf(time.Now().UTC())
}

func (d Date) IsZero() bool         { return d.t.IsZero() }
func (d Date) Time() time.Time      { return d.t }
func (d Date) String() string       { return d.t.Format(dateLayout) }
func (d Date) Before(o Date) bool   { return d.t.Before(o.t) }
func (d Date) After(o Date) bool    { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool    { return d.t.Equal(o.t) }
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }

// DaysUntil returns the number of whole days from d to o. Negative if o is
// before d.
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// Equals checks if two Dates are equal.
func (d Date) Equals(other ValueObject) bool {
	if otherDate, ok := other.(Date); ok {
		return d.Equal(otherDate)
	}
	return false
}

// MarshalJSON encodes the date as an ISO 8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes an ISO 8601 date string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an inclusive range of calendar days [Start, End].
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// NewDateRange creates a DateRange. The range is invalid if End is before
// Start; callers validate before constructing where that matters.
func NewDateRange(start, end Date) DateRange {
	return DateRange{Start: start, End: end}
}

// Contains reports whether day falls within the range, inclusive of both ends.
func (r DateRange) Contains(day Date) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Days returns every calendar day in the range in chronological order.
func (r DateRange) Days() []Date {
	if r.End.Before(r.Start) {
		return nil
	}
	days := make([]Date, 0, r.Start.DaysUntil(r.End)+1)
	for day := r.Start; !day.After(r.End); day = day.AddDays(1) {
		days = append(days, day)
	}
	return days
}

// Equals checks if two DateRanges are equal.
func (r DateRange) Equals(other ValueObject) bool {
	if otherRange, ok := other.(DateRange); ok {
		return r.Start.Equal(otherRange.Start) && r.End.Equal(otherRange.End)
	}
	return false
}
