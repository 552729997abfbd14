// =============================================================================
// Payslip Ledger - Period Key
// =============================================================================
//
// A Period is the canonical identity of a payslip: a calendar (year, month)
// pair. It is a comparable value type, so it can be used directly as a map
// key and compared with ==.
//
// TEXT FORM:
//   Periods are always written as "YYYY-MM" (e.g. "2023-04"). The same form is
//   used on disk, on the command line and in reports.
//
// =============================================================================

package period

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidPeriod is returned when a string is not a valid "YYYY-MM" period.
var ErrInvalidPeriod = errors.New("invalid period")

// periodPattern enforces the strict "YYYY-MM" text form.
var periodPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// Period is a calendar month. The zero value means "no period".
type Period struct {
	Year  int
	Month int // 1-12
}

// New builds a Period, rejecting months outside 1-12 and non-positive years.
func New(year, month int) (Period, error) {
	if year <= 0 {
		return Period{}, fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}
	return Period{Year: year, Month: month}, nil
}

// MustNew is like New but panics on invalid input. Intended for tests and
// literal tables.
func MustNew(year, month int) Period {
	p, err := New(year, month)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse reads a "YYYY-MM" string.
func Parse(s string) (Period, error) {
	m := periodPattern.FindStringSubmatch(s)
	if m == nil {
		return Period{}, fmt.Errorf("%w: %q is not in YYYY-MM form", ErrInvalidPeriod, s)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return New(year, month)
}

// IsZero reports whether p is the "no period" value.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// String returns the "YYYY-MM" form, or "" for the zero Period.
func (p Period) String() string {
	if p.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Compare returns -1, 0 or +1 depending on whether p is before, equal to or
// after other.
func (p Period) Compare(other Period) int {
	switch {
	case p.Year < other.Year:
		return -1
	case p.Year > other.Year:
		return 1
	case p.Month < other.Month:
		return -1
	case p.Month > other.Month:
		return 1
	default:
		return 0
	}
}

// Before reports whether p is strictly earlier than other.
func (p Period) Before(other Period) bool { return p.Compare(other) < 0 }

// After reports whether p is strictly later than other.
func (p Period) After(other Period) bool { return p.Compare(other) > 0 }

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	if p.IsZero() {
		return nil, fmt.Errorf("%w: cannot marshal zero period", ErrInvalidPeriod)
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
