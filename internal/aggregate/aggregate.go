// =============================================================================
// Payslip Ledger - Aggregator
// =============================================================================
//
// The aggregator answers "how much was paid, per category, between these two
// months?" over a collection of records.
//
// THREE RANGES:
//   - Requested: the bounds supplied by the caller (either may be open).
//   - Available: the span of every record in the collection, regardless of
//     the request. Reported for diagnostics only, never used in the sum.
//   - Actual:    the span of the records that contributed to the totals.
//
// REPORTED CONDITIONS:
//   - WarningEmptyDataset: the collection has no records at all.
//   - WarningOutOfRange:   records exist, but none fall inside the request.
//   Both return an empty totals map and zero actual bounds; they are results,
//   not errors, and callers must be able to tell them apart.
//
// =============================================================================

package aggregate

import (
	"sort"

	"github.com/ginjaninja78/payslip-ledger/internal/period"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
	"github.com/ginjaninja78/payslip-ledger/internal/validation"
	"github.com/shopspring/decimal"
)

// Warning is a non-fatal condition reported alongside a result.
type Warning string

const (
	WarningNone         Warning = ""
	WarningEmptyDataset Warning = "empty_dataset"
	WarningOutOfRange   Warning = "out_of_range"
)

// Message returns a human-readable description of the warning.
func (w Warning) Message() string {
	switch w {
	case WarningEmptyDataset:
		return "The record collection is empty."
	case WarningOutOfRange:
		return "No data found in the requested date range."
	default:
		return ""
	}
}

// =============================================================================
// RANGE
// =============================================================================

// Range is an inclusive pair of month bounds. A zero Start or End leaves that
// side unbounded.
type Range struct {
	Start period.Period
	End   period.Period
}

// ParseRange parses "YYYY-MM" bounds from the query surface. Empty strings
// mean unbounded. Malformed bounds fail with a *validation.ValidationError.
// A start after the end is accepted; such a range contains no month.
func ParseRange(start, end string) (Range, error) {
	s, err := validation.ParseBound("start", start)
	if err != nil {
		return Range{}, err
	}
	e, err := validation.ParseBound("end", end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: s, End: e}, nil
}

// Contains reports whether p lies inside the range.
func (r Range) Contains(p period.Period) bool {
	if !r.Start.IsZero() && p.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && p.After(r.End) {
		return false
	}
	return true
}

// IsUnbounded reports whether neither side is set.
func (r Range) IsUnbounded() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Result is the outcome of Aggregate.
type Result struct {
	// Totals maps category name to the summed amount of contributing records.
	Totals map[string]decimal.Decimal

	// ActualStart/ActualEnd bound the contributing records; zero when none.
	ActualStart period.Period
	ActualEnd   period.Period

	// AvailableStart/AvailableEnd bound every record in the collection.
	AvailableStart period.Period
	AvailableEnd   period.Period

	// Requested echoes the range that was asked for.
	Requested Range

	// Contributing is the number of records inside the range.
	Contributing int

	// Warning is set for empty collections and empty ranges.
	Warning Warning
}

// Categories returns the category names in Totals, sorted.
func (r Result) Categories() []string {
	names := make([]string, 0, len(r.Totals))
	for name := range r.Totals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aggregate sums every category over the records inside rng.
func Aggregate(records []record.Record, rng Range) Result {
	result := Result{
		Totals:    make(map[string]decimal.Decimal),
		Requested: rng,
	}

	if len(records) == 0 {
		result.Warning = WarningEmptyDataset
		return result
	}

	for _, r := range records {
		result.AvailableStart = minPeriod(result.AvailableStart, r.Period)
		result.AvailableEnd = maxPeriod(result.AvailableEnd, r.Period)

		if !rng.Contains(r.Period) {
			continue
		}

		result.Contributing++
		result.ActualStart = minPeriod(result.ActualStart, r.Period)
		result.ActualEnd = maxPeriod(result.ActualEnd, r.Period)

		for name, amount := range r.Payments {
			result.Totals[name] = result.Totals[name].Add(amount)
		}
	}

	if result.Contributing == 0 {
		result.Warning = WarningOutOfRange
	}

	return result
}

// =============================================================================
// ADDITIONAL PAYMENTS
// =============================================================================

// DefaultAdditionalCategories returns the conventional set of "additional"
// payments: everything paid on top of base salary that varies month to month.
func DefaultAdditionalCategories() []string {
	return []string{"Overtimes", "NOC Shift Differential", "Bonus"}
}

// SubsetResult is the outcome of AggregateSubset.
type SubsetResult struct {
	// Categories is the subset that was summed.
	Categories []string

	// Total is the scalar sum of the subset's totals.
	Total decimal.Decimal

	// Aggregate is the full aggregation the total was taken from.
	Aggregate Result
}

// AggregateSubset aggregates records and sums only the named categories.
// Categories that never appear contribute zero. An empty list means
// DefaultAdditionalCategories.
func AggregateSubset(records []record.Record, categories []string, rng Range) SubsetResult {
	if len(categories) == 0 {
		categories = DefaultAdditionalCategories()
	}

	full := Aggregate(records, rng)
	total := decimal.Zero
	for _, name := range categories {
		total = total.Add(full.Totals[name])
	}

	return SubsetResult{
		Categories: append([]string(nil), categories...),
		Total:      total,
		Aggregate:  full,
	}
}

func minPeriod(current, candidate period.Period) period.Period {
	if current.IsZero() || candidate.Before(current) {
		return candidate
	}
	return current
}

func maxPeriod(current, candidate period.Period) period.Period {
	if current.IsZero() || candidate.After(current) {
		return candidate
	}
	return current
}
