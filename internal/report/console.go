// Package report renders records, summaries and gap checks for people:
// console text and XLSX, CSV or PDF exports.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/payslip-ledger/internal/aggregate"
	"github.com/ginjaninja78/payslip-ledger/internal/extractor"
	"github.com/ginjaninja78/payslip-ledger/internal/period"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
)

func orDefault(p, fallback period.Period) string {
	if p.IsZero() {
		return fallback.String()
	}
	return p.String()
}

// WriteRanges prints the requested, available and actual date ranges.
func WriteRanges(w io.Writer, res aggregate.Result) {
	if res.Warning == aggregate.WarningEmptyDataset {
		fmt.Fprintf(w, "Warning: %s\n", res.Warning.Message())
		return
	}
	if !res.Requested.IsUnbounded() {
		fmt.Fprintf(w, "Requested date range: %s to %s\n",
			orDefault(res.Requested.Start, res.AvailableStart),
			orDefault(res.Requested.End, res.AvailableEnd))
	}
	fmt.Fprintf(w, "Available date range: %s to %s\n", res.AvailableStart, res.AvailableEnd)
	if res.Warning == aggregate.WarningOutOfRange {
		fmt.Fprintln(w, res.Warning.Message())
		return
	}
	fmt.Fprintf(w, "Actual output date range: %s to %s\n", res.ActualStart, res.ActualEnd)
}

// WriteSummary prints the ranges followed by one "Category: 0.00" line per
// category, sorted by name.
func WriteSummary(w io.Writer, res aggregate.Result) {
	WriteRanges(w, res)
	if len(res.Totals) == 0 {
		return
	}
	fmt.Fprintln(w, "Summary of payments:")
	for _, name := range res.Categories() {
		fmt.Fprintf(w, "%s: %s\n", name, res.Totals[name].StringFixed(2))
	}
}

// WriteSubset prints "Total of A + B: 0.00".
func WriteSubset(w io.Writer, res aggregate.SubsetResult) {
	fmt.Fprintf(w, "Total of %s: %s\n", strings.Join(res.Categories, " + "), res.Total.StringFixed(2))
}

// WriteGaps prints the gap check result.
func WriteGaps(w io.Writer, gaps aggregate.GapReport) {
	switch {
	case gaps.Warning == aggregate.WarningEmptyDataset:
		fmt.Fprintf(w, "Warning: %s\n", gaps.Warning.Message())
	case gaps.HasGaps():
		months := make([]string, len(gaps.Missing))
		for i, p := range gaps.Missing {
			months[i] = p.String()
		}
		fmt.Fprintf(w, "Warning: Payslip data is missing for the following month(s): %s\n", strings.Join(months, ", "))
	default:
		fmt.Fprintln(w, "No gaps found in the payslip data.")
	}
}

// WriteRecord prints one record on a single line.
func WriteRecord(w io.Writer, r record.Record) {
	parts := make([]string, 0, len(r.Payments))
	for _, name := range r.Categories() {
		parts = append(parts, fmt.Sprintf("%s=%s", name, r.Payments[name].StringFixed(2)))
	}
	fmt.Fprintf(w, "%s  %s\n", r.Period, strings.Join(parts, " "))
}

// WriteKeyValues prints "Key: Value" pairs one per line.
func WriteKeyValues(w io.Writer, pairs []extractor.KeyValue) {
	for _, kv := range pairs {
		fmt.Fprintf(w, "%s: %s\n", kv.Key, kv.Value)
	}
}
