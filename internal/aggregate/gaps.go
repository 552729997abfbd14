package aggregate

import (
	"github.com/ginjaninja78/payslip-ledger/internal/period"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
)

// GapReport lists the calendar months between the earliest and latest record
// (inclusive) that have no record.
type GapReport struct {
	Missing  []period.Period
	Earliest period.Period
	Latest   period.Period
	Warning  Warning
}

// HasGaps reports whether any month is missing.
func (g GapReport) HasGaps() bool { return len(g.Missing) > 0 }

// FindGaps walks every month from the earliest to the latest record period
// and reports those with no record. Membership is exact (year, month)
// equality on the Period value.
func FindGaps(records []record.Record) GapReport {
	if len(records) == 0 {
		return GapReport{Warning: WarningEmptyDataset}
	}

	present := make(map[period.Period]struct{}, len(records))
	report := GapReport{}
	for _, r := range records {
		present[r.Period] = struct{}{}
		report.Earliest = minPeriod(report.Earliest, r.Period)
		report.Latest = maxPeriod(report.Latest, r.Period)
	}

	for p := report.Earliest; !p.After(report.Latest); p = p.Next() {
		if _, ok := present[p]; !ok {
			report.Missing = append(report.Missing, p)
		}
	}

	return report
}
