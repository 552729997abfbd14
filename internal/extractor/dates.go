// =============================================================================
// Payslip Ledger - Date Normalizer
// =============================================================================
//
// Payslips state their pay period in one of two shapes:
//
//   PATTERN A - an explicit date range:
//     "Period: 01/04/2023 - 30/04/2023"
//     The START date's month and year become the record's period. Lines are
//     searched in order and the first match ends the search.
//
//   PATTERN B - an abbreviated month and two-digit year:
//     "Pay Period Apr 23"
//     Only tried when no line matched pattern A. The year is 2000 + YY.
//     Every line is scanned and the LAST matching line wins.
//
// The first-match / last-match asymmetry matches the documents this was built
// against; do not unify the two without re-checking real samples.
//
// =============================================================================

package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/payslip-ledger/internal/period"
)

var (
	// dateRangePattern captures day/month/year of both ends of a range.
	dateRangePattern = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})\s*-\s*(\d{2})/(\d{2})/(\d{4})`)

	// payPeriodPattern captures the month abbreviation and 2-digit year.
	payPeriodPattern = regexp.MustCompile(`Pay Period\s+([A-Za-z]{3})\s+(\d{2})`)
)

// monthAbbreviations maps lower-case three-letter month names to numbers.
var monthAbbreviations = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// FindPeriod runs the date normalizer over a document's lines. ok is false
// when neither pattern produced a valid period.
func FindPeriod(lines []string) (p period.Period, ok bool) {
	if p, ok := findDateRange(lines); ok {
		return p, true
	}
	return findPayPeriod(lines)
}

// findDateRange returns the start month of the first DD/MM/YYYY range.
func findDateRange(lines []string) (period.Period, bool) {
	for _, line := range lines {
		m := dateRangePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		p, err := period.New(year, month)
		if err != nil {
			// Not a real date (e.g. month 13); keep looking.
			continue
		}
		return p, true
	}
	return period.Period{}, false
}

// findPayPeriod returns the period named by the last "Pay Period Mon YY" line.
func findPayPeriod(lines []string) (period.Period, bool) {
	var (
		found period.Period
		ok    bool
	)
	for _, line := range lines {
		m := payPeriodPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		month, known := monthAbbreviations[strings.ToLower(m[1])]
		if !known {
			continue
		}
		yy, _ := strconv.Atoi(m[2])
		found = period.Period{Year: 2000 + yy, Month: month}
		ok = true
	}
	return found, ok
}
