package aggregate

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/ginjaninja78/payslip-ledger/internal/period"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
	"github.com/ginjaninja78/payslip-ledger/internal/validation"
	"github.com/shopspring/decimal"
)

func mustRecord(t *testing.T, p string, payments map[string]string) record.Record {
	t.Helper()
	pp, err := period.Parse(p)
	if err != nil {
		t.Fatalf("parse %q: %v", p, err)
	}
	amounts := make(map[string]decimal.Decimal, len(payments))
	for name, v := range payments {
		amounts[name] = decimal.RequireFromString(v)
	}
	r, err := record.New(pp, amounts)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return r
}

// twelveMonths builds 2022-05 .. 2023-04 with Salary=1000 every month.
func twelveMonths(t *testing.T) []record.Record {
	t.Helper()
	var records []record.Record
	p := period.MustNew(2022, 5)
	for i := 0; i < 12; i++ {
		records = append(records, mustRecord(t, p.String(), map[string]string{"Salary": "1000"}))
		p = p.Next()
	}
	return records
}

func mustRange(t *testing.T, start, end string) Range {
	t.Helper()
	rng, err := ParseRange(start, end)
	if err != nil {
		t.Fatalf("range %q..%q: %v", start, end, err)
	}
	return rng
}

func TestAggregateFullYear(t *testing.T) {
	res := Aggregate(twelveMonths(t), mustRange(t, "2022-05", "2023-04"))

	if res.Warning != WarningNone {
		t.Fatalf("unexpected warning %q", res.Warning)
	}
	if !res.Totals["Salary"].Equal(decimal.NewFromInt(12000)) {
		t.Fatalf("expected Salary=12000, got %s", res.Totals["Salary"])
	}
	if res.ActualStart.String() != "2022-05" || res.ActualEnd.String() != "2023-04" {
		t.Fatalf("unexpected actual range %s..%s", res.ActualStart, res.ActualEnd)
	}
	if res.Contributing != 12 {
		t.Fatalf("expected 12 contributing records, got %d", res.Contributing)
	}
}

func TestAggregateOutOfRange(t *testing.T) {
	res := Aggregate(twelveMonths(t), mustRange(t, "2023-05", "2023-12"))

	if res.Warning != WarningOutOfRange {
		t.Fatalf("expected out of range warning, got %q", res.Warning)
	}
	if len(res.Totals) != 0 {
		t.Fatalf("expected empty totals, got %v", res.Totals)
	}
	if !res.ActualStart.IsZero() || !res.ActualEnd.IsZero() {
		t.Fatalf("expected no actual bounds, got %s..%s", res.ActualStart, res.ActualEnd)
	}
	if res.AvailableStart.String() != "2022-05" || res.AvailableEnd.String() != "2023-04" {
		t.Fatalf("available range must reflect all records, got %s..%s", res.AvailableStart, res.AvailableEnd)
	}
}

func TestAggregateEmptyDataset(t *testing.T) {
	res := Aggregate(nil, Range{})
	if res.Warning != WarningEmptyDataset {
		t.Fatalf("expected empty dataset warning, got %q", res.Warning)
	}
	if res.Totals == nil || len(res.Totals) != 0 {
		t.Fatalf("expected empty (non-nil) totals, got %v", res.Totals)
	}
	if res.Warning == WarningOutOfRange {
		t.Fatalf("empty dataset must not be reported as out of range")
	}
}

func TestAggregateOpenBounds(t *testing.T) {
	records := twelveMonths(t)

	res := Aggregate(records, mustRange(t, "2023-01", ""))
	if !res.Totals["Salary"].Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("expected 4000 from 2023-01 onwards, got %s", res.Totals["Salary"])
	}
	if res.ActualStart.String() != "2023-01" || res.ActualEnd.String() != "2023-04" {
		t.Fatalf("unexpected actual range %s..%s", res.ActualStart, res.ActualEnd)
	}

	res = Aggregate(records, mustRange(t, "", "2022-06"))
	if !res.Totals["Salary"].Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected 2000 up to 2022-06, got %s", res.Totals["Salary"])
	}

	res = Aggregate(records, Range{})
	if !res.Totals["Salary"].Equal(decimal.NewFromInt(12000)) {
		t.Fatalf("expected 12000 unbounded, got %s", res.Totals["Salary"])
	}
}

func TestAggregateActualRangeTightensToData(t *testing.T) {
	records := []record.Record{
		mustRecord(t, "2022-03", map[string]string{"Salary": "10"}),
		mustRecord(t, "2022-07", map[string]string{"Salary": "20"}),
	}
	res := Aggregate(records, mustRange(t, "2022-01", "2022-12"))
	if res.ActualStart.String() != "2022-03" || res.ActualEnd.String() != "2022-07" {
		t.Fatalf("actual range should be bounded by data, got %s..%s", res.ActualStart, res.ActualEnd)
	}
}

func TestAggregateIsCommutative(t *testing.T) {
	records := []record.Record{
		mustRecord(t, "2022-01", map[string]string{"Salary": "1000.10", "Bonus": "50"}),
		mustRecord(t, "2022-02", map[string]string{"Salary": "1000.20", "Overtimes": "12.34"}),
		mustRecord(t, "2022-04", map[string]string{"Salary": "1000.30", "RCA": "1100"}),
		mustRecord(t, "2021-12", map[string]string{"Bonus": "75.25"}),
		mustRecord(t, "2022-06", map[string]string{}),
	}
	rng := mustRange(t, "2022-01", "2022-05")
	want := Aggregate(records, rng)

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]record.Record(nil), records...)
		rnd.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := Aggregate(shuffled, rng)
		if got.ActualStart != want.ActualStart || got.ActualEnd != want.ActualEnd {
			t.Fatalf("actual range changed with order: %s..%s vs %s..%s", got.ActualStart, got.ActualEnd, want.ActualStart, want.ActualEnd)
		}
		if len(got.Totals) != len(want.Totals) {
			t.Fatalf("totals changed with order: %v vs %v", got.Totals, want.Totals)
		}
		for name, amount := range want.Totals {
			if !got.Totals[name].Equal(amount) {
				t.Fatalf("%s changed with order: %s vs %s", name, got.Totals[name], amount)
			}
		}
	}
}

func TestAggregateIsIdempotentOverSyntheticRecords(t *testing.T) {
	records := []record.Record{
		mustRecord(t, "2022-01", map[string]string{"Salary": "1000", "Bonus": "50"}),
		mustRecord(t, "2022-02", map[string]string{"Salary": "1000", "Overtimes": "150.50"}),
		mustRecord(t, "2022-03", map[string]string{"Salary": "1200", "Bonus": "25.25"}),
	}
	first := Aggregate(records, Range{})

	var synthetic []record.Record
	for _, name := range first.Categories() {
		r, err := record.New(period.MustNew(2000, 1), map[string]decimal.Decimal{name: first.Totals[name]})
		if err != nil {
			t.Fatalf("synthetic record: %v", err)
		}
		synthetic = append(synthetic, r)
	}
	second := Aggregate(synthetic, Range{})

	if len(second.Totals) != len(first.Totals) {
		t.Fatalf("category count changed: %v vs %v", second.Totals, first.Totals)
	}
	for name, amount := range first.Totals {
		if !second.Totals[name].Equal(amount) {
			t.Fatalf("%s: %s != %s", name, second.Totals[name], amount)
		}
	}
}

func TestAggregateSubset(t *testing.T) {
	records := []record.Record{
		mustRecord(t, "2022-01", map[string]string{"Salary": "1000", "Bonus": "50"}),
		mustRecord(t, "2022-02", map[string]string{"Salary": "1000", "Bonus": "50"}),
		mustRecord(t, "2022-03", map[string]string{"Salary": "1000", "Bonus": "50"}),
	}

	res := AggregateSubset(records, []string{"Overtimes", "Bonus"}, Range{})
	if !res.Total.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected 150, got %s", res.Total)
	}
	if res.Aggregate.ActualStart.String() != "2022-01" || res.Aggregate.ActualEnd.String() != "2022-03" {
		t.Fatalf("unexpected actual range %s..%s", res.Aggregate.ActualStart, res.Aggregate.ActualEnd)
	}

	res = AggregateSubset(records, []string{"RTC", "RCA"}, Range{})
	if !res.Total.IsZero() {
		t.Fatalf("expected zero for absent categories, got %s", res.Total)
	}
}

func TestAggregateSubsetDefaults(t *testing.T) {
	records := []record.Record{
		mustRecord(t, "2022-01", map[string]string{"Salary": "1000", "Bonus": "10", "Overtimes": "20", "NOC Shift Differential": "30", "RTC": "40"}),
	}
	res := AggregateSubset(records, nil, Range{})
	if !res.Total.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected default set to total 60, got %s", res.Total)
	}
	if len(res.Categories) != 3 {
		t.Fatalf("expected default categories, got %v", res.Categories)
	}
}

func TestParseRange(t *testing.T) {
	if _, err := ParseRange("", ""); err != nil {
		t.Fatalf("unbounded range should parse: %v", err)
	}

	cases := []struct{ start, end string }{
		{"2022-5", ""},
		{"", "2022-13"},
	}
	for _, tc := range cases {
		_, err := ParseRange(tc.start, tc.end)
		var ve *validation.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%q..%q: expected ValidationError, got %v", tc.start, tc.end, err)
		}
	}
}

func TestReversedRangeIsOutOfRange(t *testing.T) {
	rng, err := ParseRange("2023-05", "2023-01")
	if err != nil {
		t.Fatalf("reversed range should parse: %v", err)
	}
	res := Aggregate(twelveMonths(t), rng)
	if res.Warning != WarningOutOfRange {
		t.Fatalf("expected out-of-range warning, got %q", res.Warning)
	}
	if len(res.Totals) != 0 || res.Contributing != 0 {
		t.Fatalf("expected empty totals, got %v", res.Totals)
	}
}

func TestFindGaps(t *testing.T) {
	records := []record.Record{
		mustRecord(t, "2022-04", nil),
		mustRecord(t, "2022-01", nil),
		mustRecord(t, "2022-02", nil),
	}
	report := FindGaps(records)
	if len(report.Missing) != 1 || report.Missing[0].String() != "2022-03" {
		t.Fatalf("expected [2022-03], got %v", report.Missing)
	}
	if report.Earliest.String() != "2022-01" || report.Latest.String() != "2022-04" {
		t.Fatalf("unexpected span %s..%s", report.Earliest, report.Latest)
	}
}

func TestFindGapsAcrossYearBoundary(t *testing.T) {
	records := []record.Record{
		mustRecord(t, "2022-11", nil),
		mustRecord(t, "2023-02", nil),
		mustRecord(t, "2022-11", nil),
	}
	report := FindGaps(records)
	var got []string
	for _, p := range report.Missing {
		got = append(got, p.String())
	}
	want := []string{"2022-12", "2023-01"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFindGapsNoGapsAndEmpty(t *testing.T) {
	if report := FindGaps(twelveMonths(t)); report.HasGaps() {
		t.Fatalf("expected no gaps, got %v", report.Missing)
	}
	if report := FindGaps([]record.Record{mustRecord(t, "2022-01", nil)}); report.HasGaps() {
		t.Fatalf("single record cannot have gaps")
	}

	report := FindGaps(nil)
	if report.Warning != WarningEmptyDataset || report.HasGaps() {
		t.Fatalf("expected empty dataset warning, got %+v", report)
	}
}
