package report

import (
	"sort"

	"github.com/ginjaninja78/payslip-ledger/internal/period"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
	"github.com/shopspring/decimal"
)

// Table is the record collection laid out one row per record and one column
// per category.
type Table struct {
	Categories []string
	Rows       []Row
}

// Row is one record. Amounts is aligned with Table.Categories; Present marks
// which cells carry a value.
type Row struct {
	Period  period.Period
	Amounts []decimal.Decimal
	Present []bool
}

// BuildTable lays out the records ordered by period. Records sharing a
// period keep their collection order.
func BuildTable(records []record.Record) Table {
	seen := make(map[string]struct{})
	var categories []string
	for _, r := range records {
		for name := range r.Payments {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				categories = append(categories, name)
			}
		}
	}
	sort.Strings(categories)

	sorted := append([]record.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Period.Before(sorted[j].Period)
	})

	table := Table{Categories: categories, Rows: make([]Row, 0, len(sorted))}
	for _, r := range sorted {
		row := Row{
			Period:  r.Period,
			Amounts: make([]decimal.Decimal, len(categories)),
			Present: make([]bool, len(categories)),
		}
		for i, name := range categories {
			if amount, ok := r.Payments[name]; ok {
				row.Amounts[i] = amount
				row.Present[i] = true
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
