package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ginjaninja78/payslip-ledger/internal/aggregate"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// Sheet names of the XLSX export.
const (
	RecordsSheet = "Records"
	SummarySheet = "Summary"
)

// Export writes the records and their summary in the given format.
func Export(w io.Writer, format string, records []record.Record, summary aggregate.Result, gaps aggregate.GapReport) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, records, summary)
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatPDF:
		return WritePDF(w, summary, gaps)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteCSV writes a header row (Period, categories...) and one row per
// record. Missing amounts are empty cells.
func WriteCSV(w io.Writer, records []record.Record) error {
	table := BuildTable(records)
	cw := csv.NewWriter(w)

	header := append([]string{"Period"}, table.Categories...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range table.Rows {
		line := make([]string, 0, len(header))
		line = append(line, row.Period.String())
		for i, amount := range row.Amounts {
			if row.Present[i] {
				line = append(line, amount.StringFixed(2))
			} else {
				line = append(line, "")
			}
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write %s: %w", row.Period, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with a Records sheet (one row per record) and
// a Summary sheet (ranges and totals).
func WriteXLSX(w io.Writer, records []record.Record, summary aggregate.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), RecordsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	table := BuildTable(records)
	header := []any{"Period"}
	for _, name := range table.Categories {
		header = append(header, name)
	}
	if err := f.SetSheetRow(RecordsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range table.Rows {
		values := []any{row.Period.String()}
		for j, amount := range row.Amounts {
			if row.Present[j] {
				values = append(values, amount.InexactFloat64())
			} else {
				values = append(values, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RecordsSheet, cell, &values); err != nil {
			return fmt.Errorf("write %s: %w", row.Period, err)
		}
	}

	if err := writeSummarySheet(f, summary); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary aggregate.Result) error {
	rows := [][]any{
		{"Payslip Summary"},
		{},
		{"Requested start", summary.Requested.Start.String()},
		{"Requested end", summary.Requested.End.String()},
		{"Available start", summary.AvailableStart.String()},
		{"Available end", summary.AvailableEnd.String()},
		{"Actual start", summary.ActualStart.String()},
		{"Actual end", summary.ActualEnd.String()},
		{"Records", summary.Contributing},
	}
	if summary.Warning != aggregate.WarningNone {
		rows = append(rows, []any{"Warning", summary.Warning.Message()})
	}
	rows = append(rows, []any{}, []any{"Category", "Total"})
	for _, name := range summary.Categories() {
		rows = append(rows, []any{name, summary.Totals[name].InexactFloat64()})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return nil
}
