package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/payslip-ledger/internal/aggregate"
	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders a one-page payment statement: ranges, totals per
// category and the gap check.
func WritePDF(w io.Writer, summary aggregate.Result, gaps aggregate.GapReport) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Payslip Summary")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)

	line := func(s string) {
		pdf.Cell(0, 6, s)
		pdf.Ln(5)
	}

	if summary.Warning == aggregate.WarningEmptyDataset {
		line(summary.Warning.Message())
	} else {
		if !summary.Requested.IsUnbounded() {
			line(fmt.Sprintf("Requested: %s to %s",
				orDefault(summary.Requested.Start, summary.AvailableStart),
				orDefault(summary.Requested.End, summary.AvailableEnd)))
		}
		line(fmt.Sprintf("Available: %s to %s", summary.AvailableStart, summary.AvailableEnd))
		if summary.Warning == aggregate.WarningOutOfRange {
			line(summary.Warning.Message())
		} else {
			line(fmt.Sprintf("Actual: %s to %s", summary.ActualStart, summary.ActualEnd))
		}
	}
	pdf.Ln(4)

	if len(summary.Totals) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(90, 6, "Category", "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, "Total", "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, name := range summary.Categories() {
			pdf.CellFormat(90, 6, name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, summary.Totals[name].StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	if gaps.HasGaps() {
		months := make([]string, len(gaps.Missing))
		for i, p := range gaps.Missing {
			months[i] = p.String()
		}
		pdf.MultiCell(0, 6, "Missing months: "+strings.Join(months, ", "), "", "L", false)
	} else if gaps.Warning == aggregate.WarningNone {
		line("No gaps found in the payslip data.")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
