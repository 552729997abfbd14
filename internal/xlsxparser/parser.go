// =============================================================================
// Payslip Ledger - XLSX Category Table Parser
// =============================================================================
//
// This module reads payment category tables authored as Excel workbooks.
// Keeping the table in a spreadsheet lets payroll staff add a category for a
// new payslip layout without touching YAML or code.
//
// TABLE STRUCTURE (first sheet):
//   Row 1: Header row
//   Row 2+: One category per row
//
//   | Column | Purpose  | Example                                 |
//   |--------|----------|-----------------------------------------|
//   | A      | Category | Meal Allowance                          |
//   | B      | Pattern  | Meal\s+(\d+(?:,\d+)*\.\d+)              |
//   | C      | Group    | 1 (optional, defaults to 1)             |
//   | D      | Notes    | free text, ignored                      |
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/payslip-ledger/internal/extractor"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// COLUMN CONFIGURATION
// =============================================================================

// TableColumns defines which columns of the sheet hold which attribute.
// Column indices are 0-based (A=0, B=1, ...).
type TableColumns struct {
	NameColumn    int
	PatternColumn int
	GroupColumn   int

	// DataStartRow is the 0-based row index where categories begin.
	DataStartRow int
}

// DefaultTableColumns returns the default column layout.
func DefaultTableColumns() TableColumns {
	return TableColumns{
		NameColumn:    0, // Column A
		PatternColumn: 1, // Column B
		GroupColumn:   2, // Column C
		DataStartRow:  1, // Row 2
	}
}

// =============================================================================
// MAIN PARSING FUNCTIONS
// =============================================================================

// Parse reads a category table using the default column layout.
func Parse(tablePath string) ([]extractor.Definition, error) {
	return ParseWithConfig(tablePath, DefaultTableColumns())
}

// ParseWithConfig reads a category table from the first sheet of the
// workbook.
//
// PARAMETERS:
//   - tablePath: The path to the XLSX workbook.
//   - columns: The column layout.
//
// RETURNS:
//   - The category definitions in row order. Blank rows are skipped.
//   - An error if the workbook cannot be read or a Group cell is not a number.
//
// Patterns are not compiled here; extractor.NewSchema and the validator do
// that so every problem in the table can be reported together.
func ParseWithConfig(tablePath string, columns TableColumns) ([]extractor.Definition, error) {
	f, err := excelize.OpenFile(tablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open category table: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("category table has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var defs []extractor.Definition
	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		def, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("error parsing row %d: %w", i+1, err)
		}
		defs = append(defs, def)
	}

	return defs, nil
}

func parseRow(row []string, columns TableColumns) (extractor.Definition, error) {
	getCell := func(index int) string {
		if index >= 0 && index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	def := extractor.Definition{
		Name:    getCell(columns.NameColumn),
		Pattern: getCell(columns.PatternColumn),
		Group:   1,
	}

	if raw := getCell(columns.GroupColumn); raw != "" {
		group, err := strconv.Atoi(raw)
		if err != nil {
			return def, fmt.Errorf("group %q is not a number", raw)
		}
		def.Group = group
	}

	return def, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if all cells in a row are empty.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
