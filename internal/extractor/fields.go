// =============================================================================
// Payslip Ledger - Field Extractor
// =============================================================================
//
// The field extractor turns text lines into a category -> amount mapping
// using a declarative table of patterns. Each entry is a (name, pattern,
// group) triple; the scanning algorithm never changes when a category is
// added.
//
// MATCHING RULES:
//   - Every line is tested against every category.
//   - The captured group is parsed as a decimal after removing thousands
//     separators ("1,234.56" -> 1234.56).
//   - A later match for the same category overwrites an earlier one.
//   - Categories that never match are absent from the result (not zero).
//
// =============================================================================

package extractor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPattern is the shape of a monetary amount on a payslip line.
const AmountPattern = `\d+(?:,\d+)*\.\d+`

// Definition is the uncompiled description of one payment category.
type Definition struct {
	Name    string
	Pattern string
	Group   int
}

// Category is a compiled Definition.
type Category struct {
	Name    string
	Pattern *regexp.Regexp
	Group   int
}

// Schema is an ordered table of categories.
type Schema struct {
	categories []Category
}

// DefaultDefinitions returns the categories found on the payslips this tool
// was built for. A fresh slice is returned on every call.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: "Salary", Pattern: `Salary\s+(` + AmountPattern + `)`, Group: 1},
		{Name: "NOC Shift Differential", Pattern: `NOC Shift Differential\s+(` + AmountPattern + `)`, Group: 1},
		{Name: "RCA", Pattern: `RCA\s+(` + AmountPattern + `)`, Group: 1},
		{Name: "Overtimes", Pattern: `OT x 1\.5\s+\d+\.\d+\s+\d+\.\d+\s+(` + AmountPattern + `)`, Group: 1},
		{Name: "RTC", Pattern: `RTC\s+(` + AmountPattern + `)`, Group: 1},
		{Name: "Bonus", Pattern: `Bonus\s+(` + AmountPattern + `)`, Group: 1},
	}
}

// DefaultSchema compiles DefaultDefinitions.
func DefaultSchema() *Schema {
	schema, err := NewSchema(DefaultDefinitions())
	if err != nil {
		panic(fmt.Sprintf("default category table does not compile: %v", err))
	}
	return schema
}

// NewSchema compiles a category table.
func NewSchema(defs []Definition) (*Schema, error) {
	if len(defs) == 0 {
		return nil, errors.New("category table is empty")
	}

	seen := make(map[string]bool, len(defs))
	categories := make([]Category, 0, len(defs))
	for i, def := range defs {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, fmt.Errorf("category %d: name is empty", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("category %q: defined more than once", name)
		}
		seen[name] = true

		re, err := regexp.Compile(def.Pattern)
		if err != nil {
			return nil, fmt.Errorf("category %q: invalid pattern: %w", name, err)
		}
		if def.Group < 1 || def.Group > re.NumSubexp() {
			return nil, fmt.Errorf("category %q: group %d out of range (pattern has %d groups)", name, def.Group, re.NumSubexp())
		}

		categories = append(categories, Category{Name: name, Pattern: re, Group: def.Group})
	}

	return &Schema{categories: categories}, nil
}

// Names returns category names in table order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// ExtractPayments scans lines against the schema.
func (s *Schema) ExtractPayments(lines []string) map[string]decimal.Decimal {
	payments := make(map[string]decimal.Decimal)
	for _, line := range lines {
		for _, c := range s.categories {
			m := c.Pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			amount, err := ParseAmount(m[c.Group])
			if err != nil {
				// The pattern captured something that is not a number;
				// treat the line as a non-match.
				continue
			}
			payments[c.Name] = amount
		}
	}
	return payments
}

// ParseAmount parses an amount that may carry comma thousands separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	return decimal.NewFromString(cleaned)
}
