// =============================================================================
// Payslip Ledger - Validation
// =============================================================================
//
// This module validates the inputs that can be wrong without the extractor
// noticing:
//   - Category tables (names, patterns, capture groups)
//   - Extracted records (negative amounts, categories outside the table)
//   - Date bounds supplied on the query surface
//
// ERROR HANDLING:
//   - Errors are collected, not returned one at a time, so a user fixing a
//     layout file sees every problem in one run.
//   - Each error has a severity: "error" is fatal for the thing validated,
//     "warning" is reported and processing continues.
//
// =============================================================================

package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/payslip-ledger/internal/extractor"
	"github.com/ginjaninja78/payslip-ledger/internal/period"
	"github.com/ginjaninja78/payslip-ledger/internal/record"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation problem.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field names what was validated (e.g. "start", "Salary", "categories[2]").
	Field string

	// Value is the offending value, as text.
	Value string

	// Rule is a short machine-friendly rule name.
	Rule string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Field,
		e.Message,
		e.Value,
	)
}

// IsFatal reports whether the error has SeverityError.
func (e *ValidationError) IsFatal() bool { return e.Severity == SeverityError }

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult summarises a set of validation errors.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all validation errors (including warnings).
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int
}

// Summarize builds a ValidationResult from a list of errors.
func Summarize(errs []*ValidationError) *ValidationResult {
	result := &ValidationResult{Errors: errs}
	for _, e := range errs {
		if e.IsFatal() {
			result.ErrorCount++
		} else {
			result.WarningCount++
		}
	}
	result.IsValid = result.ErrorCount == 0
	return result
}

// =============================================================================
// DATE BOUNDS
// =============================================================================

// ParseBound parses a "YYYY-MM" query bound. An empty value means unbounded
// and yields the zero Period.
func ParseBound(field, value string) (period.Period, error) {
	if value == "" {
		return period.Period{}, nil
	}
	p, err := period.Parse(value)
	if err != nil {
		return period.Period{}, &ValidationError{
			Severity: SeverityError,
			Field:    field,
			Value:    value,
			Rule:     "period_format",
			Message:  "must be a year-month in YYYY-MM form",
		}
	}
	return p, nil
}

// =============================================================================
// CATEGORY TABLES
// =============================================================================

// ValidateCategories checks every definition of a category table and returns
// all problems found.
func ValidateCategories(source string, defs []extractor.Definition) []*ValidationError {
	var errs []*ValidationError

	if len(defs) == 0 {
		return append(errs, &ValidationError{
			Severity: SeverityError,
			Field:    source,
			Rule:     "categories_required",
			Message:  "category table is empty",
		})
	}

	seen := make(map[string]int, len(defs))
	for i, def := range defs {
		field := fmt.Sprintf("%s: categories[%d]", source, i)
		name := strings.TrimSpace(def.Name)

		if name == "" {
			errs = append(errs, &ValidationError{
				Severity: SeverityError,
				Field:    field,
				Rule:     "name_required",
				Message:  "category name is empty",
			})
		} else if prev, dup := seen[name]; dup {
			errs = append(errs, &ValidationError{
				Severity: SeverityError,
				Field:    field,
				Value:    name,
				Rule:     "name_unique",
				Message:  fmt.Sprintf("category already defined at index %d", prev),
			})
		} else {
			seen[name] = i
		}

		re, err := regexp.Compile(def.Pattern)
		if err != nil {
			errs = append(errs, &ValidationError{
				Severity: SeverityError,
				Field:    field,
				Value:    def.Pattern,
				Rule:     "pattern_compiles",
				Message:  err.Error(),
			})
			continue
		}

		if def.Group < 1 || def.Group > re.NumSubexp() {
			errs = append(errs, &ValidationError{
				Severity: SeverityError,
				Field:    field,
				Value:    fmt.Sprintf("%d", def.Group),
				Rule:     "group_in_range",
				Message:  fmt.Sprintf("capture group must be between 1 and %d", re.NumSubexp()),
			})
		}

		if !strings.Contains(def.Pattern, `\d`) {
			errs = append(errs, &ValidationError{
				Severity: SeverityWarning,
				Field:    field,
				Value:    def.Pattern,
				Rule:     "pattern_has_digits",
				Message:  "pattern never mentions a digit; it is unlikely to capture an amount",
			})
		}
	}

	return errs
}

// =============================================================================
// RECORDS
// =============================================================================

// ValidateRecord checks an extracted record. known, when non-empty, is the
// category table the record was extracted with; categories outside it are
// reported as warnings.
func ValidateRecord(r record.Record, known []string) []*ValidationError {
	var errs []*ValidationError

	if r.Period.IsZero() {
		errs = append(errs, &ValidationError{
			Severity: SeverityError,
			Field:    "period",
			Rule:     "period_required",
			Message:  "record has no period",
		})
	}

	allowed := make(map[string]bool, len(known))
	for _, name := range known {
		allowed[name] = true
	}

	for _, name := range r.Categories() {
		amount := r.Payments[name]
		if amount.IsNegative() {
			errs = append(errs, &ValidationError{
				Severity: SeverityError,
				Field:    name,
				Value:    amount.StringFixed(2),
				Rule:     "amount_non_negative",
				Message:  "payment amounts cannot be negative",
			})
		}
		if len(allowed) > 0 && !allowed[name] {
			errs = append(errs, &ValidationError{
				Severity: SeverityWarning,
				Field:    name,
				Rule:     "category_known",
				Message:  "category is not part of the active category table",
			})
		}
	}

	return errs
}

// FormatErrors renders validation errors one per line.
func FormatErrors(errs []*ValidationError) string {
	var b strings.Builder
	for _, e := range errs {
		b.WriteString("  ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return b.String()
}
