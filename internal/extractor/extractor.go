// =============================================================================
// Payslip Ledger - Record Builder
// =============================================================================
//
// The Extractor combines the date normalizer and the field extractor: one
// document's lines in, exactly one Record (or an ExtractionError) out.
//
// A document without a recognisable pay period is rejected. A document with a
// period but no recognised payment lines still yields a record, with an empty
// payments map. Amounts are not sanity-checked here.
//
// =============================================================================

package extractor

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/payslip-ledger/internal/record"
)

// ErrPeriodNotFound is wrapped by ExtractionError when no pay period could be
// read from a document.
var ErrPeriodNotFound = errors.New("pay period not found")

// ExtractionError reports that a single document could not be turned into a
// record. It is fatal for that document only.
type ExtractionError struct {
	// Source identifies the document (usually a file path). May be empty.
	Source string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("extraction failed: %v", e.Err)
	}
	return fmt.Sprintf("extraction failed for %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor builds records from text lines using a category schema.
type Extractor struct {
	schema *Schema
}

// New creates an Extractor. A nil schema means DefaultSchema.
func New(schema *Schema) *Extractor {
	if schema == nil {
		schema = DefaultSchema()
	}
	return &Extractor{schema: schema}
}

// Schema returns the category table in use.
func (e *Extractor) Schema() *Schema { return e.schema }

// Extract builds the record for one document.
func (e *Extractor) Extract(lines []string) (record.Record, error) {
	p, ok := FindPeriod(lines)
	if !ok {
		return record.Record{}, &ExtractionError{Err: ErrPeriodNotFound}
	}

	r, err := record.New(p, e.schema.ExtractPayments(lines))
	if err != nil {
		return record.Record{}, &ExtractionError{Err: err}
	}
	return r, nil
}
