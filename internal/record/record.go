// =============================================================================
// Payslip Ledger - Record
// =============================================================================
//
// A Record is the canonical entry produced for one payslip document: the pay
// period it belongs to and the amounts found for each payment category.
//
// LIFECYCLE:
//   Records are built once per document by the extractor and are not mutated
//   afterwards. Corrections are made by re-extracting the document and
//   replacing the stored record.
//
// CANONICAL SHAPE (JSON):
//   {
//     "period": "2023-04",
//     "payments": { "Salary": 2500.00, "Bonus": 150.00 }
//   }
//
//   Amounts are written as JSON numbers with exactly two fractional digits.
//
// =============================================================================

package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/ginjaninja78/payslip-ledger/internal/period"
	"github.com/shopspring/decimal"
)

// ErrMissingPeriod is returned when a record is built without a period.
var ErrMissingPeriod = errors.New("record has no period")

// Record is one payslip entry.
type Record struct {
	// Period is the record's identity.
	Period period.Period

	// Payments maps category name to amount. Never nil for a record built
	// with New or decoded from JSON.
	Payments map[string]decimal.Decimal
}

// New builds a Record. A nil payments map is replaced by an empty one.
func New(p period.Period, payments map[string]decimal.Decimal) (Record, error) {
	if p.IsZero() {
		return Record{}, ErrMissingPeriod
	}
	copied := make(map[string]decimal.Decimal, len(payments))
	for name, amount := range payments {
		copied[name] = amount
	}
	return Record{Period: p, Payments: copied}, nil
}

// Categories returns the category names present in the record, sorted.
func (r Record) Categories() []string {
	names := make([]string, 0, len(r.Payments))
	for name := range r.Payments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether two records carry the same period and the same
// amounts (by value, so 10.5 and 10.50 are equal).
func (r Record) Equal(other Record) bool {
	if r.Period != other.Period || len(r.Payments) != len(other.Payments) {
		return false
	}
	for name, amount := range r.Payments {
		o, ok := other.Payments[name]
		if !ok || !amount.Equal(o) {
			return false
		}
	}
	return true
}

// =============================================================================
// JSON ENCODING
// =============================================================================

type encodedRecord struct {
	Period   period.Period              `json:"period"`
	Payments map[string]json.RawMessage `json:"payments"`
}

type decodedRecord struct {
	Period   string                     `json:"period"`
	Payments map[string]decimal.Decimal `json:"payments"`

	// PaymentMonth is the key used by older payslip_data.json files.
	PaymentMonth string `json:"payment_month"`
}

// MarshalJSON writes the canonical store shape.
func (r Record) MarshalJSON() ([]byte, error) {
	enc := encodedRecord{
		Period:   r.Period,
		Payments: make(map[string]json.RawMessage, len(r.Payments)),
	}
	for name, amount := range r.Payments {
		enc.Payments[name] = json.RawMessage(amount.StringFixed(places(amount)))
	}
	return json.Marshal(enc)
}

// places is the number of fractional digits written for an amount: at least
// two, more when the amount carries them.
func places(amount decimal.Decimal) int32 {
	if n := -amount.Exponent(); n > 2 {
		return n
	}
	return 2
}

// UnmarshalJSON reads the canonical store shape. The legacy "payment_month"
// key is accepted when "period" is absent.
func (r *Record) UnmarshalJSON(data []byte) error {
	var dec decodedRecord
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}

	raw := dec.Period
	if raw == "" {
		raw = dec.PaymentMonth
	}
	p, err := period.Parse(raw)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	built, err := New(p, dec.Payments)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	*r = built
	return nil
}
