package record

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ginjaninja78/payslip-ledger/internal/period"
	"github.com/shopspring/decimal"
)

func TestNewRequiresPeriod(t *testing.T) {
	if _, err := New(period.Period{}, nil); !errors.Is(err, ErrMissingPeriod) {
		t.Fatalf("expected ErrMissingPeriod, got %v", err)
	}
	r, err := New(period.MustNew(2023, 4), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Payments == nil {
		t.Fatalf("payments must never be nil")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original, err := New(period.MustNew(2023, 4), map[string]decimal.Decimal{
		"Salary":    decimal.RequireFromString("2500"),
		"Overtimes": decimal.RequireFromString("123.4"),
		"Bonus":     decimal.RequireFromString("1234.56"),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	text := string(data)
	for _, want := range []string{`"period":"2023-04"`, `"Salary":2500.00`, `"Overtimes":123.40`, `"Bonus":1234.56`} {
		if !strings.Contains(text, want) {
			t.Fatalf("encoded record %s missing %s", text, want)
		}
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(original) {
		t.Fatalf("round trip mismatch: %+v != %+v", back, original)
	}
}

func TestJSONKeepsExtraPrecision(t *testing.T) {
	original, err := New(period.MustNew(2023, 4), map[string]decimal.Decimal{
		"Salary": decimal.RequireFromString("1234.567"),
		"RTC":    decimal.RequireFromString("12.3400"),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"Salary":1234.567`) {
		t.Fatalf("amount rounded in %s", data)
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(original) {
		t.Fatalf("round trip mismatch: %+v != %+v", back, original)
	}
}

func TestUnmarshalEmptyPayments(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"period":"2022-01","payments":{}}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Payments == nil || len(r.Payments) != 0 {
		t.Fatalf("expected empty payments, got %v", r.Payments)
	}
}

func TestUnmarshalLegacyKey(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"payment_month":"2022-05","payments":{"Salary":1000.0}}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Period != period.MustNew(2022, 5) {
		t.Fatalf("unexpected period %v", r.Period)
	}
	if !r.Payments["Salary"].Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected salary %v", r.Payments["Salary"])
	}
}

func TestUnmarshalRejectsBadPeriod(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"period":"2022/05","payments":{}}`), &r); err == nil {
		t.Fatalf("expected error for malformed period")
	}
	if err := json.Unmarshal([]byte(`{"payments":{}}`), &r); err == nil {
		t.Fatalf("expected error for missing period")
	}
}

func TestCategoriesSorted(t *testing.T) {
	r, _ := New(period.MustNew(2023, 1), map[string]decimal.Decimal{
		"RTC":    decimal.NewFromInt(1),
		"Bonus":  decimal.NewFromInt(1),
		"Salary": decimal.NewFromInt(1),
	})
	got := strings.Join(r.Categories(), ",")
	if got != "Bonus,RTC,Salary" {
		t.Fatalf("unexpected categories %s", got)
	}
}
