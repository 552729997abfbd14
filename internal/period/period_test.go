package period

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Period
		ok   bool
	}{
		{"2023-04", Period{2023, 4}, true},
		{"1999-12", Period{1999, 12}, true},
		{"2023-13", Period{}, false},
		{"2023-00", Period{}, false},
		{"2023-4", Period{}, false},
		{"23-04", Period{}, false},
		{"2023/04", Period{}, false},
		{"", Period{}, false},
		{" 2023-04", Period{}, false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%q expected error, got %v", tc.in, got)
		}
		if !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("%q expected ErrInvalidPeriod, got %v", tc.in, err)
		}
	}
}

func TestNext(t *testing.T) {
	cases := []struct {
		in, want Period
	}{
		{Period{2022, 1}, Period{2022, 2}},
		{Period{2022, 11}, Period{2022, 12}},
		{Period{2022, 12}, Period{2023, 1}},
	}
	for _, tc := range cases {
		if got := tc.in.Next(); got != tc.want {
			t.Fatalf("%v.Next() = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCompare(t *testing.T) {
	a := MustNew(2022, 12)
	b := MustNew(2023, 1)
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("expected %v before %v", a, b)
	}
	if !b.After(a) || a.After(b) {
		t.Fatalf("expected %v after %v", b, a)
	}
	if a.Compare(MustNew(2022, 12)) != 0 {
		t.Fatalf("expected equal periods to compare as 0")
	}
}

func TestStringAndText(t *testing.T) {
	p := MustNew(2023, 4)
	if p.String() != "2023-04" {
		t.Fatalf("unexpected string %q", p.String())
	}
	if (Period{}).String() != "" {
		t.Fatalf("zero period should render empty")
	}

	text, err := p.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Period
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != p {
		t.Fatalf("round trip mismatch: %v != %v", back, p)
	}

	if _, err := (Period{}).MarshalText(); err == nil {
		t.Fatalf("expected error marshalling zero period")
	}
}
