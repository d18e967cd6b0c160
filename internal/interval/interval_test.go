package interval

import "testing"

func strptr(s string) *string { return &s }

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{
			name: "partial overlap",
			a:    DateRange{Start: "2024-06-01", End: strptr("2024-06-10")},
			b:    DateRange{Start: "2024-06-05", End: strptr("2024-06-15")},
			want: true,
		},
		{
			name: "disjoint",
			a:    DateRange{Start: "2024-06-01", End: strptr("2024-06-10")},
			b:    DateRange{Start: "2024-06-11", End: strptr("2024-06-15")},
			want: false,
		},
		{
			name: "touching endpoints count as overlap",
			a:    DateRange{Start: "2024-06-01", End: strptr("2024-06-10")},
			b:    DateRange{Start: "2024-06-10", End: strptr("2024-06-12")},
			want: true,
		},
		{
			name: "contained",
			a:    DateRange{Start: "2024-06-01", End: strptr("2024-06-30")},
			b:    DateRange{Start: "2024-06-10", End: strptr("2024-06-12")},
			want: true,
		},
		{
			name: "open-ended blocks everything after its start",
			a:    DateRange{Start: "2024-06-01"},
			b:    DateRange{Start: "2025-01-01", End: strptr("2025-01-05")},
			want: true,
		},
		{
			name: "open-ended does not block earlier ranges",
			a:    DateRange{Start: "2024-06-01"},
			b:    DateRange{Start: "2024-05-01", End: strptr("2024-05-20")},
			want: false,
		},
		{
			name: "two open-ended ranges always overlap",
			a:    DateRange{Start: "2024-06-01"},
			b:    DateRange{Start: "2030-01-01"},
			want: true,
		},
	}

	for _, tc := range cases {
		if got := tc.a.Overlaps(tc.b); got != tc.want {
			t.Fatalf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
		// Overlap is symmetric.
		if got := tc.b.Overlaps(tc.a); got != tc.want {
			t.Fatalf("%s (reversed): Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEffectiveEnd(t *testing.T) {
	open := DateRange{Start: "2024-06-01"}
	if open.EffectiveEnd() != FarFuture {
		t.Fatalf("expected open range to resolve to sentinel, got %s", open.EffectiveEnd())
	}
	empty := DateRange{Start: "2024-06-01", End: strptr("")}
	if empty.EffectiveEnd() != FarFuture {
		t.Fatalf("expected empty end to resolve to sentinel, got %s", empty.EffectiveEnd())
	}
	closed := DateRange{Start: "2024-06-01", End: strptr("2024-06-10")}
	if closed.EffectiveEnd() != "2024-06-10" {
		t.Fatalf("expected closed range to keep its end, got %s", closed.EffectiveEnd())
	}
}

func TestValidate(t *testing.T) {
	if err := (DateRange{Start: "2024-06-01", End: strptr("2024-06-10")}).Validate(); err != nil {
		t.Fatalf("valid range rejected: %v", err)
	}
	if err := (DateRange{Start: "2024-06-01"}).Validate(); err != nil {
		t.Fatalf("open-ended range rejected: %v", err)
	}
	if err := (DateRange{Start: "junk"}).Validate(); err == nil {
		t.Fatalf("expected malformed start date to fail")
	}
	if err := (DateRange{Start: "2024-06-10", End: strptr("2024-06-01")}).Validate(); err == nil {
		t.Fatalf("expected end before start to fail")
	}
	if err := (DateRange{Start: "2024-06-01", End: strptr("10/06/2024")}).Validate(); err == nil {
		t.Fatalf("expected malformed end date to fail")
	}
}

func TestContains(t *testing.T) {
	r := DateRange{Start: "2024-06-01", End: strptr("2024-06-10")}
	if !r.Contains("2024-06-01") || !r.Contains("2024-06-10") {
		t.Fatalf("bounds are inclusive")
	}
	if r.Contains("2024-05-31") || r.Contains("2024-06-11") {
		t.Fatalf("dates outside the range must not be contained")
	}
}
