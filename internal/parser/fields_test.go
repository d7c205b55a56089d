package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func strp(s string) *string { return &s }

func TestParseInteger(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want *int
	}{
		{"nil", nil, nil},
		{"empty", strp(""), nil},
		{"no digits", strp("არ აქვს"), nil},
		{"plain", strp("42"), intPtr(42)},
		{"with units", strp("1 250 000 ლარი"), intPtr(1250000)},
		{"percent", strp("35%"), intPtr(35)},
		{"leading zeros", strp("007"), intPtr(7)},
		{"georgian digits only", strp("ათი"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInteger(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseInteger() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseIntegerNeverPanicsOnHugeInput(t *testing.T) {
	raw := strp("99999999999999999999999999999999")
	got := ParseInteger(raw)
	if got == nil {
		t.Fatal("expected a value for a digit-only string")
	}
}

func TestParseGenderDistribution(t *testing.T) {
	t.Run("both absent", func(t *testing.T) {
		if got := ParseGenderDistribution(nil, nil); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
		if got := ParseGenderDistribution(strp(""), nil); got != nil {
			t.Errorf("expected nil for empty side, got %+v", got)
		}
	})

	t.Run("both present", func(t *testing.T) {
		got := ParseGenderDistribution(strp("60%"), strp("40%"))
		if got == nil || got.Male != 60 || got.Female != 40 {
			t.Errorf("expected 60/40, got %+v", got)
		}
	})

	t.Run("one side missing", func(t *testing.T) {
		got := ParseGenderDistribution(nil, strp("100%"))
		if got == nil || got.Male != 0 || got.Female != 100 {
			t.Errorf("expected 0/100, got %+v", got)
		}
	})

	t.Run("unparsable side", func(t *testing.T) {
		got := ParseGenderDistribution(strp("n/a"), strp("12"))
		if got == nil || got.Male != 0 || got.Female != 12 {
			t.Errorf("expected 0/12, got %+v", got)
		}
	})
}

func TestDedupeNonEmpty(t *testing.T) {
	in := []string{" a ", "", "b", "a", "  ", "c", "b"}
	want := []string{"a", "b", "c"}

	got := DedupeNonEmpty(in...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("DedupeNonEmpty mismatch (-want +got):\n%s", diff)
	}

	again := DedupeNonEmpty(got...)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("DedupeNonEmpty is not idempotent (-once +twice):\n%s", diff)
	}

	if empty := DedupeNonEmpty(); empty == nil || len(empty) != 0 {
		t.Errorf("expected non-nil empty slice, got %#v", empty)
	}
}

func TestSplitNested(t *testing.T) {
	raw := strp("Brand A | Brand B || Brand C |  | Brand A")
	want := []string{"Brand A", "Brand B", "Brand C"}
	if diff := cmp.Diff(want, SplitNested(raw)); diff != "" {
		t.Errorf("SplitNested mismatch (-want +got):\n%s", diff)
	}
	if got := SplitNested(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty list for nil, got %#v", got)
	}
}

func TestResolvePrefersStructured(t *testing.T) {
	called := false
	fallback := func() *string {
		called = true
		return strp("from-text")
	}

	got := Resolve(strp("from-label"), fallback)
	if got == nil || *got != "from-label" {
		t.Errorf("expected structured value, got %v", got)
	}
	if called {
		t.Error("fallback must not run when structured value is present")
	}

	got = Resolve(nil, fallback)
	if got == nil || *got != "from-text" {
		t.Errorf("expected fallback value, got %v", got)
	}
}

func TestLabelsGet(t *testing.T) {
	labels := Labels{
		LabelLegalAddress: "თბილისი",
		LabelStatus:       "",
	}

	if got := labels.Get(LabelLegalAddressTypo, LabelLegalAddress); got == nil || *got != "თბილისი" {
		t.Errorf("expected second key to match, got %v", got)
	}
	if got := labels.Get(LabelStatus); got != nil {
		t.Errorf("empty value should count as absent, got %q", *got)
	}
	if got := labels.List(LabelCategories); len(got) != 0 {
		t.Errorf("expected empty list for missing key, got %v", got)
	}
}

func TestNormalizePhones(t *testing.T) {
	got := NormalizePhones([]string{"+995 32 2 123456", "+995322123456", "not a phone"})
	want := []string{"+995322123456"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizePhones mismatch (-want +got):\n%s", diff)
	}
}

func BenchmarkDedupeNonEmpty(b *testing.B) {
	in := []string{"+995 555 000 111", "info@example.ge", "+995 555 000 111", " ", "x"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DedupeNonEmpty(in...)
	}
}
