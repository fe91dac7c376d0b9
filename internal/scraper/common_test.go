package scraper

import "testing"

func TestParsePrice(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	cases := []struct {
		in   string
		want *float64
	}{
		{"CHF 1'234.50", f(1234.50)},
		{"1'234,50 CHF", f(1234.50)},
		{"1.550CHF", f(1550)},
		{"CHF 2.500", f(2500)},
		{"CHF 350.-", f(350)},
		{"450", f(450)},
		{"89.90", f(89.90)},
		{"Auf Anfrage", nil},
		{"auf anfrage", nil},
		{"Preis auf Anfrage", nil},
		{"", nil},
		{"   ", nil},
		{"gratis", nil},
	}

	for _, tc := range cases {
		got := parsePrice(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("parsePrice(%q) = %v, want nil", tc.in, *got)
		case tc.want != nil && got == nil:
			t.Errorf("parsePrice(%q) = nil, want %v", tc.in, *tc.want)
		case tc.want != nil && got != nil && *got != *tc.want:
			t.Errorf("parsePrice(%q) = %v, want %v", tc.in, *got, *tc.want)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	cases := []struct {
		base string
		ref  string
		want string
	}{
		{"https://example.ch", "/item/1", "https://example.ch/item/1"},
		{"https://example.ch", "https://cdn.example.ch/a.jpg", "https://cdn.example.ch/a.jpg"},
		{"https://example.ch", "", ""},
		{"https://example.ch/shop/", "item/1", "https://example.ch/shop/item/1"},
	}
	for _, tc := range cases {
		if got := absoluteURL(tc.base, tc.ref); got != tc.want {
			t.Errorf("absoluteURL(%q, %q) = %q, want %q", tc.base, tc.ref, got, tc.want)
		}
	}
}

func TestPickNonEmpty(t *testing.T) {
	if got := pickNonEmpty("", "  ", "third"); got != "third" {
		t.Fatalf("expected third, got %q", got)
	}
	if got := pickNonEmpty(); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
