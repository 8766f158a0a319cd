package textnorm

import (
	"testing"

	"github.com/anandks07/docflow/internal/core/domain"
)

func TestNormalizeEnglish(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "collapse whitespace", in: "a  b\n\tc", want: "a b c"},
		{name: "keeps basic punctuation", in: `Due: 20-10-2025, cost $5 (approx.)`, want: `Due: 20-10-2025, cost $5 (approx.)`},
		{name: "drops non-ascii", in: "price ₹500 café", want: "price 500 caf"},
		{name: "empty after filtering", in: "പരീ", want: ""},
		{name: "trims", in: "  x  ", want: "x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.in, domain.LanguageEnglish); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeMultilingualKeepsScript(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
	}{
		{name: "dependent vowel signs", in: "അവസാന തീയതി: 20-10-2025"},
		{name: "chillu joiner sequence", in: "അവന്‍ വീട്ടില്‍"},
		{name: "conjunct with virama", in: "സാമ്പത്തിക പ്രകടനം"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.in, domain.LanguageMalayalam); got != tc.in {
				t.Fatalf("Normalize(%q) = %q, want input preserved", tc.in, got)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name string
		in   string
		want domain.Language
	}{
		{name: "english", in: "Submission deadline is 20-10-2025.", want: domain.LanguageEnglish},
		{name: "malayalam", in: "അവസാന തീയതി 20-10-2025", want: domain.LanguageMalayalam},
		{name: "mixed leans malayalam", in: "Tender അവസാന തീയതി 20-10-2025 submission", want: domain.LanguageMalayalam},
		{name: "digits only", in: "12345 67 89", want: domain.LanguageUnknown},
		{name: "unsupported script", in: "你好世界你好", want: domain.LanguageUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.Detect(tc.in); got != tc.want {
				t.Fatalf("Detect(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
