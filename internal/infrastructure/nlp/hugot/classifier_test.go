package hugot

import "testing"

func TestCanonicalDepartment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "LABEL_0", want: "Finance"},
		{in: "LABEL_2", want: "HR"},
		{in: "label_3", want: "Engineering"},
		{in: "LABEL_9", want: "Unknown"},
		{in: "Operations", want: "Operations"},
		{in: " engineering ", want: "Engineering"},
		{in: "LABEL_x", want: "Unknown"},
		{in: "", want: "Unknown"},
	}

	for _, tc := range tests {
		if got := canonicalDepartment(tc.in); got != tc.want {
			t.Fatalf("canonicalDepartment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "B-DATE", want: "DATE"},
		{in: "I-DATE", want: "DATE"},
		{in: "MONEY", want: "MONEY"},
		{in: "B-CURRENCY", want: "MONEY"},
		{in: "TIME", want: "DATE"},
		{in: "B-PER", want: ""},
		{in: "O", want: ""},
	}

	for _, tc := range tests {
		if got := normalizeLabel(tc.in); got != tc.want {
			t.Fatalf("normalizeLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
