package chunking

import (
	"strconv"
	"strings"
	"testing"

	"github.com/anandks07/docflow/internal/core/domain"
)

// wordTokenizer treats every whitespace-separated word as one token, which
// makes window arithmetic observable in tests.
type wordTokenizer struct{}

func (wordTokenizer) Encode(text string) []int {
	words := strings.Fields(text)
	ids := make([]int, len(words))
	for i := range words {
		ids[i] = i
	}
	wordsByID = words
	return ids
}

func (wordTokenizer) Decode(ids []int) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, wordsByID[id])
	}
	return strings.Join(out, " ")
}

var wordsByID []string

func words(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = "w" + strconv.Itoa(i)
	}
	return strings.Join(out, " ")
}

func TestNewSplitterRejectsBadWindow(t *testing.T) {
	if _, err := NewSplitter(wordTokenizer{}, 10, 10); !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("overlap == max: err = %v", err)
	}
	if _, err := NewSplitter(wordTokenizer{}, 10, 12); !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("overlap > max: err = %v", err)
	}
	if _, err := NewSplitter(wordTokenizer{}, 0, 0); !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("zero max: err = %v", err)
	}
	if _, err := NewSplitter(wordTokenizer{}, 10, 0); err != nil {
		t.Fatalf("zero overlap is valid: err = %v", err)
	}
}

func TestSplitChunkCount(t *testing.T) {
	// For N tokens, N > max, the chunk count is ceil((N-overlap)/(max-overlap)).
	tests := []struct {
		n, max, overlap int
		want            int
	}{
		{n: 300, max: 256, overlap: 40, want: 2},
		{n: 500, max: 256, overlap: 40, want: 3},
		{n: 473, max: 256, overlap: 40, want: 3},
		{n: 100, max: 256, overlap: 40, want: 1},
		{n: 256, max: 256, overlap: 40, want: 1},
	}

	for _, tc := range tests {
		s, err := NewSplitter(wordTokenizer{}, tc.max, tc.overlap)
		if err != nil {
			t.Fatal(err)
		}
		chunks := s.Split(words(tc.n))
		if len(chunks) != tc.want {
			t.Fatalf("n=%d max=%d overlap=%d: got %d chunks, want %d",
				tc.n, tc.max, tc.overlap, len(chunks), tc.want)
		}
		if tc.n > tc.max {
			step := tc.max - tc.overlap
			if got := (tc.n - tc.overlap + step - 1) / step; got != len(chunks) {
				t.Fatalf("formula disagrees: %d vs %d", got, len(chunks))
			}
		}
	}
}

func TestSplitReconstructsTokenSequence(t *testing.T) {
	const n, max, overlap = 95, 30, 10
	s, err := NewSplitter(wordTokenizer{}, max, overlap)
	if err != nil {
		t.Fatal(err)
	}
	original := words(n)
	chunks := s.Split(original)

	// Dropping each chunk's leading overlap (except the first) and joining
	// reproduces the original token sequence.
	var rebuilt []string
	for i, chunk := range chunks {
		ws := strings.Fields(chunk)
		if i > 0 {
			ws = ws[overlap:]
		}
		rebuilt = append(rebuilt, ws...)
	}
	if got := strings.Join(rebuilt, " "); got != original {
		t.Fatalf("reconstruction mismatch:\n got %q\nwant %q", got, original)
	}
}

func TestSplitEmptyText(t *testing.T) {
	s, err := NewSplitter(wordTokenizer{}, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if chunks := s.Split(""); len(chunks) != 0 {
		t.Fatalf("empty text produced %d chunks", len(chunks))
	}
}
