package chunking

import (
	"fmt"
	"strings"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
)

// Splitter slides a fixed token window over the encoded text, advancing by
// maxTokens-overlap each step, and decodes each window back to text. The
// final window may be shorter than maxTokens.
type Splitter struct {
	tokenizer ports.Tokenizer
	maxTokens int
	overlap   int
}

// NewSplitter validates the window parameters up front: an overlap at or
// above the window size would never advance.
func NewSplitter(tokenizer ports.Tokenizer, maxTokens, overlap int) (*Splitter, error) {
	if maxTokens <= 0 {
		return nil, domain.WrapError(domain.ErrConfiguration, "chunking",
			fmt.Errorf("max tokens must be positive, got %d", maxTokens))
	}
	if overlap < 0 || overlap >= maxTokens {
		return nil, domain.WrapError(domain.ErrConfiguration, "chunking",
			fmt.Errorf("overlap %d must be in [0, %d)", overlap, maxTokens))
	}
	return &Splitter{
		tokenizer: tokenizer,
		maxTokens: maxTokens,
		overlap:   overlap,
	}, nil
}

func (s *Splitter) Split(text string) []string {
	ids := s.tokenizer.Encode(text)
	if len(ids) == 0 {
		return nil
	}

	step := s.maxTokens - s.overlap
	out := make([]string, 0, len(ids)/step+1)
	for start := 0; start < len(ids); start += step {
		end := start + s.maxTokens
		if end > len(ids) {
			end = len(ids)
		}
		chunk := strings.TrimSpace(s.tokenizer.Decode(ids[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(ids) {
			break
		}
	}
	return out
}
