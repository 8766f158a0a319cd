package tiktoken

import (
	"fmt"

	tk "github.com/pkoukk/tiktoken-go"
)

// Tokenizer adapts a BPE encoding to the pipeline's tokenizer port. The
// chunker only needs a stable text<->ids round trip; it does not need to
// match the embedding model's internal vocabulary.
type Tokenizer struct {
	enc *tk.Tiktoken
}

func New(encoding string) (*Tokenizer, error) {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	enc, err := tk.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load %q encoding: %w", encoding, err)
	}
	return &Tokenizer{enc: enc}, nil
}

func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t *Tokenizer) Decode(ids []int) string {
	return t.enc.Decode(ids)
}
