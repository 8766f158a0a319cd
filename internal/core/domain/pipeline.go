package domain

import "fmt"

// Language tags a block of text for downstream routing. Detection is
// best-effort; Unknown routes to the empty-extraction path.
type Language string

const (
	LanguageEnglish   Language = "english"
	LanguageMalayalam Language = "malayalam"
	LanguageUnknown   Language = "unknown"
)

// Page is one page's raw extraction output. Pages are immutable and
// discarded after normalization; Words survive until highlighting so
// OCR-derived mentions can still be placed on the page.
type Page struct {
	Number int // 1-based
	Text   string
	Words  []WordBox // OCR word positions, empty for native-text pages
}

// WordBox is one OCR-recognized word positioned on its page, as fractions of
// the page dimensions with a top-left origin.
type WordBox struct {
	Text           string
	X0, Y0, X1, Y1 float64
}

// Chunk is a token-bounded segment of one page's normalized text. Identity
// is deterministic so re-ingesting the same document overwrites rather than
// duplicates.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Page       int    `json:"page"`
	Index      int    `json:"index"` // zero-based within the page
	Text       string `json:"text"`
}

// ID returns the deterministic chunk identity {document}_{page}_{index}.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s_%d_%d", c.DocumentID, c.Page, c.Index)
}

// Mentions are the deduplicated sentence-level entity mentions of one page.
type Mentions struct {
	Deadlines  []string
	Financials []string
}

// Merge concatenates another page's mentions. Cross-page duplicates are kept
// on purpose: each page's mention is independently meaningful.
func (m *Mentions) Merge(other Mentions) {
	m.Deadlines = append(m.Deadlines, other.Deadlines...)
	m.Financials = append(m.Financials, other.Financials...)
}

func (m Mentions) All() []string {
	out := make([]string, 0, len(m.Deadlines)+len(m.Financials))
	out = append(out, m.Deadlines...)
	out = append(out, m.Financials...)
	return out
}
