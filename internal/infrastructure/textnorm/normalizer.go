package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/anandks07/docflow/internal/core/domain"
)

var (
	// English mode keeps ASCII letters, digits and basic punctuation.
	englishDrop = regexp.MustCompile(`[^A-Za-z0-9\s.,;:!?()'\-"@%$&]`)
	// Multilingual mode keeps word characters of any script and the same
	// punctuation, so non-Latin text survives normalization. Combining marks
	// and the zero-width joiners must stay: Malayalam vowel signs and chillu
	// forms are lost without them.
	multilingualDrop = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\s.,;:!?()'\-"@%$&` + "‌‍" + `]`)

	whitespace = regexp.MustCompile(`\s+`)
)

// Normalizer canonicalizes raw page text. An empty result is a valid
// terminal state: the page contributes nothing downstream.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(text string, lang domain.Language) string {
	text = norm.NFKC.String(text)
	if lang == domain.LanguageEnglish {
		text = englishDrop.ReplaceAllString(text, " ")
	} else {
		text = multilingualDrop.ReplaceAllString(text, " ")
	}
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
