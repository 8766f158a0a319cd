package textnorm

import (
	"unicode"

	"github.com/pemistahl/lingua-go"

	"github.com/anandks07/docflow/internal/core/domain"
)

// Detector routes text blocks to a language pipeline. The pipeline only
// distinguishes English from Malayalam; anything else is Unknown, which
// downstream stages treat as "extract nothing" rather than an error.
type Detector struct {
	detector lingua.LanguageDetector
}

func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Hindi).
			Build(),
	}
}

func (d *Detector) Detect(text string) domain.Language {
	// Malayalam script is unambiguous, and scanned bilingual notices mix
	// scripts freely. A modest share decides before the statistical model
	// runs, which would otherwise lean toward the majority Latin text.
	var letters, malayalam int
	for _, r := range text {
		if r >= 0x0D00 && r <= 0x0D7F {
			letters++
			malayalam++
		} else if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters == 0 {
		return domain.LanguageUnknown
	}
	if float64(malayalam)/float64(letters) >= 0.25 {
		return domain.LanguageMalayalam
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return domain.LanguageUnknown
	}
	switch lang {
	case lingua.English:
		return domain.LanguageEnglish
	default:
		return domain.LanguageUnknown
	}
}
