package mentions

import (
	"context"
	"regexp"
	"strings"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
)

const keywordWindow = 10 // tokens either side of a date

var (
	dateTimeRe = regexp.MustCompile(`\b\d{2}-\d{2}-\d{4} \d{2}:\d{2}:\d{2}\b`)
	dateRe     = regexp.MustCompile(`\b\d{2}-\d{2}-\d{4}\b`)
	moneyRe    = regexp.MustCompile(`(?i)(?:Rs\.?|₹|INR|USD|\$)\s?\d[\d,]*(?:\.\d+)?`)
)

// Extractor finds deadline and financial sentence mentions in one page of
// normalized text. Deadlines are gated on a keyword within the proximity
// window; financial amounts are accepted unconditionally. The asymmetry is
// deliberate and mirrors observed behavior of the classifier corpus.
type Extractor struct {
	tagger ports.SpanTagger
}

func NewExtractor(tagger ports.SpanTagger) *Extractor {
	return &Extractor{tagger: tagger}
}

func (e *Extractor) Extract(ctx context.Context, text string, lang domain.Language) (domain.Mentions, error) {
	if lang == domain.LanguageUnknown || strings.TrimSpace(text) == "" {
		return domain.Mentions{}, nil
	}

	spans, err := e.tagger.Tag(ctx, text, lang)
	if err != nil {
		return domain.Mentions{}, err
	}

	doc := parse(text, lang)

	dates := collectSet(spanTexts(spans, "DATE"), dateTimeRe.FindAllString(text, -1), dateRe.FindAllString(text, -1))
	if lang == domain.LanguageMalayalam {
		dates = append(dates, namedDates(text, append(englishMonthTokens, malayalamMonthTokens...))...)
	}

	money := collectSet(spanTexts(spans, "MONEY", "CURRENCY"), moneyRe.FindAllString(text, -1))

	keywords := englishDeadlineKeywords
	if lang == domain.LanguageMalayalam {
		keywords = append(append([]string{}, englishDeadlineKeywords...), malayalamDeadlineKeywords...)
	}
	keywordTokens := doc.phraseTokenStarts(keywords)

	deadlines := newOrderedSet()
	for _, date := range dates {
		for _, off := range doc.occurrences(date) {
			tok := doc.tokenAt(off)
			if tok < 0 {
				continue
			}
			if nearAny(tok, keywordTokens, keywordWindow) {
				deadlines.add(doc.sentenceAt(off))
			}
		}
	}

	financials := newOrderedSet()
	for _, amount := range money {
		offs := doc.occurrences(amount)
		if len(offs) == 0 {
			// Span text the normalizer altered: keep the raw mention.
			financials.add(amount)
			continue
		}
		for _, off := range offs {
			financials.add(doc.sentenceAt(off))
		}
	}

	return domain.Mentions{
		Deadlines:  deadlines.items(),
		Financials: financials.items(),
	}, nil
}

func spanTexts(spans []ports.TaggedSpan, labels ...string) []string {
	var out []string
	for _, s := range spans {
		for _, l := range labels {
			if s.Label == l {
				out = append(out, s.Text)
				break
			}
		}
	}
	return out
}

func collectSet(groups ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, group := range groups {
		for _, s := range group {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// namedDates finds month/weekday name tokens adjacent to a 1-2 digit number
// ("ഒക്ടോബർ 20", "20 October").
func namedDates(text string, names []string) []string {
	alt := make([]string, 0, len(names))
	for _, n := range names {
		alt = append(alt, regexp.QuoteMeta(n))
	}
	joined := strings.Join(alt, "|")
	re := regexp.MustCompile(`(?i)(?:\b\d{1,2}\s+(?:` + joined + `)|(?:` + joined + `)\s+\d{1,2}\b)`)
	return re.FindAllString(text, -1)
}

func nearAny(tok int, keywordTokens []int, window int) bool {
	for _, k := range keywordTokens {
		d := tok - k
		if d < 0 {
			d = -d
		}
		if d <= window {
			return true
		}
	}
	return false
}

type orderedSet struct {
	seen  map[string]struct{}
	order []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}}
}

func (s *orderedSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *orderedSet) items() []string {
	return s.order
}
