package mentions

import (
	"context"
	"errors"
	"testing"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
)

type taggerFake struct {
	spans []ports.TaggedSpan
	err   error
}

func (f *taggerFake) Tag(context.Context, string, domain.Language) ([]ports.TaggedSpan, error) {
	return f.spans, f.err
}

func extract(t *testing.T, tagger ports.SpanTagger, text string, lang domain.Language) domain.Mentions {
	t.Helper()
	m, err := NewExtractor(tagger).Extract(context.Background(), text, lang)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return m
}

func TestDeadlineRequiresNearbyKeyword(t *testing.T) {
	gated := extract(t, &taggerFake{}, "Submission deadline is 20-10-2025.", domain.LanguageEnglish)
	if len(gated.Deadlines) != 1 || gated.Deadlines[0] != "Submission deadline is 20-10-2025." {
		t.Fatalf("deadlines = %v", gated.Deadlines)
	}

	ungated := extract(t, &taggerFake{}, "Meeting occurred on 20-10-2025.", domain.LanguageEnglish)
	if len(ungated.Deadlines) != 0 {
		t.Fatalf("date without keyword reported: %v", ungated.Deadlines)
	}
}

func TestKeywordOutsideWindowIsIgnored(t *testing.T) {
	text := "The deadline was discussed at length across several unrelated agenda items and meetings. " +
		"Minutes note the event of 20-10-2025 in passing."
	m := extract(t, &taggerFake{}, text, domain.LanguageEnglish)
	if len(m.Deadlines) != 0 {
		t.Fatalf("keyword beyond %d tokens should not gate: %v", keywordWindow, m.Deadlines)
	}
}

func TestFinancialAndDeadlineFireOnOneSentence(t *testing.T) {
	text := "The payment of Rs. 500 is due by 15-10-2025 10:30:00."
	m := extract(t, &taggerFake{}, text, domain.LanguageEnglish)

	if len(m.Financials) != 1 {
		t.Fatalf("financials = %v", m.Financials)
	}
	if want := "The payment of Rs. 500 is due by 15-10-2025 10:30:00."; m.Financials[0] != want {
		t.Fatalf("financial sentence = %q", m.Financials[0])
	}
	if len(m.Deadlines) != 1 || m.Deadlines[0] != m.Financials[0] {
		t.Fatalf("deadlines = %v", m.Deadlines)
	}
}

func TestFinancialAcceptedWithoutKeyword(t *testing.T) {
	m := extract(t, &taggerFake{}, "Total expenditure was $1,200.50 last quarter.", domain.LanguageEnglish)
	if len(m.Financials) != 1 {
		t.Fatalf("financials = %v", m.Financials)
	}
	if len(m.Deadlines) != 0 {
		t.Fatalf("no deadline expected: %v", m.Deadlines)
	}
}

func TestNERDateSpanIsGatedLikeRegexDates(t *testing.T) {
	tagger := &taggerFake{spans: []ports.TaggedSpan{{Text: "October 20, 2025", Label: "DATE"}}}
	m := extract(t, tagger, "Applications close on or before October 20, 2025.", domain.LanguageEnglish)
	if len(m.Deadlines) != 1 {
		t.Fatalf("deadlines = %v", m.Deadlines)
	}
}

func TestMoneySpanMissingFromTextFallsBackToRawMention(t *testing.T) {
	tagger := &taggerFake{spans: []ports.TaggedSpan{{Text: "five lakh rupees", Label: "MONEY"}}}
	m := extract(t, tagger, "The sanctioned amount was recorded separately.", domain.LanguageEnglish)
	if len(m.Financials) != 1 || m.Financials[0] != "five lakh rupees" {
		t.Fatalf("financials = %v", m.Financials)
	}
}

func TestMalayalamNamedDateWithLocalizedKeyword(t *testing.T) {
	text := "അപേക്ഷാ അവസാന തീയതി ഒക്ടോബർ 20 ആണ്."
	m := extract(t, &taggerFake{}, text, domain.LanguageMalayalam)
	if len(m.Deadlines) != 1 {
		t.Fatalf("deadlines = %v", m.Deadlines)
	}
}

func TestUnknownLanguageYieldsEmptySets(t *testing.T) {
	m := extract(t, &taggerFake{}, "deadline 20-10-2025", domain.LanguageUnknown)
	if len(m.Deadlines) != 0 || len(m.Financials) != 0 {
		t.Fatalf("unknown language should be empty: %+v", m)
	}
}

func TestTaggerErrorPropagates(t *testing.T) {
	boom := errors.New("model unavailable")
	_, err := NewExtractor(&taggerFake{err: boom}).
		Extract(context.Background(), "deadline 20-10-2025", domain.LanguageEnglish)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestDuplicateSentencesDedupedWithinPage(t *testing.T) {
	text := "Submit by 20-10-2025. Submit by 20-10-2025."
	m := extract(t, &taggerFake{}, text, domain.LanguageEnglish)
	if len(m.Deadlines) != 1 {
		t.Fatalf("expected per-page dedup, got %v", m.Deadlines)
	}
}
