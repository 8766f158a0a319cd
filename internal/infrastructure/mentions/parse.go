package mentions

import (
	"sort"
	"strings"

	"github.com/anandks07/docflow/internal/core/domain"
)

// parsedText is a lightweight token/sentence view over one page of
// normalized text. Token positions stand in for model token indices when
// measuring keyword proximity.
type parsedText struct {
	text      string
	lower     string
	tokens    []tokenSpan // byte offsets, in order
	sentences []sentenceSpan
}

type tokenSpan struct {
	start, end int
}

type sentenceSpan struct {
	start, end int
}

func parse(text string, lang domain.Language) *parsedText {
	p := &parsedText{
		text:  text,
		lower: strings.ToLower(text),
	}

	inToken := false
	tokenStart := 0
	for i, r := range text {
		if r == ' ' || r == '\t' || r == '\n' {
			if inToken {
				p.tokens = append(p.tokens, tokenSpan{start: tokenStart, end: i})
				inToken = false
			}
			continue
		}
		if !inToken {
			tokenStart = i
			inToken = true
		}
	}
	if inToken {
		p.tokens = append(p.tokens, tokenSpan{start: tokenStart, end: len(text)})
	}

	terminators := "!?"
	if lang == domain.LanguageMalayalam {
		terminators = "!?।॥" // danda variants show up in scanned bilingual text
	}
	sentStart := 0
	for i, r := range text {
		if r == '.' {
			if !periodEndsSentence(text, i) {
				continue
			}
		} else if !strings.ContainsRune(terminators, r) {
			continue
		}
		p.sentences = append(p.sentences, sentenceSpan{start: sentStart, end: i + len(string(r))})
		sentStart = i + len(string(r))
	}
	if sentStart < len(text) {
		p.sentences = append(p.sentences, sentenceSpan{start: sentStart, end: len(text)})
	}

	return p
}

// abbreviations carry a mid-sentence trailing period. Government notices are
// full of "Rs." and "No." style tokens.
var abbreviations = map[string]struct{}{
	"rs": {}, "no": {}, "nos": {}, "dr": {}, "mr": {}, "mrs": {}, "ms": {},
	"etc": {}, "govt": {}, "dept": {}, "vs": {}, "st": {}, "approx": {},
}

// periodEndsSentence accepts a period as a sentence terminator only when it
// sits at a word boundary and the word it closes is not a known abbreviation.
// Decimal points and intra-token dots never terminate.
func periodEndsSentence(text string, dot int) bool {
	if dot+1 < len(text) {
		switch text[dot+1] {
		case ' ', '\t', '\n':
		default:
			return false
		}
	}
	start := dot
	for start > 0 {
		switch text[start-1] {
		case ' ', '\t', '\n':
			return !isAbbreviation(text[start:dot])
		}
		start--
	}
	return !isAbbreviation(text[:dot])
}

func isAbbreviation(word string) bool {
	_, ok := abbreviations[strings.ToLower(strings.Trim(word, ".,;:()'\""))]
	return ok
}

// occurrences returns every byte offset where needle appears,
// case-insensitively.
func (p *parsedText) occurrences(needle string) []int {
	needle = strings.ToLower(needle)
	if needle == "" {
		return nil
	}
	var out []int
	from := 0
	for {
		i := strings.Index(p.lower[from:], needle)
		if i < 0 {
			return out
		}
		out = append(out, from+i)
		from += i + len(needle)
	}
}

// tokenAt maps a byte offset to the index of the token containing (or
// starting at) it; -1 when the offset falls outside every token.
func (p *parsedText) tokenAt(off int) int {
	i := sort.Search(len(p.tokens), func(i int) bool {
		return p.tokens[i].end > off
	})
	if i < len(p.tokens) && p.tokens[i].start <= off {
		return i
	}
	return -1
}

// sentenceAt returns the trimmed sentence containing a byte offset.
func (p *parsedText) sentenceAt(off int) string {
	for _, s := range p.sentences {
		if off >= s.start && off < s.end {
			return strings.TrimSpace(p.text[s.start:s.end])
		}
	}
	return ""
}

// phraseTokenStarts returns the starting token index of every whole-token
// occurrence of every phrase. Substring hits inside a longer word ("by" in
// "maybe") do not count.
func (p *parsedText) phraseTokenStarts(phrases []string) []int {
	var out []int
	for _, phrase := range phrases {
		for _, off := range p.occurrences(phrase) {
			tok := p.tokenAt(off)
			if tok < 0 || p.tokens[tok].start != off {
				continue
			}
			if !p.boundaryAfter(off + len(phrase)) {
				continue
			}
			out = append(out, tok)
		}
	}
	return out
}

func (p *parsedText) boundaryAfter(off int) bool {
	if off >= len(p.text) {
		return true
	}
	r := rune(p.text[off])
	return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
}
