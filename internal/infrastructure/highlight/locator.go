package highlight

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/anandks07/docflow/internal/core/domain"
)

// textLine is one positioned paragraph from the layout engine's HTML output,
// in top-left page coordinates (points).
type textLine struct {
	text     string
	left     float64
	top      float64
	fontSize float64
}

type pageLayout struct {
	width  float64
	height float64
	lines  []textLine
}

var (
	pageDivRe  = regexp.MustCompile(`width:([\d.]+)pt;height:([\d.]+)pt`)
	paraRe     = regexp.MustCompile(`(?s)<p style="[^"]*top:([\d.]+)pt;left:([\d.]+)pt[^"]*">(.*?)</p>`)
	fontSizeRe = regexp.MustCompile(`font-size:([\d.]+)pt`)
	tagRe      = regexp.MustCompile(`<[^>]+>`)
)

// parseLayout extracts positioned lines from mupdf HTML page output. The
// geometry is approximate: one box per paragraph, not per glyph.
func parseLayout(html string) pageLayout {
	layout := pageLayout{}
	if m := pageDivRe.FindStringSubmatch(html); m != nil {
		layout.width, _ = strconv.ParseFloat(m[1], 64)
		layout.height, _ = strconv.ParseFloat(m[2], 64)
	}

	for _, m := range paraRe.FindAllStringSubmatch(html, -1) {
		top, _ := strconv.ParseFloat(m[1], 64)
		left, _ := strconv.ParseFloat(m[2], 64)

		fontSize := 11.0
		if fs := fontSizeRe.FindStringSubmatch(m[3]); fs != nil {
			if parsed, err := strconv.ParseFloat(fs[1], 64); err == nil && parsed > 0 {
				fontSize = parsed
			}
		}

		text := strings.TrimSpace(tagRe.ReplaceAllString(m[3], ""))
		if text == "" {
			continue
		}
		layout.lines = append(layout.lines, textLine{
			text:     text,
			left:     left,
			top:      top,
			fontSize: fontSize,
		})
	}
	return layout
}

// box is an annotation rectangle in PDF coordinates (origin bottom-left).
type box struct {
	llx, lly, urx, ury float64
}

// locate returns one box per line whose text contains the mention. Mentions
// are whole sentences, lines are layout fragments, so matching runs both
// ways.
func (p pageLayout) locate(mention string) []box {
	needle := strings.ToLower(strings.TrimSpace(mention))
	if needle == "" || p.height == 0 {
		return nil
	}

	var boxes []box
	for _, line := range p.lines {
		haystack := strings.ToLower(line.text)
		if !strings.Contains(haystack, needle) && !strings.Contains(needle, haystack) {
			continue
		}

		width := estimateWidth(line.text, line.fontSize)
		if right := p.width - line.left; p.width > 0 && width > right {
			width = right
		}
		boxes = append(boxes, box{
			llx: line.left,
			lly: p.height - line.top - line.fontSize*1.2,
			urx: line.left + width,
			ury: p.height - line.top + line.fontSize*0.2,
		})
	}
	return boxes
}

// estimateWidth guesses rendered width from glyph count. Half an em per glyph
// is close enough for a highlight band.
func estimateWidth(text string, fontSize float64) float64 {
	return float64(len([]rune(text))) * fontSize * 0.5
}

// locateWords bands the OCR-recognized words the mention covers. Scanned
// regions carry no layout text, so matching runs over the recognized word
// stream and each covered word gets its own box, scaled from page fractions
// into PDF coordinates.
func (p pageLayout) locateWords(mention string, words []domain.WordBox) []box {
	needle := strings.ToLower(strings.TrimSpace(mention))
	if needle == "" || len(words) == 0 || p.width == 0 || p.height == 0 {
		return nil
	}

	var joined strings.Builder
	starts := make([]int, len(words))
	ends := make([]int, len(words))
	for i, w := range words {
		if i > 0 {
			joined.WriteByte(' ')
		}
		starts[i] = joined.Len()
		joined.WriteString(strings.ToLower(w.Text))
		ends[i] = joined.Len()
	}
	haystack := joined.String()

	var boxes []box
	from := 0
	for {
		hit := strings.Index(haystack[from:], needle)
		if hit < 0 {
			return boxes
		}
		lo := from + hit
		hi := lo + len(needle)
		for i, w := range words {
			if ends[i] <= lo || starts[i] >= hi {
				continue
			}
			boxes = append(boxes, box{
				llx: w.X0 * p.width,
				lly: p.height - w.Y1*p.height,
				urx: w.X1 * p.width,
				ury: p.height - w.Y0*p.height,
			})
		}
		from = hi
	}
}
