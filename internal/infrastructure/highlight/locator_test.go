package highlight

import (
	"testing"

	"github.com/anandks07/docflow/internal/core/domain"
)

const samplePageHTML = `<div id="page0" style="position:relative;width:612.0pt;height:792.0pt;background-color:white">
<p style="position:absolute;white-space:pre;margin:0;padding:0;top:72.0pt;left:54.0pt"><span style="font-family:Helvetica;font-size:12.0pt">Tender Notice No. 42</span></p>
<p style="position:absolute;white-space:pre;margin:0;padding:0;top:120.5pt;left:54.0pt"><span style="font-family:Helvetica;font-size:10.0pt">Submission deadline is 20-10-2025.</span></p>
<p style="position:absolute;white-space:pre;margin:0;padding:0;top:140.0pt;left:54.0pt"><span style="font-family:Helvetica;font-size:10.0pt"></span></p>
</div>`

func TestParseLayout(t *testing.T) {
	layout := parseLayout(samplePageHTML)
	if layout.width != 612.0 || layout.height != 792.0 {
		t.Fatalf("page size = %gx%g", layout.width, layout.height)
	}
	if len(layout.lines) != 2 {
		t.Fatalf("lines = %d, want 2 (empty paragraph dropped)", len(layout.lines))
	}

	line := layout.lines[1]
	if line.text != "Submission deadline is 20-10-2025." {
		t.Errorf("line text = %q", line.text)
	}
	if line.top != 120.5 || line.left != 54.0 {
		t.Errorf("line position = (%g, %g)", line.left, line.top)
	}
	if line.fontSize != 10.0 {
		t.Errorf("font size = %g", line.fontSize)
	}
}

func TestLocateFlipsYAxis(t *testing.T) {
	layout := parseLayout(samplePageHTML)
	boxes := layout.locate("Submission deadline is 20-10-2025.")
	if len(boxes) != 1 {
		t.Fatalf("boxes = %d, want 1", len(boxes))
	}

	b := boxes[0]
	if b.llx != 54.0 {
		t.Errorf("llx = %g", b.llx)
	}
	// PDF origin is bottom-left, layout origin is top-left.
	if b.ury <= b.lly {
		t.Errorf("degenerate box: %+v", b)
	}
	if b.ury > 792.0-120.5+2.1 || b.lly < 792.0-120.5-12.1 {
		t.Errorf("box not near flipped line position: %+v", b)
	}
}

func TestLocateMatchesLineFragment(t *testing.T) {
	// A mention sentence can span layout lines; a line that is a fragment of
	// the mention still gets banded.
	layout := pageLayout{
		width:  612,
		height: 792,
		lines: []textLine{
			{text: "The payment of Rs. 500", left: 54, top: 100, fontSize: 10},
			{text: "is due by 15-10-2025.", left: 54, top: 112, fontSize: 10},
		},
	}
	boxes := layout.locate("The payment of Rs. 500 is due by 15-10-2025.")
	if len(boxes) != 2 {
		t.Fatalf("boxes = %d, want both fragments", len(boxes))
	}
}

func TestLocateWordsBandsOCRMatches(t *testing.T) {
	layout := pageLayout{width: 600, height: 800}
	words := []domain.WordBox{
		{Text: "Tender", X0: 0.10, Y0: 0.10, X1: 0.20, Y1: 0.12},
		{Text: "closes", X0: 0.22, Y0: 0.10, X1: 0.30, Y1: 0.12},
		{Text: "20-10-2025", X0: 0.32, Y0: 0.10, X1: 0.45, Y1: 0.12},
		{Text: "unrelated", X0: 0.10, Y0: 0.20, X1: 0.25, Y1: 0.22},
	}

	boxes := layout.locateWords("closes 20-10-2025", words)
	if len(boxes) != 2 {
		t.Fatalf("boxes = %d, want one per covered word", len(boxes))
	}

	b := boxes[0]
	if b.llx != 0.22*600 || b.urx != 0.30*600 {
		t.Errorf("x extent = (%g, %g)", b.llx, b.urx)
	}
	// Fractions use a top-left origin, PDF space is bottom-left.
	if b.ury != 800-0.10*800 || b.lly != 800-0.12*800 {
		t.Errorf("y extent = (%g, %g)", b.lly, b.ury)
	}
}

func TestLocateWordsIgnoresPartialWordHits(t *testing.T) {
	layout := pageLayout{width: 600, height: 800}
	words := []domain.WordBox{
		{Text: "budget", X0: 0.1, Y0: 0.1, X1: 0.2, Y1: 0.12},
	}
	if boxes := layout.locateWords("nothing here", words); len(boxes) != 0 {
		t.Fatalf("unexpected boxes: %v", boxes)
	}
	if boxes := layout.locateWords("  ", words); len(boxes) != 0 {
		t.Fatalf("blank mention matched: %v", boxes)
	}
}

func TestLocateNoMatch(t *testing.T) {
	layout := parseLayout(samplePageHTML)
	if boxes := layout.locate("nothing like this appears"); len(boxes) != 0 {
		t.Fatalf("unexpected boxes: %v", boxes)
	}
	if boxes := layout.locate("  "); len(boxes) != 0 {
		t.Fatalf("blank mention matched: %v", boxes)
	}
}

func TestAnnotatedPath(t *testing.T) {
	if got := annotatedPath("/data/doc-1.pdf"); got != "/data/doc-1_highlighted.pdf" {
		t.Errorf("annotatedPath = %q", got)
	}
	if got := annotatedPath("/data/doc-1"); got != "/data/doc-1_highlighted" {
		t.Errorf("annotatedPath without extension = %q", got)
	}
}
