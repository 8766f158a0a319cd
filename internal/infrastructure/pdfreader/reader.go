// Package pdfreader turns a stored PDF into per-page raw text. Native text
// comes from the mupdf layout engine, raster content goes through OCR.
package pdfreader

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
)

// OCRObserver is notified once per OCR-processed page image.
type OCRObserver interface {
	RecordOCRPage()
}

type Reader struct {
	ocr      ports.OCREngine
	logger   *slog.Logger
	observer OCRObserver
}

func New(ocr ports.OCREngine, logger *slog.Logger) *Reader {
	return &Reader{ocr: ocr, logger: logger}
}

// WithObserver enables OCR volume accounting.
func (r *Reader) WithObserver(observer OCRObserver) *Reader {
	r.observer = observer
	return r
}

// ExtractPages returns one entry per physical page, in order. A page keeps
// its slot even when it yields no text. Image decode and OCR failures degrade
// the page, never the document.
func (r *Reader) ExtractPages(ctx context.Context, storagePath string, lang domain.Language) ([]domain.Page, error) {
	doc, err := fitz.New(storagePath)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open pdf", err)
	}
	defer doc.Close()

	imagesByPage, err := r.extractImages(storagePath)
	if err != nil {
		// Native text still flows when the raster pass is unavailable.
		r.logger.Warn("pdf image extraction failed", "path", storagePath, "error", err)
		imagesByPage = nil
	}

	pages := make([]domain.Page, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var parts []string
		var words []domain.WordBox
		native, err := doc.Text(i)
		if err != nil {
			r.logger.Warn("native text extraction failed", "path", storagePath, "page", i+1, "error", err)
		} else if text := strings.TrimSpace(native); text != "" {
			parts = append(parts, text)
		}

		for _, img := range imagesByPage[i+1] {
			text, imgWords, err := r.recognizeImage(ctx, img, lang)
			if err != nil {
				r.logger.Warn("page image ocr failed", "path", storagePath, "page", i+1, "error", err)
				continue
			}
			if r.observer != nil {
				r.observer.RecordOCRPage()
			}
			if text != "" {
				parts = append(parts, text)
				words = append(words, imgWords...)
			}
		}

		pages = append(pages, domain.Page{
			Number: i + 1,
			Text:   strings.Join(parts, "\n"),
			Words:  words,
		})
	}
	return pages, nil
}

// extractImages pulls decoded raster streams for every page, keyed by page
// number.
func (r *Reader) extractImages(storagePath string) (map[int][]image.Image, error) {
	f, err := os.Open(storagePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := api.ExtractImagesRaw(f, nil, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu extract images: %w", err)
	}

	byPage := make(map[int][]image.Image)
	for _, pageImages := range raw {
		for _, entry := range pageImages {
			img, _, err := image.Decode(entry)
			if err != nil {
				r.logger.Warn("skip undecodable pdf image",
					"path", storagePath, "page", entry.PageNr, "type", entry.FileType, "error", err)
				continue
			}
			byPage[entry.PageNr] = append(byPage[entry.PageNr], img)
		}
	}
	return byPage, nil
}

func (r *Reader) recognizeImage(ctx context.Context, img image.Image, lang domain.Language) (string, []domain.WordBox, error) {
	prepared := prepareForOCR(img)
	result, err := r.ocr.Recognize(ctx, prepared, lang)
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(result.Text), normalizeWords(result.Words, prepared.Bounds()), nil
}

// normalizeWords rescales pixel word boxes into page fractions. Scanned pages
// carry one full-page raster, so image space stands in for page space.
func normalizeWords(words []ports.OCRWord, bounds image.Rectangle) []domain.WordBox {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	if w == 0 || h == 0 {
		return nil
	}

	out := make([]domain.WordBox, 0, len(words))
	for _, word := range words {
		if strings.TrimSpace(word.Text) == "" || word.Width <= 0 || word.Height <= 0 {
			continue
		}
		out = append(out, domain.WordBox{
			Text: word.Text,
			X0:   float64(word.Left) / w,
			Y0:   float64(word.Top) / h,
			X1:   float64(word.Left+word.Width) / w,
			Y1:   float64(word.Top+word.Height) / h,
		})
	}
	return out
}
