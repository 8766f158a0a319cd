// Package highlight writes a marked-up copy of a source PDF with deadline and
// financial mentions banded in yellow.
package highlight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/anandks07/docflow/internal/core/domain"
)

type Highlighter struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Highlighter {
	return &Highlighter{logger: logger}
}

// Highlight locates each mention in the page layout and writes an annotated
// copy next to the source file. Scanned regions fall back to the pages' OCR
// word boxes. An empty return path means no mention could be placed; that is
// a degraded outcome, not an error.
func (h *Highlighter) Highlight(ctx context.Context, storagePath string, mentions []string, pages []domain.Page) (string, error) {
	if len(mentions) == 0 {
		return "", nil
	}

	annotations, err := h.collectAnnotations(ctx, storagePath, mentions, pages)
	if err != nil {
		return "", err
	}
	if len(annotations) == 0 {
		return "", nil
	}

	outPath := annotatedPath(storagePath)
	if err := api.AddAnnotationsMapFile(storagePath, outPath, annotations, model.NewDefaultConfiguration(), false); err != nil {
		return "", fmt.Errorf("write annotations: %w", err)
	}
	return outPath, nil
}

func (h *Highlighter) collectAnnotations(ctx context.Context, storagePath string, mentions []string, pages []domain.Page) (map[int][]model.AnnotationRenderer, error) {
	doc, err := fitz.New(storagePath)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open pdf for highlight", err)
	}
	defer doc.Close()

	wordsByPage := make(map[int][]domain.WordBox, len(pages))
	for _, page := range pages {
		if len(page.Words) > 0 {
			wordsByPage[page.Number] = page.Words
		}
	}

	annotations := make(map[int][]model.AnnotationRenderer)
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		html, err := doc.HTML(i, false)
		if err != nil {
			h.logger.Warn("page layout unavailable for highlight", "path", storagePath, "page", i+1, "error", err)
			continue
		}

		layout := parseLayout(html)
		for _, mention := range mentions {
			for _, b := range layout.locate(mention) {
				annotations[i+1] = append(annotations[i+1], highlightAnnotation{rect: b})
			}
			for _, b := range layout.locateWords(mention, wordsByPage[i+1]) {
				annotations[i+1] = append(annotations[i+1], highlightAnnotation{rect: b})
			}
		}
	}
	return annotations, nil
}

func annotatedPath(storagePath string) string {
	if idx := strings.LastIndex(storagePath, "."); idx > strings.LastIndex(storagePath, "/") {
		return storagePath[:idx] + "_highlighted" + storagePath[idx:]
	}
	return storagePath + "_highlighted"
}
