package hugot

import (
	"context"
	"fmt"
	"strings"

	khugot "github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
)

// Tagger wraps a token-classification pipeline and aggregates sub-word
// predictions into word-level spans, so the extractor sees whole DATE/MONEY
// mentions rather than BPE fragments.
type Tagger struct {
	pipeline *pipelines.TokenClassificationPipeline
}

func NewTagger(s *Session, modelPath string) (*Tagger, error) {
	cfg := khugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "docflow-ner",
	}
	pipeline, err := khugot.NewPipeline(s.session, cfg)
	if err != nil {
		return nil, fmt.Errorf("create ner pipeline: %w", err)
	}
	// SIMPLE groups adjacent tokens that share a label into one entity.
	pipeline.AggregationStrategy = "SIMPLE"
	return &Tagger{pipeline: pipeline}, nil
}

func (t *Tagger) Tag(ctx context.Context, text string, lang domain.Language) ([]ports.TaggedSpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	output, err := t.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("run ner pipeline: %w", err)
	}
	if len(output.Entities) == 0 {
		return nil, nil
	}

	spans := make([]ports.TaggedSpan, 0, len(output.Entities[0]))
	for _, entity := range output.Entities[0] {
		label := normalizeLabel(entity.Entity)
		if label == "" {
			continue
		}
		spans = append(spans, ports.TaggedSpan{
			Text:  strings.TrimSpace(entity.Word),
			Label: label,
		})
	}
	return spans, nil
}

// normalizeLabel maps model tag names to the extractor's label vocabulary.
// The multilingual model emits BIO-prefixed tags.
func normalizeLabel(tag string) string {
	tag = strings.ToUpper(strings.TrimPrefix(strings.TrimPrefix(tag, "B-"), "I-"))
	switch tag {
	case "DATE", "TIME":
		return "DATE"
	case "MONEY", "CURRENCY", "AMOUNT":
		return "MONEY"
	default:
		return ""
	}
}
