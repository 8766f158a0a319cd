package hugot

import (
	"context"
	"fmt"
	"strings"

	khugot "github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/anandks07/docflow/internal/core/domain"
)

// Departments is the fixed label set of the fine-tuned classifier.
var Departments = []string{"Finance", "Operations", "HR", "Engineering"}

// Classifier labels one chunk with a department. Inference is stateless;
// per-chunk calls are independent.
type Classifier struct {
	pipeline *pipelines.TextClassificationPipeline
}

func NewClassifier(s *Session, modelPath string) (*Classifier, error) {
	cfg := khugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "docflow-department",
	}
	pipeline, err := khugot.NewPipeline(s.session, cfg)
	if err != nil {
		return nil, fmt.Errorf("create classification pipeline: %w", err)
	}
	return &Classifier{pipeline: pipeline}, nil
}

func (c *Classifier) Classify(ctx context.Context, chunk string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(chunk) == "" {
		return domain.UnknownDepartment, nil
	}

	output, err := c.pipeline.RunPipeline([]string{chunk})
	if err != nil {
		return "", fmt.Errorf("run classification pipeline: %w", err)
	}
	if len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return domain.UnknownDepartment, nil
	}

	top := output.ClassificationOutputs[0][0]
	return canonicalDepartment(top.Label), nil
}

// canonicalDepartment tolerates LABEL_n style ids and stray whitespace in
// the exported model config.
func canonicalDepartment(label string) string {
	label = strings.TrimSpace(label)
	if idx, ok := labelIndex(label); ok && idx < len(Departments) {
		return Departments[idx]
	}
	for _, dept := range Departments {
		if strings.EqualFold(label, dept) {
			return dept
		}
	}
	return domain.UnknownDepartment
}

func labelIndex(label string) (int, bool) {
	const prefix = "LABEL_"
	if !strings.HasPrefix(strings.ToUpper(label), prefix) {
		return 0, false
	}
	idx := 0
	for _, r := range label[len(prefix):] {
		if r < '0' || r > '9' {
			return 0, false
		}
		idx = idx*10 + int(r-'0')
	}
	return idx, true
}
