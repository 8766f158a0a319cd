package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
)

// analyticalQuery is the fixed retrieval query for summarization. It names the
// operational and financial themes the summary sections cover, in both
// languages, so semantic search surfaces the actionable chunks regardless of
// the document's language mix.
const analyticalQuery = "Key organizational operations, critical urgent tasks and deadlines, compliance and regulatory updates, " +
	"inter-departmental coordination issues, staffing and HR priorities, safety bulletins, procurement status, " +
	"knowledge retention challenges, and strategic initiatives impacting timely decision-making and operational efficiency. " +
	"Financial performance, budgets, payments, audits, cost control, funding, procurement finance. " +
	"പ്രധാന സംഘടനാ പ്രവർത്തനങ്ങൾ, അടിയന്തരമായ നിർണായക ജോലികളും അവസാന തീയതികളും, അനുസരണവും നിയന്ത്രണാത്മകമായ പുതുക്കലുകളും, " +
	"അന്തർ-വകുപ്പ് ഏകോപന പ്രശ്നങ്ങൾ, സ്റ്റാഫിംഗ്‌യും മാനവ വിഭവശേഷി മുൻഗണനകളും, സുരക്ഷാ ബുള്ളറ്റിനുകൾ, വാങ്ങൽ നില, " +
	"അറിവ് സംരക്ഷണ വെല്ലുവിളികൾ, സമയബന്ധിതമായ തീരുമാനം കൈക്കൊള്ളലിനെയും പ്രവർത്തന കാര്യക്ഷമതയെയും ബാധിക്കുന്ന തന്ത്രപരമായ പ്രവർത്തനങ്ങൾ. " +
	"സാമ്പത്തിക പ്രകടനം, ബജറ്റുകൾ, പേയ്‌മെന്റുകൾ, ഓഡിറ്റുകൾ, ചെലവ് നിയന്ത്രണം, ഫണ്ടിംഗ്, വാങ്ങൽ ധനകാര്യം."

// SummarizeDocumentUseCase produces the actionable document summary from the
// indexed chunks of a single document.
type SummarizeDocumentUseCase struct {
	embedder  ports.Embedder
	index     ports.VectorIndex
	generator ports.AnswerGenerator
	vectorDim int
	topK      int
}

func NewSummarizeDocumentUseCase(embedder ports.Embedder, index ports.VectorIndex, generator ports.AnswerGenerator, vectorDim, topK int) *SummarizeDocumentUseCase {
	if topK <= 0 {
		topK = 10
	}
	return &SummarizeDocumentUseCase{
		embedder:  embedder,
		index:     index,
		generator: generator,
		vectorDim: vectorDim,
		topK:      topK,
	}
}

// Summarize retrieves the document's most relevant chunks and asks the
// generator for the structured summary. When semantic search comes back empty
// the whole namespace is scanned with a zero vector instead, so a freshly
// indexed document always has material to summarize.
func (uc *SummarizeDocumentUseCase) Summarize(ctx context.Context, documentID string, lang domain.Language) (string, error) {
	chunks, err := uc.retrieve(ctx, documentID)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("summarize document %s: %w: no indexed chunks", documentID, domain.ErrDocumentNotFound)
	}
	return uc.generate(ctx, lang, chunks)
}

func (uc *SummarizeDocumentUseCase) retrieve(ctx context.Context, documentID string) ([]domain.RetrievedChunk, error) {
	vec, err := uc.embedder.EmbedQuery(ctx, analyticalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed summary query: %w", err)
	}
	chunks, err := uc.index.Query(ctx, documentID, vec, uc.topK)
	if err != nil {
		return nil, fmt.Errorf("query chunks for document %s: %w", documentID, err)
	}
	if len(chunks) > 0 {
		return chunks, nil
	}
	// Semantic search found nothing close; fall back to an unweighted scan of
	// the document's namespace.
	chunks, err = uc.index.Query(ctx, documentID, make([]float32, uc.vectorDim), uc.topK)
	if err != nil {
		return nil, fmt.Errorf("fallback query for document %s: %w", documentID, err)
	}
	return chunks, nil
}

// generate retries with progressively fewer chunks when the model errors or
// returns an empty completion. Long contexts are the usual culprit. When every
// attempt fails the failure is carried in the summary text itself so the
// ingestion run still completes and persists its other results.
func (uc *SummarizeDocumentUseCase) generate(ctx context.Context, lang domain.Language, chunks []domain.RetrievedChunk) (string, error) {
	limits := []int{len(chunks)}
	for _, l := range []int{5, 3} {
		if len(chunks) > l {
			limits = append(limits, l)
		}
	}

	var lastErr error
	for _, limit := range limits {
		summary, err := uc.generator.GenerateSummary(ctx, lang, chunks[:limit])
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if strings.TrimSpace(summary) != "" {
			return summary, nil
		}
		lastErr = fmt.Errorf("model returned an empty summary")
	}
	if ctx.Err() != nil {
		return "", fmt.Errorf("generate summary: %w", lastErr)
	}
	return fmt.Sprintf("Summary generation failed: %v", lastErr), nil
}
