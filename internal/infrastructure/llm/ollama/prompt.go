package ollama

import (
	"fmt"
	"strings"

	"github.com/anandks07/docflow/internal/core/domain"
)

const summaryStructure = `1. Overview of Main Operations and Activities
2. Critical Urgent Tasks and Immediate Deadlines
3. Compliance and Regulatory Highlights
4. Key Departmental Responsibilities and Coordination Needs
5. Safety, Staffing, Procurement, and Strategic Initiatives`

func buildSummaryPrompt(lang domain.Language, chunks []domain.RetrievedChunk) string {
	languageRule := "Write the summary in English."
	if lang == domain.LanguageMalayalam {
		languageRule = "Write the summary in a hybrid of Malayalam and English, mirroring the document."
	}

	return fmt.Sprintf(`You are an expert organizational analyst. Generate a brief, actionable summary that highlights the most important and urgent points from the given document excerpts. Focus on tasks department heads need to act on immediately, critical deadlines, compliance, and cross-department coordination issues. Use only the provided context strictly.
%s

Structure:
%s

Summarize the following document accordingly:

%s`, languageRule, summaryStructure, renderContext(chunks))
}

func buildAnswerPrompt(question string, lang domain.Language, chunks []domain.RetrievedChunk) string {
	return fmt.Sprintf(`You are a helpful assistant. Use the following context to answer the question. Don't make up answers. Don't hallucinate. Answer in the same language as the question.
If the context does not contain the answer, respond with exactly: %s

Context:
%s

Question: %s`, domain.NotFoundAnswer(lang), renderContext(chunks), question)
}

func renderContext(chunks []domain.RetrievedChunk) string {
	var b strings.Builder
	for idx, chunk := range chunks {
		fmt.Fprintf(&b, "[%d] page=%d score=%.3f\n%s\n\n", idx+1, chunk.Page, chunk.Score, chunk.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
