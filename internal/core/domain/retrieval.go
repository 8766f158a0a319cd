package domain

// RetrievedChunk is one ranked match from the vector index. Metadata mirrors
// what was stored at upsert so a chunk is attributable on its own.
type RetrievedChunk struct {
	DocumentID string  `json:"document_id"`
	Page       int     `json:"page"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// NotFoundAnswer is the literal sentence the QA flow returns when retrieval
// yields nothing, per language of the question. The generator is also
// instructed to emit it verbatim when the supplied context is insufficient.
func NotFoundAnswer(lang Language) string {
	if lang == LanguageMalayalam {
		return "പ്രസക്തമായ വിവരങ്ങൾ കണ്ടെത്തിയില്ല."
	}
	return "No relevant information found."
}
