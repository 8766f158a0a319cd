package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Fatalf("APIPort = %q", cfg.APIPort)
	}
	if cfg.ChunkMaxTokens != 256 || cfg.ChunkOverlapTokens != 40 {
		t.Fatalf("chunk defaults = %d/%d", cfg.ChunkMaxTokens, cfg.ChunkOverlapTokens)
	}
	if cfg.EmbeddingDim != 384 {
		t.Fatalf("EmbeddingDim = %d", cfg.EmbeddingDim)
	}
	if cfg.SummaryTopK != 10 || cfg.QATopK != 10 {
		t.Fatalf("topK defaults = %d/%d", cfg.SummaryTopK, cfg.QATopK)
	}
	if cfg.LanguageMode != "english" {
		t.Fatalf("LanguageMode = %q", cfg.LanguageMode)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHUNK_MAX_TOKENS", "128")
	t.Setenv("LANGUAGE_MODE", "multilingual")
	t.Setenv("HIGHLIGHT_ENABLED", "false")
	t.Setenv("CHUNK_OVERLAP_TOKENS", "not-a-number")

	cfg := Load()

	if cfg.ChunkMaxTokens != 128 {
		t.Fatalf("ChunkMaxTokens = %d", cfg.ChunkMaxTokens)
	}
	if cfg.LanguageMode != "multilingual" {
		t.Fatalf("LanguageMode = %q", cfg.LanguageMode)
	}
	if cfg.HighlightEnabled {
		t.Fatal("HighlightEnabled should be false")
	}
	if cfg.ChunkOverlapTokens != 40 {
		t.Fatalf("unparseable int should fall back, got %d", cfg.ChunkOverlapTokens)
	}
}
