package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Filename        string         `json:"filename"`
	StoragePath     string         `json:"storage_path"`
	Department      string         `json:"department,omitempty"`
	Summary         string         `json:"summary,omitempty"`
	Deadlines       []string       `json:"deadlines,omitempty"`
	FinancialTerms  []string       `json:"financial_terms,omitempty"`
	HighlightedPath string         `json:"highlighted_path,omitempty"`
	Status          DocumentStatus `json:"status"`
	Error           string         `json:"error,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// PipelineResult is the aggregate output of one ingestion run. It is built
// once per run and handed to the repository; the pipeline holds no state
// beyond it.
type PipelineResult struct {
	Department      string   `json:"department"`
	Summary         string   `json:"summary"`
	Deadlines       []string `json:"deadlines"`
	FinancialTerms  []string `json:"financial_terms"`
	HighlightedPath string   `json:"highlighted_path,omitempty"`
}
