package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/anandks07/docflow/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	filename TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	department TEXT,
	summary TEXT,
	deadlines JSONB NOT NULL DEFAULT '[]'::jsonb,
	financial_terms JSONB NOT NULL DEFAULT '[]'::jsonb,
	highlighted_path TEXT,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_department ON documents(department);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);

CREATE TABLE IF NOT EXISTS questions (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id),
	question TEXT NOT NULL,
	answer TEXT NOT NULL DEFAULT '',
	asked_at TIMESTAMPTZ NOT NULL,
	answered_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_questions_document_id ON questions(document_id);

CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id),
	department TEXT NOT NULL,
	message TEXT NOT NULL,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_department ON notifications(department, is_read);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const documentColumns = `id, title, filename, storage_path, department, summary, deadlines, financial_terms, highlighted_path, status, error_message, created_at, updated_at`

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	deadlinesJSON, financialsJSON, err := marshalMentions(doc.Deadlines, doc.FinancialTerms)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, title, filename, storage_path, department, summary, deadlines, financial_terms, highlighted_path, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`,
		doc.ID, doc.Title, doc.Filename, doc.StoragePath, doc.Department, doc.Summary,
		deadlinesJSON, financialsJSON, doc.HighlightedPath, string(doc.Status), doc.Error,
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) List(ctx context.Context, limit, offset int) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+documentColumns+`
FROM documents
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func (r *DocumentRepository) ListByDepartment(ctx context.Context, department string, limit, offset int) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE department = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, department, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents by department: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return requireDocumentAffected(res, id)
}

func (r *DocumentRepository) SaveResult(ctx context.Context, id string, result domain.PipelineResult) error {
	deadlinesJSON, financialsJSON, err := marshalMentions(result.Deadlines, result.FinancialTerms)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET department = $2, summary = $3, deadlines = $4, financial_terms = $5, highlighted_path = $6, updated_at = $7
WHERE id = $1
`, id, result.Department, result.Summary, deadlinesJSON, financialsJSON, result.HighlightedPath, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save pipeline result: %w", err)
	}
	return requireDocumentAffected(res, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var deadlinesRaw, financialsRaw []byte
	var status string

	err := row.Scan(
		&doc.ID, &doc.Title, &doc.Filename, &doc.StoragePath, &doc.Department, &doc.Summary,
		&deadlinesRaw, &financialsRaw, &doc.HighlightedPath, &status, &doc.Error,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(deadlinesRaw, &doc.Deadlines); err != nil {
		return nil, fmt.Errorf("unmarshal deadlines: %w", err)
	}
	if err := json.Unmarshal(financialsRaw, &doc.FinancialTerms); err != nil {
		return nil, fmt.Errorf("unmarshal financial terms: %w", err)
	}
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

func collectDocuments(rows *sql.Rows) ([]domain.Document, error) {
	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func marshalMentions(deadlines, financials []string) ([]byte, []byte, error) {
	if deadlines == nil {
		deadlines = []string{}
	}
	if financials == nil {
		financials = []string{}
	}
	deadlinesJSON, err := json.Marshal(deadlines)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal deadlines: %w", err)
	}
	financialsJSON, err := json.Marshal(financials)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal financial terms: %w", err)
	}
	return deadlinesJSON, financialsJSON, nil
}

func requireDocumentAffected(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update document", fmt.Errorf("id %s", id))
	}
	return nil
}
