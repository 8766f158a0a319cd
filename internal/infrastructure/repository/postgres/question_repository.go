package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anandks07/docflow/internal/core/domain"
)

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO questions (id, document_id, question, answer, asked_at, answered_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, q.ID, q.DocumentID, q.Question, q.Answer, q.AskedAt, q.AnsweredAt)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (r *QuestionRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, question, answer, asked_at, answered_at
FROM questions
WHERE document_id = $1
ORDER BY asked_at ASC
`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.DocumentID, &q.Question, &q.Answer, &q.AskedAt, &q.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

func (r *QuestionRepository) SaveAnswer(ctx context.Context, questionID, answer string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE questions
SET answer = $2, answered_at = $3
WHERE id = $1
`, questionID, answer, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrQuestionNotFound, "save answer", fmt.Errorf("id %s", questionID))
	}
	return nil
}
