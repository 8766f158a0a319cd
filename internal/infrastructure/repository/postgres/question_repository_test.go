package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/anandks07/docflow/internal/core/domain"
)

func TestSaveAnswerReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()
	repo := NewQuestionRepository(db)

	mock.ExpectExec("UPDATE questions").
		WithArgs("missing", "answer", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SaveAnswer(context.Background(), "missing", "answer")
	if !domain.IsKind(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListByDocumentScansNullableAnsweredAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()
	repo := NewQuestionRepository(db)

	asked := time.Now().UTC()
	answered := asked.Add(time.Minute)
	rows := sqlmock.NewRows([]string{"id", "document_id", "question", "answer", "asked_at", "answered_at"}).
		AddRow("q-1", "doc-1", "when?", "", asked, nil).
		AddRow("q-2", "doc-1", "how much?", "Rs. 500", asked, answered)

	mock.ExpectQuery("SELECT id, document_id, question").
		WithArgs("doc-1").
		WillReturnRows(rows)

	questions, err := repo.ListByDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("questions = %d", len(questions))
	}
	if questions[0].AnsweredAt != nil {
		t.Fatalf("pending question should have nil AnsweredAt")
	}
	if questions[1].AnsweredAt == nil || !questions[1].AnsweredAt.Equal(answered) {
		t.Fatalf("answered question lost its timestamp")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
