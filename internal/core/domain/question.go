package domain

import "time"

// Question is a user question against one indexed document. The answer is
// filled in asynchronously by the worker; until then it is empty.
type Question struct {
	ID         string     `json:"id"`
	DocumentID string     `json:"document_id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer,omitempty"`
	AskedAt    time.Time  `json:"asked_at"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
}

// QuestionTask is the unit of work carried on the queue between the request
// that created the question and the worker that answers it.
type QuestionTask struct {
	QuestionID string    `json:"question_id"`
	DocumentID string    `json:"document_id"`
	Question   string    `json:"question"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type Notification struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Department string    `json:"department"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}
