package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anandks07/docflow/internal/core/domain"
)

type ingestFake struct {
	err error
}

func (f ingestFake) Upload(_ context.Context, title, filename string, body io.Reader) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &domain.Document{
		ID:          "doc-1",
		Title:       title,
		Filename:    filename,
		StoragePath: "doc-1_file.pdf",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type askerFake struct {
	documentID string
	question   string
	err        error
}

func (f *askerFake) Ask(_ context.Context, documentID, question string) (*domain.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.documentID = documentID
	f.question = question
	return &domain.Question{
		ID:         "q-1",
		DocumentID: documentID,
		Question:   question,
		AskedAt:    time.Now().UTC(),
	}, nil
}

type docsFake struct {
	getErr     error
	department string
	listAll    bool
}

func (f *docsFake) Create(context.Context, *domain.Document) error { return nil }

func (f *docsFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.Document{ID: "doc-1", Status: domain.StatusCompleted}, nil
}

func (f *docsFake) List(context.Context, int, int) ([]domain.Document, error) {
	f.listAll = true
	return []domain.Document{{ID: "doc-1"}}, nil
}

func (f *docsFake) ListByDepartment(_ context.Context, department string, _, _ int) ([]domain.Document, error) {
	f.department = department
	return []domain.Document{{ID: "doc-1", Department: department}}, nil
}

func (f *docsFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return errors.New("not implemented")
}

func (f *docsFake) SaveResult(context.Context, string, domain.PipelineResult) error {
	return errors.New("not implemented")
}

type questionsFake struct {
	questions []domain.Question
	err       error
}

func (f *questionsFake) Create(context.Context, *domain.Question) error {
	return errors.New("not implemented")
}

func (f *questionsFake) ListByDocument(context.Context, string) ([]domain.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

func (f *questionsFake) SaveAnswer(context.Context, string, string) error {
	return errors.New("not implemented")
}

type notificationsFake struct {
	department    string
	notifications []domain.Notification
}

func (f *notificationsFake) Create(context.Context, *domain.Notification) error {
	return errors.New("not implemented")
}

func (f *notificationsFake) ListUnreadByDepartment(_ context.Context, department string) ([]domain.Notification, error) {
	f.department = department
	return f.notifications, nil
}

func newTestRouter() (*Router, *docsFake, *askerFake, *notificationsFake) {
	docs := &docsFake{}
	asker := &askerFake{}
	notifications := &notificationsFake{}
	rt := NewRouter(ingestFake{}, asker, docs, &questionsFake{}, notifications, nil, "api")
	return rt, docs, asker, notifications
}

func TestHealthzEndpoint(t *testing.T) {
	rt, _, _, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestUploadDocumentSuccess(t *testing.T) {
	rt, _, _, _ := newTestRouter()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("title", "Q3 circular"); err != nil {
		t.Fatalf("WriteField() error = %v", err)
	}
	part, err := writer.CreateFormFile("file", "minutes.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte("%PDF")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	var doc map[string]any
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc["id"] != "doc-1" || doc["title"] != "Q3 circular" {
		t.Fatalf("unexpected response: %+v", doc)
	}
}

func TestUploadDocumentMissingMultipartField(t *testing.T) {
	rt, _, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", bytes.NewBufferString("plain-text"))
	req.Header.Set("Content-Type", "text/plain")
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestListDocumentsByDepartment(t *testing.T) {
	rt, docs, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/documents?department=Finance", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if docs.department != "Finance" {
		t.Fatalf("expected department filter, got %q", docs.department)
	}
	if docs.listAll {
		t.Fatalf("expected filtered listing only")
	}
}

func TestListDocumentsAll(t *testing.T) {
	rt, docs, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !docs.listAll {
		t.Fatalf("expected unfiltered listing")
	}
}

func TestGetDocumentByIDReturns404ForNotFound(t *testing.T) {
	rt, docs, _, _ := newTestRouter()
	docs.getErr = domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id=missing"))

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestAskQuestionAccepted(t *testing.T) {
	rt, _, asker, _ := newTestRouter()

	payload, _ := json.Marshal(map[string]string{"question": "When is the audit due?"})
	req := httptest.NewRequest(http.MethodPost, "/v1/documents/doc-1/questions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	if asker.documentID != "doc-1" || asker.question != "When is the audit due?" {
		t.Fatalf("unexpected ask call %q %q", asker.documentID, asker.question)
	}
	var q map[string]any
	if err := json.NewDecoder(res.Body).Decode(&q); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, hasAnswer := q["answer"]; hasAnswer {
		t.Fatalf("expected pending answer omitted, got %+v", q)
	}
}

func TestAskQuestionMapsInvalidInputTo400(t *testing.T) {
	rt, _, asker, _ := newTestRouter()
	asker.err = domain.WrapError(domain.ErrInvalidInput, "ask question", errors.New("empty question"))

	payload, _ := json.Marshal(map[string]string{"question": ""})
	req := httptest.NewRequest(http.MethodPost, "/v1/documents/doc-1/questions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestListQuestionsForMissingDocument(t *testing.T) {
	rt, docs, _, _ := newTestRouter()
	docs.getErr = domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id=missing"))

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/missing/questions", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestListQuestionsReturnsEmptyArray(t *testing.T) {
	rt, _, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/doc-1/questions", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if body := res.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty json array, got %q", body)
	}
}

func TestListNotificationsRequiresDepartment(t *testing.T) {
	rt, _, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestListNotificationsByDepartment(t *testing.T) {
	rt, _, _, notifications := newTestRouter()
	notifications.notifications = []domain.Notification{{ID: "n-1", Department: "HR", Message: "REMINDER: x"}}

	req := httptest.NewRequest(http.MethodGet, "/v1/notifications?department=HR", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if notifications.department != "HR" {
		t.Fatalf("expected department HR, got %q", notifications.department)
	}
	var got []domain.Notification
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].ID != "n-1" {
		t.Fatalf("unexpected notifications %+v", got)
	}
}
