package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
	"github.com/anandks07/docflow/internal/observability/metrics"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
	maxUploadBytes   = 64 << 20
)

type Router struct {
	ingest        ports.DocumentIngestor
	asker         ports.QuestionAsker
	documents     ports.DocumentRepository
	questions     ports.QuestionRepository
	notifications ports.NotificationRepository
	metrics       *metrics.HTTPServerMetrics
	service       string
}

func NewRouter(
	ingest ports.DocumentIngestor,
	asker ports.QuestionAsker,
	documents ports.DocumentRepository,
	questions ports.QuestionRepository,
	notifications ports.NotificationRepository,
	m *metrics.HTTPServerMetrics,
	service string,
) *Router {
	return &Router{
		ingest:        ingest,
		asker:         asker,
		documents:     documents,
		questions:     questions,
		notifications: notifications,
		metrics:       m,
		service:       service,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.documentsCollection)
	mux.HandleFunc("/v1/documents/", rt.documentSubtree)
	mux.HandleFunc("/v1/notifications", rt.listNotifications)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) documentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(r.Context(), r.FormValue("title"), fileHeader.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUpload(rt.service, fileHeader.Size)
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	department := strings.TrimSpace(r.URL.Query().Get("department"))

	var (
		docs []domain.Document
		err  error
	)
	if department != "" {
		docs, err = rt.documents.ListByDepartment(r.Context(), department, limit, offset)
	} else {
		docs, err = rt.documents.List(r.Context(), limit, offset)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// documentSubtree serves /v1/documents/{id} and /v1/documents/{id}/questions.
func (rt *Router) documentSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch sub {
	case "":
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		rt.getDocumentByID(w, r, id)
	case "questions":
		switch r.Method {
		case http.MethodPost:
			rt.askQuestion(w, r, id)
		case http.MethodGet:
			rt.listQuestions(w, r, id)
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		}
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := rt.documents.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) askQuestion(w http.ResponseWriter, r *http.Request, documentID string) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	q, err := rt.asker.Ask(r.Context(), documentID, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordQuestionAccepted(rt.service)
	}
	writeJSON(w, http.StatusAccepted, q)
}

func (rt *Router) listQuestions(w http.ResponseWriter, r *http.Request, documentID string) {
	if _, err := rt.documents.GetByID(r.Context(), documentID); err != nil {
		writeError(w, err)
		return
	}

	questions, err := rt.questions.ListByDocument(r.Context(), documentID)
	if err != nil {
		writeError(w, err)
		return
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

func (rt *Router) listNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	department := strings.TrimSpace(r.URL.Query().Get("department"))
	if department == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'department' is required"})
		return
	}

	notifications, err := rt.notifications.ListUnreadByDepartment(r.Context(), department)
	if err != nil {
		writeError(w, err)
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxListLimit)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
