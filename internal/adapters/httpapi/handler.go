package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/usecase"
	"github.com/atvirokodosprendimai/seqnotes/internal/logger"
)

const (
	timeFormat      = "2006-01-02T15:04:05.999999999Z07:00"
	maxJSONBodySize = 1 << 20
)

type Services struct {
	Users         *usecase.UserService
	Sequences     *usecase.SequenceService
	Documents     *usecase.DocumentService
	Comments      *usecase.CommentService
	Notifications *usecase.NotificationService
}

type Handler struct {
	svc     Services
	log     *logger.Logger
	schemas *bodySchemas
}

func NewHandler(svc Services, log *logger.Logger) (*Handler, error) {
	if log == nil {
		log = logger.Nop()
	}
	schemas, err := compileBodySchemas()
	if err != nil {
		return nil, err
	}
	return &Handler{svc: svc, log: log, schemas: schemas}, nil
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(h.withTraceID, h.withLogging)

	r.Get("/healthz", h.healthz)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/users", h.createUser)
		v1.Get("/users/{id}", h.getUser)
		v1.Delete("/users/{id}", h.deleteUser)

		v1.Post("/sequences", h.createSequence)
		v1.Get("/sequences", h.listSequences)
		v1.Get("/sequences/{id}", h.getSequence)
		v1.Put("/sequences/{id}", h.editSequence)
		v1.Delete("/sequences/{id}", h.deleteSequence)

		v1.Post("/documents", h.createDocument)
		v1.Get("/documents", h.listDocuments)
		v1.Get("/documents/{id}", h.getDocument)
		v1.Put("/documents/{id}", h.editDocument)
		v1.Delete("/documents/{id}", h.deleteDocument)

		v1.Post("/comments", h.createComment)
		v1.Get("/comments", h.listComments)
		v1.Get("/comments/{id}", h.getComment)
		v1.Put("/comments/{id}", h.editComment)
		v1.Delete("/comments/{id}", h.deleteComment)

		v1.Post("/notifications", h.createNotification)
		v1.Get("/notifications", h.listNotifications)
		v1.Get("/notifications/{id}", h.getNotification)
		v1.Put("/notifications/{id}", h.editNotification)
	})

	return r
}

type userRequest struct {
	Username string `json:"username"`
}

type sequenceRequest struct {
	OwnerID         int64  `json:"owner_id"`
	ProteinSequence string `json:"protein_sequence"`
	DNASequence     string `json:"dna_sequence"`
}

type documentRequest struct {
	OwnerID int64  `json:"owner_id"`
	Body    string `json:"body"`
}

type commentRequest struct {
	OwnerID    int64  `json:"owner_id"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
	Body       string `json:"body"`
}

type notificationRequest struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

type sequenceResponse struct {
	ID              int64  `json:"id"`
	ProteinSequence string `json:"protein_sequence"`
	DNASequence     string `json:"dna_sequence"`
	OwnerID         int64  `json:"owner_id"`
	CreatedAt       string `json:"created_at"`
	ModifiedAt      string `json:"modified_at"`
}

type documentResponse struct {
	ID         int64  `json:"id"`
	Body       string `json:"body"`
	OwnerID    int64  `json:"owner_id"`
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
}

type commentResponse struct {
	ID         int64  `json:"id"`
	Body       string `json:"body"`
	OwnerID    int64  `json:"owner_id"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
}

type notificationResponse struct {
	ID         int64  `json:"id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := h.schemas.decode(w, r, schemaUserCreate, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}
	user, err := h.svc.Users.Create(r.Context(), req.Username)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	user, err := h.svc.Users.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toUserResponse(user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.Users.Delete)
}

func (h *Handler) createSequence(w http.ResponseWriter, r *http.Request) {
	var req sequenceRequest
	if err := h.schemas.decode(w, r, schemaSequenceCreate, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}
	rec, err := h.svc.Sequences.Create(r.Context(), domain.SequenceRecord{
		ProteinSequence: req.ProteinSequence,
		DNASequence:     req.DNASequence,
		OwnerID:         req.OwnerID,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toSequenceResponse(rec))
}

func (h *Handler) getSequence(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.Sequences.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSequenceResponse(rec))
}

func (h *Handler) editSequence(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req sequenceRequest
	if err := h.schemas.decode(w, r, schemaSequenceEdit, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}
	rec, err := h.svc.Sequences.Edit(r.Context(), id, domain.SequenceEdit{
		ProteinSequence: req.ProteinSequence,
		DNASequence:     req.DNASequence,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSequenceResponse(rec))
}

func (h *Handler) deleteSequence(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.Sequences.Delete)
}

func (h *Handler) listSequences(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseListFilter(w, r)
	if !ok {
		return
	}
	records, err := h.svc.Sequences.List(r.Context(), filter)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	result := make([]sequenceResponse, 0, len(records))
	for _, rec := range records {
		result = append(result, toSequenceResponse(rec))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := h.schemas.decode(w, r, schemaDocumentCreate, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}
	doc, err := h.svc.Documents.Create(r.Context(), req.OwnerID, req.Body)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toDocumentResponse(doc))
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.Documents.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toDocumentResponse(doc))
}

func (h *Handler) editDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req documentRequest
	if err := h.schemas.decode(w, r, schemaNoteEdit, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}
	doc, err := h.svc.Documents.Edit(r.Context(), id, req.Body)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toDocumentResponse(doc))
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.Documents.Delete)
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseListFilter(w, r)
	if !ok {
		return
	}
	docs, err := h.svc.Documents.List(r.Context(), filter)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	result := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		result = append(result, toDocumentResponse(doc))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := h.schemas.decode(w, r, schemaCommentCreate, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}
	target := domain.Target{Type: domain.TargetType(req.TargetType), ID: req.TargetID}
	c, err := h.svc.Comments.Create(r.Context(), req.OwnerID, target, req.Body)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toCommentResponse(c))
}

func (h *Handler) getComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Comments.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCommentResponse(c))
}

func (h *Handler) editComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req commentRequest
	if err := h.schemas.decode(w, r, schemaNoteEdit, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}
	c, err := h.svc.Comments.Edit(r.Context(), id, req.Body)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCommentResponse(c))
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.Comments.Delete)
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseListFilter(w, r)
	if !ok {
		return
	}
	targetID, err := parseInt64Query(r, "target_id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "target_id must be integer")
		return
	}
	target := domain.Target{Type: domain.TargetType(r.URL.Query().Get("target_type")), ID: targetID}

	comments, err := h.svc.Comments.ListForTarget(r.Context(), target, filter)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	result := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		result = append(result, toCommentResponse(c))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) createNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := h.schemas.decode(w, r, schemaNotification, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}
	n, err := h.svc.Notifications.Create(r.Context(), domain.NotificationKind(req.Kind), req.Message)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toNotificationResponse(n))
}

func (h *Handler) getNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	n, err := h.svc.Notifications.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toNotificationResponse(n))
}

func (h *Handler) editNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req notificationRequest
	if err := h.schemas.decode(w, r, schemaNotification, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}
	n, err := h.svc.Notifications.Edit(r.Context(), id, domain.NotificationKind(req.Kind), req.Message)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toNotificationResponse(n))
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseListFilter(w, r)
	if !ok {
		return
	}
	items, err := h.svc.Notifications.List(r.Context(), filter)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	result := make([]notificationResponse, 0, len(items))
	for _, n := range items {
		result = append(result, toNotificationResponse(n))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, del func(context.Context, int64) (bool, error)) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := del(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"deleted": deleted})
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, CreatedAt: formatTime(u.CreatedAt)}
}

func toSequenceResponse(rec domain.SequenceRecord) sequenceResponse {
	return sequenceResponse{
		ID:              rec.ID,
		ProteinSequence: rec.ProteinSequence,
		DNASequence:     rec.DNASequence,
		OwnerID:         rec.OwnerID,
		CreatedAt:       formatTime(rec.CreatedAt),
		ModifiedAt:      formatTime(rec.ModifiedAt),
	}
}

func toDocumentResponse(d domain.Document) documentResponse {
	return documentResponse{
		ID:         d.ID,
		Body:       d.Body,
		OwnerID:    d.OwnerID,
		CreatedAt:  formatTime(d.CreatedAt),
		ModifiedAt: formatTime(d.ModifiedAt),
	}
}

func toCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{
		ID:         c.ID,
		Body:       c.Body,
		OwnerID:    c.OwnerID,
		TargetType: string(c.Target.Type),
		TargetID:   c.Target.ID,
		CreatedAt:  formatTime(c.CreatedAt),
		ModifiedAt: formatTime(c.ModifiedAt),
	}
}

func toNotificationResponse(n domain.Notification) notificationResponse {
	return notificationResponse{
		ID:         n.ID,
		Kind:       string(n.Kind),
		Message:    n.Message,
		CreatedAt:  formatTime(n.CreatedAt),
		ModifiedAt: formatTime(n.ModifiedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, domain.ErrInvalidID.Error())
		return 0, false
	}
	return id, true
}

func parseInt64Query(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parseListFilter(w http.ResponseWriter, r *http.Request) (domain.ListFilter, bool) {
	var filter domain.ListFilter
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "limit must be integer")
			return filter, false
		}
		filter.Limit = parsed
	}
	for name, dst := range map[string]*int64{"after": &filter.AfterID, "owner_id": &filter.OwnerID} {
		v, err := parseInt64Query(r, name)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("%s must be integer", name))
			return filter, false
		}
		*dst = v
	}
	return filter, true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("encode json response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		logger.FromContext(r.Context()).Warn().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, map[string]any{"error": message})
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var be *bodyError
	switch {
	case errors.As(err, &be):
		writeJSON(w, r, http.StatusBadRequest, map[string]any{
			"error":   "invalid json body",
			"code":    "invalid_body",
			"details": be.Details,
		})
	case errors.Is(err, errBodyTooLarge):
		writeError(w, r, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, domain.ErrInvalidFilter):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		if fe, ok := domain.AsFieldError(err); ok {
			writeJSON(w, r, http.StatusBadRequest, map[string]any{
				"error": fe.Message,
				"field": fe.Field,
				"code":  fe.Code,
			})
			return
		}
		logger.FromContext(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
