package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SessionHandler struct {
	svc    *service.SessionService
	logger *zap.Logger
}

func NewSessionHandler(svc *service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, logger: logger}
}

type createSessionRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	// An empty body is a valid request for an unnamed session.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.svc.Create(r.Context(), req.ID, req.Name)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, sess.Metadata())
}

type listSessionsResponse struct {
	Sessions []domain.SessionMetadata `json:"sessions"`
	Total    int                      `json:"total"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, ok := queryInt(r, "offset")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	if limit == 0 {
		limit = service.DefaultSessionLimit
	}
	limit = min(limit, service.MaxSessionLimit)

	sessions, total, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, listSessionsResponse{
		Sessions: sessions,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, sess)
}

type renameSessionRequest struct {
	Name string `json:"name"`
}

func (h *SessionHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	sess, err := h.svc.Rename(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, sess.Metadata())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

type addMessageRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

func (h *SessionHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	var req addMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.AddMessage(r.Context(), chi.URLParam(r, "id"), req.Text, domain.ProcessingMode(req.Mode))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (h *SessionHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	msgs, err := h.svc.Messages(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if msgs == nil {
		msgs = []domain.SessionMessage{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"session_id": id, "messages": msgs})
}

func (h *SessionHandler) AccumulatedGraph(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.AccumulatedGraph(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, g)
}

func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Export(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("format"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}
