package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	svc    *service.AnalysisService
	logger *zap.Logger
}

func NewDocumentHandler(svc *service.AnalysisService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, logger: logger}
}

type createDocumentRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Lang string `json:"lang"`
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	doc, err := h.svc.CreateDocument(r.Context(), req.ID, req.Text, req.Lang)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteDocument(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

func (h *DocumentHandler) Graph(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.GetGraph(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, g)
}

func (h *DocumentHandler) Logic(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Logic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

type analyzeRequest struct {
	DocID   string `json:"docId"`
	Options struct {
		ProcessingMode string `json:"processing_mode"`
		MaxDiagnostics int    `json:"maxDiagnostics"`
	} `json:"options"`
}

func (h *DocumentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DocID == "" {
		writeError(w, http.StatusBadRequest, "docId is required")
		return
	}

	res, err := h.svc.Analyze(r.Context(), req.DocID, service.AnalyzeOptions{
		Mode:           domain.ProcessingMode(req.Options.ProcessingMode),
		MaxDiagnostics: req.Options.MaxDiagnostics,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}
