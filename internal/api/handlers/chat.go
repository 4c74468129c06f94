package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/lide/internal/service"
	"go.uber.org/zap"
)

// ChatHandler fronts the interceptor for agent integrations.
type ChatHandler struct {
	svc    *service.Interceptor
	logger *zap.Logger
}

func NewChatHandler(svc *service.Interceptor, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

type chatMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reply, err := h.svc.HandleMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, reply)
}
