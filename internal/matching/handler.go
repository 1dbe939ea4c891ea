package matching

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/IbrahimToubeh/MediConnect-sub000/pkg/logging"
)

// ChatService is what the HTTP layer needs from the engine.
type ChatService interface {
	Chat(ctx context.Context, messages []ChatMessage, pctx PatientContext) ChatResponse
}

// Handler exposes the engine over HTTP.
type Handler struct {
	service ChatService
	logger  *logging.Logger
}

// ChatRequest is the wire shape of one chat turn.
type ChatRequest struct {
	Messages []ChatMessage  `json:"messages"`
	Context  PatientContext `json:"context"`
}

// NewHandler creates a chat handler.
func NewHandler(service ChatService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Chat handles POST /api/v1/chat. The engine never fails, so the only
// non-200 outcome is a body we cannot decode.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode chat request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp := h.service.Chat(r.Context(), req.Messages, req.Context)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
