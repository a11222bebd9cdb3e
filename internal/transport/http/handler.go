// Package httptransport is the thin HTTP layer receiving platform-pushed
// updates. It delegates to the dispatcher without embedding business logic
// so transport concerns remain isolated.
package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gatekeeper/internal/gate/models"
	"gatekeeper/internal/platform/middleware"
	"gatekeeper/internal/telegram"
)

// Dispatcher routes translated events to gate components.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev models.Event) error
}

// Handler serves the webhook endpoint.
type Handler struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewHandler builds the webhook handler.
func NewHandler(dispatcher Dispatcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{dispatcher: dispatcher, logger: logger}
}

// handleLiveness answers health probes.
func (h *Handler) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Bot is running"})
}

// handleListening answers any unexpected method with a generic indicator,
// mirroring the platform's lenient webhook contract.
func (h *Handler) handleListening(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Listening for bot events"})
}

// handleUpdate parses and dispatches one pushed update.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var upd tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.logger.ErrorContext(ctx, "update decode failed",
			"error", err,
			"request_id", requestID,
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	ev, ok := telegram.EventFromUpdate(upd)
	if !ok {
		// Update shapes outside the gate's interest are acknowledged so the
		// platform does not redeliver them.
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if err := h.dispatcher.Dispatch(ctx, ev); err != nil {
		h.logger.ErrorContext(ctx, "dispatch failed",
			"error", err,
			"kind", ev.Kind,
			"request_id", requestID,
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
