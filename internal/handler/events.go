package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vaultpass/passforge/internal/middleware"
	"github.com/vaultpass/passforge/internal/service"
)

// EventsHandler serves generation audit events to operators.
type EventsHandler struct {
	service *service.AuditService
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(svc *service.AuditService) *EventsHandler {
	return &EventsHandler{service: svc}
}

// HandleListEvents handles GET /api/v1/events requests.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.OperatorFromContext(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid limit"))
			return
		}
		limit = n
	}

	events, err := h.service.ListEvents(r.Context(), limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLimitOutOfRange):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// HandleEntropyFailures handles GET /api/v1/events/entropy-failures requests.
// The optional since parameter is RFC 3339; it defaults to 24 hours ago.
func (h *EventsHandler) HandleEntropyFailures(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.OperatorFromContext(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid since timestamp"))
			return
		}
		since = t
	}

	resp, err := h.service.EntropyFailures(r.Context(), since)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
