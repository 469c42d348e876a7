package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dm9/collections-engine/internal/domain"
	"github.com/dm9/collections-engine/internal/service"
	customError "github.com/dm9/collections-engine/pkg/errors"
	"github.com/dm9/collections-engine/pkg/response"
)

type EscalationHandler struct {
	service   *service.AlertService
	validator *validator.Validate
}

func NewEscalationHandler(service *service.AlertService) *EscalationHandler {
	return &EscalationHandler{
		service:   service,
		validator: validator.New(),
	}
}

// ListEscalations handles GET /escalations with optional status and priority filters.
func (h *EscalationHandler) ListEscalations(w http.ResponseWriter, r *http.Request) {
	req := domain.ListEscalationsRequest{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "invalid filter parameters", err)
		return
	}

	escalations, err := h.service.ListEscalations(r.Context(), req.Status, req.Priority)
	if err != nil {
		response.InternalServerError(w, "failed to list escalations", err)
		return
	}

	response.Success(w, escalations)
}

// AcknowledgeEscalation handles PATCH /escalations/{escalationId}/acknowledge.
func (h *EscalationHandler) AcknowledgeEscalation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "escalationId")
	if !ok {
		return
	}

	if err := h.service.AcknowledgeEscalation(r.Context(), id); err != nil {
		writeEscalationError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": domain.EscalationStatusAcknowledged})
}

// ResolveEscalation handles PATCH /escalations/{escalationId}/resolve.
// Resolution notes are required.
func (h *EscalationHandler) ResolveEscalation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "escalationId")
	if !ok {
		return
	}

	var req domain.ResolveEscalationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "resolution notes are required", err)
		return
	}

	if err := h.service.ResolveEscalation(r.Context(), id, req.Notes); err != nil {
		writeEscalationError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": domain.EscalationStatusResolved})
}

func writeEscalationError(w http.ResponseWriter, err error) {
	if errors.Is(err, customError.ErrEscalationNotFound) {
		response.NotFound(w, err.Error())
		return
	}
	response.InternalServerError(w, "escalation update failed", err)
}
