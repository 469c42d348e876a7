package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dm9/collections-engine/internal/domain"
	"github.com/dm9/collections-engine/internal/service"
	customError "github.com/dm9/collections-engine/pkg/errors"
	"github.com/dm9/collections-engine/pkg/response"
)

type AlertHandler struct {
	service   *service.AlertService
	validator *validator.Validate
}

func NewAlertHandler(service *service.AlertService) *AlertHandler {
	return &AlertHandler{
		service:   service,
		validator: validator.New(),
	}
}

// ListAlerts handles GET /alerts with optional status and priority filters.
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	req := domain.ListAlertsRequest{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "invalid filter parameters", err)
		return
	}

	alerts, err := h.service.ListAlerts(r.Context(), req.Status, req.Priority)
	if err != nil {
		response.InternalServerError(w, "failed to list alerts", err)
		return
	}

	response.Success(w, alerts)
}

// AcknowledgeAlert handles PATCH /alerts/{alertId}/acknowledge.
func (h *AlertHandler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "alertId")
	if !ok {
		return
	}

	if err := h.service.AcknowledgeAlert(r.Context(), id); err != nil {
		writeAlertError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": domain.AlertStatusAcknowledged})
}

// ResolveAlert handles PATCH /alerts/{alertId}/resolve.
func (h *AlertHandler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "alertId")
	if !ok {
		return
	}

	if err := h.service.ResolveAlert(r.Context(), id); err != nil {
		writeAlertError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": domain.AlertStatusResolved})
}

func writeAlertError(w http.ResponseWriter, err error) {
	if errors.Is(err, customError.ErrAlertNotFound) {
		response.NotFound(w, err.Error())
		return
	}
	response.InternalServerError(w, "alert update failed", err)
}

func parseID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(w, "invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}
