package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/dm9/collections-engine/internal/domain"
	"github.com/dm9/collections-engine/internal/service"
	customError "github.com/dm9/collections-engine/pkg/errors"
	"github.com/dm9/collections-engine/pkg/response"
)

type ChecksHandler struct {
	service *service.AlertService
}

func NewChecksHandler(service *service.AlertService) *ChecksHandler {
	return &ChecksHandler{service: service}
}

// RunChecks handles POST /checks/run, the manual administrative trigger.
// The caller gets coarse success; suppressed duplicates and skipped items
// are visible only in logs.
func (h *ChecksHandler) RunChecks(w http.ResponseWriter, r *http.Request) {
	// The run must finish even if the caller disconnects; only the
	// per-evaluator timeouts bound it.
	err := h.service.RunDailyChecks(context.WithoutCancel(r.Context()))
	if err != nil {
		if errors.Is(err, customError.ErrRunInProgress) {
			response.Conflict(w, "daily checks already running", err)
			return
		}
		response.InternalServerError(w, "daily checks failed", err)
		return
	}

	response.Success(w, domain.RunChecksResponse{
		Started: true,
		Message: "daily checks completed",
	})
}
