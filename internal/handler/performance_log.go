package handler

import (
	"net/http"

	"github.com/Mactto/weight-daily-log-api/internal/model"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
	"github.com/Mactto/weight-daily-log-api/internal/service"
)

// PerformanceLogHandler handles HTTP requests for performance logs.
type PerformanceLogHandler struct {
	service *service.PerformanceLogService
}

func NewPerformanceLogHandler(svc *service.PerformanceLogService) *PerformanceLogHandler {
	return &PerformanceLogHandler{service: svc}
}

func (h *PerformanceLogHandler) HandleGet(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	resp, err := h.service.Get(r.Context(), sc, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

func (h *PerformanceLogHandler) HandleList(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
	resp, err := h.service.List(r.Context(), sc)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

func (h *PerformanceLogHandler) HandleCreate(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
	var req model.PerformanceLogCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	resp, err := h.service.Create(r.Context(), sc, req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

// HandlePatch handles PATCH /performance/log/{id}. An explicit null is
// rejected instead of being treated as absent.
func (h *PerformanceLogHandler) HandlePatch(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	var req model.PerformanceLogPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := rejectNulls(
		patchField{"count", req.Count},
		patchField{"weight", req.Weight},
	); err != nil {
		return err
	}

	resp, err := h.service.Patch(r.Context(), sc, id, req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

func (h *PerformanceLogHandler) HandleDelete(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	resp, err := h.service.Delete(r.Context(), sc, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}
