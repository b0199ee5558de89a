package handler

import (
	"net/http"

	"github.com/Mactto/weight-daily-log-api/internal/model"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
	"github.com/Mactto/weight-daily-log-api/internal/service"
)

// DailyLogHandler handles HTTP requests for daily logs.
type DailyLogHandler struct {
	service *service.DailyLogService
}

// NewDailyLogHandler creates a new DailyLogHandler.
func NewDailyLogHandler(svc *service.DailyLogService) *DailyLogHandler {
	return &DailyLogHandler{service: svc}
}

// HandleList handles GET /daily/log requests.
func (h *DailyLogHandler) HandleList(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
	resp, err := h.service.List(r.Context(), sc)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

// HandleToday handles GET /daily/log/today requests.
func (h *DailyLogHandler) HandleToday(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
	resp, err := h.service.Today(r.Context(), sc)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /daily/log requests.
func (h *DailyLogHandler) HandleCreate(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
	resp, err := h.service.Create(r.Context(), sc)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /daily/log/{id} requests.
func (h *DailyLogHandler) HandleDelete(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
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
