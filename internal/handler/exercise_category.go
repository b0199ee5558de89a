package handler

import (
	"net/http"

	"github.com/Mactto/weight-daily-log-api/internal/model"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
	"github.com/Mactto/weight-daily-log-api/internal/service"
)

// ExerciseCategoryHandler handles HTTP requests for exercise categories.
type ExerciseCategoryHandler struct {
	service *service.ExerciseCategoryService
}

func NewExerciseCategoryHandler(svc *service.ExerciseCategoryService) *ExerciseCategoryHandler {
	return &ExerciseCategoryHandler{service: svc}
}

func (h *ExerciseCategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
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

func (h *ExerciseCategoryHandler) HandleList(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
	resp, err := h.service.List(r.Context(), sc)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

func (h *ExerciseCategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
	var req model.ExerciseCategoryCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	resp, err := h.service.Create(r.Context(), sc, req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

func (h *ExerciseCategoryHandler) HandlePatch(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	var req model.ExerciseCategoryPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := rejectNulls(patchField{"name", req.Name}); err != nil {
		return err
	}

	resp, err := h.service.Patch(r.Context(), sc, id, req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

func (h *ExerciseCategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, _ model.AuthInfo) error {
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
