package handler

import (
	"net/http"

	"github.com/Mactto/weight-daily-log-api/internal/model"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
	"github.com/Mactto/weight-daily-log-api/internal/service"
)

const defaultLoginSort = "-created"

// AccountHandler handles HTTP requests for account profiles and login
// history.
type AccountHandler struct {
	service *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{service: svc}
}

// HandleGet handles GET /account requests. Without ?id= it returns the
// caller's own account.
func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, info model.AuthInfo) error {
	id, ok, err := queryUUID(r, "id")
	if err != nil {
		return err
	}
	if !ok {
		id = info.AccountID
	}

	resp, err := h.service.Get(r.Context(), sc, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

// HandleGetByUsername handles GET /account/by_username requests.
func (h *AccountHandler) HandleGetByUsername(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, info model.AuthInfo) error {
	username := r.URL.Query().Get("username")
	if username == "" {
		username = info.Username
	}

	resp, err := h.service.GetByUsername(r.Context(), sc, username)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

// HandlePatch handles PATCH /account requests.
func (h *AccountHandler) HandlePatch(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, info model.AuthInfo) error {
	var req model.AccountPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := rejectNulls(
		patchField{"fullname", req.Fullname},
		patchField{"introduction", req.Introduction},
	); err != nil {
		return err
	}

	resp, err := h.service.Patch(r.Context(), sc, info.AccountID, req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

// HandleGetLogin handles GET /account/login/{account_login_id} requests.
func (h *AccountHandler) HandleGetLogin(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, info model.AuthInfo) error {
	loginID, err := pathUUID(r, "account_login_id")
	if err != nil {
		return err
	}

	resp, err := h.service.GetLogin(r.Context(), sc, info.AccountID, loginID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

// HandleListLogins handles GET /account/login requests.
func (h *AccountHandler) HandleListLogins(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, info model.AuthInfo) error {
	paging, err := queryInts(r, "skip", "count")
	if err != nil {
		return err
	}

	req := model.AccountLoginListRequest{
		SortBy: r.URL.Query().Get("sort_by"),
		Skip:   paging[0],
		Count:  paging[1],
	}
	if req.SortBy == "" {
		req.SortBy = defaultLoginSort
	}
	if err := validateStruct(locQuery, &req); err != nil {
		return err
	}

	resp, err := h.service.ListLogins(r.Context(), sc, info.AccountID, req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}
