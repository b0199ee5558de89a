package handler

import (
	"net/http"

	"github.com/Mactto/weight-daily-log-api/internal/middleware"
	"github.com/Mactto/weight-daily-log-api/internal/model"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
	"github.com/Mactto/weight-daily-log-api/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleSignup handles POST /auth/signup requests.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope) error {
	var req model.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	resp, err := h.service.Signup(r.Context(), sc, req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

// HandleLogin handles POST /auth/login requests. Credentials arrive as an
// urlencoded form.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return decodeViolation(err)
	}

	req := model.LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
		IPAddr:   middleware.ClientIP(r),
	}
	if err := validateStruct(locBody, &req); err != nil {
		return err
	}

	resp, err := h.service.Login(r.Context(), sc, req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}

// HandleLogout handles POST /auth/logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, info model.AuthInfo) error {
	resp, err := h.service.Logout(r.Context(), sc, info)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, resp)
}
