package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
	"github.com/Mactto/weight-daily-log-api/internal/crypto"
	"github.com/Mactto/weight-daily-log-api/internal/model"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
)

var errRevoked = errors.New("token has been revoked")

// RevocationChecker reports whether the login session behind a token was
// ended by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, accountLoginID uuid.UUID) (bool, error)
}

// AuthResolver turns the Authorization header into the caller's identity.
type AuthResolver struct {
	codec       *crypto.TokenCodec
	revocations RevocationChecker
}

// NewAuthResolver creates an AuthResolver verifying tokens with codec.
func NewAuthResolver(codec *crypto.TokenCodec) *AuthResolver {
	return &AuthResolver{codec: codec}
}

// WithRevocations makes Resolve reject tokens whose login was revoked.
func (a *AuthResolver) WithRevocations(rc RevocationChecker) *AuthResolver {
	a.revocations = rc
	return a
}

// Resolve validates a Bearer token from the Authorization header. A missing
// or non-Bearer header yields apperr.ErrUnauthorized.
func (a *AuthResolver) Resolve(r *http.Request) (model.AuthInfo, error) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return model.AuthInfo{}, apperr.ErrUnauthorized
	}

	info, err := a.codec.Verify(token)
	if err != nil {
		return model.AuthInfo{}, err
	}

	if a.revocations != nil {
		revoked, err := a.revocations.IsRevoked(r.Context(), info.AccountLoginID)
		if err != nil {
			return model.AuthInfo{}, fmt.Errorf("checking token revocation: %w", err)
		}
		if revoked {
			return model.AuthInfo{}, apperr.NewAuthError(apperr.InvalidAccessToken, errRevoked)
		}
	}

	return info, nil
}

// AuthedHandler is a ScopedHandler that also needs the caller's identity.
type AuthedHandler func(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope, info model.AuthInfo) error

// Authenticated resolves the caller before running fn.
func Authenticated(resolver *AuthResolver, fn AuthedHandler) ScopedHandler {
	return func(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope) error {
		info, err := resolver.Resolve(r)
		if err != nil {
			return err
		}
		return fn(w, r, sc, info)
	}
}
