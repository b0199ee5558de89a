package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"syscall"

	"go.uber.org/zap"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
)

// ScopedHandler is an HTTP handler that receives the request scope and
// reports failures by returning them.
type ScopedHandler func(w http.ResponseWriter, r *http.Request, sc *reqctx.Scope) error

// Envelope is the body of every error response.
type Envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  any    `json:"detail"`
}

var kindStatus = [...]int{
	apperr.KindUnauthorized: http.StatusUnauthorized,
	apperr.KindAuth:         http.StatusForbidden,
	apperr.KindLogic:        http.StatusConflict,
	apperr.KindValidation:   http.StatusUnprocessableEntity,
	apperr.KindServer:       http.StatusInternalServerError,
}

// Fails to compile unless kindStatus has exactly one entry per apperr.Kind.
var _ = [1]struct{}{}[len(kindStatus)-int(apperr.NumKinds)]

// Translate maps err to the HTTP status and the body sent to the client.
func Translate(err error) (int, Envelope) {
	kind := apperr.KindOf(err)

	var env Envelope
	switch kind {
	case apperr.KindUnauthorized:
		env = Envelope{Code: "Unauthorized", Message: "Not authenticated"}
	case apperr.KindAuth:
		var e *apperr.AuthError
		errors.As(err, &e)
		env = Envelope{Code: e.Code.String(), Message: e.Code.Desc(), Detail: detail(e.Detail)}
	case apperr.KindLogic:
		var e *apperr.LogicError
		errors.As(err, &e)
		env = Envelope{Code: e.Code.String(), Message: e.Code.Desc(), Detail: detail(e.Detail)}
	case apperr.KindValidation:
		var e *apperr.ValidationError
		errors.As(err, &e)
		violations := e.Violations
		if violations == nil {
			violations = []apperr.Violation{}
		}
		env = Envelope{Code: "unprocessable_entity", Message: e.Error(), Detail: violations}
	default:
		env = Envelope{Code: "server_error", Message: "unexpected server error"}
	}

	return kindStatus[kind], env
}

func detail(d apperr.Detail) any {
	if d == nil {
		return nil
	}
	return d
}

// Boundary is the single point where handler errors become HTTP responses.
type Boundary struct {
	factory *reqctx.Factory
}

// NewBoundary creates a Boundary binding scopes from factory.
func NewBoundary(factory *reqctx.Factory) *Boundary {
	return &Boundary{factory: factory}
}

// Handle adapts h into an http.HandlerFunc. A scope is bound for the duration
// of the request and released after any error response has been written.
func (b *Boundary) Handle(h ScopedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tw := wrapWriter(w)

		sc := b.factory.Bind(r.Context())
		defer b.factory.Unbind(sc)

		if err := runRecovered(h, tw, r, sc); err != nil {
			b.fail(tw, r, sc, err)
		}
	}
}

func runRecovered(h ScopedHandler, w http.ResponseWriter, r *http.Request, sc *reqctx.Scope) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if p == http.ErrAbortHandler {
				panic(p)
			}
			err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()
	return h(w, r, sc)
}

func (b *Boundary) fail(w *trackingWriter, r *http.Request, sc *reqctx.Scope, err error) {
	log := sc.Log().With(zap.String("method", r.Method), zap.String("path", r.URL.Path))

	if isClientGone(r, err) {
		log.Debug("client disconnected", zap.Error(err))
		return
	}

	status, env := Translate(err)

	if w.Started() {
		log.Warn("error after response started", zap.Int("status", w.Status()), zap.Error(err))
		return
	}

	if status == http.StatusInternalServerError {
		log.Error("unexpected server error", zap.Error(err))
	} else {
		log.Debug("request failed", zap.Int("status", status), zap.String("code", env.Code))
	}

	writeJSON(w, status, env)
}

func isClientGone(r *http.Request, err error) bool {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		return true
	}
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, net.ErrClosed)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
