package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Mactto/weight-daily-log-api/internal/middleware"
	"github.com/Mactto/weight-daily-log-api/internal/service"
)

// Services are the business operations exposed over HTTP.
type Services struct {
	Auth             *service.AuthService
	Account          *service.AccountService
	DailyLog         *service.DailyLogService
	ExerciseCategory *service.ExerciseCategoryService
	PerformanceLog   *service.PerformanceLogService
}

// RouterOptions configures the cross-cutting parts of the router.
type RouterOptions struct {
	Log      *zap.Logger
	Boundary *middleware.Boundary
	Resolver *middleware.AuthResolver

	AllowCORSAllOrigin bool
	// AuthRateLimit wraps the unauthenticated /auth routes when set.
	AuthRateLimit func(http.Handler) http.Handler
	// LogoutEnabled registers /auth/logout. It requires a revocation store.
	LogoutEnabled bool
}

// NewRouter builds the full route table.
func NewRouter(opts RouterOptions, svc Services) http.Handler {
	authH := NewAuthHandler(svc.Auth)
	accountH := NewAccountHandler(svc.Account)
	dailyLogH := NewDailyLogHandler(svc.DailyLog)
	categoryH := NewExerciseCategoryHandler(svc.ExerciseCategory)
	performanceH := NewPerformanceLogHandler(svc.PerformanceLog)

	handle := opts.Boundary.Handle
	authed := func(fn middleware.AuthedHandler) http.HandlerFunc {
		return handle(middleware.Authenticated(opts.Resolver, fn))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(opts.Log))
	r.Use(middleware.CORS(opts.AllowCORSAllOrigin))

	r.Get("/_ping", handle(HandlePing))

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.AuthRateLimit != nil {
				r.Use(opts.AuthRateLimit)
			}
			r.Post("/signup", handle(authH.HandleSignup))
			r.Post("/login", handle(authH.HandleLogin))
		})
		if opts.LogoutEnabled {
			r.Post("/logout", authed(authH.HandleLogout))
		}
	})

	r.Route("/account", func(r chi.Router) {
		r.Get("/", authed(accountH.HandleGet))
		r.Patch("/", authed(accountH.HandlePatch))
		r.Get("/by_username", authed(accountH.HandleGetByUsername))
		r.Get("/login", authed(accountH.HandleListLogins))
		r.Get("/login/{account_login_id}", authed(accountH.HandleGetLogin))
	})

	r.Route("/daily/log", func(r chi.Router) {
		r.Get("/", authed(dailyLogH.HandleList))
		r.Post("/", authed(dailyLogH.HandleCreate))
		r.Get("/today", authed(dailyLogH.HandleToday))
		r.Delete("/{id}", authed(dailyLogH.HandleDelete))
	})

	r.Route("/exercise/category", func(r chi.Router) {
		r.Get("/", authed(categoryH.HandleList))
		r.Post("/", authed(categoryH.HandleCreate))
		r.Get("/{id}", authed(categoryH.HandleGet))
		r.Patch("/{id}", authed(categoryH.HandlePatch))
		r.Delete("/{id}", authed(categoryH.HandleDelete))
	})

	r.Route("/performance/log", func(r chi.Router) {
		r.Get("/", authed(performanceH.HandleList))
		r.Post("/", authed(performanceH.HandleCreate))
		r.Get("/{id}", authed(performanceH.HandleGet))
		r.Patch("/{id}", authed(performanceH.HandlePatch))
		r.Delete("/{id}", authed(performanceH.HandleDelete))
	})

	return r
}
