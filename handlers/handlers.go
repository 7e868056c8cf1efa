package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/taita-blog/admin-gateway/app"
	"github.com/taita-blog/admin-gateway/middleware"
)

// NewRouter builds the gateway's HTTP router: health endpoints, session
// flows, the navigation decision endpoint, and the blog listing proxy.
// Every /api route runs behind request ID and session attachment.
func NewRouter(deps *app.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)

	healthHandler := NewHealthHandler(deps.DB, deps.Logger)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	authHandler := NewAuthHandler(deps.APIClient, deps.Captcha, deps.Config.Auth.CaptchaEnabled, deps.Guard, deps.Logger)
	navHandler := NewNavigationHandler(deps.Guard, deps.Table, deps.Logger)
	blogsHandler := NewBlogsHandler(deps.APIClient, deps.TenantLookup, deps.Logger)
	captchaHandler := NewCaptchaHandler(deps.Captcha, deps.Logger)

	r.Route("/api", func(api chi.Router) {
		api.Use(deps.SessionMiddleware.Attach)

		api.Get("/captcha", captchaHandler.HandleGenerate)

		api.Route("/session", func(s chi.Router) {
			s.Post("/login", authHandler.HandleLogin)
			s.Post("/logout", authHandler.HandleLogout)
			s.Get("/", authHandler.HandleSession)
			s.Post("/tenant", authHandler.HandleSelectTenant)
		})

		api.Get("/navigation/decision", navHandler.HandleDecision)

		// The selection screens need the listing; the guard itself decides
		// whether the user belongs there.
		api.With(deps.GuardMiddleware.RequireSelection()).
			Get("/blogs", blogsHandler.HandleList)
	})

	return r
}
