package api

import (
	"github.com/go-chi/chi/v5"

	"taskflask/internal/domain"
	"taskflask/internal/middleware"
)

// NewRouter assembles the route tree. Each route declares its ordered
// guard list; the chain short-circuits on the first rejection.
func NewRouter(guard *middleware.Guard, auth *AuthHandler, core *CoreHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Get("/healthz", core.Health)

	r.Post("/auth/login", auth.Login)
	r.Post("/client-portal/auth/login", auth.ClientLogin)

	r.Group(func(r chi.Router) {
		r.Use(guard.Authenticate)
		r.Get("/me", core.Me)
	})

	r.Route("/orgs/{orgID}", func(r chi.Router) {
		r.Use(guard.Authenticate)
		r.Use(guard.RequireOrganizationAccess)

		r.With(guard.RequireOrganizationAdmin).
			Get("/settings", core.OrgSettings)

		r.With(
			guard.RequirePermission("analytics.view"),
			guard.RequireFeature("analytics"),
		).Get("/analytics/summary", core.Analytics)

		r.With(guard.RequireResourceOwnership(domain.ResourceTask)).
			Get("/tasks/{taskID}", core.Task)
	})

	r.Route("/client-portal/tickets", func(r chi.Router) {
		r.Use(guard.AuthenticateClient)
		r.With(guard.RequireClientResourceOwnership(domain.ResourceTask)).
			Get("/{taskID}", core.ClientTicket)
	})

	return r
}
