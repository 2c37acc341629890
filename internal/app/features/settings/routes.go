// internal/app/features/settings/routes.go
package settings

import (
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/settings router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	p := authz.Settings
	r.With(authz.Require(p.Read)).Get("/", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Write))
		r.Put("/", h.Update)
		r.Patch("/", h.Update)
	})
	return r
}
