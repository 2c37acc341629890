// internal/app/features/content/routes.go
package content

import (
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/content router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	p := authz.Content

	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Read))
		r.Get("/", h.All)
		r.Get("/{section}", h.Section)
	})
	r.With(authz.Require(authz.Roles{models.RoleAdmin})).Post("/reset", h.Reset)
	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Write))
		r.Put("/{section}", h.Update)
		r.Patch("/{section}", h.Update)
	})
	r.With(authz.Require(p.Delete)).Delete("/{section}/{key}", h.DeleteKey)
	return r
}
