// internal/app/features/jobs/routes.go
package jobs

import (
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/jobs router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	p := authz.Postings

	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Read))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})
	r.With(authz.Require(authz.Applications.Read)).Get("/{id}/applications", h.Applications.ListForPosting)
	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Write))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
	})
	r.With(authz.Require(p.Delete)).Delete("/{id}", h.Delete)
	return r
}
