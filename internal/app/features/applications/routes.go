// internal/app/features/applications/routes.go
package applications

import (
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns an applications router (/api/job-applications or
// /api/internship-applications). Anyone may apply; reviewing is for
// recruiters and deleting for admins.
func Routes[A any, P submission[A]](h *Handler[A, P]) chi.Router {
	r := chi.NewRouter()
	p := authz.Applications

	r.Post("/", h.Create)
	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Read))
		r.Get("/", h.List)
		r.Get("/export", h.Export)
		r.Get("/{id}", h.Get)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Write))
		r.Patch("/{id}/status", h.SetStatus)
		r.Patch("/{id}/rating", h.Rate)
		r.Post("/{id}/notes", h.AddNote)
		r.Post("/{id}/interview", h.ScheduleInterview)
	})
	r.With(authz.Require(p.Delete)).Delete("/{id}", h.Delete)
	return r
}
