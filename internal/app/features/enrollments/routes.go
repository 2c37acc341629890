// internal/app/features/enrollments/routes.go
package enrollments

import (
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/enrollments router. Every route needs a signed-in
// user; ownership checks happen in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	p := authz.Enrollments

	r.Group(func(r chi.Router) {
		r.Use(authz.Require(authz.SignedIn))
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}/progress", h.UpdateProgress)
		r.Patch("/{id}/status", h.SetStatus)
		r.Post("/{id}/feedback", h.SubmitFeedback)
		r.Post("/{id}/certificate", h.IssueCertificate)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Write))
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
	})
	r.With(authz.Require(p.Delete)).Delete("/{id}", h.Delete)
	return r
}
