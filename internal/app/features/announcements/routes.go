// internal/app/features/announcements/routes.go
package announcements

import (
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/announcements router. The live feed and click
// tracking are public; views and dismissals belong to a signed-in user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	p := authz.Announcement

	r.Get("/active", h.Active)
	r.Post("/{id}/click", h.Click)
	r.Group(func(r chi.Router) {
		r.Use(authz.Require(authz.SignedIn))
		r.Post("/{id}/view", h.View)
		r.Post("/{id}/dismiss", h.Dismiss)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Read))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Write))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
	})
	r.With(authz.Require(p.Delete)).Delete("/{id}", h.Delete)
	return r
}
