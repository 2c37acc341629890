// internal/app/features/blog/routes.go
package blog

import (
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/blog router. Readers may comment and like without
// signing in; comments stay hidden until staff approve them.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	p := authz.Blog

	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Read))
		r.Get("/", h.List)
		r.Get("/slug/{slug}", h.GetBySlug)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/like", h.Like)
		r.Post("/{id}/comments", h.AddComment)
		r.Post("/{id}/comments/{commentId}/replies", h.AddReply)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.Require(p.Write))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
		r.Patch("/{id}/comments/{commentId}/approve", h.ApproveComment)
	})
	r.With(authz.Require(p.Delete)).Delete("/{id}", h.Delete)
	return r
}
