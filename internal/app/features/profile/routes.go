// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/profile router. Every route needs a signed-in user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.Require(authz.SignedIn))
	r.Get("/", h.Get)
	r.Patch("/", h.Update)
	r.Put("/password", h.ChangePassword)
	return r
}
