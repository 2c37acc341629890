// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/dashboard router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.Require(authz.Dashboard.Read))
	r.Get("/stats", h.Stats)
	r.Get("/analytics", h.Analytics)
	return r
}
