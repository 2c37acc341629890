// internal/app/features/uploads/routes.go
package uploads

import (
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/uploads router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.Require(authz.Uploads.Write))
	r.Post("/", h.Upload)
	r.Delete("/", h.Delete)
	return r
}
