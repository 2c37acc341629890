// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/audit router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.Require(authz.AuditLog.Read))
	r.Get("/", h.List)
	return r
}
