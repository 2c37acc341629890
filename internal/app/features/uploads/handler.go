// internal/app/features/uploads/handler.go
package uploads

import (
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// Handler stores uploaded images through the configured storage backend.
type Handler struct {
	Storage storage.Store
	Audit   *auditlog.Logger
	Log     *zap.Logger
	now     func() time.Time
}

func NewHandler(store storage.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Storage: store, Audit: audit, Log: logger, now: time.Now}
}
