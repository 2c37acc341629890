// internal/app/features/settings/handler.go
package settings

import (
	settingsstore "github.com/dalemusser/careerhub/internal/app/store/settings"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the site settings file.
type Handler struct {
	Store *settingsstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

func NewHandler(path string, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Store: settingsstore.New(path), Audit: audit, Log: logger}
}
