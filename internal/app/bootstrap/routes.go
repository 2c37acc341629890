// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	announcementsfeature "github.com/dalemusser/careerhub/internal/app/features/announcements"
	applicationsfeature "github.com/dalemusser/careerhub/internal/app/features/applications"
	auditlogfeature "github.com/dalemusser/careerhub/internal/app/features/auditlog"
	authgooglefeature "github.com/dalemusser/careerhub/internal/app/features/authgoogle"
	blogfeature "github.com/dalemusser/careerhub/internal/app/features/blog"
	contentfeature "github.com/dalemusser/careerhub/internal/app/features/content"
	dashboardfeature "github.com/dalemusser/careerhub/internal/app/features/dashboard"
	enrollmentsfeature "github.com/dalemusser/careerhub/internal/app/features/enrollments"
	healthfeature "github.com/dalemusser/careerhub/internal/app/features/health"
	internshipsfeature "github.com/dalemusser/careerhub/internal/app/features/internships"
	jobsfeature "github.com/dalemusser/careerhub/internal/app/features/jobs"
	loginfeature "github.com/dalemusser/careerhub/internal/app/features/login"
	productsfeature "github.com/dalemusser/careerhub/internal/app/features/products"
	profilefeature "github.com/dalemusser/careerhub/internal/app/features/profile"
	settingsfeature "github.com/dalemusser/careerhub/internal/app/features/settings"
	teammembersfeature "github.com/dalemusser/careerhub/internal/app/features/teammembers"
	trainingsfeature "github.com/dalemusser/careerhub/internal/app/features/trainings"
	uploadsfeature "github.com/dalemusser/careerhub/internal/app/features/uploads"
	usersfeature "github.com/dalemusser/careerhub/internal/app/features/users"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/logging"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed.
//
// CareerHub applies request logging, panic recovery, CORS and the session
// middleware globally, then mounts one JSON router per resource under /api.
// Unknown routes and wrong verbs answer with the standard error envelope.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	sessionMgr, err := auth.NewSessionManager(auth.Config{
		SessionKey:  appCfg.SessionKey,
		SessionName: appCfg.SessionName,
		Domain:      appCfg.SessionDomain,
		TTL:         appCfg.JWTTTL,
		Secure:      coreCfg.Env == "prod",
		JWTSecret:   appCfg.JWTSecret,
		JWTIssuer:   appCfg.JWTIssuer,
	}, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Re-read the user on each request so role changes and deactivation
	// take effect immediately.
	db := deps.MongoDatabase
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(logging.Recoverer(logger))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))
	r.Use(sessionMgr.LoadSessionUser)

	r.NotFound(respond.NotFound)
	r.MethodNotAllowed(respond.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded files on local disk
	if appCfg.StorageType == "local" && appCfg.StorageLocalURL != "" {
		prefix := "/" + strings.Trim(appCfg.StorageLocalURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.StorageLocalPath))
	}

	// Google sign-in is served outside /api so the callback URL stays stable.
	googleHandler := authgooglefeature.NewHandler(db, sessionMgr, auditLog,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, appCfg.AppURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	r.Route("/api", func(api chi.Router) {
		loginHandler := loginfeature.NewHandler(db, sessionMgr, deps.LoginLimiter, auditLog, logger)
		api.Mount("/auth", loginfeature.Routes(loginHandler))

		api.Mount("/profile", profilefeature.Routes(profilefeature.NewHandler(db, auditLog, logger)))
		api.Mount("/users", usersfeature.Routes(usersfeature.NewHandler(db, auditLog, logger)))

		// Catalog
		api.Mount("/trainings", trainingsfeature.Routes(trainingsfeature.NewHandler(db, auditLog, logger)))
		api.Mount("/enrollments", enrollmentsfeature.Routes(enrollmentsfeature.NewHandler(db, auditLog, logger)))
		api.Mount("/products", productsfeature.Routes(productsfeature.NewHandler(db, auditLog, logger)))

		// Publishing
		api.Mount("/blog", blogfeature.Routes(blogfeature.NewHandler(db, auditLog, logger)))
		api.Mount("/announcements", announcementsfeature.Routes(announcementsfeature.NewHandler(db, auditLog, logger)))
		api.Mount("/team-members", teammembersfeature.Routes(teammembersfeature.NewHandler(db, auditLog, logger)))

		// Recruiting
		api.Mount("/jobs", jobsfeature.Routes(jobsfeature.NewHandler(db, auditLog, logger)))
		api.Mount("/internships", internshipsfeature.Routes(internshipsfeature.NewHandler(db, auditLog, logger)))
		api.Mount("/job-applications", applicationsfeature.Routes(applicationsfeature.NewJobs(db, auditLog, logger)))
		api.Mount("/internship-applications", applicationsfeature.Routes(applicationsfeature.NewInternships(db, auditLog, logger)))

		// Site administration
		api.Mount("/dashboard", dashboardfeature.Routes(dashboardfeature.NewHandler(db, logger)))
		api.Mount("/settings", settingsfeature.Routes(settingsfeature.NewHandler(appCfg.SettingsPath, auditLog, logger)))
		api.Mount("/content", contentfeature.Routes(contentfeature.NewHandler(db, deps.Cache, appCfg.ContentCacheTTL, auditLog, logger)))
		api.Mount("/uploads", uploadsfeature.Routes(uploadsfeature.NewHandler(deps.Storage, auditLog, logger)))
		api.Mount("/audit", auditlogfeature.Routes(auditlogfeature.NewHandler(db, logger)))
	})

	return r, nil
}
