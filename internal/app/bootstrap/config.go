// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const minSecretLen = 32

// appConfigKeys defines the configuration keys for CareerHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CAREERHUB_MONGO_URI, CAREERHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "careerhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Content cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the content cache (blank disables caching)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "content_cache_ttl", Default: "10m", Desc: "TTL of cached website content sections"},

	// Sessions and tokens
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "careerhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "jwt_secret", Default: "", Desc: "Bearer token signing secret (blank reuses session_key)"},
	{Name: "jwt_issuer", Default: "careerhub", Desc: "Bearer token issuer"},
	{Name: "jwt_ttl", Default: "24h", Desc: "Lifetime of sessions and bearer tokens"},

	// File storage
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 'memory'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	{Name: "settings_path", Default: "./data/settings.json", Desc: "Site settings JSON file"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public origin of this API (OAuth callbacks)"},
	{Name: "app_url", Default: "http://localhost:3000", Desc: "Frontend origin that receives OAuth redirects"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "posting_sweep_interval", Default: "15m", Desc: "How often job/internship statuses are swept (0 disables)"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap admin (created or promoted on startup)"},
	{Name: "admin_password", Default: "", Desc: "Password for a newly created bootstrap admin"},

	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts allowed per IP+email per window"},
	{Name: "login_rate_window", Default: "5m", Desc: "Login rate limit window"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig reads .env files, config files,
// environment variables (WAFFLE_* for core, CAREERHUB_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CAREERHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RedisAddr:       appValues.String("redis_addr"),
		RedisPassword:   appValues.String("redis_password"),
		RedisDB:         appValues.Int("redis_db"),
		ContentCacheTTL: appValues.Duration("content_cache_ttl", 10*time.Minute),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		JWTSecret:     appValues.String("jwt_secret"),
		JWTIssuer:     appValues.String("jwt_issuer"),
		JWTTTL:        appValues.Duration("jwt_ttl", 24*time.Hour),

		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		SettingsPath: appValues.String("settings_path"),

		BaseURL: appValues.String("base_url"),
		AppURL:  appValues.String("app_url"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		PostingSweepInterval: appValues.Duration("posting_sweep_interval", 15*time.Minute),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),

		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", 5*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked before any connection is attempted.
// Production additionally requires strong signing secrets.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.StorageType {
	case "local", "memory":
	default:
		return fmt.Errorf("storage_type must be 'local' or 'memory', got %q", appCfg.StorageType)
	}

	for name, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		switch v {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", name, v)
		}
	}

	if (appCfg.AdminEmail == "") != (appCfg.AdminPassword == "") {
		logger.Warn("admin bootstrap needs both admin_email and admin_password; skipping")
	}

	if coreCfg.Env == "prod" {
		if len(appCfg.SessionKey) < minSecretLen {
			return fmt.Errorf("session_key must be at least %d characters in production", minSecretLen)
		}
		if appCfg.JWTSecret != "" && len(appCfg.JWTSecret) < minSecretLen {
			return fmt.Errorf("jwt_secret must be at least %d characters in production", minSecretLen)
		}
	}

	return nil
}
