// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, log level, CORS, body limits, DB
// connect timeout); everything CareerHub-specific lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Redis backs the website content cache. Blank RedisAddr disables caching.
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ContentCacheTTL time.Duration

	// Session and bearer token configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: careerhub-session)
	SessionDomain string // Cookie domain (blank means current host)
	JWTSecret     string // HS256 secret for bearer tokens (falls back to SessionKey)
	JWTIssuer     string
	JWTTTL        time.Duration

	// File storage configuration
	StorageType      string // Storage backend: "local" or "memory"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// SettingsPath is the JSON file holding site settings.
	SettingsPath string

	// BaseURL is this server's public origin (OAuth callback); AppURL is the
	// frontend origin users land on after Google sign-in.
	BaseURL string
	AppURL  string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Audit logging destinations: all, db, log, off
	AuditLogAuth  string
	AuditLogAdmin string

	// Background posting status sweep
	PostingSweepInterval time.Duration

	// Admin bootstrap (created or promoted on startup when both are set)
	AdminEmail    string
	AdminPassword string

	// Login throttling per client IP + email
	LoginRateLimit  int
	LoginRateWindow time.Duration
}
