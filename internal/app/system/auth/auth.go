// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	DefaultSessionName = "careerhub-session"

	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	userName  = "user_name"
	userEmail = "user_email"
	userRole  = "user_role"
)

// SessionUser is what we cache in the session and inject into r.Context().
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserFetcher reloads a user by id so role changes and deactivation apply
// to existing sessions. It returns nil, nil when the user is missing or
// inactive.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, id string) (*SessionUser, error)
}

// Config configures a SessionManager.
type Config struct {
	SessionKey  string
	SessionName string
	Domain      string
	TTL         time.Duration
	Secure      bool

	JWTSecret string
	JWTIssuer string
}

// SessionManager resolves requests to users from a bearer token or the
// signed session cookie.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	tokens  *TokenIssuer
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager builds the cookie store and token issuer.
func NewSessionManager(cfg Config, logger *zap.Logger) (*SessionManager, error) {
	if cfg.SessionKey == "" {
		return nil, errors.New("session key is empty; provide ≥32 random chars")
	}
	if len(cfg.SessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(cfg.SessionKey)))
	}
	if cfg.SessionName == "" {
		cfg.SessionName = DefaultSessionName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	secret := cfg.JWTSecret
	if secret == "" {
		secret = cfg.SessionKey
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionKey))
	store.Options = &sessions.Options{
		Domain:   cfg.Domain,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.Bool("secure", cfg.Secure),
		zap.String("domain", cfg.Domain))

	return &SessionManager{
		store:  store,
		name:   cfg.SessionName,
		tokens: NewTokenIssuer(secret, cfg.JWTIssuer, cfg.TTL),
		log:    logger,
	}, nil
}

// SetUserFetcher installs the fetcher used to refresh session users.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// Tokens returns the bearer token issuer.
func (sm *SessionManager) Tokens() *TokenIssuer { return sm.tokens }

// SignIn writes the session cookie for u and returns a bearer token for
// API clients.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) (string, time.Time, error) {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userName] = u.Name
	sess.Values[userEmail] = u.Email
	sess.Values[userRole] = u.Role
	if err := sess.Save(r, w); err != nil {
		return "", time.Time{}, fmt.Errorf("save session: %w", err)
	}
	return sm.tokens.Issue(u)
}

// SignOut expires the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSessionUser injects the user into context when the request carries a
// valid bearer token or session cookie. With a fetcher installed the user is
// reloaded; a missing or inactive user leaves the request anonymous.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := sm.resolve(r)
		if u != nil && sm.fetcher != nil {
			fresh, err := sm.fetcher.FetchSessionUser(r.Context(), u.ID)
			if err != nil {
				sm.log.Warn("session user lookup failed", zap.String("user_id", u.ID), zap.Error(err))
			}
			u = fresh
		}
		if u != nil {
			r = r.WithContext(WithUser(r.Context(), u))
		}
		next.ServeHTTP(w, r)
	})
}

func (sm *SessionManager) resolve(r *http.Request) *SessionUser {
	if tok := BearerToken(r); tok != "" {
		claims, err := sm.tokens.Parse(tok)
		if err != nil {
			return nil
		}
		return claims.User()
	}

	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return nil
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil
	}
	u := &SessionUser{
		ID:    getString(sess, userIDKey),
		Name:  getString(sess, userName),
		Email: getString(sess, userEmail),
		Role:  getString(sess, userRole),
	}
	if u.ID == "" {
		return nil
	}
	return u
}

// RequireSignedIn answers 401 unless LoadSessionUser put a user in context.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			respond.Fail(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	return FromContext(r.Context())
}

// FromContext returns the user stored in ctx.
func FromContext(ctx context.Context) (*SessionUser, bool) {
	u, ok := ctx.Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithUser returns ctx carrying u.
func WithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// WithTestUser injects u into r's context, as LoadSessionUser would.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(WithUser(r.Context(), u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
