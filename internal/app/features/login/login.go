// internal/app/features/login/login.go
package login

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/authutil"
	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// sessionResponse is returned by login and register.
type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

var errBadCredentials = wafflerrors.Unauthorized("Invalid email or password")

// SessionUser is the session view of u.
func SessionUser(u *models.User) *auth.SessionUser {
	return &auth.SessionUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role}
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.BindValid(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	email := normalize.Email(req.Email)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if h.Limiter != nil && !h.Limiter.Check(r, email) {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedRateLimit, nil, email, "rate limited")
		respond.Error(w, h.Log, wafflerrors.TooManyRequests("Too many sign-in attempts. Please try again later."))
		return
	}

	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedUserNotFound, nil, email, "no such user")
		respond.Error(w, h.Log, errBadCredentials)
		return
	}
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	// Google-only accounts have no password.
	if u.PasswordHash == "" || !authutil.CheckPassword(req.Password, u.PasswordHash) {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedWrongPassword, &u.ID, email, "wrong password")
		respond.Error(w, h.Log, errBadCredentials)
		return
	}
	if !u.IsActive() {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedUserDisabled, &u.ID, email, "account disabled")
		respond.Error(w, h.Log, wafflerrors.Forbidden("This account has been deactivated"))
		return
	}

	now := time.Now().UTC()
	if err := h.Users.TouchLastLogin(ctx, u.ID, now); err != nil {
		h.Log.Warn("failed to record last login", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	} else {
		u.LastLoginAt = &now
	}
	if !h.signIn(w, r, u, http.StatusOK) {
		return
	}
	if h.Limiter != nil {
		h.Limiter.Succeeded(r, email)
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, email)
}

// Register handles POST /api/auth/register. New accounts always get the
// user role.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := respond.BindValid(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		respond.Error(w, h.Log, wafflerrors.Validation(err.Error()))
		return
	}
	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Provider:     models.ProviderCredentials,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		respond.Error(w, h.Log, wafflerrors.Conflict(err.Error()))
		return
	}
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if !h.signIn(w, r, &u, http.StatusCreated) {
		return
	}
	h.AuditLog.Registered(ctx, r, u.ID, u.Email)
}

// signIn sets the session cookie and writes the token response. It reports
// false when it wrote an error instead.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u *models.User, status int) bool {
	token, exp, err := h.SessionMgr.SignIn(w, r, SessionUser(u))
	if err != nil {
		respond.Error(w, h.Log, err)
		return false
	}
	resp := sessionResponse{Token: token, ExpiresAt: exp, User: u}
	if status == http.StatusCreated {
		respond.Created(w, resp)
	} else {
		respond.OK(w, resp)
	}
	return true
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("failed to clear session", zap.Error(err))
	}
	respond.Message(w, "Signed out", nil)
}

// Session handles GET /api/auth/session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	respond.OK(w, u)
}
