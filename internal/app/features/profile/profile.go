// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/system/authutil"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"go.uber.org/zap"
)

// updateRequest lists the fields a user may change on their own account.
// Role, email and the active flag stay with user administration.
type updateRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone  *string `json:"phone" validate:"omitempty,max=30"`
	Avatar *string `json:"avatar" validate:"omitempty,httpurl"`
}

func (d updateRequest) apply(u *models.User) {
	if d.Name != nil {
		u.Name = *d.Name
	}
	if d.Phone != nil {
		u.Phone = *d.Phone
	}
	if d.Avatar != nil {
		u.Avatar = *d.Avatar
	}
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	respond.Error(w, h.Log, respond.Store(err, "User"))
}

func (h *Handler) current(ctx context.Context, r *http.Request) (*models.User, error) {
	return h.Users.GetByID(ctx, authz.UserID(r))
}

// Get handles GET /api/profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.current(ctx, r)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, u)
}

// Update handles PATCH /api/profile.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.current(ctx, r)
	if err != nil {
		h.fail(w, err)
		return
	}
	req.apply(u)
	if err := h.Users.Save(ctx, u); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "profile", audit.ActionUpdated, u.ID.Hex(), nil)
	respond.OK(w, u)
}

// ChangePassword handles PUT /api/profile/password. Only accounts that sign
// in with a password can change it, and the current password must match.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.current(ctx, r)
	if err != nil {
		h.fail(w, err)
		return
	}
	if u.Provider != models.ProviderCredentials || u.PasswordHash == "" {
		h.fail(w, wafflerrors.BadRequest("Password change is only available for password sign-in"))
		return
	}
	if !authutil.CheckPassword(req.CurrentPassword, u.PasswordHash) {
		h.fail(w, wafflerrors.Validation("Current password is incorrect"))
		return
	}
	if err := authutil.ValidatePassword(req.NewPassword); err != nil {
		h.fail(w, wafflerrors.Validation(err.Error()))
		return
	}
	if req.NewPassword == req.CurrentPassword {
		h.fail(w, wafflerrors.Validation("New password must differ from the current password"))
		return
	}

	hash, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Users.SetPassword(ctx, u.ID, hash); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "profile", audit.ActionUpdated, u.ID.Hex(), map[string]string{"field": "password"})
	h.Log.Info("password changed", zap.String("user_id", u.ID.Hex()))
	respond.Message(w, "Password updated", nil)
}
