// internal/app/features/users/users.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authutil"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"go.uber.org/zap"
)

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		err = wafflerrors.Conflict(err.Error())
	}
	respond.Error(w, h.Log, respond.Store(err, "User"))
}

// List handles GET /api/users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if r.URL.Query().Get("summary") == "true" {
		sum, err := h.Store.Summarize(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond.OK(w, sum)
		return
	}

	q := r.URL.Query()
	f := userstore.ListFilter{
		Search: q.Get("search"),
		Role:   strings.ToLower(strings.TrimSpace(q.Get("role"))),
		Active: respond.QueryBool(r, "active"),
	}
	pg := paging.Parse(r)
	items, total, err := h.Store.List(ctx, f, pg)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, paging.NewList(items, pg, total))
}

// Get handles GET /api/users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, u)
}

// Create handles POST /api/users.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		h.fail(w, wafflerrors.Validation(err.Error()))
		return
	}
	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Store.Create(ctx, req.user(hash))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "user", audit.ActionCreated, u.ID.Hex(), map[string]string{"role": u.Role})
	respond.Created(w, u)
}

// Update handles PUT and PATCH /api/users/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req updateRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	oldRole := u.Role
	req.apply(u)
	if err := h.Store.Save(ctx, u); err != nil {
		h.fail(w, err)
		return
	}

	details := map[string]string{}
	if u.Role != oldRole {
		details["role"] = oldRole + " -> " + u.Role
	}
	h.Audit.AdminAction(ctx, r, "user", audit.ActionUpdated, id.Hex(), details)
	respond.OK(w, u)
}

// Delete handles DELETE /api/users/{id}. Users cannot delete themselves and
// only admins can delete admins.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	if id == authz.UserID(r) {
		h.fail(w, wafflerrors.BadRequest("You cannot delete your own account"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	target, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if target.Role == models.RoleAdmin && !authz.IsAdmin(r) {
		h.fail(w, wafflerrors.Forbidden("Only admins can delete admin accounts"))
		return
	}
	if err := h.Store.Delete(ctx, id); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "user", audit.ActionDeleted, id.Hex(), map[string]string{"email": target.Email})
	respond.Message(w, "User deleted", nil)
}

// ResetPassword handles PUT /api/users/{id}/password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req passwordRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		h.fail(w, wafflerrors.Validation(err.Error()))
		return
	}
	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.SetPassword(ctx, id, hash); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "user", audit.EventPasswordReset, id.Hex(), nil)
	h.Log.Info("password reset by admin", zap.String("user_id", id.Hex()))
	respond.Message(w, "Password updated", nil)
}

// SetStatus handles PATCH /api/users/{id}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req statusRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if !*req.Active && id == authz.UserID(r) {
		h.fail(w, wafflerrors.BadRequest("You cannot deactivate your own account"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.SetActive(ctx, id, *req.Active); err != nil {
		h.fail(w, err)
		return
	}
	u, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	state := "inactive"
	if *req.Active {
		state = "active"
	}
	h.Audit.AdminAction(ctx, r, "user", audit.ActionStatus, id.Hex(), map[string]string{"status": state})
	respond.OK(w, u)
}
