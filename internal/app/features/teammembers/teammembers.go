// internal/app/features/teammembers/teammembers.go
package teammembers

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	teamstore "github.com/dalemusser/careerhub/internal/app/store/teammembers"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

func (h *Handler) fail(w http.ResponseWriter, err error) {
	respond.Error(w, h.Log, respond.Store(err, "Team member"))
}

func canEdit(r *http.Request) bool { return authz.Allowed(r, authz.TeamMembers.Write) }

// List handles GET /api/team-members in display order. The public page
// only sees active members.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if query.Get(r, "summary") == "true" && canEdit(r) {
		sum, err := h.Store.Summarize(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond.OK(w, sum)
		return
	}

	f := teamstore.ListFilter{
		Search:     query.Search(r, "search"),
		Department: query.Get(r, "department"),
		Active:     respond.QueryBool(r, "active"),
	}
	if !canEdit(r) {
		active := true
		f.Active = &active
	}
	pg := paging.Parse(r)
	items, total, err := h.Store.List(ctx, f, pg)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, paging.NewList(items, pg, total))
}

// Get handles GET /api/team-members/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if m.Active != nil && !*m.Active && !canEdit(r) {
		respond.Fail(w, http.StatusNotFound, "Team member not found")
		return
	}
	respond.OK(w, m)
}

// Create handles POST /api/team-members.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, req.member())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "team_member", audit.ActionCreated, created.ID.Hex(), map[string]string{"name": created.Name})
	respond.Created(w, created)
}

// Update handles PUT and PATCH /api/team-members/{id}.
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

	m, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	req.apply(m)
	if err := h.Store.Save(ctx, m); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "team_member", audit.ActionUpdated, id.Hex(), nil)
	respond.OK(w, m)
}

// Delete handles DELETE /api/team-members/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "team_member", audit.ActionDeleted, id.Hex(), nil)
	respond.Message(w, "Team member deleted", nil)
}
