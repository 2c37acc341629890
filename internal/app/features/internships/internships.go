// internal/app/features/internships/internships.go
package internships

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	internshipstore "github.com/dalemusser/careerhub/internal/app/store/internships"
	"github.com/dalemusser/careerhub/internal/app/store/postings"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

func (h *Handler) fail(w http.ResponseWriter, err error) {
	respond.Error(w, h.Log, respond.Store(err, "Internship"))
}

func canManage(r *http.Request) bool { return authz.Allowed(r, authz.Postings.Write) }

// List handles GET /api/internships.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if query.Get(r, "summary") == "true" && canManage(r) {
		sum, err := h.Store.Summarize(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond.OK(w, sum)
		return
	}

	f := internshipstore.ListFilter{
		Filter: postings.Filter{
			Search:     query.Search(r, "search"),
			Status:     query.Get(r, "status"),
			Department: query.Get(r, "department"),
			Location:   query.Get(r, "location"),
			Featured:   respond.QueryBool(r, "featured"),
		},
		Mode:        query.Get(r, "mode"),
		StipendType: query.Get(r, "stipendType"),
		Sort:        paging.Sort(query.Get(r, "sort"), postings.SortFields),
	}
	if !canManage(r) {
		f.Status = models.PostingActive
	}
	pg := paging.Parse(r)
	items, total, err := h.Store.List(ctx, f, pg)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, paging.NewList(views(items, time.Now().UTC()), pg, total))
}

// Get handles GET /api/internships/{id} and counts the view.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	in, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if in.Status == models.PostingDraft && !canManage(r) {
		respond.Fail(w, http.StatusNotFound, "Internship not found")
		return
	}
	if err := h.Store.IncViews(ctx, id); err != nil {
		h.Log.Warn("internship view count failed", zap.String("internship_id", id.Hex()), zap.Error(err))
	} else {
		in.ViewCount++
	}
	respond.OK(w, view(in, time.Now().UTC()))
}

// Create handles POST /api/internships.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	in := req.internship()
	if err := checkStipend(in.Stipend); err != nil {
		h.fail(w, err)
		return
	}
	uid := authz.UserID(r)
	in.CreatedBy = &uid

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, in)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "internship", audit.ActionCreated, created.ID.Hex(), map[string]string{"title": created.Title})
	respond.Created(w, view(&created, created.CreatedAt))
}

// Update handles PUT and PATCH /api/internships/{id}.
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

	in, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	req.apply(in)
	if req.Stipend != nil {
		if err := checkStipend(in.Stipend); err != nil {
			h.fail(w, err)
			return
		}
	}
	if err := h.Store.Save(ctx, in); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "internship", audit.ActionUpdated, id.Hex(), map[string]string{"status": in.Status})
	respond.OK(w, view(in, time.Now().UTC()))
}

// Delete handles DELETE /api/internships/{id}. Applications are kept.
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
	h.Audit.AdminAction(ctx, r, "internship", audit.ActionDeleted, id.Hex(), nil)
	respond.Message(w, "Internship deleted", nil)
}
