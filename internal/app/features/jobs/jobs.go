// internal/app/features/jobs/jobs.go
package jobs

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	jobstore "github.com/dalemusser/careerhub/internal/app/store/jobs"
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
	respond.Error(w, h.Log, respond.Store(err, "Job"))
}

func canManage(r *http.Request) bool { return authz.Allowed(r, authz.Postings.Write) }

// List handles GET /api/jobs. Visitors and applicants only see active jobs.
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

	f := jobstore.ListFilter{
		Filter: postings.Filter{
			Search:     query.Search(r, "search"),
			Status:     query.Get(r, "status"),
			Department: query.Get(r, "department"),
			Location:   query.Get(r, "location"),
			Featured:   respond.QueryBool(r, "featured"),
		},
		EmploymentType:  query.Get(r, "employmentType"),
		ExperienceLevel: query.Get(r, "experienceLevel"),
		Remote:          respond.QueryBool(r, "remote"),
		Sort:            paging.Sort(query.Get(r, "sort"), postings.SortFields),
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

// Get handles GET /api/jobs/{id} and counts the view. Drafts are hidden
// from visitors.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	j, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if j.Status == models.PostingDraft && !canManage(r) {
		respond.Fail(w, http.StatusNotFound, "Job not found")
		return
	}
	if err := h.Store.IncViews(ctx, id); err != nil {
		h.Log.Warn("job view count failed", zap.String("job_id", id.Hex()), zap.Error(err))
	} else {
		j.ViewCount++
	}
	respond.OK(w, view(j, time.Now().UTC()))
}

// Create handles POST /api/jobs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	j := req.job()
	if err := checkSalary(j.Salary); err != nil {
		h.fail(w, err)
		return
	}
	uid := authz.UserID(r)
	j.CreatedBy = &uid

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, j)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "job", audit.ActionCreated, created.ID.Hex(), map[string]string{"title": created.Title})
	respond.Created(w, view(&created, created.CreatedAt))
}

// Update handles PUT and PATCH /api/jobs/{id}. The automatic status is
// applied on save.
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

	j, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	req.apply(j)
	if err := checkSalary(j.Salary); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Store.Save(ctx, j); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "job", audit.ActionUpdated, id.Hex(), map[string]string{"status": j.Status})
	respond.OK(w, view(j, time.Now().UTC()))
}

// Delete handles DELETE /api/jobs/{id}. Applications are kept.
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
	h.Audit.AdminAction(ctx, r, "job", audit.ActionDeleted, id.Hex(), nil)
	respond.Message(w, "Job deleted", nil)
}
