// internal/app/features/trainings/trainings.go
package trainings

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	trainingstore "github.com/dalemusser/careerhub/internal/app/store/trainings"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

func (h *Handler) fail(w http.ResponseWriter, err error) {
	respond.Error(w, h.Log, respond.Store(err, "Training"))
}

// List handles GET /api/trainings. Callers who cannot edit trainings only
// see active ones.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if query.Get(r, "summary") == "true" {
		sum, err := h.Store.Summarize(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond.OK(w, sum)
		return
	}

	f := trainingstore.ListFilter{
		Search:   query.Search(r, "search"),
		Category: query.Get(r, "category"),
		Level:    query.Get(r, "level"),
		Active:   respond.QueryBool(r, "active"),
		Featured: respond.QueryBool(r, "featured"),
		Sort:     paging.Sort(query.Get(r, "sort"), trainingstore.SortFields),
	}
	if !authz.Allowed(r, authz.Trainings.Write) {
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

// Get handles GET /api/trainings/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, t)
}

// Create handles POST /api/trainings.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	t := req.training()
	if err := checkDates(&t); err != nil {
		h.fail(w, err)
		return
	}
	uid := authz.UserID(r)
	t.CreatedBy = &uid

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, t)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "training", audit.ActionCreated, created.ID.Hex(), map[string]string{"title": created.Title})
	respond.Created(w, created)
}

// Update handles PUT and PATCH /api/trainings/{id}.
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

	t, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	req.apply(t)
	if err := checkDates(t); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Store.Save(ctx, t); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "training", audit.ActionUpdated, id.Hex(), nil)
	respond.OK(w, t)
}

// Delete handles DELETE /api/trainings/{id}. Enrollments of the training
// are kept and populate it as null.
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
	h.Audit.AdminAction(ctx, r, "training", audit.ActionDeleted, id.Hex(), nil)
	respond.Message(w, "Training deleted", nil)
}
