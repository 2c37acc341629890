// internal/app/features/applications/applications.go
package applications

import (
	"context"
	"errors"
	"net/http"

	applicationstore "github.com/dalemusser/careerhub/internal/app/store/applications"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/store/postings"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (h *Handler[A, P]) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, applicationstore.ErrAlreadyApplied):
		err = wafflerrors.Conflict(err.Error())
	case errors.Is(err, postings.ErrNotAcceptingApplications):
		err = wafflerrors.BadRequest(err.Error())
	}
	respond.Error(w, h.Log, respond.Store(err, "Application"))
}

// postingRefs returns the populated posting of each item, nil where the
// posting no longer exists.
func (h *Handler[A, P]) postingRefs(ctx context.Context, items []A) ([]*models.PostingRef, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for i := range items {
		ids = append(ids, P(&items[i]).Posting())
	}
	refs, err := h.Kind.Refs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*models.PostingRef, len(items))
	for i := range items {
		if p, ok := refs[P(&items[i]).Posting()]; ok {
			out[i] = &p
		}
	}
	return out, nil
}

func (h *Handler[A, P]) populate(ctx context.Context, items []A) ([]interface{}, error) {
	refs, err := h.postingRefs(ctx, items)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, len(items))
	for i := range items {
		out = append(out, h.Kind.View(items[i], refs[i]))
	}
	return out, nil
}

func (h *Handler[A, P]) respondOne(ctx context.Context, w http.ResponseWriter, a *A, status int) {
	views, err := h.populate(ctx, []A{*a})
	if err != nil {
		h.fail(w, err)
		return
	}
	if status == http.StatusCreated {
		respond.Created(w, views[0])
		return
	}
	respond.OK(w, views[0])
}

// Create handles POST /. The posting must exist and be accepting
// applications; one email may apply to a posting once.
func (h *Handler[A, P]) Create(w http.ResponseWriter, r *http.Request) {
	a, err := h.Kind.Decode(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Store.Create(ctx, a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Fail(w, http.StatusNotFound, h.Kind.Name+" not found")
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondOne(ctx, w, &created, http.StatusCreated)
}

func (h *Handler[A, P]) filter(r *http.Request) (applicationstore.Filter, error) {
	posting, err := respond.QueryID(r, "posting")
	if err != nil {
		return applicationstore.Filter{}, err
	}
	return applicationstore.Filter{
		Posting: posting,
		Status:  query.Get(r, "status"),
		Search:  query.Search(r, "search"),
	}, nil
}

// List handles GET /. Filters: posting, status, search.
func (h *Handler[A, P]) List(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.list(w, r, f)
}

// ListForPosting handles GET /api/jobs/{id}/applications and its
// internship counterpart.
func (h *Handler[A, P]) ListForPosting(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	f, err := h.filter(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	f.Posting = &id
	h.list(w, r, f)
}

func (h *Handler[A, P]) list(w http.ResponseWriter, r *http.Request, f applicationstore.Filter) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if query.Get(r, "summary") == "true" {
		sum, err := h.Store.Summarize(ctx, f)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond.OK(w, sum)
		return
	}

	pg := paging.Parse(r)
	items, total, err := h.Store.List(ctx, f, pg)
	if err != nil {
		h.fail(w, err)
		return
	}
	views, err := h.populate(ctx, items)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, paging.NewList(views, pg, total))
}

// Get handles GET /{id}.
func (h *Handler[A, P]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondOne(ctx, w, a, http.StatusOK)
}

// SetStatus handles PATCH /{id}/status.
func (h *Handler[A, P]) SetStatus(w http.ResponseWriter, r *http.Request) {
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
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Store.SetStatus(ctx, id, req.Status, authz.UserID(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, h.Kind.Resource, audit.ActionStatus, id.Hex(), map[string]string{"status": req.Status})
	h.respondOne(ctx, w, a, http.StatusOK)
}

// Rate handles PATCH /{id}/rating.
func (h *Handler[A, P]) Rate(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req ratingRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Store.Rate(ctx, id, req.Rating)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondOne(ctx, w, a, http.StatusOK)
}

// AddNote handles POST /{id}/notes. The note is signed by the caller.
func (h *Handler[A, P]) AddNote(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req noteRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	note := models.ReviewNote{Content: req.Content, AuthorID: authz.UserID(r)}
	if u, ok := auth.CurrentUser(r); ok {
		note.AuthorName = u.Name
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Store.AddNote(ctx, id, note)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondOne(ctx, w, a, http.StatusCreated)
}

// ScheduleInterview handles POST /{id}/interview and moves the application
// to Interview Scheduled.
func (h *Handler[A, P]) ScheduleInterview(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req interviewRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Store.ScheduleInterview(ctx, id, models.Interview(req), authz.UserID(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, h.Kind.Resource, audit.ActionStatus, id.Hex(), map[string]string{"status": models.AppInterviewScheduled})
	h.respondOne(ctx, w, a, http.StatusOK)
}

// Delete handles DELETE /{id}; the posting's counter goes down with it.
func (h *Handler[A, P]) Delete(w http.ResponseWriter, r *http.Request) {
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
	h.Audit.AdminAction(ctx, r, h.Kind.Resource, audit.ActionDeleted, id.Hex(), nil)
	respond.Message(w, "Application deleted", nil)
}
