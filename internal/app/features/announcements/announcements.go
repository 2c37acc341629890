// internal/app/features/announcements/announcements.go
package announcements

import (
	"context"
	"net/http"
	"time"

	announcementstore "github.com/dalemusser/careerhub/internal/app/store/announcements"
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

func (h *Handler) fail(w http.ResponseWriter, err error) {
	respond.Error(w, h.Log, respond.Store(err, "Announcement"))
}

// audienceFor maps a role to the audience it belongs to. Roles without an
// audience of their own only see announcements for everyone.
func audienceFor(role string) string {
	aud := role + "s"
	for _, a := range models.AnnouncementAudiences {
		if a == aud {
			return aud
		}
	}
	return models.AudienceAll
}

// Active handles GET /api/announcements/active. The audience comes from the
// caller's role; only announcement managers may pick another one with
// ?audience= to preview it. A signed-in caller does not get back what they
// dismissed.
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	aq := announcementstore.ActiveQuery{
		Audience: models.AudienceAll,
		Location: query.Get(r, "location"),
		Now:      time.Now().UTC(),
	}
	if role, _, uid, ok := authz.UserCtx(r); ok {
		aq.User = &uid
		aq.Audience = audienceFor(role)
		if want := query.Get(r, "audience"); want != "" && authz.Allowed(r, authz.Announcement.Read) {
			aq.Audience = want
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	items, err := h.Store.ActiveFor(ctx, aq)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, items)
}

// List handles GET /api/announcements.
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

	f := announcementstore.ListFilter{
		Search:   query.Search(r, "search"),
		Type:     query.Get(r, "type"),
		Priority: query.Get(r, "priority"),
		Audience: query.Get(r, "audience"),
		Active:   respond.QueryBool(r, "active"),
	}
	pg := paging.Parse(r)
	items, total, err := h.Store.List(ctx, f, pg)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, paging.NewList(items, pg, total))
}

type detail struct {
	*models.Announcement
	Live  bool                    `json:"live"`
	Stats announcementstore.Stats `json:"stats"`
}

// Get handles GET /api/announcements/{id}, with engagement stats.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
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
	respond.OK(w, detail{
		Announcement: a,
		Live:         a.IsCurrentlyActive(time.Now().UTC()),
		Stats:        announcementstore.StatsOf(a),
	})
}

// Create handles POST /api/announcements.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	a := req.announcement()
	if err := checkWindow(&a); err != nil {
		h.fail(w, err)
		return
	}
	uid := authz.UserID(r)
	a.CreatedBy = &uid

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, a)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "announcement", audit.ActionCreated, created.ID.Hex(), map[string]string{"title": created.Title})
	respond.Created(w, created)
}

// Update handles PUT and PATCH /api/announcements/{id}.
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

	a, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	req.apply(a)
	if err := checkWindow(a); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Store.Save(ctx, a); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "announcement", audit.ActionUpdated, id.Hex(), nil)
	respond.OK(w, a)
}

// Delete handles DELETE /api/announcements/{id}.
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
	h.Audit.AdminAction(ctx, r, "announcement", audit.ActionDeleted, id.Hex(), nil)
	respond.Message(w, "Announcement deleted", nil)
}

// View handles POST /api/announcements/{id}/view. Repeat views by the same
// user are not counted again.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	recorded, err := h.Store.MarkAsViewed(ctx, id, authz.UserID(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, map[string]bool{"recorded": recorded})
}

// Dismiss handles POST /api/announcements/{id}/dismiss. Dismissing without
// having viewed, or twice, changes nothing.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	recorded, err := h.Store.MarkAsDismissed(ctx, id, authz.UserID(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, map[string]bool{"recorded": recorded})
}

// Click handles POST /api/announcements/{id}/click.
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.TrackClick(ctx, id); err != nil {
		h.fail(w, err)
		return
	}
	respond.Message(w, "Click recorded", nil)
}
