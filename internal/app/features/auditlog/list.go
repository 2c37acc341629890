// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// eventView is an audit event with its actor and target populated.
type eventView struct {
	audit.Event
	Actor  *models.UserRef `json:"actor,omitempty"`
	Target *models.UserRef `json:"target,omitempty"`
}

func parseDay(r *http.Request, name string) (*time.Time, error) {
	v := query.Get(r, name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, wafflerrors.BadRequest("Invalid " + name + ", expected YYYY-MM-DD")
	}
	return &t, nil
}

// List handles GET /api/audit?category=&event=&actor=&from=&to=. Dates are
// whole UTC days and both ends are inclusive.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.QueryID(r, "actor")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	from, err := parseDay(r, "from")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	to, err := parseDay(r, "to")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	f := audit.Filter{
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "event"),
		ActorID:   actor,
		From:      from,
		To:        to,
	}
	pg := paging.Parse(r)
	events, total, err := h.Store.List(ctx, f, pg)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(events))
	for _, e := range events {
		if e.ActorID != nil {
			ids = append(ids, *e.ActorID)
		}
		if e.UserID != nil {
			ids = append(ids, *e.UserID)
		}
	}
	users, err := h.Users.Refs(ctx, ids)
	if err != nil {
		h.Log.Warn("audit log user lookup failed", zap.Error(err))
		users = nil
	}

	items := make([]eventView, 0, len(events))
	for _, e := range events {
		v := eventView{Event: e}
		if e.ActorID != nil {
			if u, ok := users[*e.ActorID]; ok {
				v.Actor = &u
			}
		}
		if e.UserID != nil {
			if u, ok := users[*e.UserID]; ok {
				v.Target = &u
			}
		}
		items = append(items, v)
	}
	respond.OK(w, paging.NewList(items, pg, total))
}
