// internal/app/features/content/content.go
package content

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/careerhub/internal/app/system/limits"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/slug"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (h *Handler) fail(w http.ResponseWriter, err error) {
	respond.Error(w, h.Log, respond.Store(err, "Content"))
}

// section reads the {section} URL param. Section names are slugs.
func section(r *http.Request) (string, error) {
	s := chi.URLParam(r, "section")
	if s == "" || slug.Make(s) != s {
		return "", wafflerrors.BadRequest("Invalid section")
	}
	return s, nil
}

// clean sanitizes every string value, recursing into lists and objects.
func clean(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return htmlsanitize.Sanitize(t)
	case []interface{}:
		for i := range t {
			t[i] = clean(t[i])
		}
		return t
	case map[string]interface{}:
		for k := range t {
			t[k] = clean(t[k])
		}
		return t
	default:
		return v
	}
}

// All handles GET /api/content.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Store.All(ctx)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, all)
}

// Section handles GET /api/content/{section}. An empty default section is
// seeded on first read; an unknown section is 404.
func (h *Handler) Section(w http.ResponseWriter, r *http.Request) {
	name, err := section(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Store.Section(ctx, name)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, items)
}

// Update handles PUT /api/content/{section} with a key/value map.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	name, err := section(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	var values map[string]interface{}
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxContentBodySize)
	if err := respond.Bind(r, &values); err != nil {
		h.fail(w, err)
		return
	}
	if len(values) == 0 {
		h.fail(w, wafflerrors.BadRequest("No content provided"))
		return
	}
	for k, v := range values {
		if k == "" {
			h.fail(w, wafflerrors.BadRequest("Content keys cannot be empty"))
			return
		}
		values[k] = clean(v)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	uid := authz.UserID(r)
	items, err := h.Store.Upsert(ctx, name, values, &uid)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "content", audit.ActionUpdated, name, nil)
	respond.Message(w, "Content updated", items)
}

// DeleteKey handles DELETE /api/content/{section}/{key}.
func (h *Handler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	name, err := section(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	key := chi.URLParam(r, "key")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.DeleteKey(ctx, name, key); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "content", audit.ActionDeleted, name+"."+key, nil)
	respond.Message(w, "Content deleted", nil)
}

// Reset handles POST /api/content/reset and restores the default content.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	n, err := h.Store.Reset(ctx)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Log.Info("website content reset", zap.Int("seeded", n))
	h.Audit.AdminAction(ctx, r, "content", audit.ActionReset, "", nil)
	respond.Message(w, "Content reset to defaults", map[string]int{"seeded": n})
}
