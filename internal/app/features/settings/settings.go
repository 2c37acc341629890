// internal/app/features/settings/settings.go
package settings

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	settingsstore "github.com/dalemusser/careerhub/internal/app/store/settings"
	"github.com/dalemusser/careerhub/internal/app/system/limits"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
)

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var invalid *settingsstore.InvalidError
	if errors.As(err, &invalid) {
		err = wafflerrors.Validation(invalid.Error())
	}
	respond.Error(w, h.Log, err)
}

// Get handles GET /api/settings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.Store.Get()
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, st)
}

// Update handles PUT /api/settings. Only the top-level keys sent are changed.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxContentBodySize)
	if err := respond.Bind(r, &patch); err != nil {
		h.fail(w, err)
		return
	}
	if len(patch) == 0 {
		h.fail(w, wafflerrors.BadRequest("No settings provided"))
		return
	}
	st, err := h.Store.Update(patch)
	if err != nil {
		h.fail(w, err)
		return
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h.Audit.AdminAction(r.Context(), r, "settings", audit.ActionUpdated, "", map[string]string{"keys": strings.Join(keys, ",")})
	respond.Message(w, "Settings updated", st)
}
