// internal/app/features/applications/export.go
package applications

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/csvutil"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Export handles GET /export?format=csv|xlsx with the List filters.
func (h *Handler[A, P]) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(query.Get(r, "format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		respond.Fail(w, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}
	f, err := h.filter(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	items, err := h.Store.All(ctx, f)
	if err != nil {
		h.fail(w, err)
		return
	}
	refs, err := h.postingRefs(ctx, items)
	if err != nil {
		h.fail(w, err)
		return
	}

	table := csvutil.NewTable(h.Kind.Headers...)
	for i := range items {
		if !table.Add(h.Kind.Row(items[i], refs[i])...) {
			h.Log.Warn("application export truncated", zap.String("kind", h.Kind.Resource), zap.Int("rows", csvutil.MaxRows))
			break
		}
	}

	name := fmt.Sprintf("%ss_%s.%s", h.Kind.Resource, time.Now().UTC().Format("20060102"), format)
	if format == "xlsx" {
		err = table.WriteXLSX(w, name, h.Kind.Name+" applications")
	} else {
		err = table.WriteCSV(w, name)
	}
	if err != nil {
		h.Log.Error("application export failed", zap.String("kind", h.Kind.Resource), zap.Error(err))
		return
	}
	h.Log.Info("applications exported", zap.String("kind", h.Kind.Resource), zap.String("format", format), zap.Int("rows", len(table.Rows)))
}
