// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	metricsstore "github.com/dalemusser/careerhub/internal/app/store/metrics"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// DefaultPeriod is the analytics window when none is asked for.
const DefaultPeriod = "30d"

// Stats handles GET /api/dashboard/stats. Counts that fail are reported as
// zero and listed under unavailable rather than failing the request.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	d := metricsstore.Fetch(ctx, h.DB, time.Now())
	if len(d.Unavailable) > 0 {
		h.Log.Warn("dashboard figures unavailable", zap.Strings("figures", d.Unavailable))
	}
	respond.OK(w, d)
}

// Analytics handles GET /api/dashboard/analytics?period=7d|30d|90d.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	period := query.Get(r, "period")
	if period == "" {
		period = DefaultPeriod
	}
	days, ok := metricsstore.Periods[period]
	if !ok {
		respond.Error(w, h.Log, wafflerrors.BadRequest("period must be one of 7d, 30d, 90d"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	series, err := metricsstore.Analytics(ctx, h.DB, days, time.Now())
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, map[string]interface{}{
		"period": period,
		"days":   series,
	})
}
