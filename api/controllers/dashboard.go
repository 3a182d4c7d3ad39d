package controllers

import (
	"net/http"

	"github.com/hayyerp/pos-backend/api/responses"
	"github.com/hayyerp/pos-backend/internal/reports"
	"github.com/hayyerp/pos-backend/pkg/enums"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
	"github.com/hayyerp/pos-backend/pkg/logger"
)

// DashboardStats serves the dashboard snapshot. The window query param
// selects the trend range and defaults to daily.
func DashboardStats(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		window := enums.TrendWindowDaily
		if raw := r.URL.Query().Get("window"); raw != "" {
			parsed, err := enums.ParseTrendWindow(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid trend window"))
				return
			}
			window = parsed
		}

		stats, err := svc.DashboardStats(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
