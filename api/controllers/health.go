package controllers

import (
	"net/http"

	"github.com/hayyerp/pos-backend/api/responses"
	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
	"github.com/hayyerp/pos-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Hayy-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady answers ready only when the store file is reachable.
func HealthReady(cfg *config.Config, client *db.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Hayy-Env", cfg.App.Env)
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		if err := client.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "ping store"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
