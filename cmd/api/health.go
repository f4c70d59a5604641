package main

import (
	"context"
	"net/http"
	"time"
)

// healthCheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Reports the build version and whether the database answers.
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		503	{object}	map[string]string
//	@Security		BasicAuth
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	data := map[string]string{
		"status":   "ok",
		"env":      app.config.env,
		"version":  version,
		"database": "ok",
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := app.store.Ping(ctx); err != nil {
		app.logger.Warnw("health check database ping failed", "error", err.Error())
		status = http.StatusServiceUnavailable
		data["status"] = "degraded"
		data["database"] = "unavailable"
	}

	if err := app.jsonResponse(w, status, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
