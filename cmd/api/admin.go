package main

import (
	"context"
	"errors"
	"net/http"

	"rbar/internal/sportsdb"
)

var errSyncRunning = errors.New("a sync is already running")

type SyncResponse struct {
	Success bool            `json:"success"`
	Report  sportsdb.Report `json:"report"`
}

// adminSyncHandler godoc
//
//	@Summary		Run the sports data sync
//	@Description	Refreshes league and team references and upserts games in the next 14 days. Requires the ADMIN_SECRET bearer token.
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	SyncResponse
//	@Failure		401	{object}	error
//	@Failure		409	{object}	error
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/sync [post]
func (app *application) adminSyncHandler(w http.ResponseWriter, r *http.Request) {
	report, err := app.runSync(r.Context())
	if err != nil {
		if errors.Is(err, errSyncRunning) {
			app.conflictResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, SyncResponse{Success: true, Report: report}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// runSync is shared by the admin endpoint and the background ticker.
func (app *application) runSync(ctx context.Context) (sportsdb.Report, error) {
	if !app.syncMu.TryLock() {
		return sportsdb.Report{}, errSyncRunning
	}
	defer app.syncMu.Unlock()

	report, err := app.syncer.Run(ctx)
	for _, warning := range report.Logos.Warnings {
		app.logger.Warnw("logo sync", "warning", warning)
	}
	for _, warning := range report.Games.Warnings {
		app.logger.Warnw("games sync", "warning", warning)
	}
	return report, err
}

// listMatchReviewsHandler godoc
//
//	@Summary		Pending team matches
//	@Description	Upstream teams that only matched a local team by substring and wait for confirmation.
//	@Tags			admin
//	@Produce		json
//	@Success		200	{array}		matchreview.Candidate
//	@Failure		401	{object}	error
//	@Failure		403	{object}	error
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/match-reviews [get]
func (app *application) listMatchReviewsHandler(w http.ResponseWriter, r *http.Request) {
	pending, err := app.store.MatchReviews.ListPending(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, pending); err != nil {
		app.internalServerError(w, r, err)
	}
}
