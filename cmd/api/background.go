package main

import (
	"context"
	"errors"
	"time"
)

// syncEvery runs the sports data sync once immediately and then on every
// tick until ctx is done.
func (app *application) syncEvery(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			app.syncOnce(ctx)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (app *application) syncOnce(ctx context.Context) {
	report, err := app.runSync(ctx)
	switch {
	case errors.Is(err, errSyncRunning):
		app.logger.Infow("skipping scheduled sync", "reason", err.Error())
	case err != nil:
		app.logger.Errorw("scheduled sync failed", "error", err)
	default:
		app.logger.Infow("scheduled sync finished",
			"at", time.Now().Format(time.RFC1123),
			"teams_updated", report.Logos.TeamsUpdated,
			"games_created", report.Games.GamesCreated,
			"games_updated", report.Games.GamesUpdated,
		)
	}
}
