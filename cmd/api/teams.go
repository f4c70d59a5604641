package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"rbar/internal/domain/teams"
	"rbar/internal/sportsdb"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type FavoriteToggleResponse struct {
	TeamID   uuid.UUID `json:"team_id"`
	Favorite bool      `json:"favorite"`
}

// listTeamsHandler godoc
//
//	@Summary		List teams
//	@Tags			teams
//	@Produce		json
//	@Param			sport	query		string	false	"AMERICAN_FOOTBALL, BASKETBALL, BASEBALL, HOCKEY or SOCCER"
//	@Param			league	query		string	false	"League short name, e.g. NFL"
//	@Success		200		{array}		teams.Team
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/teams [get]
func (app *application) listTeamsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter teams.Filter
	if s := strings.TrimSpace(q.Get("sport")); s != "" {
		sport := teams.Sport(strings.ToUpper(s))
		if !sport.Valid() {
			app.badRequestResponse(w, r, errors.New("unknown sport"))
			return
		}
		filter.Sport = &sport
	}
	if l := strings.TrimSpace(q.Get("league")); l != "" {
		league := strings.ToUpper(l)
		filter.League = &league
	}

	list, err := app.store.Teams.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// teamGamesHandler godoc
//
//	@Summary		Upcoming games of a team
//	@Description	Games in the next 14 days, soonest first.
//	@Tags			teams
//	@Produce		json
//	@Param			teamID	path		string	true	"Team id"
//	@Success		200		{array}		games.Fixture
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/teams/{teamID}/games [get]
func (app *application) teamGamesHandler(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid team ID"))
		return
	}

	now := time.Now().UTC()
	fixtures, err := app.store.Games.UpcomingForTeam(r.Context(), teamID, now, now.Add(sportsdb.GameWindow))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, fixtures); err != nil {
		app.internalServerError(w, r, err)
	}
}

// toggleFavoriteTeamHandler godoc
//
//	@Summary		Toggle a favorite team
//	@Description	Adds the team to the caller's favorites, or removes it when already present.
//	@Tags			teams
//	@Produce		json
//	@Param			teamID	path		string	true	"Team id"
//	@Success		200		{object}	FavoriteToggleResponse
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/teams/{teamID}/favorite [put]
func (app *application) toggleFavoriteTeamHandler(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid team ID"))
		return
	}

	ctx := r.Context()
	user := getUserFromContext(r)

	if _, err := app.store.Teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, teams.ErrTeamNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	favorite, err := app.store.Teams.ToggleFavorite(ctx, user.ID, teamID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, FavoriteToggleResponse{TeamID: teamID, Favorite: favorite}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// favoriteTeamsHandler godoc
//
//	@Summary		Caller's favorite teams
//	@Tags			teams
//	@Produce		json
//	@Success		200	{array}		teams.Team
//	@Failure		401	{object}	error
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/users/me/teams [get]
func (app *application) favoriteTeamsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	list, err := app.store.Teams.FavoriteTeams(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}
