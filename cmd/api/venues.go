package main

import (
	"context"
	"errors"
	"net/http"

	"rbar/internal/domain/venues"
	"rbar/internal/params"
	"rbar/internal/search"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// NearbyVenue is one entry of the nearby widget response.
type NearbyVenue struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Address  string    `json:"address"`
	City     string    `json:"city"`
	State    string    `json:"state"`
	Distance float64   `json:"distance" example:"1.2"` // miles
}

type NearbyVenuesResponse struct {
	Venues []NearbyVenue `json:"venues"`
}

type SearchVenuesResponse struct {
	Venues []search.Result `json:"venues"`
}

// nearbyVenuesHandler godoc
//
//	@Summary		Venues near the caller showing any of the given teams
//	@Description	Returns at most 10 ACTIVE venues within radius meters that are linked to one of teamIds, nearest first. Distance is in miles. An empty teamIds returns an empty list.
//	@Tags			venues
//	@Produce		json
//	@Param			lat		query		number	true	"Latitude"
//	@Param			lng		query		number	true	"Longitude"
//	@Param			teamIds	query		string	true	"Comma separated team ids"
//	@Param			radius	query		number	false	"Radius in meters (default 40234)"
//	@Success		200		{object}	NearbyVenuesResponse
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/venues/nearby [get]
func (app *application) nearbyVenuesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, lng, err := params.Location(q)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	radius, err := params.Radius(q)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !q.Has("teamIds") {
		app.badRequestResponse(w, r, errors.New("teamIds is required"))
		return
	}
	teamIDs, err := params.UUIDList(q, "teamIds")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	results, err := app.search.NearbyForTeams(r.Context(), lat, lng, radius, teamIDs)
	if err != nil {
		app.searchErrorResponse(w, r, err)
		return
	}

	out := make([]NearbyVenue, len(results))
	for i, v := range results {
		out[i] = NearbyVenue{
			ID:       v.ID,
			Name:     v.Name,
			Slug:     v.Slug,
			Address:  v.Address,
			City:     v.City,
			State:    v.State,
			Distance: v.Distance,
		}
	}

	if err := writeJSON(w, http.StatusOK, NearbyVenuesResponse{Venues: out}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// searchVenuesHandler godoc
//
//	@Summary		Search venues by distance
//	@Description	Returns at most 20 ACTIVE venues within radius meters, nearest first, with teams and rating aggregates. avgRating is null when a venue has no reviews.
//	@Tags			venues
//	@Produce		json
//	@Param			lat		query		number	true	"Latitude"
//	@Param			lng		query		number	true	"Longitude"
//	@Param			radius	query		number	false	"Radius in meters (default 40234)"
//	@Param			teamId	query		string	false	"Only venues showing this team"
//	@Success		200		{object}	SearchVenuesResponse
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/venues/search [get]
func (app *application) searchVenuesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, lng, err := params.Location(q)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	radius, err := params.Radius(q)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	teamID, err := params.OptionalUUID(q, "teamId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	results, err := app.search.Search(r.Context(), lat, lng, radius, teamID)
	if err != nil {
		app.searchErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, SearchVenuesResponse{Venues: results}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) searchErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, search.ErrInvalidInput) {
		app.badRequestResponse(w, r, err)
		return
	}
	app.internalServerError(w, r, err)
}

// getVenueHandler godoc
//
//	@Summary		Get a venue
//	@Description	Looks a venue up by slug or id and returns it with its teams and review aggregate.
//	@Tags			venues
//	@Produce		json
//	@Param			venue	path		string	true	"Venue slug or id"
//	@Success		200		{object}	venues.VenueDetail
//	@Failure		404		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/venues/{venue} [get]
func (app *application) getVenueHandler(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "venue")
	ctx := r.Context()

	var (
		venue *venues.Venue
		err   error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		venue, err = app.store.Venues.GetByID(ctx, id)
	} else {
		venue, err = app.store.Venues.GetBySlug(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, venues.ErrVenueNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	if venue.Status != venues.StatusActive {
		app.notFoundResponse(w, r, venues.ErrVenueNotFound)
		return
	}

	detail, err := app.venueDetail(ctx, venue)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) venueDetail(ctx context.Context, venue *venues.Venue) (*venues.VenueDetail, error) {
	ids := []uuid.UUID{venue.ID}

	teamsByVenue, err := app.store.Venues.TeamsForVenues(ctx, ids)
	if err != nil {
		return nil, err
	}
	ratings, err := app.store.Venues.RatingsForVenues(ctx, ids)
	if err != nil {
		return nil, err
	}

	detail := &venues.VenueDetail{
		Venue: *venue,
		Teams: teamsByVenue[venue.ID],
	}
	if detail.Teams == nil {
		detail.Teams = []venues.TeamSummary{}
	}
	if agg, ok := ratings[venue.ID]; ok && agg.Count > 0 {
		avg := agg.Average
		detail.AvgRating = &avg
		detail.ReviewCount = agg.Count
	}
	return detail, nil
}

func venueIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "venue"))
	if err != nil {
		return uuid.Nil, errors.New("invalid venue ID")
	}
	return id, nil
}
