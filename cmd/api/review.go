package main

import (
	"errors"
	"net/http"

	"rbar/internal/domain/games"
	venuereviews "rbar/internal/domain/venuereview"
	"rbar/internal/domain/venues"
	"rbar/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type upsertReviewPayload struct {
	GameID        *uuid.UUID `json:"game_id"`
	OverallRating int        `json:"overall_rating" validate:"required,min=1,max=5"`
	FoodRating    *int       `json:"food_rating" validate:"omitnil,min=1,max=5"`
	DrinkRating   *int       `json:"drink_rating" validate:"omitnil,min=1,max=5"`
	ValueRating   *int       `json:"value_rating" validate:"omitnil,min=1,max=5"`
	TVCount       *int       `json:"tv_count" validate:"omitnil,min=0,max=500"`
	SoundOn       *bool      `json:"sound_on"`
	ShowedGame    *bool      `json:"showed_game"`
	Comment       *string    `json:"comment" validate:"omitnil,max=1000"`
}

type ReviewsResponse struct {
	Reviews    []venuereviews.Review `json:"reviews"`
	Pagination params.Pagination     `json:"pagination"`
}

// upsertVenueReviewHandler godoc
//
//	@Summary		Review a venue
//	@Description	Creates the caller's review of a venue, or replaces it when one already exists for the same game (or for no game).
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			venue	path		string				true	"Venue id"
//	@Param			payload	body		upsertReviewPayload	true	"Review"
//	@Success		201		{object}	venuereviews.Review	"Created"
//	@Success		200		{object}	venuereviews.Review	"Updated"
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		401		{object}	error
//	@Failure		404		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/{venue}/reviews [post]
func (app *application) upsertVenueReviewHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := venueIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload upsertReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()
	user := getUserFromContext(r)

	if _, err := app.store.Venues.GetByID(ctx, venueID); err != nil {
		if errors.Is(err, venues.ErrVenueNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if payload.GameID != nil {
		if _, err := app.store.Games.GetByID(ctx, *payload.GameID); err != nil {
			if errors.Is(err, games.ErrGameNotFound) {
				app.badRequestResponse(w, r, err)
				return
			}
			app.internalServerError(w, r, err)
			return
		}
	}

	review := &venuereviews.Review{
		VenueID:       venueID,
		UserID:        user.ID,
		GameID:        payload.GameID,
		OverallRating: payload.OverallRating,
		FoodRating:    payload.FoodRating,
		DrinkRating:   payload.DrinkRating,
		ValueRating:   payload.ValueRating,
		TVCount:       payload.TVCount,
		SoundOn:       payload.SoundOn,
		ShowedGame:    payload.ShowedGame,
		Comment:       payload.Comment,
	}

	created, err := app.store.VenuesReviews.Upsert(ctx, review)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	review.UserName = user.Name

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	if err := app.jsonResponse(w, status, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVenueReviewsHandler godoc
//
//	@Summary		List reviews of a venue
//	@Tags			reviews
//	@Produce		json
//	@Param			venue	path		string	true	"Venue id"
//	@Param			page	query		int		false	"Page"
//	@Param			limit	query		int		false	"Page size (max 30)"
//	@Success		200		{object}	ReviewsResponse
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/venues/{venue}/reviews [get]
func (app *application) getVenueReviewsHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := venueIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p := params.ParsePagination(r.URL.Query())

	reviews, total, err := app.store.VenuesReviews.GetReviews(r.Context(), venueID, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, ReviewsResponse{Reviews: reviews, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteVenueReviewHandler godoc
//
//	@Summary		Delete own review
//	@Tags			reviews
//	@Param			venue		path	string	true	"Venue id"
//	@Param			reviewID	path	string	true	"Review id"
//	@Success		204
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venue}/reviews/{reviewID} [delete]
func (app *application) deleteVenueReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	user := getUserFromContext(r)

	if err := app.store.VenuesReviews.DeleteReview(r.Context(), reviewID, user.ID); err != nil {
		if errors.Is(err, venuereviews.ErrReviewNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
