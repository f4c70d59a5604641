package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"rbar/internal/geocoding"
)

type GeocodeResponse struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"displayName"`
}

// geocodeHandler godoc
//
//	@Summary		Resolve a place name to coordinates
//	@Description	Looks up free text (US only) and returns the first match. Responds 404 when nothing matches.
//	@Tags			geocoding
//	@Produce		json
//	@Param			q	query		string	true	"Address, city or zip"
//	@Success		200	{object}	GeocodeResponse
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		404	{object}	error
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Router			/geocode [get]
func (app *application) geocodeHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		app.badRequestResponse(w, r, errors.New("q is required"))
		return
	}

	place, found, err := app.geocoder.Lookup(r.Context(), query)
	if err != nil {
		if errors.Is(err, geocoding.ErrEmptyQuery) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	if !found {
		app.notFoundResponse(w, r, fmt.Errorf("no location found for %q", query))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, GeocodeResponse{
		Lat:         place.Point.Lat,
		Lng:         place.Point.Lng,
		DisplayName: place.DisplayName,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}
