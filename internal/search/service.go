// Package search ranks ACTIVE venues by geodesic distance from a point and
// optionally enriches them with team affiliations and review aggregates.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"rbar/internal/domain/venues"
	"rbar/internal/geo"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultRadiusMeters is 25 miles.
	DefaultRadiusMeters = 40234.0
	NearbyLimit         = 10
	SearchLimit         = 20

	// distanceTolerance absorbs rounding between the store's distance and
	// the radius it was asked for.
	distanceTolerance = 1e-6
)

var ErrInvalidInput = errors.New("invalid search input")

// StoreError reports a failure of the underlying venue store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("venue store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

type Enrichment int

const (
	// EnrichNone returns venue core fields and distance only.
	EnrichNone Enrichment = iota
	// EnrichFull adds coordinates, teams and rating aggregates.
	EnrichFull
)

func (e Enrichment) variant() string {
	if e == EnrichFull {
		return "search"
	}
	return "nearby"
}

type Query struct {
	Lat          float64
	Lng          float64
	RadiusMeters float64 // 0 means DefaultRadiusMeters
	TeamIDs      []uuid.UUID
	// RequireTeams makes an empty TeamIDs list match nothing instead of
	// everything.
	RequireTeams bool
	Limit        int // 0 means SearchLimit
	Enrichment   Enrichment
}

type Result struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Slug           string               `json:"slug"`
	Address        string               `json:"address"`
	City           string               `json:"city"`
	State          string               `json:"state"`
	Lat            float64              `json:"lat"`
	Lng            float64              `json:"lng"`
	Distance       float64              `json:"distance"` // miles, one decimal
	DistanceMeters float64              `json:"-"`
	Teams          []venues.TeamSummary `json:"teams"`
	AvgRating      *float64             `json:"avgRating"`
	ReviewCount    int                  `json:"reviewCount"`
}

// Observer receives one call per search.
type Observer interface {
	ObserveSearch(variant, outcome string, seconds float64, results int)
}

type Service struct {
	store    venues.SpatialStore
	observer Observer
}

// NewService returns a Service reading from store. observer may be nil.
func NewService(store venues.SpatialStore, observer Observer) *Service {
	return &Service{store: store, observer: observer}
}

// NearbyForTeams backs the "near me" widget: venues showing any of the
// given teams, bare fields, at most NearbyLimit.
func (s *Service) NearbyForTeams(ctx context.Context, lat, lng, radiusMeters float64, teamIDs []uuid.UUID) ([]Result, error) {
	return s.Nearby(ctx, Query{
		Lat:          lat,
		Lng:          lng,
		RadiusMeters: radiusMeters,
		TeamIDs:      teamIDs,
		RequireTeams: true,
		Limit:        NearbyLimit,
		Enrichment:   EnrichNone,
	})
}

// Search backs the interactive search: optional single team, full
// enrichment, at most SearchLimit.
func (s *Service) Search(ctx context.Context, lat, lng, radiusMeters float64, teamID *uuid.UUID) ([]Result, error) {
	q := Query{
		Lat:          lat,
		Lng:          lng,
		RadiusMeters: radiusMeters,
		Limit:        SearchLimit,
		Enrichment:   EnrichFull,
	}
	if teamID != nil {
		q.TeamIDs = []uuid.UUID{*teamID}
	}
	return s.Nearby(ctx, q)
}

// Nearby runs a proximity query. Results are nearest first with ties broken
// by venue id. The returned slice is never nil on success.
func (s *Service) Nearby(ctx context.Context, q Query) ([]Result, error) {
	start := time.Now()
	results, err := s.nearby(ctx, q)
	s.observe(q.Enrichment.variant(), start, results, err)
	return results, err
}

func (s *Service) nearby(ctx context.Context, q Query) ([]Result, error) {
	center := geo.Point{Lat: q.Lat, Lng: q.Lng}
	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	radius := q.RadiusMeters
	if radius == 0 {
		radius = DefaultRadiusMeters
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return nil, fmt.Errorf("%w: radius must be a positive number of meters", ErrInvalidInput)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = SearchLimit
	}

	teamIDs := uniqueIDs(q.TeamIDs)
	if q.RequireTeams && len(teamIDs) == 0 {
		return []Result{}, nil
	}

	rows, err := s.store.WithinRadius(ctx, venues.ProximityFilter{
		Center:       center,
		RadiusMeters: radius,
		TeamIDs:      teamIDs,
		Limit:        limit,
	})
	if err != nil {
		return nil, &StoreError{Op: "within radius", Err: err}
	}

	rows = rank(rows, radius, limit)

	results := make([]Result, len(rows))
	for i, row := range rows {
		results[i] = Result{
			ID:             row.ID,
			Name:           row.Name,
			Slug:           row.Slug,
			Address:        row.Address,
			City:           row.City,
			State:          row.State,
			Lat:            row.Location.Lat,
			Lng:            row.Location.Lng,
			Distance:       geo.MetersToMiles(row.DistanceMeters),
			DistanceMeters: row.DistanceMeters,
		}
	}

	if q.Enrichment == EnrichFull && len(results) > 0 {
		if err := s.enrich(ctx, results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// enrich fills teams and ratings with one batched call each.
func (s *Service) enrich(ctx context.Context, results []Result) error {
	ids := make([]uuid.UUID, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}

	var (
		teamsByVenue   map[uuid.UUID][]venues.TeamSummary
		ratingsByVenue map[uuid.UUID]venues.RatingAggregate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teamsByVenue, err = s.store.TeamsForVenues(gctx, ids)
		if err != nil {
			return &StoreError{Op: "teams for venues", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ratingsByVenue, err = s.store.RatingsForVenues(gctx, ids)
		if err != nil {
			return &StoreError{Op: "ratings for venues", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range results {
		r := &results[i]
		r.Teams = teamsByVenue[r.ID]
		if r.Teams == nil {
			r.Teams = []venues.TeamSummary{}
		}
		if agg, ok := ratingsByVenue[r.ID]; ok && agg.Count > 0 {
			avg := agg.Average
			r.AvgRating = &avg
			r.ReviewCount = agg.Count
		}
	}
	return nil
}

// rank de-duplicates by id keeping the smallest distance, drops rows outside
// the radius, orders by (distance, id) and truncates to limit.
func rank(rows []venues.NearbyVenue, radius float64, limit int) []venues.NearbyVenue {
	byID := make(map[uuid.UUID]int, len(rows))
	out := make([]venues.NearbyVenue, 0, len(rows))
	for _, row := range rows {
		d := row.DistanceMeters
		if math.IsNaN(d) || d < 0 || d > radius+distanceTolerance {
			continue
		}
		if i, ok := byID[row.ID]; ok {
			if d < out[i].DistanceMeters {
				out[i] = row
			}
			continue
		}
		byID[row.ID] = len(out)
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceMeters != out[j].DistanceMeters {
			return out[i].DistanceMeters < out[j].DistanceMeters
		}
		return out[i].ID.String() < out[j].ID.String()
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *Service) observe(variant string, start time.Time, results []Result, err error) {
	if s.observer == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, ErrInvalidInput):
		outcome = "invalid"
	case err != nil:
		outcome = "error"
	}
	s.observer.ObserveSearch(variant, outcome, time.Since(start).Seconds(), len(results))
}
