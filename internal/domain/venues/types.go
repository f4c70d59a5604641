package venues

import (
	"context"
	"errors"
	"time"

	"rbar/internal/domain/teams"
	"rbar/internal/geo"

	"github.com/google/uuid"
)

var ErrVenueNotFound = errors.New("venue not found")

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Venue represents a venue in the database
type Venue struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Zip         *string    `json:"zip,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Website     *string    `json:"website,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *geo.Point `json:"location,omitempty"` // nil until geocoded
	Status      Status     `json:"status"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (v *Venue) SetLocation(p geo.Point) {
	v.Location = &p
}

// ProximityFilter selects ACTIVE venues with a location inside the radius.
// An empty TeamIDs slice means no team restriction.
type ProximityFilter struct {
	Center       geo.Point
	RadiusMeters float64
	TeamIDs      []uuid.UUID
	Limit        int
}

// NearbyVenue is one row of a proximity query.
type NearbyVenue struct {
	ID             uuid.UUID
	Name           string
	Slug           string
	Address        string
	City           string
	State          string
	Location       geo.Point
	DistanceMeters float64
}

type TeamSummary struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	City         string      `json:"city"`
	Abbreviation string      `json:"abbreviation"`
	Sport        teams.Sport `json:"sport"`
}

// RatingAggregate is the review average and count for one venue.
type RatingAggregate struct {
	Average float64
	Count   int
}

// VenueDetail extends Venue with teams and review aggregates.
type VenueDetail struct {
	Venue
	Teams       []TeamSummary `json:"teams"`
	AvgRating   *float64      `json:"avg_rating"`
	ReviewCount int           `json:"review_count"`
}

// SpatialStore is the read side used by proximity search.
type SpatialStore interface {
	WithinRadius(ctx context.Context, filter ProximityFilter) ([]NearbyVenue, error)
	TeamsForVenues(ctx context.Context, venueIDs []uuid.UUID) (map[uuid.UUID][]TeamSummary, error)
	RatingsForVenues(ctx context.Context, venueIDs []uuid.UUID) (map[uuid.UUID]RatingAggregate, error)
}

type Store interface {
	SpatialStore

	Create(ctx context.Context, venue *Venue) error
	Update(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, venueID uuid.UUID) (*Venue, error)
	GetBySlug(ctx context.Context, slug string) (*Venue, error)
	FindByNameCity(ctx context.Context, name, city string) (*Venue, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	SetStatus(ctx context.Context, venueID uuid.UUID, status Status) error

	// LinkTeam records that the venue shows the team's games. Returns false
	// when the link already existed.
	LinkTeam(ctx context.Context, venueID, teamID uuid.UUID, confirmed bool) (bool, error)
}
