package venues

import (
	"context"
	"errors"
	"fmt"

	"rbar/internal/db"
	"rbar/internal/geo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Store {
	return &Repository{db: q}
}

// WithinRadius runs the geodesic radius query. Distances come from PostGIS
// geography (spheroid) math, ordered nearest first with id as tie-breaker.
func (r *Repository) WithinRadius(ctx context.Context, filter ProximityFilter) ([]NearbyVenue, error) {
	teamIDs := filter.TeamIDs
	if teamIDs == nil {
		teamIDs = []uuid.UUID{}
	}

	const query = `
		WITH q AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS pt
		)
		SELECT
			v.id,
			v.name,
			v.slug,
			v.address,
			v.city,
			v.state,
			ST_Y(v.location::geometry) AS latitude,
			ST_X(v.location::geometry) AS longitude,
			ST_Distance(v.location, q.pt) AS distance
		FROM venues v, q
		WHERE v.status = 'ACTIVE'
			AND v.location IS NOT NULL
			AND ST_DWithin(v.location, q.pt, $3)
			AND (
				cardinality($4::uuid[]) = 0
				OR EXISTS (
					SELECT 1 FROM venue_teams vt
					WHERE vt.venue_id = v.id AND vt.team_id = ANY($4::uuid[])
				)
			)
		ORDER BY distance ASC, v.id ASC
		LIMIT NULLIF($5::int, 0)
	`

	rows, err := r.db.Query(ctx, query,
		filter.Center.Lng,
		filter.Center.Lat,
		filter.RadiusMeters,
		teamIDs,
		filter.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying nearby venues: %w", err)
	}
	defer rows.Close()

	var venues []NearbyVenue
	for rows.Next() {
		var v NearbyVenue
		if err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.Slug,
			&v.Address,
			&v.City,
			&v.State,
			&v.Location.Lat,
			&v.Location.Lng,
			&v.DistanceMeters,
		); err != nil {
			return nil, fmt.Errorf("error scanning venue row: %w", err)
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating venue rows: %w", err)
	}
	return venues, nil
}

// TeamsForVenues fetches every team linked to the given venues in one query.
func (r *Repository) TeamsForVenues(ctx context.Context, venueIDs []uuid.UUID) (map[uuid.UUID][]TeamSummary, error) {
	out := make(map[uuid.UUID][]TeamSummary, len(venueIDs))
	if len(venueIDs) == 0 {
		return out, nil
	}

	const query = `
		SELECT vt.venue_id, t.id, t.name, t.city, t.abbreviation, t.sport
		FROM venue_teams vt
		JOIN teams t ON t.id = vt.team_id
		WHERE vt.venue_id = ANY($1::uuid[])
		ORDER BY vt.venue_id, t.city, t.name, t.id
	`
	rows, err := r.db.Query(ctx, query, venueIDs)
	if err != nil {
		return nil, fmt.Errorf("error querying venue teams: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			venueID uuid.UUID
			t       TeamSummary
		)
		if err := rows.Scan(&venueID, &t.ID, &t.Name, &t.City, &t.Abbreviation, &t.Sport); err != nil {
			return nil, fmt.Errorf("error scanning venue team row: %w", err)
		}
		out[venueID] = append(out[venueID], t)
	}
	return out, rows.Err()
}

// RatingsForVenues aggregates overall ratings grouped by venue in one query.
// Venues without reviews are absent from the map.
func (r *Repository) RatingsForVenues(ctx context.Context, venueIDs []uuid.UUID) (map[uuid.UUID]RatingAggregate, error) {
	out := make(map[uuid.UUID]RatingAggregate, len(venueIDs))
	if len(venueIDs) == 0 {
		return out, nil
	}

	const query = `
		SELECT venue_id, AVG(overall_rating)::float8, COUNT(*)
		FROM reviews
		WHERE venue_id = ANY($1::uuid[])
		GROUP BY venue_id
	`
	rows, err := r.db.Query(ctx, query, venueIDs)
	if err != nil {
		return nil, fmt.Errorf("error querying venue ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			venueID uuid.UUID
			agg     RatingAggregate
		)
		if err := rows.Scan(&venueID, &agg.Average, &agg.Count); err != nil {
			return nil, fmt.Errorf("error scanning rating row: %w", err)
		}
		out[venueID] = agg
	}
	return out, rows.Err()
}

func locationArgs(v *Venue) (lat, lng *float64) {
	if v.Location == nil {
		return nil, nil
	}
	return &v.Location.Lat, &v.Location.Lng
}

// Create inserts the venue. The geography column is derived from lat/lng.
func (r *Repository) Create(ctx context.Context, venue *Venue) error {
	const query = `
		INSERT INTO venues (
			name, slug, address, city, state, zip,
			phone, website, description,
			lat, lng, location, status, owner_id
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			$10::float8, $11::float8,
			CASE WHEN $10::float8 IS NULL OR $11::float8 IS NULL THEN NULL
				ELSE ST_SetSRID(ST_MakePoint($11::float8, $10::float8), 4326)::geography END,
			$12, $13
		)
		RETURNING id, created_at, updated_at
	`

	if venue.Status == "" {
		venue.Status = StatusActive
	}
	lat, lng := locationArgs(venue)

	err := r.db.QueryRow(ctx, query,
		venue.Name,
		venue.Slug,
		venue.Address,
		venue.City,
		venue.State,
		venue.Zip,
		venue.Phone,
		venue.Website,
		venue.Description,
		lat,
		lng,
		string(venue.Status),
		venue.OwnerID,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting venue: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of an existing venue. Name, city and
// slug are left untouched.
func (r *Repository) Update(ctx context.Context, venue *Venue) error {
	const query = `
		UPDATE venues SET
			address = $1,
			state = $2,
			zip = $3,
			phone = $4,
			website = $5,
			description = $6,
			lat = $7::float8,
			lng = $8::float8,
			location = CASE WHEN $7::float8 IS NULL OR $8::float8 IS NULL THEN NULL
				ELSE ST_SetSRID(ST_MakePoint($8::float8, $7::float8), 4326)::geography END,
			updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	lat, lng := locationArgs(venue)

	err := r.db.QueryRow(ctx, query,
		venue.Address,
		venue.State,
		venue.Zip,
		venue.Phone,
		venue.Website,
		venue.Description,
		lat,
		lng,
		venue.ID,
	).Scan(&venue.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVenueNotFound
		}
		return fmt.Errorf("failed to update venue: %w", err)
	}
	return nil
}

const venueColumns = `
	id, name, slug, address, city, state, zip, phone, website, description,
	lat, lng, status, owner_id, created_at, updated_at`

func scanVenue(row pgx.Row) (*Venue, error) {
	var (
		v        Venue
		lat, lng *float64
	)
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Slug,
		&v.Address,
		&v.City,
		&v.State,
		&v.Zip,
		&v.Phone,
		&v.Website,
		&v.Description,
		&lat,
		&lng,
		&v.Status,
		&v.OwnerID,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	if lat != nil && lng != nil {
		v.Location = &geo.Point{Lat: *lat, Lng: *lng}
	}
	return &v, nil
}

func (r *Repository) GetByID(ctx context.Context, venueID uuid.UUID) (*Venue, error) {
	return scanVenue(r.db.QueryRow(ctx, `SELECT`+venueColumns+` FROM venues WHERE id = $1`, venueID))
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Venue, error) {
	return scanVenue(r.db.QueryRow(ctx, `SELECT`+venueColumns+` FROM venues WHERE slug = $1`, slug))
}

// FindByNameCity is the seeding identity: one venue per (name, city).
func (r *Repository) FindByNameCity(ctx context.Context, name, city string) (*Venue, error) {
	return scanVenue(r.db.QueryRow(ctx,
		`SELECT`+venueColumns+` FROM venues WHERE name = $1 AND city = $2 ORDER BY created_at LIMIT 1`,
		name, city))
}

func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM venues WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (r *Repository) SetStatus(ctx context.Context, venueID uuid.UUID, status Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE venues SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), venueID)
	if err != nil {
		return fmt.Errorf("failed to set venue status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *Repository) LinkTeam(ctx context.Context, venueID, teamID uuid.UUID, confirmed bool) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO venue_teams (venue_id, team_id, is_confirmed)
		VALUES ($1, $2, $3)
		ON CONFLICT (venue_id, team_id) DO NOTHING`,
		venueID, teamID, confirmed)
	if err != nil {
		return false, fmt.Errorf("failed to link team: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
