package games

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rbar/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Store {
	return &Repository{db: q}
}

func (r *Repository) UpsertByExternalID(ctx context.Context, game *Game) (bool, error) {
	query := `
		INSERT INTO games (external_id, league_id, home_team_id, away_team_id, starts_at, status, home_score, away_score, season)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (external_id) DO UPDATE SET
			starts_at  = EXCLUDED.starts_at,
			status     = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			updated_at = now()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var inserted bool
	err := r.db.QueryRow(ctx, query,
		game.ExternalID,
		game.LeagueID,
		game.HomeTeamID,
		game.AwayTeamID,
		game.StartsAt,
		game.Status,
		game.HomeScore,
		game.AwayScore,
		game.Season,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert game %s: %w", game.ExternalID, err)
	}
	return inserted, nil
}

func (r *Repository) GetByID(ctx context.Context, gameID uuid.UUID) (*Game, error) {
	query := `
		SELECT id, external_id, league_id, home_team_id, away_team_id, starts_at, status,
		       home_score, away_score, season, created_at, updated_at
		FROM games
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	g := &Game{}
	err := r.db.QueryRow(ctx, query, gameID).Scan(
		&g.ID, &g.ExternalID, &g.LeagueID, &g.HomeTeamID, &g.AwayTeamID, &g.StartsAt,
		&g.Status, &g.HomeScore, &g.AwayScore, &g.Season, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *Repository) UpcomingForTeam(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]Fixture, error) {
	query := `
		SELECT g.id,
		       h.city || ' ' || h.name,
		       a.city || ' ' || a.name,
		       g.starts_at,
		       g.status
		FROM games g
		JOIN teams h ON h.id = g.home_team_id
		JOIN teams a ON a.id = g.away_team_id
		WHERE (g.home_team_id = $1 OR g.away_team_id = $1)
		  AND g.starts_at >= $2 AND g.starts_at < $3
		ORDER BY g.starts_at ASC, g.id ASC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, teamID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query upcoming games: %w", err)
	}
	defer rows.Close()

	fixtures := []Fixture{}
	for rows.Next() {
		var f Fixture
		if err := rows.Scan(&f.ID, &f.HomeTeam, &f.AwayTeam, &f.StartsAt, &f.Status); err != nil {
			return nil, fmt.Errorf("scan fixture: %w", err)
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}
