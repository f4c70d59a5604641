package matchreview

import (
	"context"
	"fmt"
	"time"

	"rbar/internal/db"
)

const queryTimeout = 5 * time.Second

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Store {
	return &Repository{db: q}
}

func (r *Repository) Enqueue(ctx context.Context, c *Candidate) error {
	query := `
		INSERT INTO team_match_reviews (league_short, external_id, external_name, external_short, suggested_team_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (league_short, external_id) DO UPDATE
		SET external_name = EXCLUDED.external_name,
		    suggested_team_id = EXCLUDED.suggested_team_id
		RETURNING id, resolved, created_at
	`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var short *string
	if c.ExternalShort != "" {
		short = &c.ExternalShort
	}

	err := r.db.QueryRow(ctx, query, c.LeagueShort, c.ExternalID, c.ExternalName, short, c.SuggestedTeam).
		Scan(&c.ID, &c.Resolved, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("enqueue match review %s/%s: %w", c.LeagueShort, c.ExternalID, err)
	}
	return nil
}

func (r *Repository) ListPending(ctx context.Context) ([]Candidate, error) {
	query := `
		SELECT m.id, m.league_short, m.external_id, m.external_name, COALESCE(m.external_short, ''),
		       m.suggested_team_id, COALESCE(t.city || ' ' || t.name, ''), m.resolved, m.created_at
		FROM team_match_reviews m
		LEFT JOIN teams t ON t.id = m.suggested_team_id
		WHERE NOT m.resolved
		ORDER BY m.created_at ASC
	`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list match reviews: %w", err)
	}
	defer rows.Close()

	out := []Candidate{}
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.LeagueShort, &c.ExternalID, &c.ExternalName, &c.ExternalShort,
			&c.SuggestedTeam, &c.SuggestedLabel, &c.Resolved, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match review: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
