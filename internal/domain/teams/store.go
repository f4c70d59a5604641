package teams

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

const teamColumns = `
	t.id, t.league_id, l.short_name, t.name, t.city, t.abbreviation, t.sport,
	t.logo_url, t.external_id, t.primary_color, t.secondary_color`

func scanTeam(row pgx.Row) (Team, error) {
	var t Team
	err := row.Scan(
		&t.ID,
		&t.LeagueID,
		&t.LeagueShort,
		&t.Name,
		&t.City,
		&t.Abbreviation,
		&t.Sport,
		&t.LogoURL,
		&t.ExternalID,
		&t.PrimaryColor,
		&t.SecondaryColor,
	)
	return t, err
}

func collectTeams(rows pgx.Rows) ([]Team, error) {
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// List returns teams ordered by league then city and name.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Team, error) {
	var (
		where []string
		args  []any
	)

	if filter.Sport != nil {
		args = append(args, string(*filter.Sport))
		where = append(where, fmt.Sprintf("t.sport = $%d", len(args)))
	}
	if filter.League != nil {
		args = append(args, strings.ToUpper(*filter.League))
		where = append(where, fmt.Sprintf("l.short_name = $%d", len(args)))
	}

	query := `SELECT` + teamColumns + `
		FROM teams t
		JOIN leagues l ON l.id = t.league_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY l.short_name, t.city, t.name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return collectTeams(rows)
}

func (r *Repository) GetByID(ctx context.Context, teamID uuid.UUID) (*Team, error) {
	query := `SELECT` + teamColumns + `
		FROM teams t
		JOIN leagues l ON l.id = t.league_id
		WHERE t.id = $1`

	t, err := scanTeam(r.db.QueryRow(ctx, query, teamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByLeagueAbbreviation resolves seed keys like "NFL:CHI".
func (r *Repository) FindByLeagueAbbreviation(ctx context.Context, leagueShort, abbreviation string) (*Team, error) {
	query := `SELECT` + teamColumns + `
		FROM teams t
		JOIN leagues l ON l.id = t.league_id
		WHERE l.short_name = $1 AND t.abbreviation = $2`

	t, err := scanTeam(r.db.QueryRow(ctx, query, leagueShort, abbreviation))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) ListByLeague(ctx context.Context, leagueID uuid.UUID) ([]Team, error) {
	query := `SELECT` + teamColumns + `
		FROM teams t
		JOIN leagues l ON l.id = t.league_id
		WHERE t.league_id = $1
		ORDER BY t.city, t.name`

	rows, err := r.db.Query(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league teams: %w", err)
	}
	return collectTeams(rows)
}

func (r *Repository) SetExternalRefs(ctx context.Context, teamID uuid.UUID, externalID string, logoURL *string) error {
	query := `UPDATE teams SET external_id = $1, logo_url = $2 WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, externalID, logoURL, teamID)
	if err != nil {
		return fmt.Errorf("update team refs: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *Repository) ListLeagues(ctx context.Context) ([]League, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, short_name, sport, external_id
		FROM leagues
		ORDER BY short_name`)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	defer rows.Close()

	var leagues []League
	for rows.Next() {
		var l League
		if err := rows.Scan(&l.ID, &l.Name, &l.ShortName, &l.Sport, &l.ExternalID); err != nil {
			return nil, err
		}
		leagues = append(leagues, l)
	}
	return leagues, rows.Err()
}

func (r *Repository) SetLeagueExternalID(ctx context.Context, leagueID uuid.UUID, externalID string) error {
	_, err := r.db.Exec(ctx, `UPDATE leagues SET external_id = $1 WHERE id = $2`, externalID, leagueID)
	return err
}

// ToggleFavorite adds the team to the user's favorites, or removes it when it
// is already there. Returns whether the team is a favorite afterwards.
func (r *Repository) ToggleFavorite(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM user_favorite_teams WHERE user_id = $1 AND team_id = $2`,
		userID, teamID)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO user_favorite_teams (user_id, team_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, teamID)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return true, nil
}

func (r *Repository) FavoriteTeams(ctx context.Context, userID uuid.UUID) ([]Team, error) {
	query := `SELECT` + teamColumns + `
		FROM user_favorite_teams f
		JOIN teams t ON t.id = f.team_id
		JOIN leagues l ON l.id = t.league_id
		WHERE f.user_id = $1
		ORDER BY f.created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("favorite teams: %w", err)
	}
	return collectTeams(rows)
}
