package games

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	QueryTimeoutDuration = time.Second * 5
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
)

// Game is a fixture between two tracked teams, keyed by the upstream event id.
type Game struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	LeagueID   uuid.UUID `json:"league_id"`
	HomeTeamID uuid.UUID `json:"home_team_id"`
	AwayTeamID uuid.UUID `json:"away_team_id"`
	StartsAt   time.Time `json:"starts_at"`
	Status     Status    `json:"status"`
	HomeScore  *int      `json:"home_score,omitempty"`
	AwayScore  *int      `json:"away_score,omitempty"`
	Season     string    `json:"season"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Fixture is the read model for schedule listings.
type Fixture struct {
	ID       uuid.UUID `json:"id"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	StartsAt time.Time `json:"starts_at"`
	Status   Status    `json:"status"`
}

type Store interface {
	// UpsertByExternalID inserts or refreshes a game. Returns true when a
	// new row was created.
	UpsertByExternalID(ctx context.Context, game *Game) (bool, error)
	GetByID(ctx context.Context, gameID uuid.UUID) (*Game, error)
	UpcomingForTeam(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]Fixture, error)
}
