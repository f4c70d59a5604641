package matchreview

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Candidate is an upstream team that only matched a local team by substring.
// It is held for a human to confirm instead of being linked automatically.
type Candidate struct {
	ID             uuid.UUID  `json:"id"`
	LeagueShort    string     `json:"league"`
	ExternalID     string     `json:"external_id"`
	ExternalName   string     `json:"external_name"`
	ExternalShort  string     `json:"external_short,omitempty"`
	SuggestedTeam  *uuid.UUID `json:"suggested_team_id,omitempty"`
	SuggestedLabel string     `json:"suggested_team,omitempty"`
	Resolved       bool       `json:"resolved"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Store interface {
	// Enqueue records a candidate once per (league, external id).
	Enqueue(ctx context.Context, c *Candidate) error
	ListPending(ctx context.Context) ([]Candidate, error)
}
