package teams

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrTeamNotFound = errors.New("team not found")

type Sport string

const (
	SportAmericanFootball Sport = "AMERICAN_FOOTBALL"
	SportBasketball       Sport = "BASKETBALL"
	SportBaseball         Sport = "BASEBALL"
	SportHockey           Sport = "HOCKEY"
	SportSoccer           Sport = "SOCCER"
)

func (s Sport) Valid() bool {
	switch s {
	case SportAmericanFootball, SportBasketball, SportBaseball, SportHockey, SportSoccer:
		return true
	}
	return false
}

type League struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ShortName  string    `json:"short_name"` // NFL, NBA, ...
	Sport      Sport     `json:"sport"`
	ExternalID *string   `json:"external_id,omitempty"`
}

type Team struct {
	ID             uuid.UUID `json:"id"`
	LeagueID       uuid.UUID `json:"league_id"`
	LeagueShort    string    `json:"league"`
	Name           string    `json:"name"`
	City           string    `json:"city"`
	Abbreviation   string    `json:"abbreviation"`
	Sport          Sport     `json:"sport"`
	LogoURL        *string   `json:"logo_url,omitempty"`
	ExternalID     *string   `json:"external_id,omitempty"`
	PrimaryColor   *string   `json:"primary_color,omitempty"`
	SecondaryColor *string   `json:"secondary_color,omitempty"`
}

// FullName is the "City Name" form used by the sports data feed.
func (t Team) FullName() string {
	return t.City + " " + t.Name
}

type Filter struct {
	Sport  *Sport
	League *string // short name
}

type FavoriteTeam struct {
	UserID    uuid.UUID `json:"user_id"`
	TeamID    uuid.UUID `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	List(ctx context.Context, filter Filter) ([]Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*Team, error)
	FindByLeagueAbbreviation(ctx context.Context, leagueShort, abbreviation string) (*Team, error)
	ListByLeague(ctx context.Context, leagueID uuid.UUID) ([]Team, error)
	SetExternalRefs(ctx context.Context, teamID uuid.UUID, externalID string, logoURL *string) error

	ListLeagues(ctx context.Context) ([]League, error)
	SetLeagueExternalID(ctx context.Context, leagueID uuid.UUID, externalID string) error

	// ... favorite teams
	ToggleFavorite(ctx context.Context, userID, teamID uuid.UUID) (bool, error)
	FavoriteTeams(ctx context.Context, userID uuid.UUID) ([]Team, error)
}
