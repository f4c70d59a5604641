package main

import (
	"net/http"
	"testing"
	"time"

	"rbar/internal/domain/games"
	"rbar/internal/domain/teams"
	"rbar/internal/sportsdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bears      = teams.Team{ID: uuid.New(), LeagueShort: "NFL", Name: "Bears", City: "Chicago", Abbreviation: "CHI", Sport: teams.SportAmericanFootball}
	blackhawks = teams.Team{ID: uuid.New(), LeagueShort: "NHL", Name: "Blackhawks", City: "Chicago", Abbreviation: "CHI", Sport: teams.SportHockey}
	cubs       = teams.Team{ID: uuid.New(), LeagueShort: "MLB", Name: "Cubs", City: "Chicago", Abbreviation: "CHC", Sport: teams.SportBaseball}
)

type teamsBody struct {
	Data []teams.Team `json:"data"`
}

func TestListTeams(t *testing.T) {
	env := newTestEnv(t)
	env.teams.teams = []teams.Team{bears, blackhawks, cubs}
	h := env.app.mount()

	rr := do(t, h, http.MethodGet, "/v1/teams", "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var body teamsBody
	decode(t, rr, &body)
	assert.Len(t, body.Data, 3)

	rr = do(t, h, http.MethodGet, "/v1/teams?sport=hockey", "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body = teamsBody{}
	decode(t, rr, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, blackhawks.ID, body.Data[0].ID)
	require.NotNil(t, env.teams.lastFilter.Sport)
	assert.Equal(t, teams.SportHockey, *env.teams.lastFilter.Sport)

	rr = do(t, h, http.MethodGet, "/v1/teams?league=mlb", "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body = teamsBody{}
	decode(t, rr, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, cubs.ID, body.Data[0].ID)

	rr = do(t, h, http.MethodGet, "/v1/teams?sport=cricket", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTeamGames(t *testing.T) {
	env := newTestEnv(t)
	h := env.app.mount()

	now := time.Now().UTC()
	fixture := func(home, away string, in time.Duration) games.Fixture {
		return games.Fixture{ID: uuid.New(), HomeTeam: home, AwayTeam: away, StartsAt: now.Add(in), Status: games.StatusScheduled}
	}
	later := fixture("Chicago Bears", "Green Bay Packers", 72*time.Hour)
	sooner := fixture("Detroit Lions", "Chicago Bears", 24*time.Hour)
	env.games.schedule = []scheduledGame{
		{teamID: bears.ID, fixture: later},
		{teamID: bears.ID, fixture: fixture("Chicago Bears", "Minnesota Vikings", -24*time.Hour)},
		{teamID: bears.ID, fixture: sooner},
		{teamID: bears.ID, fixture: fixture("Chicago Bears", "Dallas Cowboys", 20*24*time.Hour)},
		{teamID: cubs.ID, fixture: fixture("Chicago Cubs", "St. Louis Cardinals", 2*time.Hour)},
	}

	rr := do(t, h, http.MethodGet, "/v1/teams/"+bears.ID.String()+"/games", "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Data []games.Fixture `json:"data"`
	}
	decode(t, rr, &body)
	require.Len(t, body.Data, 2)
	assert.Equal(t, sooner.ID, body.Data[0].ID)
	assert.Equal(t, later.ID, body.Data[1].ID)

	assert.WithinDuration(t, now, env.games.from, time.Minute)
	assert.Equal(t, sportsdb.GameWindow, env.games.to.Sub(env.games.from))

	rr = do(t, h, http.MethodGet, "/v1/teams/not-a-uuid/games", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	env.games.err = errBoom
	rr = do(t, h, http.MethodGet, "/v1/teams/"+bears.ID.String()+"/games", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestToggleFavoriteTeam(t *testing.T) {
	env := newTestEnv(t)
	env.teams.teams = []teams.Team{bears, cubs}
	h := env.app.mount()
	_, token := env.createUser(t, "fan@example.com", "user")

	toggle := func() bool {
		t.Helper()
		rr := do(t, h, http.MethodPut, "/v1/teams/"+bears.ID.String()+"/favorite", "", bearer(token))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var body struct {
			Data FavoriteToggleResponse `json:"data"`
		}
		decode(t, rr, &body)
		assert.Equal(t, bears.ID, body.Data.TeamID)
		return body.Data.Favorite
	}
	favorites := func() []teams.Team {
		t.Helper()
		rr := do(t, h, http.MethodGet, "/v1/users/me/teams", "", bearer(token))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var body teamsBody
		decode(t, rr, &body)
		return body.Data
	}

	assert.True(t, toggle())
	list := favorites()
	require.Len(t, list, 1)
	assert.Equal(t, bears.ID, list[0].ID)

	assert.False(t, toggle())
	assert.Empty(t, favorites())

	rr := do(t, h, http.MethodPut, "/v1/teams/"+uuid.NewString()+"/favorite", "", bearer(token))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPut, "/v1/teams/not-a-uuid/favorite", "", bearer(token))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPut, "/v1/teams/"+bears.ID.String()+"/favorite", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, h, http.MethodGet, "/v1/users/me/teams", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
