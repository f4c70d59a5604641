package sportsdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"rbar/internal/domain/games"
	"rbar/internal/domain/teams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strptr(s string) *string { return &s }

type syncFixture struct {
	teams    *fakeTeams
	games    *fakeGames
	reviews  *fakeReviews
	upstream *fakeUpstream
	syncer   *Syncer

	nfl   teams.League
	bears teams.Team
	pack  teams.Team
}

func newSyncFixture(now time.Time) *syncFixture {
	f := &syncFixture{
		teams:    newFakeTeams(),
		games:    newFakeGames(),
		reviews:  &fakeReviews{},
		upstream: &fakeUpstream{teams: map[string][]Team{}, events: map[string][]Event{}},
	}
	f.nfl = f.teams.addLeague("NFL", teams.SportAmericanFootball)
	f.bears = f.teams.addTeam(f.nfl, "Chicago", "Bears", "CHI")
	f.pack = f.teams.addTeam(f.nfl, "Green Bay", "Packers", "GB")

	f.syncer = NewSyncer(f.upstream, f.teams, f.games, f.reviews,
		[]LeagueConfig{{ShortName: "NFL", ExternalID: "4391", SearchName: "NFL"}},
		zap.NewNop().Sugar())
	f.syncer.now = func() time.Time { return now }
	return f
}

func TestSyncTeamLogos(t *testing.T) {
	f := newSyncFixture(time.Now())
	f.upstream.teams["NFL"] = []Team{
		{ID: "134938", Name: "Chicago Bears", ShortName: "CHI", Badge: "https://img/bears.png"},
		{ID: "134940", Name: "Green Bay Packers", Badge: ""},
		{ID: "999", Name: "Chicago Bears Legends"},
		{ID: "555", Name: "Nobody FC"},
	}
	rec := newFakeRecorder()
	f.syncer.Metrics = rec

	report, err := f.syncer.SyncTeamLogos(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.LeaguesUpdated)
	assert.Equal(t, 2, report.TeamsUpdated)
	assert.Equal(t, 1, report.QueuedForReview)
	assert.Len(t, report.Warnings, 2)

	assert.Equal(t, "4391", *f.teams.leagues[0].ExternalID)
	assert.Equal(t, "134938", f.teams.refs[f.bears.ID])
	assert.Equal(t, "https://img/bears.png", *f.teams.logos[f.bears.ID])
	assert.Equal(t, "134940", f.teams.refs[f.pack.ID])
	assert.Nil(t, f.teams.logos[f.pack.ID])

	require.Len(t, f.reviews.queued, 1)
	assert.Equal(t, "999", f.reviews.queued[0].ExternalID)
	assert.Equal(t, f.bears.ID, *f.reviews.queued[0].SuggestedTeam)

	assert.Equal(t, "success", rec.runs[JobLogos])
	assert.Equal(t, 2, rec.items["logos/updated"])
}

func TestSyncTeamLogosMirrorsBadges(t *testing.T) {
	f := newSyncFixture(time.Now())
	f.upstream.teams["NFL"] = []Team{{ID: "1", Name: "Chicago Bears", Badge: "https://img/bears.png"}}
	mirror := &fakeMirror{}
	f.syncer.Logos = mirror

	_, err := f.syncer.SyncTeamLogos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"nfl-chi"}, mirror.calls)
	assert.Equal(t, "https://res.cloudinary.com/demo/team-logos/nfl-chi.png", *f.teams.logos[f.bears.ID])

	mirror.err = errors.New("quota")
	report, err := f.syncer.SyncTeamLogos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://img/bears.png", *f.teams.logos[f.bears.ID])
	assert.Len(t, report.Warnings, 1)
}

func TestSyncTeamLogosUpstreamFailureIsWarning(t *testing.T) {
	f := newSyncFixture(time.Now())
	f.syncer.leagues = append(f.syncer.leagues, LeagueConfig{ShortName: "XFL", ExternalID: "1", SearchName: "XFL"})
	f.upstream.teamsErr = ErrUpstream

	report, err := f.syncer.SyncTeamLogos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.LeaguesUpdated)
	assert.Zero(t, report.TeamsUpdated)
	assert.Len(t, report.Warnings, 2)
}

func TestSyncTeamLogosStoreFailureAborts(t *testing.T) {
	f := newSyncFixture(time.Now())
	f.teams.err = errors.New("db down")
	rec := newFakeRecorder()
	f.syncer.Metrics = rec

	_, err := f.syncer.SyncTeamLogos(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "failure", rec.runs[JobLogos])
}

func TestSyncUpcomingGames(t *testing.T) {
	now := time.Date(2025, time.October, 1, 15, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)
	f.teams.leagues[0].ExternalID = strptr("4391")
	f.teams.refs[f.bears.ID] = "134938"

	f.upstream.events["4391"] = []Event{
		// matched by upstream id for home and by name for away
		{ID: "e1", Date: "2025-10-05", Time: strptr("17:00:00"), HomeID: "134938", HomeTeam: "Da Bears", AwayTeam: "Green Bay Packers", Status: "Not Started"},
		// no time, defaults to noon UTC
		{ID: "e2", Date: "2025-10-12", AwayID: "134938", HomeTeam: "Green Bay Packers", Status: "NS"},
		// finished within the window
		{ID: "e3", Date: "2025-10-01", Time: strptr("18:00:00+00:00"), HomeTeam: "Chicago Bears", AwayTeam: "Green Bay Packers", HomeScore: strptr("24"), AwayScore: strptr("17"), Status: "FT"},
		// in the past
		{ID: "e4", Date: "2025-09-28", Time: strptr("17:00:00"), HomeTeam: "Chicago Bears", AwayTeam: "Green Bay Packers"},
		// beyond 14 days
		{ID: "e5", Date: "2025-10-20", HomeTeam: "Chicago Bears", AwayTeam: "Green Bay Packers"},
		// unknown opponent
		{ID: "e6", Date: "2025-10-03", HomeTeam: "Chicago Bears", AwayTeam: "Detroit Lions"},
		// bad date
		{ID: "e7", Date: "10/03/2025", HomeTeam: "Chicago Bears", AwayTeam: "Green Bay Packers"},
	}

	report, err := f.syncer.SyncUpcomingGames(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.GamesCreated)
	assert.Zero(t, report.GamesUpdated)
	assert.Len(t, report.Warnings, 2)
	assert.Equal(t, []string{"2025"}, f.upstream.seasons)

	e1 := f.games.byExternal["e1"]
	assert.Equal(t, f.bears.ID, e1.HomeTeamID)
	assert.Equal(t, f.pack.ID, e1.AwayTeamID)
	assert.Equal(t, time.Date(2025, 10, 5, 17, 0, 0, 0, time.UTC), e1.StartsAt)
	assert.Equal(t, games.StatusScheduled, e1.Status)

	e2 := f.games.byExternal["e2"]
	assert.Equal(t, time.Date(2025, 10, 12, 12, 0, 0, 0, time.UTC), e2.StartsAt)
	assert.Equal(t, f.bears.ID, e2.AwayTeamID)

	e3 := f.games.byExternal["e3"]
	assert.Equal(t, games.StatusCompleted, e3.Status)
	require.NotNil(t, e3.HomeScore)
	assert.Equal(t, 24, *e3.HomeScore)
	assert.Equal(t, 17, *e3.AwayScore)

	report, err = f.syncer.SyncUpcomingGames(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.GamesCreated)
	assert.Equal(t, 3, report.GamesUpdated)
}

func TestSyncUpcomingGamesSkipsLeagues(t *testing.T) {
	f := newSyncFixture(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	nba := f.teams.addLeague("NBA", teams.SportBasketball)
	f.teams.leagues[1].ExternalID = strptr("4387")
	_ = nba

	report, err := f.syncer.SyncUpcomingGames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.LeaguesSkipped)
	assert.Empty(t, f.upstream.seasons, "NFL has no external id yet")
}

func TestSyncUpcomingGamesUpstreamFailureIsWarning(t *testing.T) {
	f := newSyncFixture(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	f.teams.leagues[0].ExternalID = strptr("4391")
	f.upstream.eventsErr = ErrUpstream

	report, err := f.syncer.SyncUpcomingGames(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "season 2024")
}

func TestRun(t *testing.T) {
	now := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	f := newSyncFixture(now)
	f.upstream.teams["NFL"] = []Team{
		{ID: "134938", Name: "Chicago Bears", ShortName: "CHI"},
		{ID: "134940", Name: "Green Bay Packers", ShortName: "GB"},
	}
	f.upstream.events["4391"] = []Event{
		{ID: "e1", Date: "2025-10-05", HomeID: "134938", AwayID: "134940"},
	}

	report, err := f.syncer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Logos.TeamsUpdated)
	assert.Equal(t, 1, report.Games.GamesCreated)
}
