package sportsdb

import (
	"context"
	"errors"
	"sync"
	"time"

	"rbar/internal/domain/games"
	"rbar/internal/domain/matchreview"
	"rbar/internal/domain/teams"

	"github.com/google/uuid"
)

type fakeTeams struct {
	mu      sync.Mutex
	leagues []teams.League
	teams   []teams.Team
	refs    map[uuid.UUID]string
	logos   map[uuid.UUID]*string
	err     error
}

func newFakeTeams() *fakeTeams {
	return &fakeTeams{refs: map[uuid.UUID]string{}, logos: map[uuid.UUID]*string{}}
}

func (f *fakeTeams) addLeague(short string, sport teams.Sport) teams.League {
	l := teams.League{ID: uuid.New(), Name: short, ShortName: short, Sport: sport}
	f.leagues = append(f.leagues, l)
	return l
}

func (f *fakeTeams) addTeam(l teams.League, city, name, abbr string) teams.Team {
	t := teams.Team{ID: uuid.New(), LeagueID: l.ID, LeagueShort: l.ShortName, City: city, Name: name, Abbreviation: abbr, Sport: l.Sport}
	f.teams = append(f.teams, t)
	return t
}

func (f *fakeTeams) List(ctx context.Context, filter teams.Filter) ([]teams.Team, error) {
	return append([]teams.Team(nil), f.teams...), f.err
}

func (f *fakeTeams) GetByID(ctx context.Context, teamID uuid.UUID) (*teams.Team, error) {
	for i := range f.teams {
		if f.teams[i].ID == teamID {
			return &f.teams[i], nil
		}
	}
	return nil, teams.ErrTeamNotFound
}

func (f *fakeTeams) FindByLeagueAbbreviation(ctx context.Context, leagueShort, abbreviation string) (*teams.Team, error) {
	for i := range f.teams {
		if f.teams[i].LeagueShort == leagueShort && f.teams[i].Abbreviation == abbreviation {
			return &f.teams[i], nil
		}
	}
	return nil, teams.ErrTeamNotFound
}

func (f *fakeTeams) ListByLeague(ctx context.Context, leagueID uuid.UUID) ([]teams.Team, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []teams.Team
	for _, t := range f.teams {
		if t.LeagueID == leagueID {
			if ref, ok := f.refs[t.ID]; ok {
				t.ExternalID = &ref
			}
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTeams) SetExternalRefs(ctx context.Context, teamID uuid.UUID, externalID string, logoURL *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs[teamID] = externalID
	f.logos[teamID] = logoURL
	return nil
}

func (f *fakeTeams) ListLeagues(ctx context.Context) ([]teams.League, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]teams.League(nil), f.leagues...), nil
}

func (f *fakeTeams) SetLeagueExternalID(ctx context.Context, leagueID uuid.UUID, externalID string) error {
	for i := range f.leagues {
		if f.leagues[i].ID == leagueID {
			id := externalID
			f.leagues[i].ExternalID = &id
			return nil
		}
	}
	return errors.New("no such league")
}

func (f *fakeTeams) ToggleFavorite(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeTeams) FavoriteTeams(ctx context.Context, userID uuid.UUID) ([]teams.Team, error) {
	return nil, nil
}

type fakeGames struct {
	byExternal map[string]games.Game
}

func newFakeGames() *fakeGames {
	return &fakeGames{byExternal: map[string]games.Game{}}
}

func (f *fakeGames) UpsertByExternalID(ctx context.Context, g *games.Game) (bool, error) {
	_, exists := f.byExternal[g.ExternalID]
	if !exists {
		g.ID = uuid.New()
	}
	f.byExternal[g.ExternalID] = *g
	return !exists, nil
}

func (f *fakeGames) GetByID(ctx context.Context, gameID uuid.UUID) (*games.Game, error) {
	return nil, games.ErrGameNotFound
}

func (f *fakeGames) UpcomingForTeam(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]games.Fixture, error) {
	return nil, nil
}

type fakeReviews struct {
	queued []matchreview.Candidate
}

func (f *fakeReviews) Enqueue(ctx context.Context, c *matchreview.Candidate) error {
	c.ID = uuid.New()
	f.queued = append(f.queued, *c)
	return nil
}

func (f *fakeReviews) ListPending(ctx context.Context) ([]matchreview.Candidate, error) {
	return f.queued, nil
}

type fakeUpstream struct {
	teams     map[string][]Team  // by search name
	events    map[string][]Event // by league id
	seasons   []string
	teamsErr  error
	eventsErr error
}

func (f *fakeUpstream) TeamsByLeague(ctx context.Context, searchName, searchSport string) ([]Team, error) {
	if f.teamsErr != nil {
		return nil, f.teamsErr
	}
	return f.teams[searchName], nil
}

func (f *fakeUpstream) EventsBySeason(ctx context.Context, leagueID, season string) ([]Event, error) {
	f.seasons = append(f.seasons, season)
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events[leagueID], nil
}

type fakeMirror struct {
	calls []string
	err   error
}

func (f *fakeMirror) Mirror(ctx context.Context, publicID, sourceURL string) (string, error) {
	f.calls = append(f.calls, publicID)
	if f.err != nil {
		return "", f.err
	}
	return "https://res.cloudinary.com/demo/team-logos/" + publicID + ".png", nil
}

type fakeRecorder struct {
	runs  map[string]string
	items map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{runs: map[string]string{}, items: map[string]int{}}
}

func (f *fakeRecorder) ObserveSyncRun(job, status string) { f.runs[job] = status }

func (f *fakeRecorder) AddSyncItems(job, result string, n int) { f.items[job+"/"+result] += n }
