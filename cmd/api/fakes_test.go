package main

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rbar/internal/auth"
	"rbar/internal/domain/games"
	"rbar/internal/domain/matchreview"
	"rbar/internal/domain/storage"
	"rbar/internal/domain/teams"
	"rbar/internal/domain/users"
	venuereviews "rbar/internal/domain/venuereview"
	"rbar/internal/domain/venues"
	"rbar/internal/geocoding"
	"rbar/internal/ratelimiter"
	"rbar/internal/search"
	"rbar/internal/sportsdb"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const testAdminSecret = "s3cret"

// venueStore serves the spatial reads from a MemoryStore and the lookups from
// a map. Methods the handlers never call fall through to the nil embedded
// interface.
type venueStore struct {
	venues.Store
	mem   *venues.MemoryStore
	mu    sync.Mutex
	byID  map[uuid.UUID]venues.Venue
	calls atomic.Int32
	err   error
}

func newVenueStore() *venueStore {
	return &venueStore{
		mem:  venues.NewMemoryStore(),
		byID: make(map[uuid.UUID]venues.Venue),
	}
}

func (s *venueStore) put(v venues.Venue) uuid.UUID {
	id := s.mem.Put(v)
	v.ID = id
	if v.Status == "" {
		v.Status = venues.StatusActive
	}
	s.mu.Lock()
	s.byID[id] = v
	s.mu.Unlock()
	return id
}

func (s *venueStore) WithinRadius(ctx context.Context, f venues.ProximityFilter) ([]venues.NearbyVenue, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.mem.WithinRadius(ctx, f)
}

func (s *venueStore) TeamsForVenues(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]venues.TeamSummary, error) {
	return s.mem.TeamsForVenues(ctx, ids)
}

func (s *venueStore) RatingsForVenues(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]venues.RatingAggregate, error) {
	return s.mem.RatingsForVenues(ctx, ids)
}

func (s *venueStore) GetByID(_ context.Context, id uuid.UUID) (*venues.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.byID[id]
	if !ok {
		return nil, venues.ErrVenueNotFound
	}
	return &v, nil
}

func (s *venueStore) GetBySlug(_ context.Context, slug string) (*venues.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.byID {
		if v.Slug == slug {
			return &v, nil
		}
	}
	return nil, venues.ErrVenueNotFound
}

type userStore struct {
	mu      sync.Mutex
	byEmail map[string]*users.User
}

func newUserStore() *userStore {
	return &userStore{byEmail: make(map[string]*users.User)}
}

func (s *userStore) Create(_ context.Context, u *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, ok := s.byEmail[email]; ok {
		return users.ErrDuplicateEmail
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	s.byEmail[email] = u
	return nil
}

func (s *userStore) GetByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

type reviewStore struct {
	mu      sync.Mutex
	reviews map[string]*venuereviews.Review
}

func newReviewStore() *reviewStore {
	return &reviewStore{reviews: make(map[string]*venuereviews.Review)}
}

func reviewKey(r *venuereviews.Review) string {
	game := ""
	if r.GameID != nil {
		game = r.GameID.String()
	}
	return r.VenueID.String() + "/" + r.UserID.String() + "/" + game
}

func (s *reviewStore) Upsert(_ context.Context, r *venuereviews.Review) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reviewKey(r)
	if existing, ok := s.reviews[key]; ok {
		r.ID = existing.ID
		s.reviews[key] = r
		return false, nil
	}
	r.ID = uuid.New()
	s.reviews[key] = r
	return true, nil
}

func (s *reviewStore) GetReviews(_ context.Context, venueID uuid.UUID, limit, offset int) ([]venuereviews.Review, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []venuereviews.Review
	for _, r := range s.reviews {
		if r.VenueID == venueID {
			out = append(out, *r)
		}
	}
	total := len(out)
	if offset >= len(out) {
		return []venuereviews.Review{}, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (s *reviewStore) DeleteReview(_ context.Context, reviewID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, r := range s.reviews {
		if r.ID == reviewID && r.UserID == userID {
			delete(s.reviews, key)
			return nil
		}
	}
	return venuereviews.ErrReviewNotFound
}

type matchReviewStore struct {
	pending []matchreview.Candidate
}

func (s *matchReviewStore) Enqueue(_ context.Context, c *matchreview.Candidate) error {
	s.pending = append(s.pending, *c)
	return nil
}

func (s *matchReviewStore) ListPending(context.Context) ([]matchreview.Candidate, error) {
	return s.pending, nil
}

// teamStore keeps teams and favorites in memory. Methods the handlers never
// call fall through to the nil embedded interface.
type teamStore struct {
	teams.Store
	mu         sync.Mutex
	teams      []teams.Team
	favorites  map[uuid.UUID][]uuid.UUID // user -> teams, in insertion order
	lastFilter teams.Filter
}

func newTeamStore(list ...teams.Team) *teamStore {
	return &teamStore{teams: list, favorites: make(map[uuid.UUID][]uuid.UUID)}
}

func (s *teamStore) List(_ context.Context, f teams.Filter) ([]teams.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = f
	out := []teams.Team{}
	for _, t := range s.teams {
		if f.Sport != nil && t.Sport != *f.Sport {
			continue
		}
		if f.League != nil && t.LeagueShort != *f.League {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *teamStore) GetByID(_ context.Context, id uuid.UUID) (*teams.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.teams {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, teams.ErrTeamNotFound
}

func (s *teamStore) ToggleFavorite(_ context.Context, userID, teamID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	favs := s.favorites[userID]
	for i, id := range favs {
		if id == teamID {
			s.favorites[userID] = append(favs[:i], favs[i+1:]...)
			return false, nil
		}
	}
	s.favorites[userID] = append(favs, teamID)
	return true, nil
}

func (s *teamStore) FavoriteTeams(_ context.Context, userID uuid.UUID) ([]teams.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []teams.Team{}
	for _, id := range s.favorites[userID] {
		for _, t := range s.teams {
			if t.ID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

type scheduledGame struct {
	teamID  uuid.UUID
	fixture games.Fixture
}

// gameStore answers UpcomingForTeam the way the SQL does: half-open window,
// soonest first. It records the window it was asked for.
type gameStore struct {
	games.Store
	mu       sync.Mutex
	schedule []scheduledGame
	from, to time.Time
	err      error
}

func (s *gameStore) UpcomingForTeam(_ context.Context, teamID uuid.UUID, from, to time.Time) ([]games.Fixture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.from, s.to = from, to
	if s.err != nil {
		return nil, s.err
	}
	out := []games.Fixture{}
	for _, g := range s.schedule {
		if g.teamID == teamID && !g.fixture.StartsAt.Before(from) && g.fixture.StartsAt.Before(to) {
			out = append(out, g.fixture)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

type fakeGeocoder struct {
	places map[string]geocoding.Place
	err    error
}

func (g *fakeGeocoder) Lookup(_ context.Context, query string) (geocoding.Place, bool, error) {
	if g.err != nil {
		return geocoding.Place{}, false, g.err
	}
	p, ok := g.places[query]
	return p, ok, nil
}

func (g *fakeGeocoder) LookupAddress(ctx context.Context, street, city, state string) (geocoding.Place, bool, error) {
	return g.Lookup(ctx, street+", "+city+", "+state)
}

type fakeSyncer struct {
	runs    atomic.Int32
	report  sportsdb.Report
	err     error
	release chan struct{} // when set, Run blocks until closed
}

func (s *fakeSyncer) Run(ctx context.Context) (sportsdb.Report, error) {
	s.runs.Add(1)
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return sportsdb.Report{}, ctx.Err()
		}
	}
	return s.report, s.err
}

var errBoom = errors.New("boom")

type testEnv struct {
	app     *application
	venues  *venueStore
	users   *userStore
	reviews *reviewStore
	matches *matchReviewStore
	teams   *teamStore
	games   *gameStore
	geo     *fakeGeocoder
	syncer  *fakeSyncer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		venues:  newVenueStore(),
		users:   newUserStore(),
		reviews: newReviewStore(),
		matches: &matchReviewStore{},
		teams:   newTeamStore(),
		games:   &gameStore{},
		geo:     &fakeGeocoder{places: map[string]geocoding.Place{}},
		syncer:  &fakeSyncer{},
	}

	authenticator, err := auth.NewJWTAuthenticator("access", "refresh", "rbar", "rbar")
	if err != nil {
		t.Fatal(err)
	}

	limiter := ratelimiter.NewFixedWindowLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)

	cfg := config{
		env: "test",
		auth: authConfig{
			basic:       basicConfig{user: "admin", pass: "pass"},
			token:       tokenConfig{secret: "access", refreshSecret: "refresh", iss: "rbar"},
			adminSecret: testAdminSecret,
		},
		rateLimiter: ratelimiter.Config{RequestsPerTimeFrame: 2, TimeFrame: time.Minute},
	}

	env.app = &application{
		config: cfg,
		store: &storage.Container{
			Users:         env.users,
			Venues:        env.venues,
			VenuesReviews: env.reviews,
			MatchReviews:  env.matches,
			Teams:         env.teams,
			Games:         env.games,
		},
		search:        search.NewService(env.venues, nil),
		geocoder:      env.geo,
		syncer:        env.syncer,
		logger:        zap.NewNop().Sugar(),
		authenticator: authenticator,
		rateLimiter:   limiter,
	}
	return env
}

// createUser registers a user directly in the fake store and returns a
// bearer access token for it.
func (env *testEnv) createUser(t *testing.T, email, role string) (*users.User, string) {
	t.Helper()

	u := &users.User{Name: "Test", Email: email, Role: role}
	if err := u.Password.Set("password123"); err != nil {
		t.Fatal(err)
	}
	if err := env.users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	access, _, err := env.app.authenticator.GenerateTokens(u.ID, role)
	if err != nil {
		t.Fatal(err)
	}
	return u, access
}
