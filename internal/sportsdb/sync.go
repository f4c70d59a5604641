package sportsdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rbar/internal/domain/games"
	"rbar/internal/domain/matchreview"
	"rbar/internal/domain/teams"

	"go.uber.org/zap"
)

const (
	// GameWindow is how far ahead fixtures are synced.
	GameWindow = 14 * 24 * time.Hour

	defaultEventTime = "12:00:00+00:00"

	JobLogos = "logos"
	JobGames = "games"
)

var completedStatuses = map[string]bool{
	"Match Finished": true,
	"Final":          true,
	"FT":             true,
}

type Upstream interface {
	TeamsByLeague(ctx context.Context, searchName, searchSport string) ([]Team, error)
	EventsBySeason(ctx context.Context, leagueID, season string) ([]Event, error)
}

type Recorder interface {
	ObserveSyncRun(job, status string)
	AddSyncItems(job, result string, n int)
}

type LogoReport struct {
	LeaguesUpdated  int      `json:"leaguesUpdated"`
	TeamsUpdated    int      `json:"teamsUpdated"`
	QueuedForReview int      `json:"queuedForReview"`
	Warnings        []string `json:"warnings"`
}

type GamesReport struct {
	GamesCreated   int      `json:"gamesCreated"`
	GamesUpdated   int      `json:"gamesUpdated"`
	LeaguesSkipped int      `json:"leaguesSkipped"`
	Warnings       []string `json:"warnings"`
}

type Report struct {
	Logos LogoReport  `json:"logos"`
	Games GamesReport `json:"games"`
}

type Syncer struct {
	upstream Upstream
	teams    teams.Store
	games    games.Store
	reviews  matchreview.Store
	leagues  []LeagueConfig
	logger   *zap.SugaredLogger

	// Optional.
	Logos   LogoMirror
	Metrics Recorder

	now func() time.Time
}

func NewSyncer(
	upstream Upstream,
	teamStore teams.Store,
	gameStore games.Store,
	reviews matchreview.Store,
	leagues []LeagueConfig,
	logger *zap.SugaredLogger,
) *Syncer {
	return &Syncer{
		upstream: upstream,
		teams:    teamStore,
		games:    gameStore,
		reviews:  reviews,
		leagues:  leagues,
		logger:   logger,
		now:      time.Now,
	}
}

// Run syncs team references first so fixtures can match on upstream ids.
func (s *Syncer) Run(ctx context.Context) (Report, error) {
	var report Report
	var err error

	report.Logos, err = s.SyncTeamLogos(ctx)
	if err != nil {
		return report, err
	}
	report.Games, err = s.SyncUpcomingGames(ctx)
	return report, err
}

// SyncTeamLogos stores upstream league ids, team ids and badges. Upstream
// failures become warnings; store failures abort.
func (s *Syncer) SyncTeamLogos(ctx context.Context) (report LogoReport, err error) {
	report.Warnings = []string{}
	defer func() { s.record(JobLogos, err, map[string]int{"updated": report.TeamsUpdated, "queued": report.QueuedForReview}) }()

	leagues, err := s.teams.ListLeagues(ctx)
	if err != nil {
		return report, fmt.Errorf("list leagues: %w", err)
	}
	byShort := make(map[string]teams.League, len(leagues))
	for _, l := range leagues {
		byShort[l.ShortName] = l
	}

	for _, cfg := range s.leagues {
		league, ok := byShort[cfg.ShortName]
		if !ok {
			report.warn("league not found in database: %s", cfg.ShortName)
			continue
		}

		if err := s.teams.SetLeagueExternalID(ctx, league.ID, cfg.ExternalID); err != nil {
			return report, fmt.Errorf("set league %s external id: %w", cfg.ShortName, err)
		}
		report.LeaguesUpdated++

		upTeams, err := s.upstream.TeamsByLeague(ctx, cfg.SearchName, cfg.SearchSport)
		if err != nil {
			report.warn("failed to fetch teams for %s: %v", cfg.ShortName, err)
			continue
		}

		local, err := s.teams.ListByLeague(ctx, league.ID)
		if err != nil {
			return report, fmt.Errorf("list teams for %s: %w", cfg.ShortName, err)
		}

		for _, up := range upTeams {
			match, candidate := matchTeam(local, up)
			switch {
			case match != nil:
				logo := s.logoURL(ctx, &report, cfg.ShortName, *match, up.Badge)
				if err := s.teams.SetExternalRefs(ctx, match.ID, up.ID, logo); err != nil {
					return report, fmt.Errorf("update team %s: %w", match.FullName(), err)
				}
				report.TeamsUpdated++

			case candidate != nil:
				c := &matchreview.Candidate{
					LeagueShort:   cfg.ShortName,
					ExternalID:    up.ID,
					ExternalName:  up.Name,
					ExternalShort: up.ShortName,
					SuggestedTeam: &candidate.ID,
				}
				if err := s.reviews.Enqueue(ctx, c); err != nil {
					return report, err
				}
				report.QueuedForReview++
				report.warn("queued %q (%s) for review, closest match %s", up.Name, cfg.ShortName, candidate.FullName())

			default:
				report.warn("no match for upstream team: %s (%s)", up.Name, cfg.ShortName)
			}
		}
	}

	s.logger.Infow("team logo sync finished",
		"leagues_updated", report.LeaguesUpdated,
		"teams_updated", report.TeamsUpdated,
		"queued_for_review", report.QueuedForReview,
		"warnings", len(report.Warnings),
	)
	return report, nil
}

func (s *Syncer) logoURL(ctx context.Context, report *LogoReport, leagueShort string, team teams.Team, badge string) *string {
	if badge == "" {
		return nil
	}
	if s.Logos == nil {
		return &badge
	}
	mirrored, err := s.Logos.Mirror(ctx, logoPublicID(leagueShort, team.Abbreviation), badge)
	if err != nil {
		report.warn("mirror logo for %s: %v", team.FullName(), err)
		return &badge
	}
	return &mirrored
}

// SyncUpcomingGames upserts fixtures starting within GameWindow for every
// league that already carries an upstream id.
func (s *Syncer) SyncUpcomingGames(ctx context.Context) (report GamesReport, err error) {
	report.Warnings = []string{}
	defer func() {
		s.record(JobGames, err, map[string]int{"created": report.GamesCreated, "updated": report.GamesUpdated})
	}()

	now := s.now().UTC()
	windowEnd := now.Add(GameWindow)

	leagues, err := s.teams.ListLeagues(ctx)
	if err != nil {
		return report, fmt.Errorf("list leagues: %w", err)
	}

	byExternal := make(map[string]LeagueConfig, len(s.leagues))
	for _, cfg := range s.leagues {
		byExternal[cfg.ExternalID] = cfg
	}

	for _, league := range leagues {
		if league.ExternalID == nil || *league.ExternalID == "" {
			continue
		}
		cfg, ok := byExternal[*league.ExternalID]
		if !ok {
			report.LeaguesSkipped++
			continue
		}

		season := CurrentSeason(cfg.ShortName, now)
		events, err := s.upstream.EventsBySeason(ctx, *league.ExternalID, season)
		if err != nil {
			report.warn("failed to fetch events for %s season %s: %v", cfg.ShortName, season, err)
			continue
		}

		local, err := s.teams.ListByLeague(ctx, league.ID)
		if err != nil {
			return report, fmt.Errorf("list teams for %s: %w", cfg.ShortName, err)
		}
		idx := newFixtureIndex(local)

		for _, ev := range events {
			start, err := eventStart(ev)
			if err != nil {
				report.warn("event %s: %v", ev.ID, err)
				continue
			}
			if start.Before(now) || start.After(windowEnd) {
				continue
			}

			home := idx.lookup(ev.HomeID, ev.HomeTeam)
			away := idx.lookup(ev.AwayID, ev.AwayTeam)
			if home == nil || away == nil {
				report.warn("could not match teams for event %s: %q vs %q", ev.ID, ev.HomeTeam, ev.AwayTeam)
				continue
			}

			g := &games.Game{
				ExternalID: ev.ID,
				LeagueID:   league.ID,
				HomeTeamID: home.ID,
				AwayTeamID: away.ID,
				StartsAt:   start,
				Status:     games.StatusScheduled,
				HomeScore:  parseScore(ev.HomeScore),
				AwayScore:  parseScore(ev.AwayScore),
				Season:     season,
			}
			if completedStatuses[ev.Status] {
				g.Status = games.StatusCompleted
			}

			created, err := s.games.UpsertByExternalID(ctx, g)
			if err != nil {
				return report, err
			}
			if created {
				report.GamesCreated++
			} else {
				report.GamesUpdated++
			}
		}
	}

	s.logger.Infow("upcoming games sync finished",
		"games_created", report.GamesCreated,
		"games_updated", report.GamesUpdated,
		"leagues_skipped", report.LeaguesSkipped,
		"warnings", len(report.Warnings),
	)
	return report, nil
}

var eventTimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// eventStart combines dateEvent and strTime. Times without an offset are UTC.
func eventStart(ev Event) (time.Time, error) {
	date := strings.TrimSpace(ev.Date)
	if date == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	clock := defaultEventTime
	if ev.Time != nil && strings.TrimSpace(*ev.Time) != "" {
		clock = strings.TrimSpace(*ev.Time)
	}

	raw := date + "T" + clock
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable start %q", raw)
}

func parseScore(raw *string) *int {
	if raw == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return nil
	}
	return &n
}

func (r *LogoReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *GamesReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (s *Syncer) record(job string, err error, items map[string]int) {
	if s.Metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	s.Metrics.ObserveSyncRun(job, status)
	for result, n := range items {
		s.Metrics.AddSyncItems(job, result, n)
	}
}
