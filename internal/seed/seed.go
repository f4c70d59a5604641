// Package seed loads curated venue lists into the database: each record is
// geocoded, upserted by (name, city) and linked to the teams it shows.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rbar/internal/domain/storage"
	"rbar/internal/domain/teams"
	"rbar/internal/domain/venues"
	"rbar/internal/geocoding"
	"rbar/internal/slug"

	"go.uber.org/zap"
)

// Record is one venue entry of a seed file. Teams are "LEAGUE:ABBR" keys,
// e.g. "NFL:CHI".
type Record struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Zip         *string  `json:"zip,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Website     *string  `json:"website,omitempty"`
	Description *string  `json:"description,omitempty"`
	Teams       []string `json:"teams"`
}

type File struct {
	Name    string
	Records []Record
}

type Report struct {
	VenuesCreated    int      `json:"venuesCreated"`
	VenuesUpdated    int      `json:"venuesUpdated"`
	VenuesSkipped    int      `json:"venuesSkipped"`
	TeamLinksCreated int      `json:"teamLinksCreated"`
	Warnings         []string `json:"warnings"`
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Transactor is satisfied by *storage.Container.
type Transactor interface {
	WithTx(ctx context.Context, fn func(s *storage.Tx) error) error
}

type Seeder struct {
	geocoder geocoding.Geocoder
	store    Transactor
	logger   *zap.SugaredLogger
}

func NewSeeder(geocoder geocoding.Geocoder, store Transactor, logger *zap.SugaredLogger) *Seeder {
	return &Seeder{geocoder: geocoder, store: store, logger: logger}
}

// LoadDir reads every *.json file in dir, in name order.
func LoadDir(dir string) ([]File, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var records []Record
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		files = append(files, File{Name: filepath.Base(path), Records: records})
	}
	return files, nil
}

// Run seeds every record. Geocoding misses and unknown team keys are
// reported as warnings; store failures abort.
func (s *Seeder) Run(ctx context.Context, files []File) (Report, error) {
	var report Report
	for _, f := range files {
		s.logger.Infow("processing seed file", "file", f.Name, "venues", len(f.Records))
		for _, rec := range f.Records {
			if err := s.seedRecord(ctx, &report, rec); err != nil {
				return report, fmt.Errorf("%s: %s, %s: %w", f.Name, rec.Name, rec.City, err)
			}
		}
	}
	return report, nil
}

func (s *Seeder) seedRecord(ctx context.Context, report *Report, rec Record) error {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.City = strings.TrimSpace(rec.City)
	if rec.Name == "" || rec.City == "" {
		report.VenuesSkipped++
		report.warn("record without name or city skipped")
		return nil
	}

	if slug.Make(rec.Name, rec.City) == "" {
		report.VenuesSkipped++
		report.warn("%s, %s: no usable slug characters", rec.Name, rec.City)
		return nil
	}

	// the geocoder throttles itself
	place, found, err := s.geocoder.LookupAddress(ctx, rec.Address, rec.City, rec.State)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report.VenuesSkipped++
		report.warn("%s, %s: geocoding failed: %v", rec.Name, rec.City, err)
		return nil
	}
	if !found {
		report.VenuesSkipped++
		report.warn("%s, %s: address not found", rec.Name, rec.City)
		return nil
	}

	return s.store.WithTx(ctx, func(tx *storage.Tx) error {
		venue, created, err := upsertVenue(ctx, tx.Venues, rec, place)
		if err != nil {
			return err
		}
		if created {
			report.VenuesCreated++
			s.logger.Infow("created venue", "name", venue.Name, "slug", venue.Slug)
		} else {
			report.VenuesUpdated++
			s.logger.Infow("updated venue", "name", venue.Name, "id", venue.ID)
		}

		for _, key := range rec.Teams {
			team, err := resolveTeam(ctx, tx.Teams, key)
			if err != nil {
				if errors.Is(err, teams.ErrTeamNotFound) || errors.Is(err, errBadTeamKey) {
					report.warn("%s: %v", rec.Name, err)
					continue
				}
				return err
			}
			linked, err := tx.Venues.LinkTeam(ctx, venue.ID, team.ID, true)
			if err != nil {
				return err
			}
			if linked {
				report.TeamLinksCreated++
			}
		}
		return nil
	})
}

func upsertVenue(ctx context.Context, store venues.Store, rec Record, place geocoding.Place) (*venues.Venue, bool, error) {
	existing, err := store.FindByNameCity(ctx, rec.Name, rec.City)
	switch {
	case err == nil:
		existing.Address = rec.Address
		existing.State = rec.State
		existing.Zip = rec.Zip
		existing.Phone = rec.Phone
		existing.Website = rec.Website
		existing.Description = rec.Description
		existing.SetLocation(place.Point)
		if err := store.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case !errors.Is(err, venues.ErrVenueNotFound):
		return nil, false, err
	}

	s, err := slug.Unique(ctx, slug.Make(rec.Name, rec.City), store.SlugExists)
	if err != nil {
		return nil, false, err
	}
	venue := &venues.Venue{
		Name:        rec.Name,
		Slug:        s,
		Address:     rec.Address,
		City:        rec.City,
		State:       rec.State,
		Zip:         rec.Zip,
		Phone:       rec.Phone,
		Website:     rec.Website,
		Description: rec.Description,
		Status:      venues.StatusActive,
	}
	venue.SetLocation(place.Point)
	if err := store.Create(ctx, venue); err != nil {
		return nil, false, err
	}
	return venue, true, nil
}

var errBadTeamKey = errors.New("invalid team key")

func resolveTeam(ctx context.Context, store teams.Store, key string) (*teams.Team, error) {
	league, abbr, ok := strings.Cut(key, ":")
	league, abbr = strings.TrimSpace(league), strings.TrimSpace(abbr)
	if !ok || league == "" || abbr == "" {
		return nil, fmt.Errorf("%w %q", errBadTeamKey, key)
	}
	team, err := store.FindByLeagueAbbreviation(ctx, league, abbr)
	if err != nil {
		return nil, fmt.Errorf("team %s: %w", key, err)
	}
	return team, nil
}
