package sportsdb

import (
	"fmt"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultLeagues lists the leagues tracked when no league file is given.
var DefaultLeagues = []LeagueConfig{
	{ShortName: "NFL", ExternalID: "4391", SearchName: "NFL"},
	{ShortName: "NBA", ExternalID: "4387", SearchName: "NBA"},
	{ShortName: "MLB", ExternalID: "4424", SearchName: "MLB"},
	{ShortName: "NHL", ExternalID: "4380", SearchName: "NHL"},
	{ShortName: "MLS", ExternalID: "4346", SearchName: "American Major League Soccer"},
}

// LoadLeagues reads the league table from a YAML file of the form
//
//	leagues:
//	  - short_name: NFL
//	    external_id: "4391"
//	    search_name: NFL
//
// An empty path returns DefaultLeagues.
func LoadLeagues(path string) ([]LeagueConfig, error) {
	if path == "" {
		return append([]LeagueConfig(nil), DefaultLeagues...), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load league file %s: %w", path, err)
	}

	var leagues []LeagueConfig
	if err := k.Unmarshal("leagues", &leagues); err != nil {
		return nil, fmt.Errorf("failed to parse league file %s: %w", path, err)
	}
	if len(leagues) == 0 {
		return nil, fmt.Errorf("league file %s defines no leagues", path)
	}

	seen := make(map[string]bool, len(leagues))
	for i, l := range leagues {
		if l.ShortName == "" || l.ExternalID == "" {
			return nil, fmt.Errorf("league %d in %s: short_name and external_id are required", i, path)
		}
		if seen[l.ShortName] {
			return nil, fmt.Errorf("league %s listed twice in %s", l.ShortName, path)
		}
		seen[l.ShortName] = true
		if l.SearchName == "" {
			leagues[i].SearchName = l.ShortName
		}
	}
	return leagues, nil
}

// CurrentSeason returns the upstream season label for a league at t.
// Winter leagues straddle two years and roll over in July; the NFL season
// is named for the year it starts.
func CurrentSeason(shortName string, t time.Time) string {
	year := t.Year()
	early := t.Month() <= time.June

	switch shortName {
	case "NBA", "NHL":
		if early {
			return fmt.Sprintf("%d-%d", year-1, year)
		}
		return fmt.Sprintf("%d-%d", year, year+1)
	case "NFL":
		if early {
			return strconv.Itoa(year - 1)
		}
		return strconv.Itoa(year)
	default:
		return strconv.Itoa(year)
	}
}
