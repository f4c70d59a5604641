package sportsdb

import (
	"strings"

	"rbar/internal/domain/teams"
)

// matchTeam pairs an upstream team with a local one by exact short code or
// exact "City Name". When neither matches, a team whose name appears inside
// the upstream name is returned as candidate for manual review.
func matchTeam(local []teams.Team, up Team) (match, candidate *teams.Team) {
	short := strings.ToLower(strings.TrimSpace(up.ShortName))
	full := strings.ToLower(strings.TrimSpace(up.Name))

	if short != "" {
		for i := range local {
			if strings.ToLower(local[i].Abbreviation) == short {
				return &local[i], nil
			}
		}
	}

	if full == "" {
		return nil, nil
	}

	for i := range local {
		if strings.ToLower(local[i].FullName()) == full {
			return &local[i], nil
		}
	}

	// prefer the longest contained name so "Red Sox" beats "Sox"
	for i := range local {
		name := strings.ToLower(strings.TrimSpace(local[i].Name))
		if name == "" || !strings.Contains(full, name) {
			continue
		}
		if candidate == nil || len(name) > len(candidate.Name) {
			candidate = &local[i]
		}
	}
	return nil, candidate
}

// fixtureIndex resolves event team references inside one league, first by
// upstream id then by "City Name".
type fixtureIndex struct {
	byExternal map[string]*teams.Team
	byName     map[string]*teams.Team
}

func newFixtureIndex(local []teams.Team) fixtureIndex {
	idx := fixtureIndex{
		byExternal: make(map[string]*teams.Team, len(local)),
		byName:     make(map[string]*teams.Team, len(local)),
	}
	for i := range local {
		t := &local[i]
		if t.ExternalID != nil && *t.ExternalID != "" {
			idx.byExternal[*t.ExternalID] = t
		}
		idx.byName[strings.ToLower(t.FullName())] = t
	}
	return idx
}

func (idx fixtureIndex) lookup(externalID, name string) *teams.Team {
	if t, ok := idx.byExternal[externalID]; ok && externalID != "" {
		return t
	}
	return idx.byName[strings.ToLower(strings.TrimSpace(name))]
}
