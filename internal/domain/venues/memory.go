package venues

import (
	"context"
	"sort"
	"sync"

	"rbar/internal/geo"

	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"
)

// pointTolerance gives indexed points a non-zero extent, rtreego rejects
// degenerate rectangles.
const pointTolerance = 1e-9

type indexedVenue struct {
	id    uuid.UUID
	point geo.Point
}

func (v *indexedVenue) Bounds() rtreego.Rect {
	return rtreego.Point{v.point.Lng, v.point.Lat}.ToRect(pointTolerance)
}

// MemoryStore is an in-process SpatialStore backed by an R-tree, shipped as
// the spatial fake for the search and handler tests. It applies the same
// rules as the Postgres repository: only ACTIVE venues with a location,
// great-circle distance, nearest first with id tie-break.
type MemoryStore struct {
	mu      sync.RWMutex
	tree    *rtreego.Rtree
	venues  map[uuid.UUID]*Venue
	indexed map[uuid.UUID]*indexedVenue
	links   map[uuid.UUID]map[uuid.UUID]struct{} // venue -> teams
	teams   map[uuid.UUID]TeamSummary
	ratings map[uuid.UUID][]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tree:    rtreego.NewTree(2, 25, 50),
		venues:  make(map[uuid.UUID]*Venue),
		indexed: make(map[uuid.UUID]*indexedVenue),
		links:   make(map[uuid.UUID]map[uuid.UUID]struct{}),
		teams:   make(map[uuid.UUID]TeamSummary),
		ratings: make(map[uuid.UUID][]int),
	}
}

// Put inserts or replaces a venue. A zero ID is assigned a fresh one.
func (m *MemoryStore) Put(v Venue) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Status == "" {
		v.Status = StatusActive
	}

	if old, ok := m.indexed[v.ID]; ok {
		m.tree.Delete(old)
		delete(m.indexed, v.ID)
	}
	if v.Location != nil {
		iv := &indexedVenue{id: v.ID, point: *v.Location}
		m.tree.Insert(iv)
		m.indexed[v.ID] = iv
	}

	m.venues[v.ID] = &v
	return v.ID
}

func (m *MemoryStore) PutTeam(t TeamSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[t.ID] = t
}

func (m *MemoryStore) Link(venueID, teamID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.links[venueID] == nil {
		m.links[venueID] = make(map[uuid.UUID]struct{})
	}
	m.links[venueID][teamID] = struct{}{}
}

func (m *MemoryStore) AddRating(venueID uuid.UUID, overall int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings[venueID] = append(m.ratings[venueID], overall)
}

func (m *MemoryStore) WithinRadius(ctx context.Context, filter ProximityFilter) ([]NearbyVenue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var candidates []rtreego.Spatial
	for _, rect := range searchRects(geo.BoundsAround(filter.Center, filter.RadiusMeters)) {
		candidates = append(candidates, m.tree.SearchIntersect(rect)...)
	}

	seen := make(map[uuid.UUID]bool, len(candidates))
	var out []NearbyVenue
	for _, c := range candidates {
		iv := c.(*indexedVenue)
		if seen[iv.id] {
			continue
		}
		seen[iv.id] = true

		v := m.venues[iv.id]
		if v.Status != StatusActive {
			continue
		}
		if len(filter.TeamIDs) > 0 && !m.linkedToAny(v.ID, filter.TeamIDs) {
			continue
		}

		d := geo.Distance(filter.Center, iv.point)
		if d > filter.RadiusMeters {
			continue
		}
		out = append(out, NearbyVenue{
			ID:             v.ID,
			Name:           v.Name,
			Slug:           v.Slug,
			Address:        v.Address,
			City:           v.City,
			State:          v.State,
			Location:       iv.point,
			DistanceMeters: d,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceMeters != out[j].DistanceMeters {
			return out[i].DistanceMeters < out[j].DistanceMeters
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MemoryStore) linkedToAny(venueID uuid.UUID, teamIDs []uuid.UUID) bool {
	linked := m.links[venueID]
	for _, id := range teamIDs {
		if _, ok := linked[id]; ok {
			return true
		}
	}
	return false
}

func (m *MemoryStore) TeamsForVenues(ctx context.Context, venueIDs []uuid.UUID) (map[uuid.UUID][]TeamSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[uuid.UUID][]TeamSummary, len(venueIDs))
	for _, venueID := range venueIDs {
		for teamID := range m.links[venueID] {
			if t, ok := m.teams[teamID]; ok {
				out[venueID] = append(out[venueID], t)
			}
		}
		sort.Slice(out[venueID], func(i, j int) bool {
			a, b := out[venueID][i], out[venueID][j]
			if a.City+a.Name != b.City+b.Name {
				return a.City+a.Name < b.City+b.Name
			}
			return a.ID.String() < b.ID.String()
		})
	}
	return out, nil
}

func (m *MemoryStore) RatingsForVenues(ctx context.Context, venueIDs []uuid.UUID) (map[uuid.UUID]RatingAggregate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[uuid.UUID]RatingAggregate, len(venueIDs))
	for _, venueID := range venueIDs {
		ratings := m.ratings[venueID]
		if len(ratings) == 0 {
			continue
		}
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		out[venueID] = RatingAggregate{
			Average: float64(sum) / float64(len(ratings)),
			Count:   len(ratings),
		}
	}
	return out, nil
}

// searchRects splits a box that wraps the antimeridian into two.
func searchRects(b geo.Bounds) []rtreego.Rect {
	if !b.WrapsAntimeridian() {
		return []rtreego.Rect{mustRect(b.MinLng, b.MinLat, b.MaxLng, b.MaxLat)}
	}
	return []rtreego.Rect{
		mustRect(b.MinLng, b.MinLat, 180, b.MaxLat),
		mustRect(-180, b.MinLat, b.MaxLng, b.MaxLat),
	}
}

func mustRect(minX, minY, maxX, maxY float64) rtreego.Rect {
	r, err := rtreego.NewRectFromPoints(rtreego.Point{minX, minY}, rtreego.Point{maxX, maxY})
	if err != nil {
		// only reachable with mismatched dimensions, which the literals above rule out
		panic(err)
	}
	return r
}
