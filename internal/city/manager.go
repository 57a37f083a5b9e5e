package city

import (
	"sort"

	"github.com/okonma/citypulse/internal/geo"
)

// Manager owns every location, keyed by a stable string ID. It is the
// only component that mutates occupant sets outside a location's own
// methods. Insertion order is preserved so queries are deterministic.
type Manager struct {
	locations map[string]*Location
	order     []string
	byCoord   map[geo.Coordinate]string
}

// NewManager creates an empty location manager.
func NewManager() *Manager {
	return &Manager{
		locations: make(map[string]*Location),
		byCoord:   make(map[geo.Coordinate]string),
	}
}

// Add registers a location under the given ID. Re-adding an existing ID
// replaces the location but keeps its position in iteration order.
func (m *Manager) Add(id string, loc *Location) {
	if _, exists := m.locations[id]; !exists {
		m.order = append(m.order, id)
	}
	m.locations[id] = loc
	m.byCoord[loc.Coord] = id
}

// Get returns the location with the given ID, or nil.
func (m *Manager) Get(id string) *Location {
	return m.locations[id]
}

// AtCoord returns the location occupying the exact coordinate, or nil.
// Anchor coordinates are copied by value from locations, so exact
// equality is the correct lookup here.
func (m *Manager) AtCoord(c geo.Coordinate) *Location {
	id, ok := m.byCoord[c]
	if !ok {
		return nil
	}
	return m.locations[id]
}

// Len returns the number of registered locations.
func (m *Manager) Len() int {
	return len(m.locations)
}

// Entry pairs a location with its ID for query results.
type Entry struct {
	ID       string
	Location *Location
}

// ByKind returns all locations of the given kind in insertion order.
func (m *Manager) ByKind(kind Kind) []Entry {
	var out []Entry
	for _, id := range m.order {
		if loc := m.locations[id]; loc.Kind == kind {
			out = append(out, Entry{ID: id, Location: loc})
		}
	}
	return out
}

// KindAny matches every location kind in queries that take a filter.
const KindAny = Kind(0xff)

// Nearby returns locations within radius of the coordinate, optionally
// filtered by kind.
func (m *Manager) Nearby(c geo.Coordinate, radius float64, kind Kind) []Entry {
	var out []Entry
	for _, id := range m.order {
		loc := m.locations[id]
		if kind != KindAny && loc.Kind != kind {
			continue
		}
		if geo.Distance(c, loc.Coord) <= radius {
			out = append(out, Entry{ID: id, Location: loc})
		}
	}
	return out
}

// Nearest returns the closest location of the given kind, or a zero
// Entry when none exists. Ties resolve to the earlier-added location.
func (m *Manager) Nearest(c geo.Coordinate, kind Kind) Entry {
	best := Entry{}
	bestDist := 0.0
	for _, id := range m.order {
		loc := m.locations[id]
		if kind != KindAny && loc.Kind != kind {
			continue
		}
		d := geo.Distance(c, loc.Coord)
		if best.Location == nil || d < bestDist {
			best = Entry{ID: id, Location: loc}
			bestDist = d
		}
	}
	return best
}

// SetCapacityByKind rewrites the capacity of every location of the
// given kind. Locations over the new capacity evict their newest-added
// occupants until they fit.
func (m *Manager) SetCapacityByKind(kind Kind, capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	for _, id := range m.order {
		loc := m.locations[id]
		if loc.Kind != kind {
			continue
		}
		loc.Params.Capacity = capacity
		if len(loc.Occupants) > capacity {
			loc.Occupants = loc.Occupants[:capacity]
		}
	}
}

// ClearOccupants empties every location's occupant list. Runs at the
// top of each simulation tick before occupancy is rebuilt.
func (m *Manager) ClearOccupants() {
	for _, loc := range m.locations {
		loc.Occupants = loc.Occupants[:0]
	}
}

// KindStats aggregates occupancy for one location kind.
type KindStats struct {
	TotalCapacity  int     `json:"total_capacity"`
	TotalOccupants int     `json:"total_occupants"`
	OccupancyRate  float64 `json:"occupancy_rate"`
	Count          int     `json:"count"`
}

// OccupancyStats returns per-kind occupancy aggregates, keyed by kind
// name.
func (m *Manager) OccupancyStats() map[string]KindStats {
	stats := make(map[string]KindStats)
	for _, id := range m.order {
		loc := m.locations[id]
		name := KindName(loc.Kind)
		s := stats[name]
		s.TotalCapacity += loc.Params.Capacity
		s.TotalOccupants += len(loc.Occupants)
		s.Count++
		stats[name] = s
	}
	for name, s := range stats {
		if s.TotalCapacity > 0 {
			s.OccupancyRate = float64(s.TotalOccupants) / float64(s.TotalCapacity)
		}
		stats[name] = s
	}
	return stats
}

// IDs returns all location IDs in insertion order. Mostly useful for
// tests and the API layer.
func (m *Manager) IDs() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// SortedEntries returns every location sorted by ID (stable listing for
// API responses).
func (m *Manager) SortedEntries() []Entry {
	out := make([]Entry, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, Entry{ID: id, Location: m.locations[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
