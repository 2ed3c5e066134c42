package main

import (
	"math"
	"sort"
	"sync"
)

const (
	maxPositions = 20
	// minPositionSqDist is the squared planar distance a new sample must
	// keep from every stored sample; closer points are dropped so the
	// stored set sketches a patrol route instead of a dense trail.
	minPositionSqDist = 25.0
)

// PositionSample is one observed location, truncated to two decimals.
type PositionSample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func trunc2(v float64) float64 {
	return math.Trunc(v*100) / 100
}

// ZoneEntityEntry is the occupancy record for one entity name in one zone.
type ZoneEntityEntry struct {
	Name      string           `json:"name"`
	Model     uint16           `json:"model"`
	Count     int              `json:"count"`
	Positions []PositionSample `json:"positions,omitempty"`
}

// SpawnTracker keeps per-zone occupancy tables for spawn-table
// reconstruction.
type SpawnTracker struct {
	mu    sync.Mutex
	zones map[string]map[string]*ZoneEntityEntry
}

func newSpawnTracker() *SpawnTracker {
	return &SpawnTracker{zones: make(map[string]map[string]*ZoneEntityEntry)}
}

// Observe counts one sighting of name in zone. The model id is recorded by
// the first observation only. A supplied position is kept when the reservoir
// has room and the point is far enough from every stored sample.
func (t *SpawnTracker) Observe(zone, name string, model uint16, pos *PositionSample) {
	if zone == "" || name == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	zm := t.zones[zone]
	if zm == nil {
		zm = make(map[string]*ZoneEntityEntry)
		t.zones[zone] = zm
	}
	e := zm[name]
	if e == nil {
		e = &ZoneEntityEntry{Name: name, Model: model}
		zm[name] = e
	}
	e.Count++

	if pos == nil || len(e.Positions) >= maxPositions {
		return
	}
	p := PositionSample{X: trunc2(pos.X), Y: trunc2(pos.Y), Z: trunc2(pos.Z)}
	for _, q := range e.Positions {
		dx := p.X - q.X
		dz := p.Z - q.Z
		if dx*dx+dz*dz < minPositionSqDist {
			return
		}
	}
	e.Positions = append(e.Positions, p)
}

// Zones lists the zones with at least one entry, sorted.
func (t *SpawnTracker) Zones() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.zones))
	for z := range t.zones {
		out = append(out, z)
	}
	sort.Strings(out)
	return out
}

// ZoneTable returns the entries for one zone sorted by descending count,
// ties broken by name.
func (t *SpawnTracker) ZoneTable(zone string) []ZoneEntityEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	zm := t.zones[zone]
	out := make([]ZoneEntityEntry, 0, len(zm))
	for _, e := range zm {
		c := *e
		c.Positions = append([]PositionSample(nil), e.Positions...)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
