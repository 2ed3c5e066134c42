package main

import "sort"

// CounterSnapshot is the serialized form of one counter entry.
type CounterSnapshot struct {
	ID        uint16 `json:"id"`
	Name      string `json:"name"`
	Animation uint16 `json:"animation"`
	Count     int    `json:"count"`
	Damage    []int  `json:"damage,omitempty"`
}

// EffectSnapshot is the serialized form of one secondary-proc entry.
type EffectSnapshot struct {
	Animation uint16 `json:"animation"`
	Magnitude uint32 `json:"magnitude"`
	Count     int    `json:"count"`
	Category  string `json:"category"`
}

// ProfileSnapshot is one profile rendered for serialization: buckets become
// sequences sorted by descending count, ties broken by insertion order.
type ProfileSnapshot struct {
	Name               string                       `json:"name"`
	Zone               string                       `json:"zone,omitempty"`
	Trust              bool                         `json:"trust"`
	Model              uint16                       `json:"model,omitempty"`
	Buckets            map[string][]CounterSnapshot `json:"buckets"`
	AdditionalEffects  []EffectSnapshot             `json:"additionalEffects,omitempty"`
	DamageTakenSamples int                          `json:"damageTakenSamples,omitempty"`
	EstimatedHP        int                          `json:"estimatedHP,omitempty"`
}

func (p *Profile) snapshot() ProfileSnapshot {
	s := ProfileSnapshot{
		Name:    p.Key.Name,
		Zone:    p.Key.Zone,
		Trust:   p.Trust,
		Model:   p.Model,
		Buckets: make(map[string][]CounterSnapshot, len(p.entries)),
	}
	for kind, bucket := range p.entries {
		list := make([]CounterSnapshot, 0, len(bucket))
		order := make([]*CounterEntry, 0, len(bucket))
		for _, e := range bucket {
			order = append(order, e)
		}
		sort.Slice(order, func(i, j int) bool {
			if order[i].Count != order[j].Count {
				return order[i].Count > order[j].Count
			}
			return order[i].seq < order[j].seq
		})
		for _, e := range order {
			list = append(list, CounterSnapshot{
				ID:        e.ID,
				Name:      e.Name,
				Animation: e.Animation,
				Count:     e.Count,
				Damage:    append([]int(nil), e.Damage...),
			})
		}
		s.Buckets[kind.Tag()] = list
	}

	if len(p.effects) > 0 {
		effects := make([]*EffectEntry, 0, len(p.effects))
		for _, ee := range p.effects {
			effects = append(effects, ee)
		}
		sort.Slice(effects, func(i, j int) bool {
			if effects[i].Count != effects[j].Count {
				return effects[i].Count > effects[j].Count
			}
			return effects[i].seq < effects[j].seq
		})
		for _, ee := range effects {
			s.AdditionalEffects = append(s.AdditionalEffects, EffectSnapshot{
				Animation: ee.Animation,
				Magnitude: ee.Magnitude,
				Count:     ee.Count,
				Category:  ee.Category,
			})
		}
	}

	if len(p.damageTaken) > 0 {
		s.DamageTakenSamples = len(p.damageTaken)
		total := 0
		for _, d := range p.damageTaken {
			total += d
		}
		s.EstimatedHP = total
	}
	return s
}

// Snapshot renders every profile for serialization, ordered by zone then
// name for stable output.
func (a *Aggregator) Snapshot() []ProfileSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ProfileSnapshot, 0, len(a.profiles))
	for _, p := range a.profiles {
		out = append(out, p.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Zone != out[j].Zone {
			return out[i].Zone < out[j].Zone
		}
		return out[i].Name < out[j].Name
	})
	return out
}
