package main

import (
	"sync"

	"mobtrack/action"
)

// Raw category values carried by the action-completion packet.
const (
	catNone         = 0
	catMelee        = 1
	catRangedFinish = 2
	catWeaponSkill  = 3
	catSpellFinish  = 4
	catItemFinish   = 5
	catJobAbility   = 6
	catWSReadying   = 7
	catCastingStart = 8
	catItemStart    = 9
	catReserved     = 10
	catMobSkill     = 11
	catRangedStart  = 12
	catPetAbility   = 13
	catDance        = 14
	catRune         = 15
)

// ActionKind is the closed variant the raw 4-bit category maps onto. The
// start/readying categories (7, 8, 9, 12) are announcements, not completions;
// they map to KindIgnored so they never reach a profile.
type ActionKind int

const (
	KindIgnored ActionKind = iota
	KindMelee
	KindRanged
	KindWeaponSkill
	KindSpell
	KindJobAbility
	KindMobSkill
	KindPetAbility
	KindDance
	KindRune
)

// kindForCategory maps every raw category value explicitly. Unlisted
// values land on KindIgnored.
func kindForCategory(cat uint8) ActionKind {
	switch cat {
	case catMelee:
		return KindMelee
	case catRangedFinish:
		return KindRanged
	case catWeaponSkill:
		return KindWeaponSkill
	case catSpellFinish:
		return KindSpell
	case catJobAbility:
		return KindJobAbility
	case catMobSkill:
		return KindMobSkill
	case catPetAbility:
		return KindPetAbility
	case catDance:
		return KindDance
	case catRune:
		return KindRune
	case catNone, catItemFinish, catWSReadying, catCastingStart,
		catItemStart, catReserved, catRangedStart:
		return KindIgnored
	default:
		return KindIgnored
	}
}

// Tag is the short category tag used in resource table names, placeholder
// names and snapshot keys.
func (k ActionKind) Tag() string {
	switch k {
	case KindMelee:
		return "Melee"
	case KindRanged:
		return "Ranged"
	case KindWeaponSkill:
		return "WS"
	case KindSpell:
		return "Spell"
	case KindJobAbility:
		return "JA"
	case KindMobSkill:
		return "MobSkill"
	case KindPetAbility:
		return "PetSkill"
	case KindDance:
		return "Dance"
	case KindRune:
		return "Rune"
	default:
		return "Ignored"
	}
}

// keyedByAnimation reports whether entries in this bucket are keyed by the
// animation id instead of the action param. Plain melee and ranged swings
// carry no param worth keying on.
func (k ActionKind) keyedByAnimation() bool {
	return k == KindMelee || k == KindRanged
}

// magnitudeBearing reports whether positive magnitudes feed the entry's
// damage reservoir.
func (k ActionKind) magnitudeBearing() bool {
	return k == KindWeaponSkill || k == KindMobSkill || k == KindPetAbility
}

const (
	maxDamageSamples = 100
	maxDamageTaken   = 500
)

// CounterEntry aggregates one action (one param, or one animation for
// melee/ranged) within a profile bucket. Count is monotonic; the damage
// reservoir is append-only and stops accepting samples at its cap; the
// animation id is overwritten on every observation, so the latest use wins.
type CounterEntry struct {
	ID        uint16
	Name      string
	Animation uint16
	Count     int
	Damage    []int

	seq int // insertion order, breaks snapshot ties
}

type effectKey struct {
	Animation uint16
	Magnitude uint32
}

// EffectEntry counts one secondary proc, keyed by (animation, magnitude),
// tagged with the category it was first observed under.
type EffectEntry struct {
	Animation uint16
	Magnitude uint32
	Count     int
	Category  string

	seq int
}

// ProfileKey identifies a profile: display name alone for party trusts, zone
// plus display name for mobs. Two same-named mobs in one zone share one
// profile; names are effectively unique per zone and the original keying is
// preserved.
type ProfileKey struct {
	Zone string
	Name string
}

// Profile is the capped, mergeable behavior record for one classified entity
// name. It is created lazily on first observation and survives zone changes;
// only an explicit reset discards it.
type Profile struct {
	Key     ProfileKey
	Trust   bool
	Model   uint16
	entries map[ActionKind]map[uint16]*CounterEntry
	effects map[effectKey]*EffectEntry

	// damageTaken is the reservoir of hits landed on this mob by player
	// characters, summed into an HP estimate.
	damageTaken []int

	seq int
}

// Aggregator folds classified action observations into behavior profiles.
type Aggregator struct {
	mu       sync.Mutex
	res      *Resources
	profiles map[ProfileKey]*Profile
}

func newAggregator(res *Resources) *Aggregator {
	return &Aggregator{res: res, profiles: make(map[ProfileKey]*Profile)}
}

func (a *Aggregator) profile(key ProfileKey, trust bool, model uint16) *Profile {
	p, ok := a.profiles[key]
	if !ok {
		p = &Profile{
			Key:     key,
			Trust:   trust,
			entries: make(map[ActionKind]map[uint16]*CounterEntry),
			effects: make(map[effectKey]*EffectEntry),
		}
		a.profiles[key] = p
	}
	if p.Model == 0 {
		p.Model = model
	}
	return p
}

// Record folds one decoded action effect into the profile owned by key.
// Ignored kinds are excluded upstream by the dispatcher; the early return
// here keeps a direct call from ever touching a profile.
func (a *Aggregator) Record(key ProfileKey, trust bool, model uint16, cat uint8, param, animation uint16, magnitude int, add *action.Additional) {
	kind := kindForCategory(cat)
	if kind == KindIgnored {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.profile(key, trust, model)
	entryID := param
	if kind.keyedByAnimation() {
		entryID = animation
	}
	bucket := p.entries[kind]
	if bucket == nil {
		bucket = make(map[uint16]*CounterEntry)
		p.entries[kind] = bucket
	}
	e := bucket[entryID]
	if e == nil {
		e = &CounterEntry{ID: entryID, Name: a.res.ResolveName(kind, entryID), seq: p.seq}
		p.seq++
		bucket[entryID] = e
	}
	e.Count++
	e.Animation = animation
	if kind.magnitudeBearing() && magnitude > 0 && len(e.Damage) < maxDamageSamples {
		e.Damage = append(e.Damage, magnitude)
	}

	if add != nil {
		k := effectKey{Animation: add.Animation, Magnitude: add.Magnitude}
		ee := p.effects[k]
		if ee == nil {
			ee = &EffectEntry{Animation: add.Animation, Magnitude: add.Magnitude, Category: kind.Tag(), seq: p.seq}
			p.seq++
			p.effects[k] = ee
		}
		ee.Count++
	}
}

// RecordDamageTaken appends one observed hit to a mob profile's damage-taken
// reservoir. Hits past the cap are dropped.
func (a *Aggregator) RecordDamageTaken(key ProfileKey, model uint16, magnitude int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.profile(key, false, model)
	if len(p.damageTaken) < maxDamageTaken {
		p.damageTaken = append(p.damageTaken, magnitude)
	}
}

// Len reports how many profiles exist.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.profiles)
}

// Reset discards every profile. Zone changes never call this; only an
// explicit operator reset does.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profiles = make(map[ProfileKey]*Profile)
}
