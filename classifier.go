package main

import "sync"

// EntityClass is the behavioral class assigned to an entity id.
type EntityClass int

const (
	ClassUnknown EntityClass = iota
	ClassTrust
	ClassMob
	ClassPlayer
)

func (c EntityClass) String() string {
	switch c {
	case ClassTrust:
		return "trust"
	case ClassMob:
		return "mob"
	case ClassPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// EntityOracle is the client-state lookup the classifier runs against. IsNPC
// reports ok=false when the client cannot currently resolve the id (out of
// render range); the id is then left unclassified and retried on the next
// observation.
type EntityOracle interface {
	IsNPC(id uint32) (npc, ok bool)
	DisplayName(id uint32) string
	ModelID(id uint32) uint16
	IsPartyMember(id uint32) bool
	Position(id uint32) (x, y, z float64, ok bool)
}

// Classifier owns the zone-session classification store. Assignments are
// sticky: once an id is classified it is never re-derived until ZoneChange
// clears the store. Display name and model id are captured at classification
// time so later lookups don't depend on the entity still being resolvable.
type Classifier struct {
	mu     sync.Mutex
	oracle EntityOracle
	zone   string
	class  map[uint32]EntityClass
	names  map[uint32]string
	models map[uint32]uint16
}

func newClassifier(oracle EntityOracle) *Classifier {
	return &Classifier{
		oracle: oracle,
		class:  make(map[uint32]EntityClass),
		names:  make(map[uint32]string),
		models: make(map[uint32]uint16),
	}
}

// Classify resolves an entity id to its class, consulting the cache first.
// Unresolvable ids return ClassUnknown and are not cached; an NPC is only
// resolvable once its display name is known, so every classified Trust or
// Mob has a non-empty captured name.
func (c *Classifier) Classify(id uint32) EntityClass {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.class[id]; ok {
		return cl
	}
	npc, ok := c.oracle.IsNPC(id)
	if !ok {
		return ClassUnknown
	}
	if !npc {
		c.class[id] = ClassPlayer
		return ClassPlayer
	}
	name := c.oracle.DisplayName(id)
	if name == "" {
		// NPC resolved before its name arrived; leave it unclassified
		// so the next observation retries with the name in hand.
		return ClassUnknown
	}
	cl := ClassMob
	if c.oracle.IsPartyMember(id) {
		cl = ClassTrust
	}
	c.class[id] = cl
	c.names[id] = name
	c.models[id] = c.oracle.ModelID(id)
	return cl
}

// Info returns the display name and model id captured when the entity was
// classified.
func (c *Classifier) Info(id uint32) (name string, model uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.names[id], c.models[id]
}

// Zone returns the current zone session's name.
func (c *Classifier) Zone() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zone
}

// ZoneChange clears the classification store and switches the session to the
// named zone. Entity ids are not stable across zone boundaries, so every id
// is re-classified; aggregated profiles are untouched.
func (c *Classifier) ZoneChange(zone string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zone = zone
	c.class = make(map[uint32]EntityClass)
	c.names = make(map[uint32]string)
	c.models = make(map[uint32]uint16)
}
