package main

import "sync"

// worldEntity is the client-visible state for one entity id within the
// current zone session.
type worldEntity struct {
	ID    uint32
	Index uint16
	Name  string
	Model uint16
	NPC   bool

	X, Y, Z float64
	HasPos  bool
}

// worldState is the live EntityOracle: an entity table built from presence
// packets plus the current party roster. Everything in it is scoped to the
// zone session and cleared on zone change.
type worldState struct {
	mu       sync.RWMutex
	entities map[uint32]*worldEntity
	party    map[uint32]struct{}
}

func newWorldState() *worldState {
	return &worldState{
		entities: make(map[uint32]*worldEntity),
		party:    make(map[uint32]struct{}),
	}
}

func (w *worldState) ensure(id uint32) *worldEntity {
	e, ok := w.entities[id]
	if !ok {
		e = &worldEntity{ID: id}
		w.entities[id] = e
	}
	return e
}

func (w *worldState) update(id uint32, fn func(*worldEntity)) {
	w.mu.Lock()
	fn(w.ensure(id))
	w.mu.Unlock()
}

func (w *worldState) setParty(id uint32, member bool) {
	w.mu.Lock()
	if member {
		w.party[id] = struct{}{}
	} else {
		delete(w.party, id)
	}
	w.mu.Unlock()
}

// reset drops the entity table and party roster on zone change; ids are not
// stable across zones and rosters re-announce after zoning.
func (w *worldState) reset() {
	w.mu.Lock()
	w.entities = make(map[uint32]*worldEntity)
	w.party = make(map[uint32]struct{})
	w.mu.Unlock()
}

func (w *worldState) IsNPC(id uint32) (npc, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, found := w.entities[id]
	if !found {
		return false, false
	}
	return e.NPC, true
}

func (w *worldState) DisplayName(id uint32) string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if e, ok := w.entities[id]; ok {
		return e.Name
	}
	return ""
}

func (w *worldState) ModelID(id uint32) uint16 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if e, ok := w.entities[id]; ok {
		return e.Model
	}
	return 0
}

func (w *worldState) IsPartyMember(id uint32) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.party[id]
	return ok
}

func (w *worldState) Position(id uint32) (x, y, z float64, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if e, found := w.entities[id]; found && e.HasPos {
		return e.X, e.Y, e.Z, true
	}
	return 0, 0, 0, false
}
