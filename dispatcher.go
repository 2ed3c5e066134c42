package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"mobtrack/action"
)

// Packet ids handled by the tracker. Everything else on the wire is ignored.
const (
	kMsgZoneEnter    = 0x00A
	kMsgEntityUpdate = 0x00E
	kMsgAction       = 0x028
	kMsgPartyUpdate  = 0x0DD
)

// Presence packet field offsets.
const (
	presenceFixedLen = 26
	presenceHasPos   = 0x01
	presenceHasName  = 0x02
)

// tracker wires the pipeline together: world state and classifier feed the
// aggregator, spawn tracker and damage tracker. All handlers run on the
// single packet-processing goroutine; per-component locks only exist for the
// autosave and presence readers.
type tracker struct {
	world  *worldState
	res    *Resources
	cls    *Classifier
	agg    *Aggregator
	spawns *SpawnTracker
	dmg    *DamageTracker

	packets int64
	dropped int64
}

func newTracker(res *Resources) *tracker {
	t := &tracker{
		world:  newWorldState(),
		res:    res,
		spawns: newSpawnTracker(),
	}
	t.cls = newClassifier(t.world)
	t.agg = newAggregator(res)
	t.dmg = newDamageTracker(t.cls, t.agg)
	return t
}

// dispatchPacket routes one raw game packet to exactly one handler.
func (t *tracker) dispatchPacket(m []byte) {
	if len(m) < frameHeaderLen {
		return
	}
	t.packets++
	if debugLogger != nil {
		logDebugPacket(fmt.Sprintf("recv id=%#x seq=%d", packetID(m), packetSeq(m)), m)
	}
	switch packetID(m) {
	case kMsgAction:
		t.handleAction(m)
	case kMsgEntityUpdate:
		t.handlePresence(m)
	case kMsgZoneEnter:
		t.handleZoneChange(m)
	case kMsgPartyUpdate:
		t.handleParty(m)
	}
}

// handleAction decodes an action-completion packet, classifies the actor and
// folds each target effect into the right sink. A decode failure drops the
// whole packet; nothing partial is aggregated.
func (t *tracker) handleAction(m []byte) {
	act, err := action.Decode(m)
	if err != nil {
		t.dropped++
		logDropped("drop action packet seq=%d stage=%s", packetSeq(m), err)
		return
	}
	kind := kindForCategory(act.Category)
	if kind == KindIgnored {
		return
	}

	switch t.cls.Classify(act.Actor) {
	case ClassUnknown:
		// Actor not resolvable right now; retried on its next packet.
		return
	case ClassPlayer:
		for _, tg := range act.Targets {
			for _, e := range tg.Actions {
				t.dmg.Observe(tg.ID, int(e.Magnitude))
			}
		}
	case ClassTrust:
		name, model := t.cls.Info(act.Actor)
		t.recordAll(act, ProfileKey{Name: name}, true, model)
	case ClassMob:
		name, model := t.cls.Info(act.Actor)
		t.recordAll(act, ProfileKey{Zone: t.cls.Zone(), Name: name}, false, model)
	}
}

func (t *tracker) recordAll(act *action.Action, key ProfileKey, trust bool, model uint16) {
	for _, tg := range act.Targets {
		for _, e := range tg.Actions {
			t.agg.Record(key, trust, model, act.Category, act.Param, e.Animation, int(e.Magnitude), e.Additional)
		}
	}
}

// handlePresence updates the entity table from an entity-presence packet and
// feeds mob sightings to the spawn tracker.
func (t *tracker) handlePresence(m []byte) {
	if len(m) < presenceFixedLen {
		t.dropped++
		logDropped("drop presence packet seq=%d: short (%d bytes)", packetSeq(m), len(m))
		return
	}
	id := binary.LittleEndian.Uint32(m[4:8])
	index := binary.LittleEndian.Uint16(m[8:10])
	mask := m[10]
	npc := m[11] != 0
	model := binary.LittleEndian.Uint16(m[24:26])

	var name string
	if mask&presenceHasName != 0 && len(m) > presenceFixedLen {
		raw := m[presenceFixedLen:]
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		name = decodeShiftJIS(raw)
	}

	t.world.update(id, func(e *worldEntity) {
		e.Index = index
		e.NPC = npc
		if model != 0 {
			e.Model = model
		}
		if name != "" {
			e.Name = name
		}
		if mask&presenceHasPos != 0 {
			e.X = float64(math.Float32frombits(binary.LittleEndian.Uint32(m[12:16])))
			e.Y = float64(math.Float32frombits(binary.LittleEndian.Uint32(m[16:20])))
			e.Z = float64(math.Float32frombits(binary.LittleEndian.Uint32(m[20:24])))
			e.HasPos = true
		}
	})

	if t.cls.Classify(id) != ClassMob {
		return
	}
	mobName, mobModel := t.cls.Info(id)
	var pos *PositionSample
	if x, y, z, ok := t.world.Position(id); ok {
		pos = &PositionSample{X: x, Y: y, Z: z}
	}
	t.spawns.Observe(t.cls.Zone(), mobName, mobModel, pos)
}

// handleZoneChange switches the zone session: the classification store and
// entity table are cleared, profiles and spawn tables are kept.
func (t *tracker) handleZoneChange(m []byte) {
	if len(m) < 6 {
		return
	}
	zone := t.res.ZoneName(binary.LittleEndian.Uint16(m[4:6]))
	logDebug("zone enter: %s", zone)
	t.cls.ZoneChange(zone)
	t.world.reset()
	gs.LastZone = zone
	consoleMessage("zone: " + zone)
}

func (t *tracker) handleParty(m []byte) {
	if len(m) < 9 {
		return
	}
	id := binary.LittleEndian.Uint32(m[4:8])
	in := m[8] != 0
	logDebug("party update id=%#x member=%v", id, in)
	t.world.setParty(id, in)
}
