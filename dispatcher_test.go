package main

import (
	"encoding/binary"
	"math"
	"testing"
)

// packetWriter builds bit-packed action packet fixtures, LSB-first like the
// wire format.
type packetWriter struct {
	buf []byte
	pos int
}

func newActionPacket(actor uint32, targetCount, category, param uint32) *packetWriter {
	hdr := make([]byte, 8)
	binary.LittleEndian.PutUint16(hdr[0:2], kMsgAction)
	binary.LittleEndian.PutUint32(hdr[4:8], actor)
	w := &packetWriter{buf: hdr, pos: 64}
	w.write(targetCount, 10)
	w.write(category, 4)
	w.write(param, 16)
	w.write(0, 16)
	return w
}

func (w *packetWriter) write(v uint32, width int) {
	for i := 0; i < width; i++ {
		idx := w.pos >> 3
		for idx >= len(w.buf) {
			w.buf = append(w.buf, 0)
		}
		if v&(1<<i) != 0 {
			w.buf[idx] |= 1 << (w.pos & 7)
		}
		w.pos++
	}
}

func (w *packetWriter) simpleAction(targetID, animation, magnitude uint32) {
	w.write(targetID, 32)
	w.write(1, 4) // one action
	w.write(0, 5)
	w.write(animation, 12)
	w.write(0, 4)
	w.write(0, 7)
	w.write(0, 3)
	w.write(magnitude, 17)
	w.write(0, 10)
	w.write(0, 31)
}

func presencePacket(id uint32, name string, model uint16, npc bool, x, y, z float32) []byte {
	m := make([]byte, presenceFixedLen)
	binary.LittleEndian.PutUint16(m[0:2], kMsgEntityUpdate)
	binary.LittleEndian.PutUint32(m[4:8], id)
	m[10] = presenceHasPos | presenceHasName
	if npc {
		m[11] = 1
	}
	binary.LittleEndian.PutUint32(m[12:16], math.Float32bits(x))
	binary.LittleEndian.PutUint32(m[16:20], math.Float32bits(y))
	binary.LittleEndian.PutUint32(m[20:24], math.Float32bits(z))
	binary.LittleEndian.PutUint16(m[24:26], model)
	m = append(m, encodeShiftJIS(name)...)
	return append(m, 0)
}

// presencePacketNoName carries the NPC flag, model and position but no name
// field, as the first sighting of an entity often does.
func presencePacketNoName(id uint32, model uint16, npc bool, x, y, z float32) []byte {
	m := make([]byte, presenceFixedLen)
	binary.LittleEndian.PutUint16(m[0:2], kMsgEntityUpdate)
	binary.LittleEndian.PutUint32(m[4:8], id)
	m[10] = presenceHasPos
	if npc {
		m[11] = 1
	}
	binary.LittleEndian.PutUint32(m[12:16], math.Float32bits(x))
	binary.LittleEndian.PutUint32(m[16:20], math.Float32bits(y))
	binary.LittleEndian.PutUint32(m[20:24], math.Float32bits(z))
	binary.LittleEndian.PutUint16(m[24:26], model)
	return m
}

func zonePacket(zoneID uint16) []byte {
	m := make([]byte, 6)
	binary.LittleEndian.PutUint16(m[0:2], kMsgZoneEnter)
	binary.LittleEndian.PutUint16(m[4:6], zoneID)
	return m
}

func partyPacket(id uint32, joined bool) []byte {
	m := make([]byte, 9)
	binary.LittleEndian.PutUint16(m[0:2], kMsgPartyUpdate)
	binary.LittleEndian.PutUint32(m[4:8], id)
	if joined {
		m[8] = 1
	}
	return m
}

func TestTrackerEndToEndTrustWeaponSkill(t *testing.T) {
	tr := newTracker(nil)
	tr.dispatchPacket(zonePacket(120))
	tr.dispatchPacket(partyPacket(0xA01, true))
	tr.dispatchPacket(presencePacket(0xA01, "Zeid II", 3030, true, 10, 0, 20))

	w := newActionPacket(0xA01, 1, catWeaponSkill, 30)
	w.simpleAction(0xB01, 63, 450)
	tr.dispatchPacket(w.buf)

	key := ProfileKey{Name: "Zeid II"}
	p := tr.agg.profiles[key]
	if p == nil {
		t.Fatalf("no trust profile; have %v", tr.agg.Snapshot())
	}
	if !p.Trust {
		t.Fatalf("profile not marked trust")
	}
	e := p.entries[KindWeaponSkill][30]
	if e == nil {
		t.Fatalf("no weapon skill entry")
	}
	if e.Count != 1 || e.Animation != 63 {
		t.Fatalf("entry %+v", e)
	}
	if len(e.Damage) != 1 || e.Damage[0] != 450 {
		t.Fatalf("damage %v", e.Damage)
	}
}

func TestTrackerMobProfileKeyedByZone(t *testing.T) {
	tr := newTracker(nil)
	tr.dispatchPacket(zonePacket(120))
	tr.dispatchPacket(presencePacket(0xC01, "Quadav Pugilist", 870, true, 0, 0, 0))

	w := newActionPacket(0xC01, 1, catMobSkill, 641)
	w.simpleAction(0xA01, 200, 120)
	tr.dispatchPacket(w.buf)

	key := ProfileKey{Zone: "Zone_120", Name: "Quadav Pugilist"}
	if tr.agg.profiles[key] == nil {
		t.Fatalf("no mob profile under zone key")
	}
}

func TestTrackerAnnouncementCategoriesLeaveProfilesUnchanged(t *testing.T) {
	tr := newTracker(nil)
	tr.dispatchPacket(zonePacket(120))
	tr.dispatchPacket(partyPacket(0xA01, true))
	tr.dispatchPacket(presencePacket(0xA01, "Zeid II", 3030, true, 0, 0, 0))

	for _, cat := range []uint32{catWSReadying, catCastingStart, catItemStart, catRangedStart} {
		w := newActionPacket(0xA01, 1, cat, 30)
		w.simpleAction(0xB01, 63, 450)
		tr.dispatchPacket(w.buf)
	}
	if tr.agg.Len() != 0 {
		t.Fatalf("announcement packets reached the aggregator")
	}
}

func TestTrackerUnknownActorRetried(t *testing.T) {
	tr := newTracker(nil)
	tr.dispatchPacket(zonePacket(120))

	w := newActionPacket(0xD01, 1, catMobSkill, 641)
	w.simpleAction(0xA01, 200, 120)
	tr.dispatchPacket(w.buf)
	if tr.agg.Len() != 0 {
		t.Fatalf("unresolvable actor aggregated")
	}

	// The mob comes into range; the same packet now lands.
	tr.dispatchPacket(presencePacket(0xD01, "Quadav Pugilist", 870, true, 0, 0, 0))
	tr.dispatchPacket(w.buf)
	if tr.agg.Len() != 1 {
		t.Fatalf("actor not reclassified after presence")
	}
}

func TestTrackerMobNamedAfterFirstSighting(t *testing.T) {
	tr := newTracker(nil)
	tr.dispatchPacket(zonePacket(120))
	tr.dispatchPacket(presencePacketNoName(0xC01, 870, true, 0, 0, 0))

	w := newActionPacket(0xC01, 1, catMobSkill, 641)
	w.simpleAction(0xA01, 200, 120)
	tr.dispatchPacket(w.buf)
	if tr.agg.Len() != 0 {
		t.Fatalf("nameless mob aggregated")
	}

	// The name arrives on a later presence packet; the same action must
	// now land under the proper key rather than staying pinned nameless
	// for the rest of the zone session.
	tr.dispatchPacket(presencePacket(0xC01, "Quadav Pugilist", 870, true, 0, 0, 0))
	tr.dispatchPacket(w.buf)
	if tr.agg.Len() != 1 {
		t.Fatalf("mob still dropped after its name arrived")
	}
	if tr.agg.profiles[ProfileKey{Zone: "Zone_120", Name: "Quadav Pugilist"}] == nil {
		t.Fatalf("profile not keyed by the late name")
	}
	table := tr.spawns.ZoneTable("Zone_120")
	if len(table) != 1 || table[0].Name != "Quadav Pugilist" {
		t.Fatalf("spawn table %v", table)
	}
}

func TestTrackerPlayerDamageRoutedToMob(t *testing.T) {
	tr := newTracker(nil)
	tr.dispatchPacket(zonePacket(120))
	tr.dispatchPacket(presencePacket(0xE01, "Ayame", 0, false, 0, 0, 0))
	tr.dispatchPacket(presencePacket(0xC01, "Quadav Pugilist", 870, true, 0, 0, 0))

	w := newActionPacket(0xE01, 1, catMelee, 0)
	w.simpleAction(0xC01, 2, 86)
	tr.dispatchPacket(w.buf)

	if tr.agg.Len() != 1 {
		t.Fatalf("profiles %d", tr.agg.Len())
	}
	p := tr.agg.profiles[ProfileKey{Zone: "Zone_120", Name: "Quadav Pugilist"}]
	if p == nil {
		t.Fatalf("damage not attributed to the mob")
	}
	if len(p.damageTaken) != 1 || p.damageTaken[0] != 86 {
		t.Fatalf("damage taken %v", p.damageTaken)
	}
	// The dealer gets no behavior profile.
	if len(p.entries) != 0 {
		t.Fatalf("player melee recorded as mob behavior: %v", p.entries)
	}
}

func TestTrackerMalformedActionPacketDropped(t *testing.T) {
	tr := newTracker(nil)
	tr.dispatchPacket(zonePacket(120))
	tr.dispatchPacket(presencePacket(0xC01, "Quadav Pugilist", 870, true, 0, 0, 0))

	w := newActionPacket(0xC01, 0, catMobSkill, 641) // zero targets
	tr.dispatchPacket(w.buf)
	if tr.dropped != 1 {
		t.Fatalf("dropped %d", tr.dropped)
	}
	if tr.agg.Len() != 0 {
		t.Fatalf("malformed packet aggregated")
	}

	// The next well-formed packet is unaffected.
	w = newActionPacket(0xC01, 1, catMobSkill, 641)
	w.simpleAction(0xA01, 200, 120)
	tr.dispatchPacket(w.buf)
	if tr.agg.Len() != 1 {
		t.Fatalf("pipeline blocked after a drop")
	}
}

func TestTrackerPresenceFeedsSpawnTable(t *testing.T) {
	tr := newTracker(nil)
	tr.dispatchPacket(zonePacket(120))
	tr.dispatchPacket(presencePacket(0xC01, "Quadav Pugilist", 870, true, 100, 0, 200))
	tr.dispatchPacket(presencePacket(0xC01, "Quadav Pugilist", 870, true, 102, 0, 200))
	tr.dispatchPacket(presencePacket(0xC01, "Quadav Pugilist", 870, true, 103, 0, 204))

	table := tr.spawns.ZoneTable("Zone_120")
	if len(table) != 1 {
		t.Fatalf("spawn entries %d", len(table))
	}
	e := table[0]
	if e.Count != 3 {
		t.Fatalf("count %d", e.Count)
	}
	if len(e.Positions) != 2 {
		t.Fatalf("positions %v", e.Positions)
	}
	if e.Model != 870 {
		t.Fatalf("model %d", e.Model)
	}
}

func TestTrackerZoneChangeKeepsProfiles(t *testing.T) {
	tr := newTracker(nil)
	tr.dispatchPacket(zonePacket(120))
	tr.dispatchPacket(presencePacket(0xC01, "Quadav Pugilist", 870, true, 0, 0, 0))
	w := newActionPacket(0xC01, 1, catMobSkill, 641)
	w.simpleAction(0xA01, 200, 120)
	tr.dispatchPacket(w.buf)

	tr.dispatchPacket(zonePacket(121))
	if tr.agg.Len() != 1 {
		t.Fatalf("zone change cleared profiles")
	}
	// The old id no longer resolves in the new zone session.
	tr.dispatchPacket(w.buf)
	if tr.agg.Len() != 1 {
		t.Fatalf("stale id aggregated after zone change")
	}
}
