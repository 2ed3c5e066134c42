// Package action decodes the bit-packed action-completion packet: a variable
// length tree of per-target and per-action sub-records in non-byte-aligned
// field widths.
package action

import (
	"encoding/binary"
	"errors"
)

const (
	// MinPacketLen is the smallest buffer Decode will accept: the 4 byte
	// frame header, the 4 byte actor id and at least 2 bytes of bit data.
	MinPacketLen = 10

	maxTargets          = 16
	maxActionsPerTarget = 8
)

// Spike is the tertiary effect record nested inside an additional effect,
// present only when the additional effect's spike flag is nonzero.
type Spike struct {
	Animation uint16
	Kind      uint8
	Magnitude uint32
	Message   uint16
}

// Additional is the secondary effect record on an action (enspell damage,
// stat-down procs), present only when the action's effect flag is nonzero.
type Additional struct {
	Animation uint16
	SpikeFlag uint8
	Magnitude uint32
	Message   uint16
	Spike     *Spike
}

// Effect is one action applied to one target.
type Effect struct {
	Reaction   uint8
	Animation  uint16
	EffectFlag uint8
	Stagger    uint8
	Knockback  uint8
	Magnitude  uint32
	Message    uint16
	Additional *Additional
}

// Target is one recipient of the action and the effects applied to it.
type Target struct {
	ID      uint32
	Actions []Effect
}

// Action is a fully decoded action-completion packet.
type Action struct {
	Actor    uint32
	Category uint8
	Param    uint16
	Targets  []Target
}

// Decode walks the packet grammar left to right and returns the decoded
// action, or an error naming the stage that failed. Rejection is atomic: a
// non-nil error means no partial result is exposed and the caller must drop
// the whole packet.
func Decode(data []byte) (*Action, error) {
	stage := "header"
	if len(data) < MinPacketLen {
		return nil, errors.New(stage)
	}

	act := &Action{Actor: binary.LittleEndian.Uint32(data[4:8])}
	r := NewBitReader(data, 8)

	targetCount := int(r.Read(10))
	act.Category = uint8(r.Read(4))
	act.Param = uint16(r.Read(16))
	r.Skip(16) // recast timer

	stage = "target count"
	if targetCount == 0 || targetCount > maxTargets {
		return nil, errors.New(stage)
	}

	act.Targets = make([]Target, 0, targetCount)
	for i := 0; i < targetCount; i++ {
		t := Target{ID: r.Read(32)}
		actionCount := int(r.Read(4))
		stage = "action count"
		if actionCount > maxActionsPerTarget {
			return nil, errors.New(stage)
		}
		for j := 0; j < actionCount; j++ {
			e := Effect{
				Reaction:   uint8(r.Read(5)),
				Animation:  uint16(r.Read(12)),
				EffectFlag: uint8(r.Read(4)),
				Stagger:    uint8(r.Read(7)),
				Knockback:  uint8(r.Read(3)),
				Magnitude:  r.Read(17),
				Message:    uint16(r.Read(10)),
			}
			r.Skip(31)
			if e.EffectFlag != 0 {
				add := &Additional{
					Animation: uint16(r.Read(10)),
					SpikeFlag: uint8(r.Read(4)),
					Magnitude: r.Read(17),
					Message:   uint16(r.Read(10)),
				}
				if add.SpikeFlag != 0 {
					add.Spike = &Spike{
						Animation: uint16(r.Read(10)),
						Kind:      uint8(r.Read(4)),
						Magnitude: r.Read(14),
						Message:   uint16(r.Read(10)),
					}
				}
				e.Additional = add
			}
			t.Actions = append(t.Actions, e)
		}
		act.Targets = append(act.Targets, t)
	}
	return act, nil
}
