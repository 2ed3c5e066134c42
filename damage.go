package main

// DamageTracker folds damage dealt by player characters into the mob
// target's profile. The mob's own HP is never on the wire, so summing what
// players land on it is the only magnitude estimate available.
type DamageTracker struct {
	cls *Classifier
	agg *Aggregator
}

func newDamageTracker(cls *Classifier, agg *Aggregator) *DamageTracker {
	return &DamageTracker{cls: cls, agg: agg}
}

// Observe attributes one hit to the target. Non-positive magnitudes and
// targets that don't classify as mobs are ignored; the damage is always
// credited to the mob, never to the dealer.
func (d *DamageTracker) Observe(targetID uint32, magnitude int) {
	if magnitude <= 0 {
		return
	}
	if d.cls.Classify(targetID) != ClassMob {
		return
	}
	name, model := d.cls.Info(targetID)
	if name == "" {
		return
	}
	d.agg.RecordDamageTaken(ProfileKey{Zone: d.cls.Zone(), Name: name}, model, magnitude)
}
