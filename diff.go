package main

const (
	// PreferFullSnapshot falls back to a full snapshot when more than
	// this fraction of entities changed...
	deltaChangedRatio = 0.5
	// ...or when this many entities changed outright
	deltaChangedMax = 24
)

// CarDelta lists car changes between two snapshots
type CarDelta struct {
	Added   []CarSnapshot `json:"add,omitempty" msgpack:"add,omitempty"`
	Updated []CarSnapshot `json:"upd,omitempty" msgpack:"upd,omitempty"`
	Removed []string      `json:"rem,omitempty" msgpack:"rem,omitempty"`
}

// ProjectileDelta lists projectile changes between two snapshots
type ProjectileDelta struct {
	Added   []ProjectileSnapshot `json:"add,omitempty" msgpack:"add,omitempty"`
	Updated []ProjectileSnapshot `json:"upd,omitempty" msgpack:"upd,omitempty"`
	Removed []string             `json:"rem,omitempty" msgpack:"rem,omitempty"`
}

// PickupDelta lists pickup changes between two snapshots
type PickupDelta struct {
	Added   []PickupSnapshot `json:"add,omitempty" msgpack:"add,omitempty"`
	Updated []PickupSnapshot `json:"upd,omitempty" msgpack:"upd,omitempty"`
	Removed []string         `json:"rem,omitempty" msgpack:"rem,omitempty"`
}

// SnapshotDelta is the incremental update between two room snapshots.
// Changed entities are emitted whole; there are no partial-field
// updates.
type SnapshotDelta struct {
	Tick        uint64          `json:"tick" msgpack:"tick"`
	Clock       float64         `json:"clock" msgpack:"clock"`
	Cars        CarDelta        `json:"cars" msgpack:"cars"`
	Projectiles ProjectileDelta `json:"projectiles" msgpack:"projectiles"`
	Pickups     PickupDelta     `json:"pickups" msgpack:"pickups"`
}

func (d *SnapshotDelta) changedCount() int {
	return len(d.Cars.Added) + len(d.Cars.Updated) + len(d.Cars.Removed) +
		len(d.Projectiles.Added) + len(d.Projectiles.Updated) + len(d.Projectiles.Removed) +
		len(d.Pickups.Added) + len(d.Pickups.Updated) + len(d.Pickups.Removed)
}

// ComputeDelta diffs two snapshots. Returns nil when nothing changed in
// any collection. An id can never appear as both added and removed:
// membership in both snapshots routes it to updated (or nowhere).
func ComputeDelta(prev, next *RoomSnapshot) *SnapshotDelta {
	if prev == nil || next == nil {
		return nil
	}

	d := &SnapshotDelta{Tick: next.Tick, Clock: next.Clock}

	prevCars := make(map[string]CarSnapshot, len(prev.Cars))
	for _, c := range prev.Cars {
		prevCars[c.ID] = c
	}
	for _, c := range next.Cars {
		old, ok := prevCars[c.ID]
		if !ok {
			d.Cars.Added = append(d.Cars.Added, c)
		} else if old != c {
			d.Cars.Updated = append(d.Cars.Updated, c)
		}
		delete(prevCars, c.ID)
	}
	for _, c := range prev.Cars {
		if _, stillThere := prevCars[c.ID]; stillThere {
			d.Cars.Removed = append(d.Cars.Removed, c.ID)
		}
	}

	prevProj := make(map[string]ProjectileSnapshot, len(prev.Projectiles))
	for _, p := range prev.Projectiles {
		prevProj[p.ID] = p
	}
	for _, p := range next.Projectiles {
		old, ok := prevProj[p.ID]
		if !ok {
			d.Projectiles.Added = append(d.Projectiles.Added, p)
		} else if old != p {
			d.Projectiles.Updated = append(d.Projectiles.Updated, p)
		}
		delete(prevProj, p.ID)
	}
	for _, p := range prev.Projectiles {
		if _, stillThere := prevProj[p.ID]; stillThere {
			d.Projectiles.Removed = append(d.Projectiles.Removed, p.ID)
		}
	}

	prevPick := make(map[string]PickupSnapshot, len(prev.Pickups))
	for _, p := range prev.Pickups {
		prevPick[p.ID] = p
	}
	for _, p := range next.Pickups {
		old, ok := prevPick[p.ID]
		if !ok {
			d.Pickups.Added = append(d.Pickups.Added, p)
		} else if old != p {
			d.Pickups.Updated = append(d.Pickups.Updated, p)
		}
		delete(prevPick, p.ID)
	}
	for _, p := range prev.Pickups {
		if _, stillThere := prevPick[p.ID]; stillThere {
			d.Pickups.Removed = append(d.Pickups.Removed, p.ID)
		}
	}

	if d.changedCount() == 0 {
		return nil
	}
	return d
}

// PreferFullSnapshot decides whether sending the delta is actually
// cheaper than a full snapshot: when most entities changed, or many
// changed outright, the delta overhead isn't worth it.
func PreferFullSnapshot(d *SnapshotDelta, prev, next *RoomSnapshot) bool {
	if d == nil {
		return false
	}
	changed := d.changedCount()
	if changed >= deltaChangedMax {
		return true
	}
	total := len(prev.Cars) + len(prev.Projectiles) + len(prev.Pickups)
	if t := len(next.Cars) + len(next.Projectiles) + len(next.Pickups); t > total {
		total = t
	}
	if total == 0 {
		return false
	}
	return float64(changed)/float64(total) > deltaChangedRatio
}
