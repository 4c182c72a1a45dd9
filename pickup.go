package main

// Trackside charge pickups, placed on the centerline at even arc-length
// intervals via the navigator. Driving over one grants a boost or
// projectile charge; the pickup then respawns after a fixed delay.
const (
	PickupSpacing = 120.0 // arc length between pickups
	PickupRadius  = 3.5
	PickupRespawn = 10.0 // seconds
)

// Pickup kinds
const (
	PickupBoost      = "boost"
	PickupProjectile = "projectile"
)

// Pickup is one trackside charge item
type Pickup struct {
	ID       string
	Kind     string
	Pos      Vec2
	Active   bool
	RespawnT float64
}

// PlacePickups lays pickups along the loop, alternating kinds
func PlacePickups(nav *TrackNavigator) map[string]*Pickup {
	pickups := make(map[string]*Pickup)
	if !nav.Usable() || nav.TotalLength() < PickupSpacing {
		return pickups
	}

	count := int(nav.TotalLength() / PickupSpacing)
	progress := NavProgress{}
	for i := 0; i < count; i++ {
		var pos Vec2
		progress, pos, _ = nav.Advance(progress, PickupSpacing)
		kind := PickupBoost
		if i%2 == 1 {
			kind = PickupProjectile
		}
		p := &Pickup{
			ID:     GenerateID(3),
			Kind:   kind,
			Pos:    pos,
			Active: true,
		}
		pickups[p.ID] = p
	}
	return pickups
}

// Update ticks the respawn timer
func (p *Pickup) Update(dt float64) {
	if p.Active {
		return
	}
	p.RespawnT -= dt
	if p.RespawnT <= 0 {
		p.Active = true
	}
}

// TryCollect grants the pickup's charge to a car driving over it.
// NPC cars never gain charges.
func (p *Pickup) TryCollect(car *Car) bool {
	if !p.Active || car.IsNpc {
		return false
	}
	if car.Pos.Sub(p.Pos).Len() > PickupRadius+CarHalfWidth {
		return false
	}
	switch p.Kind {
	case PickupBoost:
		car.Boost.AddCharge()
	case PickupProjectile:
		car.Charges.AddCharge()
	}
	p.Active = false
	p.RespawnT = PickupRespawn
	return true
}

// ToSnapshot copies the externally visible pickup state
func (p *Pickup) ToSnapshot() PickupSnapshot {
	return PickupSnapshot{
		ID:     p.ID,
		Kind:   p.Kind,
		X:      roundCoord(p.Pos.X),
		Z:      roundCoord(p.Pos.Z),
		Active: p.Active,
	}
}
