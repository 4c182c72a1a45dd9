package main

import "math"

const (
	ProjectileMinSpeed     = 26.0 // floor applied to the inherited speed
	ProjectileSpeedFactor  = 1.25 // of the firer's speed at launch
	ProjectileAcquireRange = 60.0
	ProjectileHitRadius    = 3.0
	ProjectileTurnRate     = 3.5 // radians/s while homing
	ProjectileRangeLaps    = 1.5 // removed after this many track lengths
	// A seeking projectile is considered on the rail once it gets this
	// close to the centerline
	railCaptureDist = 1.0
)

// FlightPhase is the projectile's tagged flight state
type FlightPhase int

const (
	// RailSeeking: flying straight toward the nearest track point
	RailSeeking FlightPhase = iota
	// RailFollowing: advancing along the centerline by arc length
	RailFollowing
	// Homing: locked on and steering toward a target car
	Homing
	// Impacted: hit something this tick; owner removes it
	Impacted
)

// Projectile is the runtime entity of a fired homing power-up
type Projectile struct {
	ID      string
	OwnerID string
	Pos     Vec2
	Heading float64
	Speed   float64

	Phase    FlightPhase
	TargetID string      // set while Homing
	Progress NavProgress // rail position while RailFollowing
	Travelled float64    // cumulative distance for range exhaustion
}

// NewProjectile spawns a projectile at the firer's position and heading,
// inheriting speed (floored) and starting in rail mode at the firer's
// current track progress
func NewProjectile(owner *Car, nav *TrackNavigator) *Projectile {
	speed := owner.Speed * ProjectileSpeedFactor
	if speed < ProjectileMinSpeed {
		speed = ProjectileMinSpeed
	}
	p := &Projectile{
		ID:      GenerateID(3),
		OwnerID: owner.ID,
		Pos:     owner.Pos,
		Heading: owner.Heading,
		Speed:   speed,
		Phase:   RailSeeking,
	}
	if nav.Usable() {
		p.Progress = nav.Project(owner.Pos, -1).Progress
	}
	return p
}

// acquireTarget scans the other cars for the nearest one inside the
// forward half-plane and acquisition radius
func (p *Projectile) acquireTarget(cars map[string]*Car) {
	forward := HeadingVec(p.Heading)
	best := ProjectileAcquireRange * ProjectileAcquireRange
	bestID := ""
	for id, c := range cars {
		if id == p.OwnerID {
			continue
		}
		rel := c.Pos.Sub(p.Pos)
		if rel.Dot(forward) <= 0 {
			continue
		}
		if d2 := rel.LenSq(); d2 < best {
			best = d2
			bestID = id
		}
	}
	if bestID != "" {
		p.TargetID = bestID
		p.Phase = Homing
	}
}

// Update advances the projectile one tick. Returns the id of a car hit
// this tick, or "". Phase transitions:
//
//	RailSeeking -> RailFollowing  on reaching the corridor centerline
//	RailSeeking|RailFollowing -> Homing  on target acquisition
//	Homing -> RailSeeking  when the locked target leaves the room
//	Homing -> Impacted  within the hit radius
func (p *Projectile) Update(dt float64, cars map[string]*Car, nav *TrackNavigator) string {
	if p.Phase == Impacted {
		return ""
	}

	if p.Phase == Homing {
		if _, ok := cars[p.TargetID]; !ok {
			// Target left the room; fall back to unlocked flight
			p.TargetID = ""
			p.Phase = RailSeeking
		}
	}
	if p.Phase != Homing {
		p.acquireTarget(cars)
	}

	step := p.Speed * dt

	switch p.Phase {
	case Homing:
		target := cars[p.TargetID]
		desired := Bearing(p.Pos, target.Pos)
		diff := NormalizeAngle(desired - p.Heading)
		maxTurn := ProjectileTurnRate * dt
		if diff > maxTurn {
			diff = maxTurn
		} else if diff < -maxTurn {
			diff = -maxTurn
		}
		p.Heading = NormalizeAngle(p.Heading + diff)
		p.Pos = p.Pos.Add(HeadingVec(p.Heading).Scale(step))
		if target.Pos.Sub(p.Pos).Len() <= ProjectileHitRadius {
			p.Phase = Impacted
			return p.TargetID
		}

	case RailSeeking:
		if !nav.Usable() {
			p.Pos = p.Pos.Add(HeadingVec(p.Heading).Scale(step))
			break
		}
		proj := nav.Project(p.Pos, p.Progress.Seg)
		if proj.Dist <= railCaptureDist || proj.Dist <= step {
			p.Pos = proj.Point
			p.Progress = proj.Progress
			p.Phase = RailFollowing
			break
		}
		p.Heading = Bearing(p.Pos, proj.Point)
		p.Pos = p.Pos.Add(HeadingVec(p.Heading).Scale(step))

	case RailFollowing:
		if !nav.Usable() {
			p.Pos = p.Pos.Add(HeadingVec(p.Heading).Scale(step))
			break
		}
		var pos, dir Vec2
		p.Progress, pos, dir = nav.Advance(p.Progress, step)
		p.Pos = pos
		p.Heading = math.Atan2(dir.Z, dir.X)
	}

	p.Travelled += step
	return ""
}

// Exhausted reports whether the projectile has outrun its range
func (p *Projectile) Exhausted(nav *TrackNavigator) bool {
	if !nav.Usable() {
		return p.Travelled > ProjectileRangeLaps*1000
	}
	return p.Travelled > ProjectileRangeLaps*nav.TotalLength()
}

// ToSnapshot copies the externally visible projectile state. Rail
// progress internals are deliberately not exposed.
func (p *Projectile) ToSnapshot() ProjectileSnapshot {
	return ProjectileSnapshot{
		ID:      p.ID,
		Owner:   p.OwnerID,
		X:       roundCoord(p.Pos.X),
		Z:       roundCoord(p.Pos.Z),
		Heading: roundCoord(p.Heading),
		Speed:   roundCoord(p.Speed),
		Target:  p.TargetID,
	}
}
