package main

import "math"

const (
	CollisionRestitution = 0.4
	minHeadingSpeed      = 0.01 // below this the impulse direction is noise
)

// IntegrateCar advances one car's kinematics by dt. Input must already be
// sanitized. Order per tick: throttle/brake, passive friction, corridor-
// aware speed clamp, steering (authority scales with speed), position,
// boundary push-out.
func IntegrateCar(car *Car, dt float64, geom *TrackGeometry) {
	in := car.Input

	accel := CarAccel
	if car.Boost.Active() {
		accel *= BoostAccelMul
	}
	car.Speed += in.Throttle * accel * dt
	car.Speed -= in.Brake * CarBrakeAccel * dt

	// Passive friction toward zero, never overshooting past it
	fr := CarFriction * dt
	if car.Speed > fr {
		car.Speed -= fr
	} else {
		car.Speed = 0
	}

	if geom.Usable() {
		car.OnCorridor = geom.IsOnCorridor(car.Pos)
	}
	car.Speed = Clamp(car.Speed, 0, car.CurrentMaxSpeed())

	car.Heading = NormalizeAngle(car.Heading + in.Steer*CarTurnRate*(car.Speed/CarMaxSpeed)*dt)
	car.Pos = car.Pos.Add(HeadingVec(car.Heading).Scale(car.Speed * dt))

	if normal, depth, ok := geom.ResolveBoundaryPenetration(car.Pos, CarHalfWidth, CorridorBoundarySlack); ok {
		car.Pos = car.Pos.Sub(normal.Scale(depth))
	}
}

// carOverlap runs the separating-axis test over both cars' forward and
// right axes. Returns the minimum-overlap axis oriented from a toward b
// and the overlap depth, or ok=false when an axis separates them.
func carOverlap(a, b *Car) (Vec2, float64, bool) {
	delta := b.Pos.Sub(a.Pos)
	af := HeadingVec(a.Heading)
	ar := Vec2{-af.Z, af.X}
	bf := HeadingVec(b.Heading)
	br := Vec2{-bf.Z, bf.X}

	axes := [4]Vec2{af, ar, bf, br}
	minOverlap := math.MaxFloat64
	var minAxis Vec2

	for _, axis := range axes {
		d := delta.Dot(axis)
		ra := CarHalfLength*math.Abs(af.Dot(axis)) + CarHalfWidth*math.Abs(ar.Dot(axis))
		rb := CarHalfLength*math.Abs(bf.Dot(axis)) + CarHalfWidth*math.Abs(br.Dot(axis))
		overlap := ra + rb - math.Abs(d)
		if overlap <= 0 {
			return Vec2{}, 0, false
		}
		if overlap < minOverlap {
			minOverlap = overlap
			if d < 0 {
				axis = axis.Scale(-1)
			}
			minAxis = axis
		}
	}
	return minAxis, minOverlap, true
}

// ResolveCollisions runs pairwise oriented-box collision over all cars:
// positional separation of half the penetration each, plus a restitution
// impulse applied only while the pair is approaching. Headings are
// re-derived from the impulse-modified velocities and speeds re-clamped.
func ResolveCollisions(cars []*Car, geom *TrackGeometry) {
	n := len(cars)
	if n < 2 {
		return
	}

	vel := make([]Vec2, n)
	touched := make([]bool, n)
	for i, c := range cars {
		vel[i] = HeadingVec(c.Heading).Scale(c.Speed)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := cars[i], cars[j]
			normal, depth, ok := carOverlap(a, b)
			if !ok {
				continue
			}

			half := normal.Scale(depth / 2)
			a.Pos = a.Pos.Sub(half)
			b.Pos = b.Pos.Add(half)

			closing := vel[j].Sub(vel[i]).Dot(normal)
			if closing < 0 {
				impulse := normal.Scale(-(1 + CollisionRestitution) * closing / 2)
				vel[i] = vel[i].Sub(impulse)
				vel[j] = vel[j].Add(impulse)
			}
			touched[i] = true
			touched[j] = true
		}
	}

	for i, c := range cars {
		if !touched[i] {
			continue
		}
		speed := vel[i].Len()
		if speed > minHeadingSpeed {
			c.Heading = math.Atan2(vel[i].Z, vel[i].X)
		}
		if geom.Usable() {
			c.OnCorridor = geom.IsOnCorridor(c.Pos)
		}
		c.Speed = Clamp(speed, 0, c.CurrentMaxSpeed())
	}
}
