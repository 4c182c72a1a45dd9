package main

import (
	"math"
	"testing"
)

const tickDt = 1.0 / TickRate

func corridorCar(id string, pos Vec2, heading float64) *Car {
	return NewCar(id, id, pos, heading, false)
}

func TestIntegrateThrottleTick(t *testing.T) {
	geom := NewTrackGeometry(squareTrack(30))
	car := corridorCar("a", Vec2{50, 0}, 0)
	car.Input = CarInput{Throttle: 1}

	IntegrateCar(car, tickDt, geom)

	want := (CarAccel - CarFriction) * tickDt
	if math.Abs(car.Speed-want) > 1e-9 {
		t.Errorf("speed after one throttle tick = %f, want %f", car.Speed, want)
	}
}

func TestFrictionHoldsStationaryCar(t *testing.T) {
	geom := NewTrackGeometry(squareTrack(30))
	car := corridorCar("a", Vec2{50, 0}, 0)

	for i := 0; i < 10; i++ {
		IntegrateCar(car, tickDt, geom)
	}
	if car.Speed != 0 {
		t.Errorf("stationary car gained speed %f from friction", car.Speed)
	}
	if car.Pos != (Vec2{50, 0}) {
		t.Errorf("stationary car moved to %+v", car.Pos)
	}
}

func TestFrictionCoastsToZero(t *testing.T) {
	geom := NewTrackGeometry(squareTrack(30))
	car := corridorCar("a", Vec2{50, 0}, 0)
	car.Speed = 10

	for i := 0; i < 60*5; i++ {
		IntegrateCar(car, tickDt, geom)
	}
	if car.Speed != 0 {
		t.Errorf("coasting car should stop, speed = %f", car.Speed)
	}
}

func TestOffCorridorSpeedCap(t *testing.T) {
	geom := NewTrackGeometry(squareTrack(30))
	car := corridorCar("a", Vec2{50, -17}, 0) // off the corridor, inside the slack band
	car.Speed = CarMaxSpeed
	car.Input = CarInput{Throttle: 1}

	IntegrateCar(car, tickDt, geom)

	if car.OnCorridor {
		t.Fatal("car should be flagged off-corridor")
	}
	want := CarMaxSpeed * OffCorridorSpeedMul
	if math.Abs(car.Speed-want) > 1e-9 {
		t.Errorf("off-corridor speed = %f, want cap %f", car.Speed, want)
	}
}

func TestBoostRaisesSpeedCap(t *testing.T) {
	geom := NewTrackGeometry(squareTrack(30))
	car := corridorCar("a", Vec2{50, 0}, 0)
	car.Boost.ActiveLeft = 1
	car.Speed = CarMaxSpeed * 2

	IntegrateCar(car, tickDt, geom)

	want := CarMaxSpeed * BoostSpeedMul
	if math.Abs(car.Speed-want) > 1e-9 {
		t.Errorf("boosted speed = %f, want cap %f", car.Speed, want)
	}
}

func TestBoundaryPushOut(t *testing.T) {
	geom := NewTrackGeometry(squareTrack(30))
	car := corridorCar("a", Vec2{50, -25}, 0) // past the slack band

	IntegrateCar(car, tickDt, geom)

	if _, depth, ok := geom.ResolveBoundaryPenetration(car.Pos, CarHalfWidth, CorridorBoundarySlack); ok && depth > 1e-9 {
		t.Errorf("car still penetrates the boundary by %f at %+v", depth, car.Pos)
	}
}

func TestCarOverlapDisjoint(t *testing.T) {
	a := corridorCar("a", Vec2{0, 0}, 0)
	b := corridorCar("b", Vec2{20, 0}, 0)
	if _, _, ok := carOverlap(a, b); ok {
		t.Error("distant cars reported overlapping")
	}
}

func TestCarOverlapAxisAndDepth(t *testing.T) {
	a := corridorCar("a", Vec2{0, 0}, 0)
	b := corridorCar("b", Vec2{3, 0}, 0)

	axis, depth, ok := carOverlap(a, b)
	if !ok {
		t.Fatal("expected overlap")
	}
	// Axis-aligned boxes 3 apart: X overlap 1.8 beats Z overlap 2.2
	if math.Abs(depth-1.8) > 1e-9 {
		t.Errorf("overlap depth = %f, want 1.8", depth)
	}
	if axis.X <= 0 {
		t.Errorf("axis should point from a toward b, got %+v", axis)
	}
}

func TestCollisionSeparatesPair(t *testing.T) {
	geom := NewTrackGeometry(squareTrack(30))
	a := corridorCar("a", Vec2{48, 0}, 0)
	b := corridorCar("b", Vec2{51, 0}, 0)

	ResolveCollisions([]*Car{a, b}, geom)

	if _, depth, ok := carOverlap(a, b); ok && depth > 1e-9 {
		t.Errorf("pair still overlaps by %f after resolution", depth)
	}
}

func TestCollisionImpulseOnApproach(t *testing.T) {
	geom := NewTrackGeometry(squareTrack(30))
	a := corridorCar("a", Vec2{48, 0}, 0)
	b := corridorCar("b", Vec2{51, 0}, 0)
	a.Speed = 10

	ResolveCollisions([]*Car{a, b}, geom)

	// Equal-mass restitution split: closing speed 10 becomes 3 / 7
	if math.Abs(a.Speed-3) > 1e-9 {
		t.Errorf("striker speed = %f, want 3", a.Speed)
	}
	if math.Abs(b.Speed-7) > 1e-9 {
		t.Errorf("struck speed = %f, want 7", b.Speed)
	}
}

func TestCollisionNoImpulseWhenSeparating(t *testing.T) {
	geom := NewTrackGeometry(squareTrack(30))
	a := corridorCar("a", Vec2{48, 0}, 0)
	b := corridorCar("b", Vec2{51, 0}, 0)
	b.Speed = 10 // already moving away

	ResolveCollisions([]*Car{a, b}, geom)

	if a.Speed != 0 {
		t.Errorf("stationary car gained speed %f from a separating contact", a.Speed)
	}
	if math.Abs(b.Speed-10) > 1e-9 {
		t.Errorf("separating car's speed changed to %f", b.Speed)
	}
}

func TestCollisionSpeedStaysClamped(t *testing.T) {
	geom := NewTrackGeometry(squareTrack(30))
	a := corridorCar("a", Vec2{48, 0}, 0)
	b := corridorCar("b", Vec2{51, 0}, 0)
	a.Speed = CarMaxSpeed
	b.Speed = CarMaxSpeed

	ResolveCollisions([]*Car{a, b}, geom)

	for _, c := range []*Car{a, b} {
		if c.Speed > c.CurrentMaxSpeed()+1e-9 {
			t.Errorf("car %s exceeds cap after collision: %f", c.ID, c.Speed)
		}
	}
}

func TestInputSanitized(t *testing.T) {
	in := CarInput{Steer: -3, Throttle: 5, Brake: math.NaN(), ActivateBoost: true}
	got := in.Sanitized()

	if got.Steer != -1 {
		t.Errorf("steer = %f, want -1", got.Steer)
	}
	if got.Throttle != 1 {
		t.Errorf("throttle = %f, want 1", got.Throttle)
	}
	if got.Brake != 0 {
		t.Errorf("NaN brake = %f, want 0", got.Brake)
	}
	if !got.ActivateBoost {
		t.Error("boolean flags should pass through")
	}
}

func TestResetToSpawn(t *testing.T) {
	car := NewCar("a", "a", Vec2{10, 20}, 1.5, false)
	car.Pos = Vec2{99, 99}
	car.Speed = 30
	car.Spin = NewImpactSpin()

	car.ResetToSpawn()

	if car.Pos != (Vec2{10, 20}) || car.Heading != 1.5 {
		t.Errorf("reset left car at %+v heading %f", car.Pos, car.Heading)
	}
	if car.Speed != 0 || car.Spin != nil {
		t.Error("reset should stop the car and clear any spin")
	}
}
