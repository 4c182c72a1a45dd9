package main

const (
	CarAccel         = 30.0 // units/s²
	CarBrakeAccel    = 55.0 // units/s²
	CarFriction      = 4.0  // units/s² passive deceleration toward zero
	CarMaxSpeed      = 40.0 // units/s
	CarTurnRate      = 2.6  // radians/s steering authority at full speed
	CarHalfLength    = 2.4
	CarHalfWidth     = 1.1
	OffCorridorSpeedMul = 0.5
	// Cars may drift this far past the corridor edge before the boundary
	// pushes them back
	CorridorBoundarySlack = 6.0
)

// CarInput is the per-tick control tuple applied to one car
type CarInput struct {
	Steer    float64
	Throttle float64
	Brake    float64

	ActivateBoost  bool
	FireProjectile bool
	ResetPosition  bool
}

// Sanitized clamps the axes and neutralizes non-finite values
func (in CarInput) Sanitized() CarInput {
	return CarInput{
		Steer:          Clamp(finiteOrZero(in.Steer), -1, 1),
		Throttle:       Clamp(finiteOrZero(in.Throttle), 0, 1),
		Brake:          Clamp(finiteOrZero(in.Brake), 0, 1),
		ActivateBoost:  in.ActivateBoost,
		FireProjectile: in.FireProjectile,
		ResetPosition:  in.ResetPosition,
	}
}

// Car is one vehicle in a room: a position, a heading, and a scalar
// speed along that heading
type Car struct {
	ID      string
	Name    string
	Pos     Vec2
	Heading float64
	Speed   float64
	IsNpc   bool

	Input      CarInput
	Boost      BoostState
	Charges    ChargeState
	Spin       *ImpactSpin // nil while not spinning
	OnCorridor bool

	spawnPos     Vec2
	spawnHeading float64
}

// NewCar creates a car at the given spawn point
func NewCar(id, name string, pos Vec2, heading float64, isNpc bool) *Car {
	c := &Car{
		ID:           id,
		Name:         name,
		Pos:          pos,
		Heading:      heading,
		IsNpc:        isNpc,
		OnCorridor:   true,
		spawnPos:     pos,
		spawnHeading: heading,
	}
	if !isNpc {
		c.Boost = NewBoostState()
		c.Charges = NewChargeState()
	}
	return c
}

// ResetToSpawn puts the car back on its spawn slot at rest
func (c *Car) ResetToSpawn() {
	c.Pos = c.spawnPos
	c.Heading = c.spawnHeading
	c.Speed = 0
	c.Spin = nil
}

// CurrentMaxSpeed returns the speed cap for the car's corridor state and
// boost status
func (c *Car) CurrentMaxSpeed() float64 {
	max := CarMaxSpeed
	if c.Boost.Active() {
		max *= BoostSpeedMul
	}
	if !c.OnCorridor {
		max *= OffCorridorSpeedMul
	}
	return max
}

// ToSnapshot copies the car's externally visible state
func (c *Car) ToSnapshot() CarSnapshot {
	s := CarSnapshot{
		ID:           c.ID,
		Name:         c.Name,
		X:            roundCoord(c.Pos.X),
		Z:            roundCoord(c.Pos.Z),
		Heading:      roundCoord(c.Heading),
		Speed:        roundCoord(c.Speed),
		Npc:          c.IsNpc,
		BoostActive:  c.Boost.Active(),
		BoostCharges: c.Boost.Charges,
		BoostRecharge: roundCoord(c.Boost.rechargeLeft()),
		BoostLeft:    roundCoord(c.Boost.ActiveLeft),
		ProjCharges:  c.Charges.Charges,
		ProjRecharge: roundCoord(c.Charges.rechargeLeft()),
	}
	if c.Spin != nil {
		s.SpinLeft = roundCoord(c.Spin.TimeLeft)
	}
	return s
}
