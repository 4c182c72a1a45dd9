package main

const (
	BoostMaxCharges     = 2
	BoostDuration       = 3.0 // seconds of boosted accel/top speed
	BoostRechargePeriod = 8.0 // accumulated seconds per regained charge
	BoostAccelMul       = 1.8
	BoostSpeedMul       = 1.35

	ProjectileMaxCharges     = 2
	ProjectileRechargePeriod = 12.0

	ImpactSpinDuration = 2.0
	ImpactSpinRate     = 8.0 // radians/s
)

// BoostState is the charge/recharge machine for the speed boost
type BoostState struct {
	Charges    int
	ActiveLeft float64 // remaining boosted time
	recharge   float64 // accumulated uncharged seconds
}

// NewBoostState returns a boost state with full charges
func NewBoostState() BoostState {
	return BoostState{Charges: BoostMaxCharges}
}

// Active reports whether the boost effect is currently applied
func (b *BoostState) Active() bool { return b.ActiveLeft > 0 }

// Activate consumes one charge and arms the boost. Activating with zero
// charges is a no-op; activating while already boosting tops the timer
// up to BoostDuration but never past it.
func (b *BoostState) Activate() bool {
	if b.Charges <= 0 {
		return false
	}
	b.Charges--
	if b.ActiveLeft < BoostDuration {
		b.ActiveLeft = BoostDuration
	}
	return true
}

// Update ticks the active timer down and the recharge accumulator up.
// Recharge runs regardless of the active timer; each time the
// accumulator crosses the period a charge is granted and the remainder
// carries over.
func (b *BoostState) Update(dt float64) {
	if b.ActiveLeft > 0 {
		b.ActiveLeft -= dt
		if b.ActiveLeft < 0 {
			b.ActiveLeft = 0
		}
	}
	if b.Charges < BoostMaxCharges {
		b.recharge += dt
		for b.recharge >= BoostRechargePeriod && b.Charges < BoostMaxCharges {
			b.recharge -= BoostRechargePeriod
			b.Charges++
		}
		if b.Charges == BoostMaxCharges {
			b.recharge = 0
		}
	}
}

// AddCharge grants a charge from a pickup, capped at the maximum
func (b *BoostState) AddCharge() {
	if b.Charges < BoostMaxCharges {
		b.Charges++
	}
}

// rechargeLeft returns seconds until the next charge, 0 when full
func (b *BoostState) rechargeLeft() float64 {
	if b.Charges >= BoostMaxCharges {
		return 0
	}
	return BoostRechargePeriod - b.recharge
}

// ChargeState is the charge/recharge machine for projectile ammo
type ChargeState struct {
	Charges  int
	recharge float64
}

// NewChargeState returns a projectile charge state with full ammo
func NewChargeState() ChargeState {
	return ChargeState{Charges: ProjectileMaxCharges}
}

// Consume takes one charge; returns false (and changes nothing) at zero
func (s *ChargeState) Consume() bool {
	if s.Charges <= 0 {
		return false
	}
	s.Charges--
	return true
}

// Update accumulates recharge time, granting charges with carry-over
func (s *ChargeState) Update(dt float64) {
	if s.Charges >= ProjectileMaxCharges {
		s.recharge = 0
		return
	}
	s.recharge += dt
	for s.recharge >= ProjectileRechargePeriod && s.Charges < ProjectileMaxCharges {
		s.recharge -= ProjectileRechargePeriod
		s.Charges++
	}
	if s.Charges == ProjectileMaxCharges {
		s.recharge = 0
	}
}

// AddCharge grants a charge from a pickup, capped at the maximum
func (s *ChargeState) AddCharge() {
	if s.Charges < ProjectileMaxCharges {
		s.Charges++
	}
}

// rechargeLeft returns seconds until the next charge, 0 when full
func (s *ChargeState) rechargeLeft() float64 {
	if s.Charges >= ProjectileMaxCharges {
		return 0
	}
	return ProjectileRechargePeriod - s.recharge
}

// ImpactSpin is the hit effect installed on a car struck by a
// projectile: speed is forced to zero and the heading rotates at a
// constant rate until the timer expires
type ImpactSpin struct {
	TimeLeft float64
	Rate     float64
}

// NewImpactSpin returns the standard projectile hit effect
func NewImpactSpin() *ImpactSpin {
	return &ImpactSpin{TimeLeft: ImpactSpinDuration, Rate: ImpactSpinRate}
}

// Apply runs one tick of the spin. Returns false once expired.
func (s *ImpactSpin) Apply(car *Car, dt float64) bool {
	s.TimeLeft -= dt
	if s.TimeLeft <= 0 {
		return false
	}
	car.Speed = 0
	car.Heading = NormalizeAngle(car.Heading + s.Rate*dt)
	return true
}
