package main

import (
	"math"
	"testing"
)

func TestBoostActivateWithoutCharges(t *testing.T) {
	var b BoostState
	if b.Activate() {
		t.Error("activate with zero charges should fail")
	}
	if b.Active() {
		t.Error("failed activation must not arm the boost")
	}
}

func TestBoostActivateConsumesOneCharge(t *testing.T) {
	b := NewBoostState()
	if !b.Activate() {
		t.Fatal("activation with charges available should succeed")
	}
	if b.Charges != BoostMaxCharges-1 {
		t.Errorf("charges = %d, want %d", b.Charges, BoostMaxCharges-1)
	}
	if math.Abs(b.ActiveLeft-BoostDuration) > 1e-9 {
		t.Errorf("active timer = %f, want %f", b.ActiveLeft, BoostDuration)
	}
}

func TestBoostDoesNotStack(t *testing.T) {
	b := NewBoostState()
	b.Activate()
	b.Update(1)
	b.Activate()

	if b.ActiveLeft > BoostDuration {
		t.Errorf("re-activation stacked the timer to %f", b.ActiveLeft)
	}
	if b.Charges != 0 {
		t.Errorf("second activation should still consume a charge, have %d", b.Charges)
	}
}

func TestBoostExpires(t *testing.T) {
	b := NewBoostState()
	b.Activate()
	for i := 0; i < int(BoostDuration*TickRate)+2; i++ {
		b.Update(1.0 / TickRate)
	}
	if b.Active() {
		t.Errorf("boost still active after its duration, left %f", b.ActiveLeft)
	}
}

func TestBoostRechargeCarriesRemainder(t *testing.T) {
	b := NewBoostState()
	b.Activate()
	b.Activate()

	b.Update(BoostRechargePeriod + 0.5)
	if b.Charges != 1 {
		t.Fatalf("charges = %d after one period plus change, want 1", b.Charges)
	}
	if math.Abs(b.rechargeLeft()-(BoostRechargePeriod-0.5)) > 1e-9 {
		t.Errorf("remainder not carried, next charge in %f", b.rechargeLeft())
	}

	b.Update(BoostRechargePeriod - 0.5)
	if b.Charges != BoostMaxCharges {
		t.Errorf("charges = %d, want full", b.Charges)
	}
	if b.rechargeLeft() != 0 {
		t.Errorf("full boost should report zero recharge, got %f", b.rechargeLeft())
	}
}

func TestBoostRechargesWhileActive(t *testing.T) {
	b := NewBoostState()
	b.Activate()
	b.Activate()
	b.Update(BoostDuration) // timer drains, recharge accumulates the same seconds

	want := BoostRechargePeriod - BoostDuration
	if math.Abs(b.rechargeLeft()-want) > 1e-9 {
		t.Errorf("recharge during boost = %f remaining, want %f", b.rechargeLeft(), want)
	}
}

func TestChargeConsume(t *testing.T) {
	s := NewChargeState()
	for i := 0; i < ProjectileMaxCharges; i++ {
		if !s.Consume() {
			t.Fatalf("consume %d should succeed", i)
		}
	}
	if s.Consume() {
		t.Error("consume at zero should fail")
	}
	if s.Charges != 0 {
		t.Errorf("failed consume changed charges to %d", s.Charges)
	}
}

func TestChargeRecharge(t *testing.T) {
	s := NewChargeState()
	s.Consume()
	s.Consume()

	s.Update(ProjectileRechargePeriod)
	if s.Charges != 1 {
		t.Errorf("charges = %d after one period, want 1", s.Charges)
	}
	s.Update(ProjectileRechargePeriod * 3)
	if s.Charges != ProjectileMaxCharges {
		t.Errorf("charges = %d, want capped at %d", s.Charges, ProjectileMaxCharges)
	}
	if s.rechargeLeft() != 0 {
		t.Errorf("full ammo should report zero recharge, got %f", s.rechargeLeft())
	}
}

func TestAddChargeCaps(t *testing.T) {
	b := NewBoostState()
	b.AddCharge()
	if b.Charges != BoostMaxCharges {
		t.Errorf("boost charges exceeded cap: %d", b.Charges)
	}
	s := NewChargeState()
	s.AddCharge()
	if s.Charges != ProjectileMaxCharges {
		t.Errorf("projectile charges exceeded cap: %d", s.Charges)
	}
}

func TestImpactSpinZeroesSpeedAndRotates(t *testing.T) {
	car := NewCar("a", "a", Vec2{}, 0, false)
	car.Speed = 25
	spin := NewImpactSpin()

	if !spin.Apply(car, 1.0/TickRate) {
		t.Fatal("fresh spin expired immediately")
	}
	if car.Speed != 0 {
		t.Errorf("spin left speed at %f", car.Speed)
	}
	if math.Abs(car.Heading-ImpactSpinRate/TickRate) > 1e-9 {
		t.Errorf("heading rotated to %f, want %f", car.Heading, ImpactSpinRate/TickRate)
	}
}

func TestImpactSpinExpires(t *testing.T) {
	car := NewCar("a", "a", Vec2{}, 0, false)
	spin := NewImpactSpin()

	ticks := 0
	for spin.Apply(car, 1.0/TickRate) {
		ticks++
		if ticks > 10*TickRate {
			t.Fatal("spin never expired")
		}
	}
	want := int(ImpactSpinDuration * TickRate)
	if ticks < want-2 || ticks > want+2 {
		t.Errorf("spin lasted %d ticks, want about %d", ticks, want)
	}
}
