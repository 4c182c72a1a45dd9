package main

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const (
	TickRate          = 60 // physics ticks per second
	BroadcastRate     = 20 // state broadcasts per second
	TickDuration      = time.Second / TickRate
	BroadcastInterval = time.Second / BroadcastRate

	maxCarsPerRoom        = 20
	maxProjectilesPerRoom = 64
	// Every Nth broadcast is a forced keyframe so late joiners and lossy
	// links resynchronize
	keyframeEvery = 20
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendState(frame []byte)
}

// DriverProfile names one computer opponent and its behavior bundle.
// Rosters are injected at room construction; the simulation carries no
// embedded opponent data.
type DriverProfile struct {
	Name   string
	Params DriverParams
}

// Game runs one room's simulation: it owns all per-room mutable entity
// state and advances it in a fixed order every tick
type Game struct {
	mu sync.RWMutex

	roomID string
	track  *TrackData
	geom   *TrackGeometry
	nav    *TrackNavigator
	grid   *CenterlineGrid

	cars        map[string]*Car
	drivers     map[string]*NpcDriver // per-NPC steering memory, keyed by car id
	projectiles map[string]*Projectile
	pickups     map[string]*Pickup
	clients     map[string]Broadcaster

	tick      uint64
	clock     float64
	rng       *rand.Rand
	nextSpawn int

	running    bool
	stop       chan struct{}
	prevSnap   *RoomSnapshot
	sinceKeyframe int
}

// NewGame creates a room simulation for the given track and opponent
// roster. A track with no usable centerline yields an inert room: the
// loop still runs, but no physics or AI executes.
func NewGame(roomID string, track *TrackData, roster []DriverProfile, seed int64) *Game {
	g := &Game{
		roomID:      roomID,
		track:       track,
		geom:        NewTrackGeometry(track),
		nav:         NewTrackNavigator(track),
		cars:        make(map[string]*Car),
		drivers:     make(map[string]*NpcDriver),
		projectiles: make(map[string]*Projectile),
		pickups:     make(map[string]*Pickup),
		clients:     make(map[string]Broadcaster),
		rng:         rand.New(rand.NewSource(seed)),
		stop:        make(chan struct{}),
	}
	if track.Usable() {
		g.grid = NewCenterlineGrid(track.Centerline)
		g.pickups = PlacePickups(g.nav)
	} else {
		g.grid = NewCenterlineGrid(nil)
	}

	for _, profile := range roster {
		g.addNpc(profile)
	}
	return g
}

// Run drives the room: a simulation timer and a slower broadcast timer
// multiplexed onto one goroutine, so a broadcast always observes a
// quiescent, fully updated state between ticks
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	simTicker := time.NewTicker(TickDuration)
	defer simTicker.Stop()
	broadcastTicker := time.NewTicker(BroadcastInterval)
	defer broadcastTicker.Stop()

	dt := 1.0 / float64(TickRate)
	for {
		select {
		case <-simTicker.C:
			g.Update(dt)
		case <-broadcastTicker.C:
			g.broadcastState()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the room loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// spawnPoint returns the next spawn slot: positions spaced along the
// first usable centerline segments, facing along the track
func (g *Game) spawnPoint() (Vec2, float64) {
	if !g.nav.Usable() {
		return Vec2{}, 0
	}
	slot := g.nextSpawn
	g.nextSpawn++
	_, pos, dir := g.nav.Advance(NavProgress{}, float64(slot)*CarHalfLength*3)
	// Offset alternate slots sideways so cars don't spawn stacked
	side := Vec2{-dir.Z, dir.X}.Scale(g.geom.HalfWidth() * 0.4)
	if slot%2 == 1 {
		pos = pos.Add(side)
	} else if slot > 0 {
		pos = pos.Sub(side)
	}
	return pos, math.Atan2(dir.Z, dir.X)
}

// AddCar adds a human-controlled car. Returns nil when the room is full.
func (g *Game) AddCar(name string) *Car {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.cars) >= maxCarsPerRoom {
		return nil
	}
	pos, heading := g.spawnPoint()
	car := NewCar(GenerateID(4), name, pos, heading, false)
	g.cars[car.ID] = car
	return car
}

// addNpc adds a computer opponent with its own seeded RNG
func (g *Game) addNpc(profile DriverProfile) {
	if len(g.cars) >= maxCarsPerRoom {
		return
	}
	pos, heading := g.spawnPoint()
	car := NewCar(GenerateID(4), profile.Name, pos, heading, true)
	g.cars[car.ID] = car
	g.drivers[car.ID] = NewNpcDriver(profile.Params, g.rng.Int63())
}

// RemoveCar removes a car and its per-car state from the room
func (g *Game) RemoveCar(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.cars, id)
	delete(g.drivers, id)
	delete(g.clients, id)
}

// SetClient associates a broadcaster with a car
func (g *Game) SetClient(carID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[carID] = client
}

// ApplyInput stores a car's control input for the next tick. The latest
// value wins; non-finite fields are treated as neutral.
func (g *Game) ApplyInput(carID string, input CarInput) {
	g.mu.Lock()
	defer g.mu.Unlock()

	car, ok := g.cars[carID]
	if !ok || car.IsNpc {
		return
	}
	in := input.Sanitized()
	// Discrete actions latch until consumed by the tick
	in.ActivateBoost = in.ActivateBoost || car.Input.ActivateBoost
	in.FireProjectile = in.FireProjectile || car.Input.FireProjectile
	in.ResetPosition = in.ResetPosition || car.Input.ResetPosition
	car.Input = in
}

// SetNpcInput overrides an AI car's input directly (used by tests and
// by external drivers)
func (g *Game) SetNpcInput(carID string, input CarInput) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if car, ok := g.cars[carID]; ok && car.IsNpc {
		car.Input = input.Sanitized()
	}
}

// IsOnCorridor reports whether a point is inside the drivable band
func (g *Game) IsOnCorridor(p Vec2) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.geom.IsOnCorridor(p)
}

// HumanCount returns the number of human-controlled cars
func (g *Game) HumanCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, c := range g.cars {
		if !c.IsNpc {
			n++
		}
	}
	return n
}

// CarCount returns the total number of cars
func (g *Game) CarCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cars)
}

// Update advances the simulation one tick. Order is fixed: power-up
// recharge for humans, NPC steering, motion integration and collision,
// projectiles, impact spins, pickups, clock.
func (g *Game) Update(dt float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++
	if !g.track.Usable() {
		// Inert room: a broken track must not take the loop down
		g.clock += dt
		return
	}

	// Power-up state for human cars (NPCs never gain charges)
	for _, car := range g.cars {
		if car.IsNpc {
			continue
		}
		car.Boost.Update(dt)
		car.Charges.Update(dt)

		if car.Input.ResetPosition {
			car.Input.ResetPosition = false
			car.ResetToSpawn()
		}
		if car.Input.ActivateBoost {
			car.Input.ActivateBoost = false
			car.Boost.Activate()
		}
		if car.Input.FireProjectile {
			car.Input.FireProjectile = false
			g.fireProjectile(car)
		}
	}

	// NPC steering writes each AI car's next input
	for id, driver := range g.drivers {
		if car, ok := g.cars[id]; ok {
			car.Input = driver.Drive(car, dt, g.grid, g.geom)
		}
	}

	// Motion integration, then pairwise collision
	cars := make([]*Car, 0, len(g.cars))
	for _, car := range g.cars {
		IntegrateCar(car, dt, g.geom)
		cars = append(cars, car)
	}
	ResolveCollisions(cars, g.geom)

	// Projectiles: movement, acquisition, impact, range exhaustion.
	// Each is removed exactly once.
	for id, proj := range g.projectiles {
		if hit := proj.Update(dt, g.cars, g.nav); hit != "" {
			if target, ok := g.cars[hit]; ok {
				target.Speed = 0
				target.Spin = NewImpactSpin()
			}
			delete(g.projectiles, id)
			continue
		}
		if proj.Exhausted(g.nav) {
			delete(g.projectiles, id)
		}
	}

	// Impact spins apply last, overriding integration for spinning cars
	for _, car := range g.cars {
		if car.Spin != nil && !car.Spin.Apply(car, dt) {
			car.Spin = nil
		}
	}

	// Trackside pickups
	for _, pickup := range g.pickups {
		pickup.Update(dt)
		if !pickup.Active {
			continue
		}
		for _, car := range g.cars {
			if pickup.TryCollect(car) {
				break
			}
		}
	}

	g.clock += dt
}

// fireProjectile consumes a charge and spawns a projectile; a no-op at
// zero charges or at the room projectile cap
func (g *Game) fireProjectile(car *Car) {
	if len(g.projectiles) >= maxProjectilesPerRoom {
		return
	}
	if !car.Charges.Consume() {
		return
	}
	proj := NewProjectile(car, g.nav)
	g.projectiles[proj.ID] = proj
}

// ToSnapshot exports an immutable, ordered copy of the room state. Pure
// accessor: never mutates, safe to call anytime.
func (g *Game) ToSnapshot() *RoomSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snap := &RoomSnapshot{
		RoomID:      g.roomID,
		TrackID:     g.track.ID,
		Tick:        g.tick,
		Clock:       g.clock,
		Cars:        make([]CarSnapshot, 0, len(g.cars)),
		Projectiles: make([]ProjectileSnapshot, 0, len(g.projectiles)),
		Pickups:     make([]PickupSnapshot, 0, len(g.pickups)),
	}
	for _, car := range g.cars {
		snap.Cars = append(snap.Cars, car.ToSnapshot())
	}
	for _, proj := range g.projectiles {
		snap.Projectiles = append(snap.Projectiles, proj.ToSnapshot())
	}
	for _, pickup := range g.pickups {
		snap.Pickups = append(snap.Pickups, pickup.ToSnapshot())
	}
	sortCars(snap.Cars)
	sortProjectiles(snap.Projectiles)
	sortPickups(snap.Pickups)
	return snap
}

// broadcastState diffs against the previous broadcast and sends either a
// delta or a full snapshot, whichever is cheaper
func (g *Game) broadcastState() {
	snap := g.ToSnapshot()

	g.mu.Lock()
	prev := g.prevSnap
	g.prevSnap = snap
	g.sinceKeyframe++
	forceFull := prev == nil || g.sinceKeyframe >= keyframeEvery
	clients := make([]Broadcaster, 0, len(g.clients))
	for _, c := range g.clients {
		clients = append(clients, c)
	}
	if forceFull {
		g.sinceKeyframe = 0
	}
	g.mu.Unlock()

	if len(clients) == 0 {
		return
	}

	var frame []byte
	if !forceFull {
		delta := ComputeDelta(prev, snap)
		if delta == nil {
			return
		}
		if !PreferFullSnapshot(delta, prev, snap) {
			frame = encodeDeltaFrame(delta)
		}
	}
	if frame == nil {
		frame = encodeSnapshotFrame(snap)
	}
	if frame == nil {
		return
	}
	for _, client := range clients {
		client.SendState(frame)
	}
}
