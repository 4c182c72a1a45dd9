package main

import (
	"math"
	"math/rand"
)

// DriverParams is the named bundle of gains and thresholds that shapes
// one computer opponent's driving. Bundles are injected at room
// construction from the profile store; nothing here is hard-coded into
// the simulation.
type DriverParams struct {
	BaseThrottle  float64 // throttle before corrections
	CornerPenalty float64 // throttle lost per radian of heading error
	CatchupGain   float64 // throttle added when under target speed
	TargetSpeed   float64

	SteerResponse float64 // radians of error for full steering input
	LookaheadWidthGain float64 // lookahead per unit of corridor width
	LookaheadSpeedGain float64 // lookahead per unit of speed
	LookaheadMin  float64
	LookaheadMax  float64

	RecoveryAngle float64 // heading error that triggers recovery braking
	RecoverySpeed float64 // minimum speed for recovery braking
	ApproachDist  float64 // distance to target that triggers approach braking
	ApproachSpeed float64

	MistakeChance    float64 // probability a cooldown expiry starts a mistake
	MistakeMagnitude float64 // steering bias while a mistake is active
	MistakeMinDur    float64
	MistakeMaxDur    float64
	MistakeMinCooldown float64
	MistakeMaxCooldown float64
}

// DefaultDriverParams is the fallback bundle when no profile is supplied
func DefaultDriverParams() DriverParams {
	return DriverParams{
		BaseThrottle:  0.85,
		CornerPenalty: 0.55,
		CatchupGain:   0.4,
		TargetSpeed:   32,
		SteerResponse: 0.9,
		LookaheadWidthGain: 0.5,
		LookaheadSpeedGain: 0.45,
		LookaheadMin:  10,
		LookaheadMax:  42,
		RecoveryAngle: 1.15,
		RecoverySpeed: 10,
		ApproachDist:  6,
		ApproachSpeed: 24,
		MistakeChance:    0.3,
		MistakeMagnitude: 0.28,
		MistakeMinDur:    0.3,
		MistakeMaxDur:    1.1,
		MistakeMinCooldown: 2.5,
		MistakeMaxCooldown: 7.0,
	}
}

// CenterlineGrid is a uniform spatial grid over the centerline points,
// built once per track and queried every tick for every opponent
type CenterlineGrid struct {
	points   []Vec2
	cellSize float64
	minX, minZ float64
	cols, rows int
	cells    [][]int // point indices per cell
}

// NewCenterlineGrid buckets the centerline points into cells sized to
// the average segment length
func NewCenterlineGrid(centerline []Vec2) *CenterlineGrid {
	g := &CenterlineGrid{points: centerline}
	if len(centerline) < 2 {
		return g
	}

	perimeter := 0.0
	minX, minZ := math.MaxFloat64, math.MaxFloat64
	maxX, maxZ := -math.MaxFloat64, -math.MaxFloat64
	for i, p := range centerline {
		perimeter += centerline[(i+1)%len(centerline)].Sub(p).Len()
		minX = math.Min(minX, p.X)
		minZ = math.Min(minZ, p.Z)
		maxX = math.Max(maxX, p.X)
		maxZ = math.Max(maxZ, p.Z)
	}
	g.cellSize = perimeter / float64(len(centerline))
	if g.cellSize <= 0 {
		g.cellSize = 1
	}
	g.minX, g.minZ = minX, minZ
	g.cols = int((maxX-minX)/g.cellSize) + 1
	g.rows = int((maxZ-minZ)/g.cellSize) + 1
	g.cells = make([][]int, g.cols*g.rows)

	for i, p := range centerline {
		idx := g.cellOf(p)
		g.cells[idx] = append(g.cells[idx], i)
	}
	return g
}

// Usable reports whether the grid holds a navigable centerline
func (g *CenterlineGrid) Usable() bool { return len(g.cells) > 0 }

func (g *CenterlineGrid) cellOf(p Vec2) int {
	cx := int((p.X - g.minX) / g.cellSize)
	cz := int((p.Z - g.minZ) / g.cellSize)
	if cx < 0 {
		cx = 0
	} else if cx >= g.cols {
		cx = g.cols - 1
	}
	if cz < 0 {
		cz = 0
	} else if cz >= g.rows {
		cz = g.rows - 1
	}
	return cz*g.cols + cx
}

// Nearest returns the index of the centerline point closest to p. Cells
// are visited in expanding square rings from p's cell; the search stops
// once the best hit is closer than anything outside the searched square
// can be.
func (g *CenterlineGrid) Nearest(p Vec2) int {
	if !g.Usable() {
		return 0
	}

	cx := int((p.X - g.minX) / g.cellSize)
	cz := int((p.Z - g.minZ) / g.cellSize)

	best := -1
	bestDist := math.MaxFloat64

	scanCell := func(x, z int) {
		if x < 0 || x >= g.cols || z < 0 || z >= g.rows {
			return
		}
		for _, i := range g.cells[z*g.cols+x] {
			d := g.points[i].Sub(p).Len()
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
	}

	maxRing := g.cols
	if g.rows > maxRing {
		maxRing = g.rows
	}
	for ring := 0; ring <= maxRing; ring++ {
		if ring == 0 {
			scanCell(cx, cz)
		} else {
			for x := cx - ring; x <= cx+ring; x++ {
				scanCell(x, cz-ring)
				scanCell(x, cz+ring)
			}
			for z := cz - ring + 1; z <= cz+ring-1; z++ {
				scanCell(cx-ring, z)
				scanCell(cx+ring, z)
			}
		}
		if best >= 0 && bestDist <= g.boundaryDist(p, cx, cz, ring) {
			break
		}
	}
	if best < 0 {
		best = 0
	}
	return best
}

// boundaryDist returns the minimum distance from p to any cell outside
// the square of rings 0..ring around (cx, cz)
func (g *CenterlineGrid) boundaryDist(p Vec2, cx, cz, ring int) float64 {
	loX := g.minX + float64(cx-ring)*g.cellSize
	hiX := g.minX + float64(cx+ring+1)*g.cellSize
	loZ := g.minZ + float64(cz-ring)*g.cellSize
	hiZ := g.minZ + float64(cz+ring+1)*g.cellSize
	d := p.X - loX
	if v := hiX - p.X; v < d {
		d = v
	}
	if v := p.Z - loZ; v < d {
		d = v
	}
	if v := hiZ - p.Z; v < d {
		d = v
	}
	if d < 0 {
		d = 0
	}
	return d
}

// NpcDriver holds one opponent's persistent steering memory: the last
// nearest-centerline hit, the current lookahead target, and the mistake
// injection machine. Each driver owns a seedable RNG so behavior is
// reproducible in tests.
type NpcDriver struct {
	Params DriverParams
	rng    *rand.Rand

	lastNearest int
	targetIdx   int

	mistakeLeft float64 // remaining active mistake duration
	mistakeDir  float64 // signed bias direction
	mistakeCD   float64 // cooldown until the next roll
}

// NewNpcDriver creates a driver with the given behavior bundle and seed
func NewNpcDriver(params DriverParams, seed int64) *NpcDriver {
	d := &NpcDriver{Params: params, rng: rand.New(rand.NewSource(seed))}
	d.mistakeCD = d.randRange(params.MistakeMinCooldown, params.MistakeMaxCooldown)
	return d
}

func (d *NpcDriver) randRange(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + d.rng.Float64()*(hi-lo)
}

// updateMistake advances the mistake machine and returns the current
// steering bias
func (d *NpcDriver) updateMistake(dt float64) float64 {
	if d.mistakeLeft > 0 {
		d.mistakeLeft -= dt
		return d.mistakeDir * d.Params.MistakeMagnitude
	}
	d.mistakeCD -= dt
	if d.mistakeCD <= 0 {
		if d.rng.Float64() < d.Params.MistakeChance {
			d.mistakeDir = 1
			if d.rng.Float64() < 0.5 {
				d.mistakeDir = -1
			}
			d.mistakeLeft = d.randRange(d.Params.MistakeMinDur, d.Params.MistakeMaxDur)
		}
		d.mistakeCD = d.randRange(d.Params.MistakeMinCooldown, d.Params.MistakeMaxCooldown)
	}
	return 0
}

// lookaheadTarget walks forward along the centerline from the nearest
// point by the given distance and returns the resulting steering target
func (d *NpcDriver) lookaheadTarget(centerline []Vec2, nearest int, dist float64) Vec2 {
	idx := nearest
	remaining := dist
	for step := 0; step < len(centerline); step++ {
		next := (idx + 1) % len(centerline)
		segLen := centerline[next].Sub(centerline[idx]).Len()
		if segLen >= remaining {
			break
		}
		remaining -= segLen
		idx = next
	}
	d.targetIdx = (idx + 1) % len(centerline)
	return centerline[d.targetIdx]
}

// Drive computes this tick's steering/throttle/brake for an AI car
func (d *NpcDriver) Drive(car *Car, dt float64, grid *CenterlineGrid, geom *TrackGeometry) CarInput {
	p := d.Params
	centerline := grid.points
	if !grid.Usable() || len(centerline) < 2 {
		return CarInput{}
	}

	nearest := grid.Nearest(car.Pos)
	d.lastNearest = nearest

	lookahead := Clamp(
		geom.HalfWidth()*2*p.LookaheadWidthGain+car.Speed*p.LookaheadSpeedGain,
		p.LookaheadMin, p.LookaheadMax,
	)
	target := d.lookaheadTarget(centerline, nearest, lookahead)

	angErr := NormalizeAngle(Bearing(car.Pos, target) - car.Heading)
	bias := d.updateMistake(dt)
	steer := Clamp((angErr+bias)/p.SteerResponse, -1, 1)

	throttle := p.BaseThrottle - p.CornerPenalty*math.Abs(angErr)
	if car.Speed < p.TargetSpeed {
		throttle += p.CatchupGain * (1 - car.Speed/p.TargetSpeed)
	}
	throttle = Clamp(throttle, 0, 1)

	brake := 0.0
	targetDist := target.Sub(car.Pos).Len()
	switch {
	case math.Abs(angErr) > p.RecoveryAngle && car.Speed > p.RecoverySpeed:
		brake = 1
		throttle = 0
	case !geom.IsOnCorridor(car.Pos):
		brake = 0.5
	case targetDist < p.ApproachDist && car.Speed > p.ApproachSpeed:
		brake = 0.7
	}

	return CarInput{Steer: steer, Throttle: throttle, Brake: brake}
}
