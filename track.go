package main

import "math"

const (
	// CorridorEdgeTolerance pads the on-corridor test so a car sitting
	// exactly on the boundary doesn't flicker due to float error
	CorridorEdgeTolerance = 0.25

	DefaultTrackWidth = 30.0
)

// TrackData is the immutable track handed to a room at creation
type TrackData struct {
	ID         string `json:"id" msgpack:"id"`
	Seed       int64  `json:"seed" msgpack:"seed"`
	Width      float64 `json:"width" msgpack:"width"`
	Centerline []Vec2 `json:"centerline" msgpack:"centerline"`
}

// Usable reports whether the track has enough centerline to navigate
func (t *TrackData) Usable() bool {
	return t != nil && len(t.Centerline) >= 2 && t.Width > 0
}

// trackSegment is one directed piece of the centerline loop
type trackSegment struct {
	start  Vec2
	dir    Vec2 // unit direction
	length float64
}

// buildSegments decomposes a cyclic centerline into directed segments,
// dropping zero-length pieces
func buildSegments(centerline []Vec2) []trackSegment {
	segs := make([]trackSegment, 0, len(centerline))
	for i := range centerline {
		a := centerline[i]
		b := centerline[(i+1)%len(centerline)]
		d := b.Sub(a)
		l := d.Len()
		if l == 0 {
			continue
		}
		segs = append(segs, trackSegment{start: a, dir: d.Scale(1 / l), length: l})
	}
	return segs
}

// closestOnSegment returns the closest point on the segment to p and the
// offset along the segment at which it lies
func (s *trackSegment) closestOnSegment(p Vec2) (Vec2, float64) {
	t := Clamp(p.Sub(s.start).Dot(s.dir), 0, s.length)
	return s.start.Add(s.dir.Scale(t)), t
}

// TrackGeometry answers pure corridor-membership and boundary queries.
// Built once per room; safe to call every tick for every actor.
type TrackGeometry struct {
	segs      []trackSegment
	halfWidth float64
	usable    bool
}

// NewTrackGeometry precomputes segment directions and lengths
func NewTrackGeometry(track *TrackData) *TrackGeometry {
	g := &TrackGeometry{}
	if !track.Usable() {
		return g
	}
	g.segs = buildSegments(track.Centerline)
	g.halfWidth = track.Width / 2
	g.usable = len(g.segs) > 0
	return g
}

// Usable reports whether the geometry was built from a navigable track
func (g *TrackGeometry) Usable() bool { return g.usable }

// HalfWidth returns half the corridor width
func (g *TrackGeometry) HalfWidth() float64 { return g.halfWidth }

// closest returns the closest centerline point to p over all segments,
// the distance to it, and the index of the owning segment
func (g *TrackGeometry) closest(p Vec2) (Vec2, float64, int) {
	best := math.MaxFloat64
	var bestPt Vec2
	bestSeg := -1
	for i := range g.segs {
		pt, _ := g.segs[i].closestOnSegment(p)
		d2 := pt.Sub(p).LenSq()
		if d2 < best {
			best = d2
			bestPt = pt
			bestSeg = i
		}
	}
	return bestPt, math.Sqrt(best), bestSeg
}

// IsOnCorridor reports whether p lies inside the drivable band
func (g *TrackGeometry) IsOnCorridor(p Vec2) bool {
	if !g.usable {
		return false
	}
	_, dist, _ := g.closest(p)
	return dist < g.halfWidth+CorridorEdgeTolerance
}

// ResolveBoundaryPenetration checks an actor of the given radius against
// the corridor boundary widened by extraOffset. When the actor pokes
// through it returns the outward boundary normal and the penetration
// depth; moving the point by -normal*depth puts it back inside.
func (g *TrackGeometry) ResolveBoundaryPenetration(p Vec2, radius, extraOffset float64) (Vec2, float64, bool) {
	if !g.usable {
		return Vec2{}, 0, false
	}
	pt, dist, seg := g.closest(p)
	limit := g.halfWidth + extraOffset
	if dist+radius <= limit {
		return Vec2{}, 0, false
	}
	normal := p.Sub(pt).Normalized()
	if normal == (Vec2{}) {
		// Point sits on the centerline; fall back to the segment perpendicular
		d := g.segs[seg].dir
		normal = Vec2{-d.Z, d.X}
	}
	return normal, dist + radius - limit, true
}
