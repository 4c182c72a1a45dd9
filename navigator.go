package main

import "math"

// NavProgress is an arc-length position on the loop: a segment index plus
// a distance into that segment
type NavProgress struct {
	Seg    int
	Offset float64
}

// Projection is the result of snapping a point onto the loop
type Projection struct {
	Point    Vec2
	Progress NavProgress
	Along    float64 // cumulative distance from the loop start
	Dist     float64 // distance from the query point to Point
}

// TrackNavigator parameterizes the centerline loop by arc length.
// Projectile flight and trackside item placement are its only consumers.
type TrackNavigator struct {
	segs     []trackSegment
	cumStart []float64 // arc length at each segment start
	total    float64
}

// NewTrackNavigator builds the cumulative arc-length table
func NewTrackNavigator(track *TrackData) *TrackNavigator {
	n := &TrackNavigator{}
	if !track.Usable() {
		return n
	}
	n.segs = buildSegments(track.Centerline)
	n.cumStart = make([]float64, len(n.segs))
	for i := range n.segs {
		n.cumStart[i] = n.total
		n.total += n.segs[i].length
	}
	return n
}

// Usable reports whether the navigator has any segments
func (n *TrackNavigator) Usable() bool { return len(n.segs) > 0 }

// TotalLength returns the loop circumference
func (n *TrackNavigator) TotalLength() float64 { return n.total }

// SegmentCount returns the number of navigable segments
func (n *TrackNavigator) SegmentCount() int { return len(n.segs) }

// Project snaps p to the nearest point on the loop. hint, when >= 0,
// names a segment to try first (with its immediate neighbors) so callers
// tracking a moving point usually skip the full scan. Correctness never
// depends on the hint: unless an exact hit ends the search early, every
// untested segment is still visited.
func (n *TrackNavigator) Project(p Vec2, hint int) Projection {
	if len(n.segs) == 0 {
		return Projection{Point: p, Progress: NavProgress{}, Dist: 0}
	}

	best := Projection{Dist: math.MaxFloat64}
	tested := make([]bool, len(n.segs))

	try := func(i int) bool {
		if i < 0 {
			i += len(n.segs)
		}
		i %= len(n.segs)
		if tested[i] {
			return false
		}
		tested[i] = true
		pt, off := n.segs[i].closestOnSegment(p)
		d := pt.Sub(p).Len()
		if d < best.Dist {
			best = Projection{
				Point:    pt,
				Progress: NavProgress{Seg: i, Offset: off},
				Along:    n.cumStart[i] + off,
				Dist:     d,
			}
		}
		return d == 0
	}

	if hint >= 0 && hint < len(n.segs) {
		for _, i := range []int{hint, hint - 1, hint + 1} {
			if try(i) {
				return best
			}
		}
	}
	for i := range n.segs {
		if try(i) {
			return best
		}
	}
	return best
}

// Advance walks forward from progress by distance (>= 0), wrapping across
// segment boundaries and around the loop. Returns the new progress plus
// the resulting position and travel direction. A zero distance returns
// the position unchanged.
func (n *TrackNavigator) Advance(p NavProgress, distance float64) (NavProgress, Vec2, Vec2) {
	if len(n.segs) == 0 {
		return p, Vec2{}, Vec2{1, 0}
	}
	seg := p.Seg % len(n.segs)
	if seg < 0 {
		seg += len(n.segs)
	}
	offset := Clamp(p.Offset, 0, n.segs[seg].length)
	if distance > 0 && n.total > 0 {
		distance = math.Mod(distance, n.total*2) // bound the walk for huge inputs
		offset += distance
		for offset >= n.segs[seg].length {
			offset -= n.segs[seg].length
			seg = (seg + 1) % len(n.segs)
		}
	}
	s := &n.segs[seg]
	return NavProgress{Seg: seg, Offset: offset}, s.start.Add(s.dir.Scale(offset)), s.dir
}

// Along returns the cumulative arc length of a progress value
func (n *TrackNavigator) Along(p NavProgress) float64 {
	if len(n.segs) == 0 {
		return 0
	}
	seg := p.Seg % len(n.segs)
	if seg < 0 {
		seg += len(n.segs)
	}
	return n.cumStart[seg] + Clamp(p.Offset, 0, n.segs[seg].length)
}

// DistanceAhead returns the forward arc length from a to b, wrapping
// around the loop when b is behind a
func (n *TrackNavigator) DistanceAhead(a, b NavProgress) float64 {
	if n.total == 0 {
		return 0
	}
	d := n.Along(b) - n.Along(a)
	if d < 0 {
		d += n.total
	}
	return d
}
