package main

import (
	"math"
	"math/rand"
)

const (
	trackGenPoints     = 14
	trackGenBaseRadius = 260.0
	trackGenJitter     = 0.45 // fraction of base radius
	trackGenSmoothing  = 2    // midpoint smoothing passes
)

// GenerateTrack builds a closed racing loop from a seed: a jittered
// radial polygon smoothed by midpoint passes. The same seed always
// yields the same track.
func GenerateTrack(seed int64) *TrackData {
	rng := rand.New(rand.NewSource(seed))

	pts := make([]Vec2, 0, trackGenPoints)
	for i := 0; i < trackGenPoints; i++ {
		angle := 2 * math.Pi * float64(i) / trackGenPoints
		r := trackGenBaseRadius * (1 + (rng.Float64()*2-1)*trackGenJitter)
		pts = append(pts, Vec2{X: math.Cos(angle) * r, Z: math.Sin(angle) * r})
	}

	for pass := 0; pass < trackGenSmoothing; pass++ {
		pts = smoothLoop(pts)
	}

	return &TrackData{
		ID:         GenerateID(4),
		Seed:       seed,
		Width:      DefaultTrackWidth,
		Centerline: pts,
	}
}

// smoothLoop replaces each vertex pair with quarter-point subdivisions
// (Chaikin corner cutting), keeping the loop closed
func smoothLoop(pts []Vec2) []Vec2 {
	out := make([]Vec2, 0, len(pts)*2)
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		out = append(out,
			a.Scale(0.75).Add(b.Scale(0.25)),
			a.Scale(0.25).Add(b.Scale(0.75)),
		)
	}
	return out
}
