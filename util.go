package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
)

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// GenerateUUID returns a random UUIDv4-formatted string
func GenerateUUID() string {
	b := make([]byte, 16)
	rand.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Vec2 is a point or direction on the game's horizontal plane
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Z float64 `json:"z" msgpack:"z"`
}

// Add returns a + b
func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Z + b.Z} }

// Sub returns a - b
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Z - b.Z} }

// Scale returns a * s
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Z * s} }

// Dot returns the dot product of a and b
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Z*b.Z }

// Len returns the vector length
func (a Vec2) Len() float64 { return math.Sqrt(a.X*a.X + a.Z*a.Z) }

// LenSq returns the squared vector length
func (a Vec2) LenSq() float64 { return a.X*a.X + a.Z*a.Z }

// Normalized returns the unit vector, or a zero vector for zero-length input
func (a Vec2) Normalized() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Z / l}
}

// HeadingVec returns the unit vector for a heading angle
func HeadingVec(heading float64) Vec2 {
	return Vec2{math.Cos(heading), math.Sin(heading)}
}

// Bearing returns the angle of the vector from a to b
func Bearing(a, b Vec2) float64 {
	return math.Atan2(b.Z-a.Z, b.X-a.X)
}

// roundCoord rounds to 0.01 so broadcast frames stay compact and
// snapshots of a car at rest compare equal between ticks
func roundCoord(v float64) float64 {
	return math.Round(v*100) / 100
}

// finiteOrZero replaces NaN/Inf with 0 so bad client input can't poison the sim
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
