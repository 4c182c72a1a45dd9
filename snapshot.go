package main

import "sort"

// CarSnapshot is the externally visible state of one car. All fields are
// scalars so two snapshots compare with ==, which the diff engine relies
// on.
type CarSnapshot struct {
	ID      string  `json:"id" msgpack:"id"`
	Name    string  `json:"n" msgpack:"n"`
	X       float64 `json:"x" msgpack:"x"`
	Z       float64 `json:"z" msgpack:"z"`
	Heading float64 `json:"h" msgpack:"h"`
	Speed   float64 `json:"v" msgpack:"v"`
	Npc     bool    `json:"npc" msgpack:"npc"`

	BoostActive   bool    `json:"ba" msgpack:"ba"`
	BoostCharges  int     `json:"bc" msgpack:"bc"`
	BoostRecharge float64 `json:"br" msgpack:"br"`
	BoostLeft     float64 `json:"bl" msgpack:"bl"`
	ProjCharges   int     `json:"pc" msgpack:"pc"`
	ProjRecharge  float64 `json:"pr" msgpack:"pr"`
	SpinLeft      float64 `json:"sp" msgpack:"sp"`
}

// ProjectileSnapshot is the externally visible state of one projectile
type ProjectileSnapshot struct {
	ID      string  `json:"id" msgpack:"id"`
	Owner   string  `json:"o" msgpack:"o"`
	X       float64 `json:"x" msgpack:"x"`
	Z       float64 `json:"z" msgpack:"z"`
	Heading float64 `json:"h" msgpack:"h"`
	Speed   float64 `json:"v" msgpack:"v"`
	Target  string  `json:"t,omitempty" msgpack:"t,omitempty"`
}

// PickupSnapshot is the externally visible state of one trackside pickup
type PickupSnapshot struct {
	ID     string  `json:"id" msgpack:"id"`
	Kind   string  `json:"k" msgpack:"k"`
	X      float64 `json:"x" msgpack:"x"`
	Z      float64 `json:"z" msgpack:"z"`
	Active bool    `json:"a" msgpack:"a"`
}

// RoomSnapshot is a quiescent copy of a room's state, produced between
// ticks and never mutated afterwards. Collections are ordered by id so
// encoding and diffing are stable.
type RoomSnapshot struct {
	RoomID      string               `json:"room" msgpack:"room"`
	TrackID     string               `json:"track" msgpack:"track"`
	Tick        uint64               `json:"tick" msgpack:"tick"`
	Clock       float64              `json:"clock" msgpack:"clock"`
	Cars        []CarSnapshot        `json:"cars" msgpack:"cars"`
	Projectiles []ProjectileSnapshot `json:"projectiles" msgpack:"projectiles"`
	Pickups     []PickupSnapshot     `json:"pickups" msgpack:"pickups"`
}

func sortCars(s []CarSnapshot) {
	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
}

func sortProjectiles(s []ProjectileSnapshot) {
	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
}

func sortPickups(s []PickupSnapshot) {
	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
}
