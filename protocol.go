package main

import (
	"encoding/json"
	"log"

	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgJoin   = "join"
	MsgLeave  = "leave"
	MsgInput  = "input"
	MsgCreate = "create" // create room
	MsgList   = "list"   // list rooms
)

// Server -> Client message types
const (
	MsgWelcome = "welcome"
	MsgCreated = "created"
	MsgRooms   = "rooms"
	MsgError   = "error"
)

// Binary frame kinds. State traffic goes over msgpack binary frames
// with a one-byte kind prefix; control traffic stays JSON.
const (
	FrameSnapshot byte = 0x01
	FrameDelta    byte = 0x02
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// InputMsg is sent by the client at its input rate; the latest value
// wins within a tick
type InputMsg struct {
	Steer    float64 `json:"s"`
	Throttle float64 `json:"t"`
	Brake    float64 `json:"b"`
	Boost    bool    `json:"boost,omitempty"`
	Fire     bool    `json:"fire,omitempty"`
	Reset    bool    `json:"reset,omitempty"`
}

// ToCarInput converts the wire input to the simulation input tuple
func (m InputMsg) ToCarInput() CarInput {
	return CarInput{
		Steer:          m.Steer,
		Throttle:       m.Throttle,
		Brake:          m.Brake,
		ActivateBoost:  m.Boost,
		FireProjectile: m.Fire,
		ResetPosition:  m.Reset,
	}
}

// JoinMsg is sent when a player wants to join a room
type JoinMsg struct {
	Name   string `json:"name"`
	RoomID string `json:"rid"`
}

// CreateMsg is sent when a player wants to create a room
type CreateMsg struct {
	Name      string `json:"name"`
	RoomName  string `json:"rname"`
	TrackSeed int64  `json:"seed,omitempty"` // 0 = random
}

// WelcomeMsg is sent to a player when they join, carrying the track so
// the client can render it
type WelcomeMsg struct {
	CarID  string     `json:"id"`
	RoomID string     `json:"rid"`
	Track  *TrackData `json:"track"`
}

// RoomInfo is used in the room list
type RoomInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Humans int    `json:"humans"`
	Cars   int    `json:"cars"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// encodeSnapshotFrame packs a full snapshot into a binary frame
func encodeSnapshotFrame(snap *RoomSnapshot) []byte {
	body, err := msgpack.Marshal(snap)
	if err != nil {
		log.Printf("snapshot encode error: %v", err)
		return nil
	}
	return append([]byte{FrameSnapshot}, body...)
}

// encodeDeltaFrame packs a snapshot delta into a binary frame
func encodeDeltaFrame(delta *SnapshotDelta) []byte {
	body, err := msgpack.Marshal(delta)
	if err != nil {
		log.Printf("delta encode error: %v", err)
		return nil
	}
	return append([]byte{FrameDelta}, body...)
}

// DecodeSnapshotFrame unpacks a binary snapshot frame (used by clients
// and tests)
func DecodeSnapshotFrame(frame []byte) (*RoomSnapshot, error) {
	var snap RoomSnapshot
	if err := msgpack.Unmarshal(frame[1:], &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// DecodeDeltaFrame unpacks a binary delta frame
func DecodeDeltaFrame(frame []byte) (*SnapshotDelta, error) {
	var delta SnapshotDelta
	if err := msgpack.Unmarshal(frame[1:], &delta); err != nil {
		return nil, err
	}
	return &delta, nil
}
