package main

import (
	"sync"
	"time"
)

const maxRooms = 100

// Room is one racing session: an immutable track plus a running simulation
type Room struct {
	ID    string
	Name  string
	Track *TrackData
	Game  *Game
}

// RoomManager handles creation and lookup of rooms
type RoomManager struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	profiles *ProfileStore
}

// NewRoomManager creates a new RoomManager. profiles may be nil, in
// which case rooms race against the built-in default roster.
func NewRoomManager(profiles *ProfileStore) *RoomManager {
	return &RoomManager{
		rooms:    make(map[string]*Room),
		profiles: profiles,
	}
}

// CreateRoom generates a track from the seed (0 = random), loads the
// opponent roster, and starts the room loop. Returns nil at the room
// limit.
func (rm *RoomManager) CreateRoom(name string, trackSeed int64) *Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if len(rm.rooms) >= maxRooms {
		return nil
	}

	if trackSeed == 0 {
		trackSeed = time.Now().UnixNano()
	}
	track := GenerateTrack(trackSeed)
	roster := DefaultRoster()
	if rm.profiles != nil {
		if loaded, err := rm.profiles.LoadRoster(defaultRosterSize); err == nil && len(loaded) > 0 {
			roster = loaded
		}
	}

	id := GenerateUUID()
	room := &Room{
		ID:    id,
		Name:  name,
		Track: track,
		Game:  NewGame(id, track, roster, trackSeed),
	}
	rm.rooms[room.ID] = room
	go room.Game.Run()
	return room
}

// GetRoom returns a room by ID
func (rm *RoomManager) GetRoom(id string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[id]
}

// RemoveCar removes a car from a room, tearing the room down once the
// last human leaves
func (rm *RoomManager) RemoveCar(roomID, carID string) {
	rm.mu.RLock()
	room, ok := rm.rooms[roomID]
	rm.mu.RUnlock()
	if !ok {
		return
	}
	room.Game.RemoveCar(carID)

	if room.Game.HumanCount() == 0 {
		room.Game.Stop()
		rm.mu.Lock()
		delete(rm.rooms, roomID)
		rm.mu.Unlock()
	}
}

// ListRooms returns info about all active rooms
func (rm *RoomManager) ListRooms() []RoomInfo {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	list := make([]RoomInfo, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		list = append(list, RoomInfo{
			ID:     room.ID,
			Name:   room.Name,
			Humans: room.Game.HumanCount(),
			Cars:   room.Game.CarCount(),
		})
	}
	return list
}
