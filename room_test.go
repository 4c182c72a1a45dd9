package main

import "testing"

func TestCreateRoomStartsRace(t *testing.T) {
	rm := NewRoomManager(nil)
	room := rm.CreateRoom("test", 42)
	if room == nil {
		t.Fatal("CreateRoom returned nil")
	}
	defer room.Game.Stop()

	if room.Track == nil || !room.Track.Usable() {
		t.Fatal("room created without a usable track")
	}
	if room.Game.CarCount() != len(DefaultRoster()) {
		t.Errorf("room has %d cars, want the default roster of %d",
			room.Game.CarCount(), len(DefaultRoster()))
	}
	if rm.GetRoom(room.ID) != room {
		t.Error("GetRoom did not return the created room")
	}
}

func TestRoomSeedReproducibleTrack(t *testing.T) {
	rm := NewRoomManager(nil)
	a := rm.CreateRoom("a", 42)
	b := rm.CreateRoom("b", 42)
	defer a.Game.Stop()
	defer b.Game.Stop()

	if len(a.Track.Centerline) != len(b.Track.Centerline) {
		t.Fatal("same seed produced different tracks")
	}
	for i := range a.Track.Centerline {
		if a.Track.Centerline[i] != b.Track.Centerline[i] {
			t.Fatalf("same seed diverged at centerline point %d", i)
		}
	}
}

func TestRoomTornDownWithLastHuman(t *testing.T) {
	rm := NewRoomManager(nil)
	room := rm.CreateRoom("test", 42)
	car := room.Game.AddCar("alice")

	rm.RemoveCar(room.ID, car.ID)

	if rm.GetRoom(room.ID) != nil {
		t.Error("empty room should be removed once the last human leaves")
	}
	if len(rm.ListRooms()) != 0 {
		t.Errorf("room list still has %d entries", len(rm.ListRooms()))
	}
}

func TestRoomSurvivesWhileHumansRemain(t *testing.T) {
	rm := NewRoomManager(nil)
	room := rm.CreateRoom("test", 42)
	defer room.Game.Stop()
	a := room.Game.AddCar("alice")
	room.Game.AddCar("bob")

	rm.RemoveCar(room.ID, a.ID)

	if rm.GetRoom(room.ID) == nil {
		t.Error("room torn down while a human was still racing")
	}
}

func TestListRoomsCounts(t *testing.T) {
	rm := NewRoomManager(nil)
	room := rm.CreateRoom("test", 42)
	defer room.Game.Stop()
	room.Game.AddCar("alice")

	list := rm.ListRooms()
	if len(list) != 1 {
		t.Fatalf("room list has %d entries, want 1", len(list))
	}
	if list[0].Humans != 1 || list[0].Cars != len(DefaultRoster())+1 {
		t.Errorf("list entry = %+v", list[0])
	}
}

func TestHubConnectionLimits(t *testing.T) {
	h := NewHub(nil)

	for i := 0; i < maxConnsPerIP; i++ {
		if !h.CanAccept("1.2.3.4") {
			t.Fatalf("connection %d refused below the per-IP limit", i)
		}
		h.TrackConnect("1.2.3.4")
	}
	if h.CanAccept("1.2.3.4") {
		t.Error("per-IP limit not enforced")
	}
	if !h.CanAccept("5.6.7.8") {
		t.Error("other addresses should still be accepted")
	}

	h.TrackDisconnect("1.2.3.4")
	if !h.CanAccept("1.2.3.4") {
		t.Error("disconnect should free a per-IP slot")
	}
	if h.TotalConns() != maxConnsPerIP-1 {
		t.Errorf("total connections = %d, want %d", h.TotalConns(), maxConnsPerIP-1)
	}
}

func TestCleanName(t *testing.T) {
	if got := cleanName("", "Driver"); got != "Driver" {
		t.Errorf("empty name = %q, want fallback", got)
	}
	if got := cleanName("averyveryverylongdrivername", "Driver"); len(got) != maxNameLen {
		t.Errorf("long name truncated to %d, want %d", len(got), maxNameLen)
	}
}
