package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startTestServer(t *testing.T) (*httptest.Server, *Hub) {
	hub := NewHub(nil)
	go hub.Run()
	srv := httptest.NewServer(SetupRoutes(hub, ""))
	t.Cleanup(srv.Close)
	return srv, hub
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEnvelope(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", msgType, err)
	}
	env := map[string]interface{}{"t": msgType, "d": json.RawMessage(raw)}
	if err := conn.WriteJSON(env); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readUntilJSON reads messages until a text envelope of the wanted type
// arrives, skipping state frames
func readUntilJSON(t *testing.T, conn *websocket.Conn, want string) json.RawMessage {
	deadline := time.Now().Add(5 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read waiting for %q: %v", want, err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("bad envelope: %v", err)
		}
		if env.T == MsgError {
			t.Fatalf("server error while waiting for %q: %s", want, env.D)
		}
		if env.T == want {
			return env.D
		}
	}
	t.Fatalf("no %q message within the deadline", want)
	return nil
}

func TestCreateJoinAndReceiveState(t *testing.T) {
	srv, _ := startTestServer(t)
	conn := dialWS(t, srv)

	sendEnvelope(t, conn, MsgCreate, CreateMsg{Name: "alice", RoomName: "testgp", TrackSeed: 42})

	var created RoomInfo
	if err := json.Unmarshal(readUntilJSON(t, conn, MsgCreated), &created); err != nil {
		t.Fatalf("created payload: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created room has no id")
	}

	var welcome WelcomeMsg
	if err := json.Unmarshal(readUntilJSON(t, conn, MsgWelcome), &welcome); err != nil {
		t.Fatalf("welcome payload: %v", err)
	}
	if welcome.CarID == "" || welcome.RoomID != created.ID {
		t.Fatalf("bad welcome: %+v", welcome)
	}
	if welcome.Track == nil || !welcome.Track.Usable() {
		t.Fatal("welcome carries no usable track")
	}

	sendEnvelope(t, conn, MsgInput, InputMsg{Throttle: 1})

	// Keyframes arrive at least once a second; wait for a full snapshot
	// showing our car moving
	deadline := time.Now().Add(5 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read state: %v", err)
		}
		if msgType != websocket.BinaryMessage || len(raw) == 0 || raw[0] != FrameSnapshot {
			continue
		}
		snap, err := DecodeSnapshotFrame(raw)
		if err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		if snap.RoomID != created.ID {
			t.Fatalf("snapshot for room %q, want %q", snap.RoomID, created.ID)
		}
		for _, c := range snap.Cars {
			if c.ID == welcome.CarID && c.Speed > 0 {
				return
			}
		}
	}
	t.Fatal("never saw our car moving in a snapshot")
}

func TestSecondPlayerJoinsExistingRoom(t *testing.T) {
	srv, _ := startTestServer(t)

	host := dialWS(t, srv)
	sendEnvelope(t, host, MsgCreate, CreateMsg{Name: "alice", RoomName: "gp", TrackSeed: 42})
	var created RoomInfo
	if err := json.Unmarshal(readUntilJSON(t, host, MsgCreated), &created); err != nil {
		t.Fatalf("created payload: %v", err)
	}

	guest := dialWS(t, srv)
	sendEnvelope(t, guest, MsgList, struct{}{})
	var rooms []RoomInfo
	if err := json.Unmarshal(readUntilJSON(t, guest, MsgRooms), &rooms); err != nil {
		t.Fatalf("rooms payload: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != created.ID {
		t.Fatalf("room list = %+v, want the hosted room", rooms)
	}

	sendEnvelope(t, guest, MsgJoin, JoinMsg{Name: "bob", RoomID: created.ID})
	var welcome WelcomeMsg
	if err := json.Unmarshal(readUntilJSON(t, guest, MsgWelcome), &welcome); err != nil {
		t.Fatalf("welcome payload: %v", err)
	}
	if welcome.RoomID != created.ID {
		t.Fatalf("guest joined %q, want %q", welcome.RoomID, created.ID)
	}
}

func TestJoinUnknownRoomFails(t *testing.T) {
	srv, _ := startTestServer(t)
	conn := dialWS(t, srv)

	sendEnvelope(t, conn, MsgJoin, JoinMsg{Name: "bob", RoomID: "nope"})

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("bad envelope: %v", err)
		}
		if env.T != MsgError {
			t.Fatalf("got %q, want an error", env.T)
		}
		return
	}
}

func TestQRCodeEndpoint(t *testing.T) {
	srv, hub := startTestServer(t)

	room := hub.rooms.CreateRoom("gp", 42)
	defer room.Game.Stop()

	resp, err := http.Get(srv.URL + "/qr?room=" + room.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}

	missing, err := http.Get(srv.URL + "/qr?room=nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("unknown room status = %d, want 404", missing.StatusCode)
	}
}
