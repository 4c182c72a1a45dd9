package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 80
	maxNameLen        = 16
)

// Client is one websocket connection, possibly attached to a car in a room
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	carID      string
	roomID     string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

// NewClient wraps a websocket connection
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// State frames carry a binary kind prefix; everything else is JSON text
			var err error
			if len(message) > 0 && (message[0] == FrameSnapshot || message[0] == FrameDelta) {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message)
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.sendRaw(data)
}

// SendState sends an already-encoded binary state frame
func (c *Client) SendState(frame []byte) {
	c.sendRaw(frame)
}

// sendRaw enqueues bytes, dropping them when the client is too slow
func (c *Client) sendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgList:
		c.handleList()
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgInput:
		c.handleInput(env.D)
	case MsgLeave:
		c.handleLeave()
	}
}

func (c *Client) handleList() {
	c.SendJSON(Envelope{T: MsgRooms, Data: c.hub.rooms.ListRooms()})
}

func cleanName(name, fallback string) string {
	if name == "" {
		name = fallback
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if c.roomID != "" {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "already in a room"}})
		return
	}

	room := c.hub.rooms.CreateRoom(cleanName(msg.RoomName, "Grand Prix"), msg.TrackSeed)
	if room == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "room limit reached"}})
		return
	}
	c.SendJSON(Envelope{T: MsgCreated, Data: RoomInfo{ID: room.ID, Name: room.Name}})
	c.joinRoom(room, cleanName(msg.Name, "Driver"))
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if c.roomID != "" {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "already in a room"}})
		return
	}

	room := c.hub.rooms.GetRoom(msg.RoomID)
	if room == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "room not found"}})
		return
	}
	c.joinRoom(room, cleanName(msg.Name, "Driver"))
}

func (c *Client) joinRoom(room *Room, name string) {
	car := room.Game.AddCar(name)
	if car == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "room full"}})
		return
	}
	c.carID = car.ID
	c.roomID = room.ID
	room.Game.SetClient(car.ID, c)
	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
		CarID:  car.ID,
		RoomID: room.ID,
		Track:  room.Track,
	}})
}

func (c *Client) handleInput(data json.RawMessage) {
	if c.roomID == "" || c.carID == "" {
		return
	}
	var msg InputMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if room := c.hub.rooms.GetRoom(c.roomID); room != nil {
		room.Game.ApplyInput(c.carID, msg.ToCarInput())
	}
}

func (c *Client) handleLeave() {
	if c.roomID == "" {
		return
	}
	c.hub.rooms.RemoveCar(c.roomID, c.carID)
	c.carID = ""
	c.roomID = ""
}
