package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Event types pushed to subscribers. Clients re-fetch results on
// vote_recorded rather than trusting a pushed snapshot.
const (
	EventVoteRecorded = "vote_recorded"
	EventPollCreated  = "poll_created"
	EventPollClosed   = "poll_closed"
	EventRoomDeleted  = "room_deleted"
)

// Hub fans live-update events out to WebSocket subscribers, keyed by
// room code and by poll id.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*websocket.Conn]bool
	polls map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*websocket.Conn]bool),
		polls: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddRoomConnection(code string, conn *websocket.Conn) {
	h.add(h.rooms, code, conn)
	log.Infof("ws: client connected to room %s", code)
}

func (h *Hub) RemoveRoomConnection(code string, conn *websocket.Conn) {
	h.remove(h.rooms, code, conn)
	log.Infof("ws: client disconnected from room %s", code)
}

func (h *Hub) AddPollConnection(pollID string, conn *websocket.Conn) {
	h.add(h.polls, pollID, conn)
	log.Infof("ws: client connected to poll %s", pollID)
}

func (h *Hub) RemovePollConnection(pollID string, conn *websocket.Conn) {
	h.remove(h.polls, pollID, conn)
	log.Infof("ws: client disconnected from poll %s", pollID)
}

func (h *Hub) BroadcastToRoom(code string, message WSMessage) {
	h.broadcast(h.rooms, code, message)
}

func (h *Hub) BroadcastToPoll(pollID string, message WSMessage) {
	h.broadcast(h.polls, pollID, message)
}

func (h *Hub) add(m map[string]map[*websocket.Conn]bool, key string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m[key] == nil {
		m[key] = make(map[*websocket.Conn]bool)
	}
	m[key][conn] = true
}

func (h *Hub) remove(m map[string]map[*websocket.Conn]bool, key string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := m[key]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(m, key)
		}
	}
}

func (h *Hub) broadcast(m map[string]map[*websocket.Conn]bool, key string, message WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := m[key]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Errorf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warnf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}
