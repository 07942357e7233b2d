package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func dialTestHub(t *testing.T, hub *Hub, register func(*websocket.Conn)) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade error: %v", err)
			return
		}
		register(conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastToRoom(t *testing.T) {
	hub := NewHub()

	conn := dialTestHub(t, hub, func(server *websocket.Conn) {
		hub.AddRoomConnection("AB12CD", server)
	})

	// Broadcasts to other rooms must not reach this subscriber.
	hub.BroadcastToRoom("ZZ99ZZ", WSMessage{Type: EventVoteRecorded})
	hub.BroadcastToRoom("AB12CD", WSMessage{
		Type: EventPollCreated,
		Data: map[string]string{"question": "Ready?"},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}

	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if msg.Type != EventPollCreated {
		t.Errorf("message type = %q, want %q", msg.Type, EventPollCreated)
	}
}

func TestHubBroadcastToPoll(t *testing.T) {
	hub := NewHub()

	conn := dialTestHub(t, hub, func(server *websocket.Conn) {
		hub.AddPollConnection("poll-1", server)
	})

	hub.BroadcastToPoll("poll-1", WSMessage{
		Type: EventVoteRecorded,
		Data: map[string]string{"poll_id": "poll-1"},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}

	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if msg.Type != EventVoteRecorded {
		t.Errorf("message type = %q, want %q", msg.Type, EventVoteRecorded)
	}
}

func TestHubRemoveConnection(t *testing.T) {
	hub := NewHub()

	registered := make(chan *websocket.Conn, 1)
	dialTestHub(t, hub, func(server *websocket.Conn) {
		hub.AddRoomConnection("AB12CD", server)
		registered <- server
	})

	server := <-registered
	hub.RemoveRoomConnection("AB12CD", server)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if _, ok := hub.rooms["AB12CD"]; ok {
		t.Error("room entry should be dropped once its last subscriber leaves")
	}
}
