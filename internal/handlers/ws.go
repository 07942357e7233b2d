package handlers

import (
	"net/http"

	"pollroom-backend/internal/services"
	"pollroom-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub   *ws.Hub
	rooms *services.RoomService
	polls *services.PollService
}

func NewWSHandler(hub *ws.Hub, rooms *services.RoomService, polls *services.PollService) *WSHandler {
	return &WSHandler{hub: hub, rooms: rooms, polls: polls}
}

// HandleRoomWebSocket subscribes the client to all live events of a
// room: poll creation, poll closing, vote activity, room deletion.
func (h *WSHandler) HandleRoomWebSocket(c *gin.Context) {
	room, err := h.rooms.GetRoomByCode(c.Param("code"))
	if err != nil {
		respondRejection(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddRoomConnection(room.Code, conn)
	defer h.hub.RemoveRoomConnection(room.Code, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// HandlePollWebSocket subscribes the client to vote activity on one
// poll. Clients re-fetch results when notified.
func (h *WSHandler) HandlePollWebSocket(c *gin.Context) {
	poll, err := h.polls.ResolvePoll(c.Param("id"))
	if err != nil {
		respondRejection(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddPollConnection(poll.ID, conn)
	defer h.hub.RemovePollConnection(poll.ID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
