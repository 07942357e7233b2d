package handlers

import (
	"net/http"
	"strings"

	"pollroom-backend/internal/middleware"
	"pollroom-backend/internal/services"
	"pollroom-backend/internal/ws"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type RoomHandler struct {
	rooms    *services.RoomService
	sessions services.SessionStore
	hub      *ws.Hub
}

func NewRoomHandler(rooms *services.RoomService, sessions services.SessionStore, hub *ws.Hub) *RoomHandler {
	return &RoomHandler{rooms: rooms, sessions: sessions, hub: hub}
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondError(c, http.StatusBadRequest, string(services.CodeInvalidInput), "invalid request body")
		return
	}

	room, err := h.rooms.CreateRoom(req.Name)
	if err != nil {
		respondRejection(c, err)
		return
	}

	if h.sessions != nil {
		sid := c.GetString(middleware.ContextSessionID)
		if err := h.sessions.Upsert(c.Request.Context(), sid, room.Code, services.RoleCreator); err != nil {
			log.Warnf("session registry upsert failed for creator %s: %v", sid, err)
		}
	}

	respondData(c, http.StatusCreated, room)
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.rooms.GetRoomByCode(c.Param("code"))
	if err != nil {
		respondRejection(c, err)
		return
	}
	respondData(c, http.StatusOK, room)
}

func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	if err := h.rooms.DeleteRoom(code); err != nil {
		respondRejection(c, err)
		return
	}

	h.hub.BroadcastToRoom(code, ws.WSMessage{
		Type: ws.EventRoomDeleted,
		Data: gin.H{"code": code},
	})

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *RoomHandler) ListPolls(c *gin.Context) {
	polls, err := h.rooms.ListActivePolls(c.Param("code"))
	if err != nil {
		respondRejection(c, err)
		return
	}
	respondData(c, http.StatusOK, polls)
}
