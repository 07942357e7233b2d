package handlers

import (
	"net/http"

	"pollroom-backend/internal/models"
	"pollroom-backend/internal/services"
	"pollroom-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	polls *services.PollService
	hub   *ws.Hub
}

func NewPollHandler(polls *services.PollService, hub *ws.Hub) *PollHandler {
	return &PollHandler{polls: polls, hub: hub}
}

type CreatePollRequest struct {
	RoomCode string          `json:"room_code" binding:"required"`
	Question string          `json:"question" binding:"required"`
	Type     models.PollType `json:"type" binding:"required"`
	Options  models.Options  `json:"options"`
}

func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, string(services.CodeInvalidInput), err.Error())
		return
	}

	poll, err := h.polls.CreatePoll(req.RoomCode, req.Question, req.Type, req.Options)
	if err != nil {
		respondRejection(c, err)
		return
	}

	h.hub.BroadcastToRoom(poll.Room.Code, ws.WSMessage{
		Type: ws.EventPollCreated,
		Data: poll,
	})

	respondData(c, http.StatusCreated, poll)
}

func (h *PollHandler) GetPoll(c *gin.Context) {
	poll, err := h.polls.ResolvePoll(c.Param("id"))
	if err != nil {
		respondRejection(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"poll": poll, "room": poll.Room})
}

func (h *PollHandler) ClosePoll(c *gin.Context) {
	poll, err := h.polls.ClosePoll(c.Param("id"))
	if err != nil {
		respondRejection(c, err)
		return
	}

	msg := ws.WSMessage{Type: ws.EventPollClosed, Data: gin.H{"poll_id": poll.ID}}
	h.hub.BroadcastToPoll(poll.ID, msg)
	h.hub.BroadcastToRoom(poll.Room.Code, msg)

	respondData(c, http.StatusOK, poll)
}
