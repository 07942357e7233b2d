package handlers

import (
	"net/http"

	"pollroom-backend/internal/middleware"
	"pollroom-backend/internal/services"
	"pollroom-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes   *services.VoteService
	results *services.ResultService
	hub     *ws.Hub
}

func NewVoteHandler(votes *services.VoteService, results *services.ResultService, hub *ws.Hub) *VoteHandler {
	return &VoteHandler{votes: votes, results: results, hub: hub}
}

type SubmitVoteRequest struct {
	Choice string `json:"choice" binding:"required"`
}

func (h *VoteHandler) SubmitVote(c *gin.Context) {
	var req SubmitVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, string(services.CodeInvalidInput), "choice is required")
		return
	}

	sid := c.GetString(middleware.ContextSessionID)
	pollID := c.Param("id")

	vote, err := h.votes.Submit(c.Request.Context(), pollID, sid, req.Choice)
	if err != nil {
		respondRejection(c, err)
		return
	}

	// The core recorder never touches the hub itself; propagation of
	// vote changes to watchers happens here, after commit.
	msg := ws.WSMessage{Type: ws.EventVoteRecorded, Data: gin.H{"poll_id": vote.PollID}}
	h.hub.BroadcastToPoll(vote.PollID, msg)
	h.hub.BroadcastToRoom(vote.Poll.Room.Code, msg)

	respondData(c, http.StatusCreated, vote)
}

func (h *VoteHandler) GetResults(c *gin.Context) {
	results, err := h.results.Results(c.Param("id"))
	if err != nil {
		respondRejection(c, err)
		return
	}
	respondData(c, http.StatusOK, results)
}
