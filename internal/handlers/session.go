package handlers

import (
	"context"
	"net/http"

	"pollroom-backend/internal/middleware"
	"pollroom-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionDirectory is the read side of the session registry.
type SessionDirectory interface {
	Get(ctx context.Context, sessionID string) (*session.Entry, error)
}

type SessionHandler struct {
	sessions SessionDirectory
}

func NewSessionHandler(sessions SessionDirectory) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// GetSession reports what the registry knows about the caller's session
// and slides its TTL forward. The registry is advisory: a missing entry
// or an unreachable store still answers 200 with just the session id.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sid := c.GetString(middleware.ContextSessionID)

	entry, err := h.sessions.Get(c.Request.Context(), sid)
	if err != nil {
		respondData(c, http.StatusOK, gin.H{"session_id": sid})
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"session_id": sid,
		"room_code":  entry.RoomCode,
		"role":       entry.Role,
		"seen_at":    entry.SeenAt,
	})
}
