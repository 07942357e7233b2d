package handlers

import (
	"net/http"

	"pollroom-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, code, details string) {
	c.JSON(status, Response{Success: false, Error: code, Details: details})
}

// respondRejection maps a service rejection onto its HTTP status.
// Expired and Inactive both answer 410: the resource exists but is
// permanently closed to the requested operation.
func respondRejection(c *gin.Context, err error) {
	r := services.AsRejection(err)
	status := http.StatusInternalServerError
	switch r.Code {
	case services.CodeInvalidIdentifier, services.CodeInvalidInput, services.CodeInvalidChoice:
		status = http.StatusBadRequest
	case services.CodeNotFound:
		status = http.StatusNotFound
	case services.CodeExpired, services.CodeInactive:
		status = http.StatusGone
	case services.CodeDuplicateVote:
		status = http.StatusConflict
	}
	respondError(c, status, string(r.Code), r.Detail)
}
