package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wedplan/pkg/middleware"
	"wedplan/pkg/utils"
)

// identity reads the authenticated user and workspace, answering 401 when
// they are missing.
func identity(c *gin.Context) (userID, workspaceID uuid.UUID, ok bool) {
	userID, workspaceID, ok = middleware.Identity(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, workspaceID, ok
}

// prepareSSE sets the headers of an event stream.
func prepareSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()
}
