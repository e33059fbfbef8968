package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/notifications
func GetNotifications(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	notes, err := current().Notifier.List(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notes})
}

// DELETE /api/notifications/:id
func DeleteNotification(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	if err := current().Notifier.Dismiss(c.Request.Context(), rc.UserID, c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
