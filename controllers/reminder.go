// controllers/reminder.go
package controllers

import (
	"net/http"

	"serviceconnect-backend/services"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
)

// RunReminders sends tomorrow's booking reminders now.
func RunReminders(c *gin.Context) {
	if deps.Reminders == nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Reminders are not configured")
		return
	}

	sent, err := deps.Reminders.SendDailyReminders(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

// GetNotificationLogs lists every recorded notification delivery.
func GetNotificationLogs(c *gin.Context) {
	logs, err := services.NotificationLogs(c.Request.Context(), deps.KV)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
