package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pedalpost/pedalpost-api/models"
	"github.com/pedalpost/pedalpost-api/services"
)

// CreateNotificationRequest represents the request body for a user-created notification
type CreateNotificationRequest struct {
	Type    string `json:"type"`
	Message string `json:"message" binding:"required"`
}

// ListNotifications handles GET /api/v1/notifications - the synthetic
// delivery notification first, then user notifications newest-first
func ListNotifications(c *gin.Context) {
	notifications, err := services.GetStore().GetNotifications()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load notifications",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
	})
}

// CreateNotification handles POST /api/v1/notifications. User notifications
// are append-only; recalculation never touches them.
func CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Type == "" {
		req.Type = models.NotificationInfo
	}

	notification := models.Notification{
		Type:      req.Type,
		Message:   req.Message,
		Timestamp: time.Now().UTC(),
	}
	if err := services.GetStore().AppendNotification(&notification); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to store notification",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    notification,
	})
}
