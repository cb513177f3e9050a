package handlers

import (
	"net/http"
	"strconv"

	"tinta/internal/apperrors"
	"tinta/internal/repository"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications repository.NotificationRepository
}

func NewNotificationHandler(notifications repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the session user's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	user := mustUser(c)
	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	notifications, err := h.notifications.ListByUser(user.ID, limit)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de notificación inválido"))
		return
	}
	if err := h.notifications.MarkRead(id, mustUser(c).ID); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notificación leída"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(mustUser(c).ID); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notificaciones leídas"})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de notificación inválido"))
		return
	}
	if err := h.notifications.Delete(id, mustUser(c).ID); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notificación eliminada"})
}
