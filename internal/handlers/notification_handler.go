package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/response"
)

// GetNotifications lists the caller's notifications, newest first.
func (h *Handler) GetNotifications(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	notifications, err := h.Notifier.ListForActor(c.Request.Context(), actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "", notifications)
}

// MarkNotificationRead flips the caller's own read marker only.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	if err := h.Notifier.MarkRead(c.Request.Context(), c.Param("id"), actor); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "Notification marked as read", nil)
}

// MarkAllNotificationsRead flips every unread marker for the caller in one pass.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	count, err := h.Notifier.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "Notifications marked as read", gin.H{"updated": count})
}
