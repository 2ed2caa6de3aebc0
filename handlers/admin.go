package handlers

import (
	"errors"
	"net/http"
	"strconv"

	auditRepo "santai/database/repository/audit"
	notificationRepo "santai/database/repository/notification"
	"santai/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the operator dashboard: alert inbox and audit trail.
type AdminHandler struct {
	Notifications notificationRepo.NotificationRepository
	Audit         auditRepo.AuditRepository
	Logger        *zap.Logger
}

func NewAdminHandler(notifications notificationRepo.NotificationRepository, audit auditRepo.AuditRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Notifications: notifications, Audit: audit, Logger: logger}
}

// ListNotificationsHandler returns the alert inbox, newest first.
// Pass ?unread=1 to filter to unread alerts.
func (h *AdminHandler) ListNotificationsHandler(c *gin.Context) {
	unread := c.Query("unread")
	unreadOnly := unread == "1" || unread == "true"
	limit := parseLimit(c.Query("limit"), 50)

	alerts, err := h.Notifications.List(c.Request.Context(), unreadOnly, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": alerts})
}

// MarkNotificationReadHandler marks a single alert as read.
func (h *AdminHandler) MarkNotificationReadHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Notifications.MarkRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, notificationRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Notification not found", id)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to mark notification read", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// ListAuditHandler returns recent audit entries, optionally filtered by kind.
func (h *AdminHandler) ListAuditHandler(c *gin.Context) {
	kind := c.Query("kind")
	limit := parseLimit(c.Query("limit"), 100)

	entries, err := h.Audit.ListRecent(c.Request.Context(), kind, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list audit entries", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// CommissionAuditHandler returns the audit trail for one commission record.
func (h *AdminHandler) CommissionAuditHandler(c *gin.Context) {
	commissionID := c.Param("id")
	entries, err := h.Audit.ListByCommission(c.Request.Context(), commissionID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list audit entries", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func parseLimit(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 || n > 500 {
		return fallback
	}
	return n
}
