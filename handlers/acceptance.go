package handlers

import (
	"encoding/json"
	"net/http"

	"santai/models"
	"santai/services/commission"
	"santai/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AcceptanceHandler is the HTTP entry point for booking acceptances.
type AcceptanceHandler struct {
	Tracker   commission.AcceptanceTracker
	Lifecycle commission.LifecycleService
	Logger    *zap.Logger
}

func NewAcceptanceHandler(tracker commission.AcceptanceTracker, lifecycle commission.LifecycleService, logger *zap.Logger) *AcceptanceHandler {
	return &AcceptanceHandler{Tracker: tracker, Lifecycle: lifecycle, Logger: logger}
}

// TrackHandler records the commission obligation for an accepted booking.
// It always answers 200: a failed step is reported in the body, never as an
// HTTP error, so the booking flow upstream is never blocked.
func (h *AcceptanceHandler) TrackHandler(c *gin.Context) {
	var event models.BookingAcceptedEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid acceptance payload", err.Error())
		return
	}
	if event.BookingID == "" || event.ProviderID == "" || event.ServiceAmount <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "bookingId, providerId and a positive serviceAmount are required", "")
		return
	}

	result := h.Tracker.TrackAcceptance(c.Request.Context(), event)
	if !result.Success {
		h.Logger.Warn("Acceptance tracked with errors",
			zap.String("bookingId", event.BookingID),
			zap.Strings("errors", result.Errors))
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// UnpaidStatusHandler reports whether a provider has unpaid commissions and
// the outstanding total. Results are cached briefly to keep the booking
// hot path off Mongo.
func (h *AcceptanceHandler) UnpaidStatusHandler(c *gin.Context) {
	providerID := c.Param("providerId")
	cacheKey := utils.UnpaidCachePrefix + providerID
	ctx := c.Request.Context()

	type unpaidStatus struct {
		ProviderID   string `json:"providerId"`
		HasUnpaid    bool   `json:"hasUnpaid"`
		UnpaidAmount int64  `json:"unpaidAmount"`
	}

	if cached, err := utils.GetCacheClient().Get(ctx, cacheKey).Result(); err == nil {
		var status unpaidStatus
		if json.Unmarshal([]byte(cached), &status) == nil {
			c.JSON(http.StatusOK, status)
			return
		}
	}

	hasUnpaid, err := h.Lifecycle.HasUnpaidCommissions(ctx, providerID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to check unpaid commissions", err.Error())
		return
	}
	var amount int64
	if hasUnpaid {
		amount, err = h.Lifecycle.UnpaidAmount(ctx, providerID)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "Failed to total unpaid commissions", err.Error())
			return
		}
	}

	status := unpaidStatus{ProviderID: providerID, HasUnpaid: hasUnpaid, UnpaidAmount: amount}
	if payload, err := json.Marshal(status); err == nil {
		if err := utils.GetCacheClient().Set(ctx, cacheKey, payload, utils.UnpaidCacheTTL).Err(); err != nil {
			h.Logger.Warn("Failed to cache unpaid status", zap.String("providerId", providerID), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, status)
}
