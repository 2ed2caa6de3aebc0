package commission

import (
	"context"
	"fmt"

	auditRepo "santai/database/repository/audit"
	"santai/models"

	"go.uber.org/zap"
)

// DefaultAcceptanceTracker orchestrates what happens when a provider
// accepts paid work: commission creation, operator alert, audit entry.
// Booking acceptance is owned by the caller and must never be blocked by a
// commission hiccup, so every failure here is caught, listed in the result
// and written to the audit trail instead of propagating.
type DefaultAcceptanceTracker struct {
	Lifecycle LifecycleService
	Notifier  AdminNotifier
	Audit     auditRepo.AuditRepository
	Logger    *zap.Logger

	// RatePercent lets the alert estimate the amount due when the record
	// write itself failed and there is no stored record to quote.
	RatePercent int
}

// TrackAcceptance records one booking acceptance. It never returns an error
// and never panics outward.
func (t *DefaultAcceptanceTracker) TrackAcceptance(ctx context.Context, event models.BookingAcceptedEvent) (res models.TrackResult) {
	defer func() {
		if r := recover(); r != nil {
			t.Logger.Error("panic while tracking acceptance",
				zap.String("bookingId", event.BookingID),
				zap.Any("panic", r),
			)
			res.Success = false
			res.Errors = append(res.Errors, fmt.Sprintf("internal panic: %v", r))
		}
	}()

	var rec *models.CommissionRecord
	if event.BookingID == "" || event.ProviderID == "" {
		res.Errors = append(res.Errors, "invalid acceptance event: bookingId and providerId are required")
	} else {
		var err error
		rec, _, err = t.Lifecycle.Create(ctx, event)
		if err != nil {
			// Recorded, not fatal: the booking proceeds, monitoring
			// catches up via the audit entry below.
			t.Logger.Error("commission record creation failed",
				zap.String("bookingId", event.BookingID),
				zap.Error(err),
			)
			res.Errors = append(res.Errors, fmt.Sprintf("commission record creation failed: %v", err))
		} else {
			res.CommissionID = rec.ID
		}
	}

	// The operator must hear about the acceptance even when the record
	// could not be written; the alert then carries the event data alone.
	alertEvent := AlertEvent{
		Type:         models.NotifNewCommission,
		BookingID:    event.BookingID,
		ProviderID:   event.ProviderID,
		ProviderName: event.ProviderName,
		Amount:       CommissionAmount(event.ServiceAmount, t.RatePercent),
	}
	if rec != nil {
		alertEvent.CommissionID = rec.ID
		alertEvent.Amount = rec.TotalDue
	}
	alert, err := t.Notifier.Notify(ctx, alertEvent)
	if err != nil {
		// The notifier has already audited the exhaustion; this is the
		// emergency fallback so the event is greppable even if Mongo is
		// entirely down.
		t.Logger.Error("EMERGENCY: acceptance alert undelivered",
			zap.String("bookingId", event.BookingID),
			zap.String("providerId", event.ProviderID),
			zap.Int64("serviceAmount", event.ServiceAmount),
			zap.Error(err),
		)
		res.Errors = append(res.Errors, err.Error())
	} else if alert != nil {
		res.NotificationID = alert.ID
	}

	t.auditOutcome(ctx, event, rec, &res)
	res.Success = len(res.Errors) == 0
	return res
}

func (t *DefaultAcceptanceTracker) auditOutcome(ctx context.Context, event models.BookingAcceptedEvent, rec *models.CommissionRecord, res *models.TrackResult) {
	entry := models.AuditEntry{
		Kind:       models.AuditAcceptance,
		BookingID:  event.BookingID,
		ProviderID: event.ProviderID,
		Success:    len(res.Errors) == 0,
		Detail:     fmt.Sprintf("acceptance tracked for provider %s, service amount %d", event.ProviderID, event.ServiceAmount),
		Errors:     res.Errors,
	}
	if rec != nil {
		entry.CommissionID = rec.ID
	}
	if _, err := t.Audit.Append(ctx, entry); err != nil {
		t.Logger.Error("failed to audit acceptance",
			zap.String("bookingId", event.BookingID),
			zap.Error(err),
		)
		res.Errors = append(res.Errors, fmt.Sprintf("audit write failed: %v", err))
	}
}
