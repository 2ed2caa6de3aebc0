package commission

import (
	"context"
	"fmt"
	"strconv"
	"time"

	auditRepo "santai/database/repository/audit"
	notificationRepo "santai/database/repository/notification"
	"santai/models"
	"santai/services/channel"

	"go.uber.org/zap"
)

// AlertEvent is one commission happening the operator must hear about.
type AlertEvent struct {
	Type         models.NotificationType
	CommissionID string
	BookingID    string
	ProviderID   string
	ProviderName string
	Amount       int64 // total due in minor units
}

// DefaultAdminNotifier persists operator alerts with bounded retry and fans
// them out over the outbound channels. The stored alert is the guarantee;
// the channels are redundancy. Persistence exhaustion produces an audit
// entry and a DeliveryError for the caller.
type DefaultAdminNotifier struct {
	Repo     notificationRepo.NotificationRepository
	Audit    auditRepo.AuditRepository
	Channels []channel.Channel
	Retry    RetryPolicy
	Logger   *zap.Logger
}

// Notify stores the alert for event and pushes it out. Deduplicated per
// (bookingId, type): retrying an already-stored alert returns the original.
func (n *DefaultAdminNotifier) Notify(ctx context.Context, event AlertEvent) (*models.AdminNotification, error) {
	alert := buildAlert(event)

	var stored *models.AdminNotification
	outcome := n.Retry.Do(ctx, func(ctx context.Context, attempt int) error {
		alert.Attempts = attempt
		alert.LastAttemptAt = time.Now()
		rec, created, err := n.Repo.Create(ctx, alert)
		if err != nil {
			n.Logger.Warn("operator alert persistence attempt failed",
				zap.String("type", string(event.Type)),
				zap.String("bookingId", event.BookingID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		if !created {
			n.Logger.Info("operator alert already stored, deduplicated",
				zap.String("type", string(event.Type)),
				zap.String("bookingId", event.BookingID),
			)
		}
		stored = rec
		return nil
	})

	if outcome.Exhausted() {
		n.auditExhaustion(ctx, event, outcome)
		return nil, &DeliveryError{
			Type:      event.Type,
			BookingID: event.BookingID,
			Attempts:  outcome.Attempts,
			Err:       outcome.Err,
		}
	}

	n.pushOutbound(ctx, event, *stored)
	return stored, nil
}

// pushOutbound sends the stored alert over every channel. Outbound failure
// does not fail Notify: the persisted alert already satisfies the guarantee.
// A full outbound blackout still leaves an audit entry for the ops view.
func (n *DefaultAdminNotifier) pushOutbound(ctx context.Context, event AlertEvent, alert models.AdminNotification) {
	if len(n.Channels) == 0 {
		return
	}
	failed := 0
	for _, ch := range n.Channels {
		if err := ch.Send(ctx, alert); err != nil {
			failed++
			n.Logger.Warn("outbound alert channel failed",
				zap.String("channel", ch.Name()),
				zap.String("notificationId", alert.ID),
				zap.Error(err),
			)
		}
	}
	if failed == len(n.Channels) {
		entry := models.AuditEntry{
			Kind:         models.AuditNotificationFailure,
			CommissionID: event.CommissionID,
			BookingID:    event.BookingID,
			ProviderID:   event.ProviderID,
			Success:      false,
			Detail:       fmt.Sprintf("alert %s persisted but all %d outbound channels failed", alert.ID, failed),
		}
		if _, err := n.Audit.Append(ctx, entry); err != nil {
			n.Logger.Error("failed to audit outbound channel blackout", zap.Error(err))
		}
	}
}

// auditExhaustion records that an alert could not be stored at all. If even
// the audit write fails there is nothing durable left, so the log entry is
// the last resort and says so.
func (n *DefaultAdminNotifier) auditExhaustion(ctx context.Context, event AlertEvent, outcome Outcome) {
	entry := models.AuditEntry{
		Kind:         models.AuditNotificationFailure,
		CommissionID: event.CommissionID,
		BookingID:    event.BookingID,
		ProviderID:   event.ProviderID,
		Success:      false,
		Detail:       fmt.Sprintf("alert %s undelivered after %d attempts", event.Type, outcome.Attempts),
		Errors:       []string{outcome.Err.Error()},
	}
	if _, err := n.Audit.Append(ctx, entry); err != nil {
		n.Logger.Error("EMERGENCY: operator alert lost and audit write failed",
			zap.String("type", string(event.Type)),
			zap.String("bookingId", event.BookingID),
			zap.String("commissionId", event.CommissionID),
			zap.Int64("amount", event.Amount),
			zap.NamedError("deliveryError", outcome.Err),
			zap.NamedError("auditError", err),
		)
	}
}

// buildAlert renders the dashboard title/message for an event.
func buildAlert(event AlertEvent) models.AdminNotification {
	alert := models.AdminNotification{
		Type:         event.Type,
		CommissionID: event.CommissionID,
		BookingID:    event.BookingID,
	}

	switch event.Type {
	case models.NotifNewCommission:
		alert.Priority = models.PriorityHigh
		alert.Title = "New Commission Recorded"
		alert.Message = fmt.Sprintf("%s accepted booking %s. Commission due: %s.",
			event.ProviderName, event.BookingID, formatIDR(event.Amount))
	case models.NotifProofUploaded:
		alert.Priority = models.PriorityHigh
		alert.Title = "New Payment Proof Submitted"
		alert.Message = fmt.Sprintf("%s uploaded payment proof for commission %s. Verification required.",
			event.ProviderName, event.CommissionID)
	case models.NotifOverdue:
		alert.Priority = models.PriorityUrgent
		alert.Title = "Commission Payment Overdue"
		alert.Message = fmt.Sprintf("%s missed the payment deadline. Total due with late fee: %s. Account deactivated.",
			event.ProviderName, formatIDR(event.Amount))
	case models.NotifVerified:
		alert.Priority = models.PriorityNormal
		alert.Title = "Commission Payment Verified"
		alert.Message = fmt.Sprintf("Payment of %s by %s verified. Account reactivated.",
			formatIDR(event.Amount), event.ProviderName)
	default:
		alert.Priority = models.PriorityNormal
		alert.Title = "Commission Event"
		alert.Message = fmt.Sprintf("Event %s on booking %s.", event.Type, event.BookingID)
	}
	return alert
}

// formatIDR renders minor units as "Rp 1.234.567" (id-ID grouping).
func formatIDR(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}
	if neg {
		return "Rp -" + string(grouped)
	}
	return "Rp " + string(grouped)
}
