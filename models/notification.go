package models

import "time"

// NotificationType identifies the commission event an operator alert is about.
type NotificationType string

const (
	NotifNewCommission NotificationType = "new_commission"
	NotifProofUploaded NotificationType = "proof_uploaded"
	NotifOverdue       NotificationType = "overdue"
	NotifVerified      NotificationType = "verified"
)

// Alert priorities, highest first.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

// AdminNotification is an operator alert surfaced on the admin dashboard.
// At most one exists per (bookingId, type); Attempts records how many
// delivery attempts the alert cost, starting at 1.
type AdminNotification struct {
	ID           string           `bson:"id" json:"id"`
	Type         NotificationType `bson:"type" json:"type"`
	CommissionID string           `bson:"commissionId" json:"commissionId"`
	BookingID    string           `bson:"bookingId" json:"bookingId"`
	Priority     string           `bson:"priority" json:"priority"`
	Title        string           `bson:"title" json:"title"`
	Message      string           `bson:"message" json:"message"`
	Read         bool             `bson:"read" json:"read"`

	Attempts      int       `bson:"attempts" json:"attempts"`
	LastAttemptAt time.Time `bson:"lastAttemptAt" json:"lastAttemptAt"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}
