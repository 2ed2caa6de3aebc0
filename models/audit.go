package models

import "time"

// Audit entry kinds.
const (
	AuditAcceptance          = "acceptance"
	AuditSweep               = "sweep"
	AuditNotificationFailure = "notification_failure"
)

// AuditEntry is an append-only record of an orchestration outcome. Entries
// are never mutated or deleted; operational tooling reads them to catch
// failures the synchronous callers chose not to fail on.
type AuditEntry struct {
	ID           string    `bson:"id" json:"id"`
	Kind         string    `bson:"kind" json:"kind"`
	CommissionID string    `bson:"commissionId,omitempty" json:"commissionId,omitempty"`
	BookingID    string    `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	ProviderID   string    `bson:"providerId,omitempty" json:"providerId,omitempty"`
	Success      bool      `bson:"success" json:"success"`
	Detail       string    `bson:"detail" json:"detail"`
	Errors       []string  `bson:"errors,omitempty" json:"errors,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
