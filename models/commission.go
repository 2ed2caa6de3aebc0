package models

import "time"

// CommissionStatus is the lifecycle state of a commission record.
type CommissionStatus string

const (
	CommissionPending              CommissionStatus = "pending"
	CommissionAwaitingVerification CommissionStatus = "awaiting_verification"
	CommissionVerified             CommissionStatus = "verified"
	CommissionRejected             CommissionStatus = "rejected"
	CommissionOverdue              CommissionStatus = "overdue"
)

// CommissionRecord is the per-booking obligation a provider owes after
// accepting paid work. Exactly one record exists per booking; records are
// never deleted, terminal states are retained for audit.
//
// All monetary fields are IDR minor units. CommissionAmount is fixed at
// creation and never recomputed; LateFee goes nil -> value at most once.
type CommissionRecord struct {
	ID           string `bson:"id" json:"id"`
	ProviderID   string `bson:"providerId" json:"providerId"`
	ProviderName string `bson:"providerName" json:"providerName"`
	BookingID    string `bson:"bookingId" json:"bookingId"`

	// Display metadata for the admin dashboard.
	CustomerName string `bson:"customerName,omitempty" json:"customerName,omitempty"`
	ServiceType  string `bson:"serviceType,omitempty" json:"serviceType,omitempty"`
	Duration     int    `bson:"duration,omitempty" json:"duration,omitempty"` // minutes

	ServiceAmount    int64  `bson:"serviceAmount" json:"serviceAmount"`
	CommissionRate   int    `bson:"commissionRate" json:"commissionRate"` // percent
	CommissionAmount int64  `bson:"commissionAmount" json:"commissionAmount"`
	LateFee          *int64 `bson:"lateFee,omitempty" json:"lateFee,omitempty"`
	TotalDue         int64  `bson:"totalDue" json:"totalDue"`

	AcceptedAt      time.Time        `bson:"acceptedAt" json:"acceptedAt"`
	PaymentDeadline time.Time        `bson:"paymentDeadline" json:"paymentDeadline"`
	Status          CommissionStatus `bson:"status" json:"status"`

	ProofRef        string     `bson:"proofRef,omitempty" json:"proofRef,omitempty"`
	ProofUploadedAt *time.Time `bson:"proofUploadedAt,omitempty" json:"proofUploadedAt,omitempty"`
	PaymentMethod   string     `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`

	VerifiedBy      string     `bson:"verifiedBy,omitempty" json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	RejectionReason string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Unpaid reports whether this record still represents money owed.
func (r CommissionRecord) Unpaid() bool {
	return r.Status == CommissionPending || r.Status == CommissionOverdue
}
