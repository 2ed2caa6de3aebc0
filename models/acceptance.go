package models

import "time"

// BookingAcceptedEvent is what every booking-acceptance path reports when a
// provider takes a paid booking. AcceptedAt is informational; the payment
// deadline is always computed from server time, never from this field.
type BookingAcceptedEvent struct {
	BookingID     string    `json:"bookingId"`
	ProviderID    string    `json:"providerId"`
	ProviderName  string    `json:"providerName"`
	CustomerName  string    `json:"customerName,omitempty"`
	ServiceType   string    `json:"serviceType,omitempty"`
	Duration      int       `json:"duration,omitempty"` // minutes
	ServiceAmount int64     `json:"serviceAmount"`      // IDR minor units
	AcceptedAt    time.Time `json:"acceptedAt"`
}

// TrackResult is the structured outcome of tracking one acceptance. Success
// is true only when every step landed; partial failures are listed in Errors
// while the booking flow itself proceeds regardless.
type TrackResult struct {
	Success        bool     `json:"success"`
	CommissionID   string   `json:"commissionId,omitempty"`
	NotificationID string   `json:"notificationId,omitempty"`
	Errors         []string `json:"errors,omitempty"`
}
