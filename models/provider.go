package models

import "time"

// Provider availability statuses as shown to customers.
const (
	ProviderAvailable = "available"
	ProviderBusy      = "busy"
)

// Provider is the slice of the provider document this service reads and
// writes: identity plus the booking-eligibility gate. Profile, schedule and
// credential fields belong to the provider service and are not mapped here.
type Provider struct {
	ID     string `bson:"id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Status string `bson:"status" json:"status"`

	BookingEnabled     bool   `bson:"bookingEnabled" json:"bookingEnabled"`
	ScheduleEnabled    bool   `bson:"scheduleEnabled" json:"scheduleEnabled"`
	DeactivationReason string `bson:"deactivationReason,omitempty" json:"deactivationReason,omitempty"`

	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
