package commission

import (
	"context"
	"time"

	"santai/models"
)

// LifecycleService drives the commission state machine. All mutations go
// through the store's conditional transitions; see the repository package
// for the concurrency contract.
type LifecycleService interface {
	// Create computes the obligation for an accepted booking and persists
	// it. Idempotent on bookingId: a second call returns the existing
	// record with created=false.
	Create(ctx context.Context, event models.BookingAcceptedEvent) (*models.CommissionRecord, bool, error)

	// SubmitProof attaches an uploaded proof reference and moves the
	// record to awaiting_verification. Fails with ErrAlreadySubmitted or
	// ErrAlreadyVerified from those states; a lost race surfaces as
	// ErrAlreadySubmitted.
	SubmitProof(ctx context.Context, id, proofRef, method string) (*models.CommissionRecord, error)

	// Verify is the admin decision. Approval is the only code path that
	// re-enables the provider's booking eligibility.
	Verify(ctx context.Context, id, adminID string, approved bool, reason string) (*models.CommissionRecord, error)

	// ApplyOverdue marks one deadline-passed record overdue, applying the
	// late fee at most once, and deactivates the provider. The Sweeper
	// drives this across all candidates on a server-side schedule.
	ApplyOverdue(ctx context.Context, id string, now time.Time) (*models.CommissionRecord, error)

	HasUnpaidCommissions(ctx context.Context, providerID string) (bool, error)
	UnpaidAmount(ctx context.Context, providerID string) (int64, error)
	ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.CommissionRecord, error)
	ListAwaitingVerification(ctx context.Context) ([]models.CommissionRecord, error)
	GetByID(ctx context.Context, id string) (*models.CommissionRecord, error)
}

// AccountGate flips a provider's booking eligibility. Activate must only be
// reached through Verify(approved=true); nothing else hands the gate out.
type AccountGate interface {
	Activate(ctx context.Context, providerID string) error
	Deactivate(ctx context.Context, providerID, reason string) error
}

// AdminNotifier guarantees an operator hears about every commission event:
// persisted alert with bounded retry, deduplicated per (bookingId, type),
// audit entry on exhaustion, and redundant outbound pushes on top.
type AdminNotifier interface {
	Notify(ctx context.Context, event AlertEvent) (*models.AdminNotification, error)
}

// AcceptanceTracker is the single entry point every booking-acceptance path
// calls. It never returns an error: partial failures are reported in the
// result and the audit trail instead of blocking the acceptance flow.
type AcceptanceTracker interface {
	TrackAcceptance(ctx context.Context, event models.BookingAcceptedEvent) models.TrackResult
}
