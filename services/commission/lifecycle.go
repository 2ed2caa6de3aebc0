package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	commissionRepo "santai/database/repository/commission"
	"santai/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultLifecycleService is the production commission state machine.
// RatePercent, PaymentWindow and LateFee come from validated configuration;
// Now is swappable for tests and defaults to time.Now.
type DefaultLifecycleService struct {
	Repo     commissionRepo.CommissionRepository
	Gate     AccountGate
	Notifier AdminNotifier
	Logger   *zap.Logger

	RatePercent   int
	PaymentWindow time.Duration
	LateFee       int64

	Now func() time.Time
}

func (s *DefaultLifecycleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CommissionAmount computes the obligation in minor units, round-half-up.
// Integer arithmetic throughout: floating rounding has no place in money
// that ends up in an audit trail.
func CommissionAmount(serviceAmount int64, ratePercent int) int64 {
	product := serviceAmount * int64(ratePercent)
	amount := product / 100
	if (product%100)*2 >= 100 {
		amount++
	}
	return amount
}

// Create computes and persists the commission for an accepted booking.
// The payment deadline is server time plus the configured window; the
// event's acceptedAt is kept for display but never trusted for enforcement.
func (s *DefaultLifecycleService) Create(ctx context.Context, event models.BookingAcceptedEvent) (*models.CommissionRecord, bool, error) {
	if event.BookingID == "" || event.ProviderID == "" {
		return nil, false, fmt.Errorf("commission create: bookingId and providerId are required")
	}
	if event.ServiceAmount < 0 {
		return nil, false, fmt.Errorf("commission create: negative service amount %d", event.ServiceAmount)
	}

	now := s.now()
	acceptedAt := event.AcceptedAt
	if acceptedAt.IsZero() {
		acceptedAt = now
	}
	amount := CommissionAmount(event.ServiceAmount, s.RatePercent)

	rec := models.CommissionRecord{
		ProviderID:       event.ProviderID,
		ProviderName:     event.ProviderName,
		BookingID:        event.BookingID,
		CustomerName:     event.CustomerName,
		ServiceType:      event.ServiceType,
		Duration:         event.Duration,
		ServiceAmount:    event.ServiceAmount,
		CommissionRate:   s.RatePercent,
		CommissionAmount: amount,
		TotalDue:         amount,
		AcceptedAt:       acceptedAt,
		PaymentDeadline:  now.Add(s.PaymentWindow),
		Status:           models.CommissionPending,
	}

	stored, created, err := s.Repo.Create(ctx, rec)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.Logger.Info("commission record created",
			zap.String("commissionId", stored.ID),
			zap.String("bookingId", stored.BookingID),
			zap.Int64("commissionAmount", stored.CommissionAmount),
			zap.Time("paymentDeadline", stored.PaymentDeadline),
		)
	} else {
		s.Logger.Info("commission record already exists for booking, returning existing",
			zap.String("commissionId", stored.ID),
			zap.String("bookingId", stored.BookingID),
		)
	}
	return stored, created, nil
}

// SubmitProof attaches the uploaded proof and moves the record to
// awaiting_verification. The conditional transition makes two near-
// simultaneous uploads resolve deterministically: the loser is told the
// proof is already submitted.
func (s *DefaultLifecycleService) SubmitProof(ctx context.Context, id, proofRef, method string) (*models.CommissionRecord, error) {
	if proofRef == "" {
		return nil, fmt.Errorf("submit proof: proof reference is required")
	}

	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch rec.Status {
	case models.CommissionAwaitingVerification:
		return nil, ErrAlreadySubmitted
	case models.CommissionVerified:
		return nil, ErrAlreadyVerified
	}

	// Allowed from pending, rejected and overdue. An overdue record keeps
	// its already-applied late fee through the transition.
	uploadedAt := s.now()
	patch := bson.M{
		"status":          models.CommissionAwaitingVerification,
		"proofRef":        proofRef,
		"paymentMethod":   method,
		"proofUploadedAt": uploadedAt,
	}
	updated, err := s.Repo.ConditionalTransition(ctx, id, rec.Status, patch)
	if errors.Is(err, commissionRepo.ErrConcurrentModification) {
		return nil, ErrAlreadySubmitted
	}
	if err != nil {
		return nil, err
	}

	s.Logger.Info("payment proof submitted, awaiting verification",
		zap.String("commissionId", updated.ID),
		zap.String("proofRef", proofRef),
		zap.String("method", method),
	)
	// Account stays deactivated until an admin approves. Proof alone has
	// no enforcement effect.
	s.notify(ctx, models.NotifProofUploaded, updated)
	return updated, nil
}

// Verify records the admin decision. Approval is the single code path that
// reopens the provider's booking gate; rejection leaves eligibility as-is
// and permits a re-upload.
func (s *DefaultLifecycleService) Verify(ctx context.Context, id, adminID string, approved bool, reason string) (*models.CommissionRecord, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.CommissionAwaitingVerification {
		return nil, fmt.Errorf("%w: verify from %s", ErrInvalidTransition, rec.Status)
	}

	verifiedAt := s.now()
	patch := bson.M{
		"verifiedBy": adminID,
		"verifiedAt": verifiedAt,
	}
	if approved {
		patch["status"] = models.CommissionVerified
		patch["rejectionReason"] = ""
	} else {
		patch["status"] = models.CommissionRejected
		patch["rejectionReason"] = reason
	}

	updated, err := s.Repo.ConditionalTransition(ctx, id, models.CommissionAwaitingVerification, patch)
	if err != nil {
		return nil, err
	}

	if approved {
		if err := s.Gate.Activate(ctx, updated.ProviderID); err != nil {
			// The decision landed but the gate write failed; the caller
			// must hear about it so ops can restore eligibility.
			return updated, err
		}
		s.Logger.Info("payment verified by admin, account reactivated",
			zap.String("commissionId", updated.ID),
			zap.String("adminId", adminID),
		)
		s.notify(ctx, models.NotifVerified, updated)
	} else {
		s.Logger.Info("payment rejected by admin, account remains deactivated",
			zap.String("commissionId", updated.ID),
			zap.String("adminId", adminID),
			zap.String("reason", reason),
		)
	}
	return updated, nil
}

// ApplyOverdue transitions one deadline-passed record to overdue, applies
// the late fee if none was applied before, and closes the provider's gate.
// Safe under repeated sweep runs: the fee guard and the conditional
// transition are both idempotent.
func (s *DefaultLifecycleService) ApplyOverdue(ctx context.Context, id string, now time.Time) (*models.CommissionRecord, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.CommissionPending && rec.Status != models.CommissionRejected {
		return nil, fmt.Errorf("%w: status %s", ErrNotOverdue, rec.Status)
	}
	if !rec.PaymentDeadline.Before(now) {
		return nil, fmt.Errorf("%w: deadline %s not passed at %s", ErrNotOverdue, rec.PaymentDeadline, now)
	}

	patch := bson.M{"status": models.CommissionOverdue}
	if rec.LateFee == nil {
		patch["lateFee"] = s.LateFee
		patch["totalDue"] = rec.CommissionAmount + s.LateFee
	}

	updated, err := s.Repo.ConditionalTransition(ctx, id, rec.Status, patch)
	if err != nil {
		return nil, err
	}

	if err := s.Gate.Deactivate(ctx, updated.ProviderID, DeactivationReasonOverdue); err != nil {
		return updated, err
	}
	s.Logger.Warn("commission overdue, account deactivated",
		zap.String("commissionId", updated.ID),
		zap.String("providerId", updated.ProviderID),
		zap.Int64("totalDue", updated.TotalDue),
	)
	s.notify(ctx, models.NotifOverdue, updated)
	return updated, nil
}

// HasUnpaidCommissions reports whether the provider owes anything. Booking
// flows call this to block new work until payment lands.
func (s *DefaultLifecycleService) HasUnpaidCommissions(ctx context.Context, providerID string) (bool, error) {
	count, _, err := s.Repo.UnpaidSummary(ctx, providerID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UnpaidAmount returns the provider's total outstanding obligation,
// late fees included.
func (s *DefaultLifecycleService) UnpaidAmount(ctx context.Context, providerID string) (int64, error) {
	_, amount, err := s.Repo.UnpaidSummary(ctx, providerID)
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// ListByProvider returns a provider's commission history, newest first.
func (s *DefaultLifecycleService) ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.CommissionRecord, error) {
	return s.Repo.ListByProvider(ctx, providerID, limit)
}

// ListAwaitingVerification returns the admin verification queue.
func (s *DefaultLifecycleService) ListAwaitingVerification(ctx context.Context) ([]models.CommissionRecord, error) {
	return s.Repo.ListByStatus(ctx, models.CommissionAwaitingVerification)
}

// GetByID returns one commission record.
func (s *DefaultLifecycleService) GetByID(ctx context.Context, id string) (*models.CommissionRecord, error) {
	return s.Repo.GetByID(ctx, id)
}

// notify raises an operator alert for a lifecycle event. The notifier has
// already audited any exhaustion; here the failure is logged so the
// synchronous operation (upload, verify, sweep item) still completes.
func (s *DefaultLifecycleService) notify(ctx context.Context, typ models.NotificationType, rec *models.CommissionRecord) {
	if s.Notifier == nil {
		return
	}
	_, err := s.Notifier.Notify(ctx, AlertEvent{
		Type:         typ,
		CommissionID: rec.ID,
		BookingID:    rec.BookingID,
		ProviderID:   rec.ProviderID,
		ProviderName: rec.ProviderName,
		Amount:       rec.TotalDue,
	})
	if err != nil {
		s.Logger.Error("operator alert delivery failed",
			zap.String("type", string(typ)),
			zap.String("commissionId", rec.ID),
			zap.Error(err),
		)
	}
}
