package commission

import (
	"context"
	"errors"
	"strings"
	"testing"

	"santai/models"

	"go.uber.org/zap"
)

func newTestTracker(repo *memCommissionRepo, notifier AdminNotifier, audit *memAuditRepo) *DefaultAcceptanceTracker {
	lifecycle := newTestLifecycle(repo, &fakeGate{}, notifier)
	return &DefaultAcceptanceTracker{
		Lifecycle:   lifecycle,
		Notifier:    notifier,
		Audit:       audit,
		Logger:      zap.NewNop(),
		RatePercent: 30,
	}
}

func TestTrackAcceptanceHappyPath(t *testing.T) {
	repo := newMemCommissionRepo()
	notifRepo := &memNotificationRepo{}
	audit := &memAuditRepo{}
	notifier := newTestNotifier(notifRepo, audit)
	tracker := newTestTracker(repo, notifier, audit)

	res := tracker.TrackAcceptance(context.Background(), testEvent())
	if !res.Success {
		t.Fatalf("expected success, errors: %v", res.Errors)
	}
	if res.CommissionID == "" || res.NotificationID == "" {
		t.Fatalf("result ids missing: %+v", res)
	}

	acceptances := audit.byKind(models.AuditAcceptance)
	if len(acceptances) != 1 || !acceptances[0].Success {
		t.Fatalf("acceptance audit = %+v, want one successful entry", acceptances)
	}
	if len(notifRepo.alerts) != 1 || notifRepo.alerts[0].Type != models.NotifNewCommission {
		t.Fatalf("alerts = %+v, want one new_commission alert", notifRepo.alerts)
	}
}

func TestTrackAcceptanceRecordFailureStillAlerts(t *testing.T) {
	repo := newMemCommissionRepo()
	repo.createErr = errors.New("mongo write concern failed")
	notifRepo := &memNotificationRepo{}
	audit := &memAuditRepo{}
	notifier := newTestNotifier(notifRepo, audit)
	tracker := newTestTracker(repo, notifier, audit)

	res := tracker.TrackAcceptance(context.Background(), testEvent())
	if res.Success {
		t.Fatal("success must be false when the record write failed")
	}
	if res.CommissionID != "" {
		t.Fatalf("commissionId = %q, want empty", res.CommissionID)
	}
	// The operator still hears about the acceptance; the alert estimates
	// the amount from the event since there is no stored record to quote.
	if res.NotificationID == "" {
		t.Fatal("alert should have been delivered despite the record failure")
	}
	if msg := notifRepo.alerts[0].Message; !strings.Contains(msg, "Rp 90.000") {
		t.Fatalf("alert message = %q, want the estimated amount in it", msg)
	}

	acceptances := audit.byKind(models.AuditAcceptance)
	if len(acceptances) != 1 || acceptances[0].Success {
		t.Fatalf("acceptance audit = %+v, want one failed entry", acceptances)
	}
}

func TestTrackAcceptanceNotifierExhaustion(t *testing.T) {
	repo := newMemCommissionRepo()
	notifRepo := &memNotificationRepo{failFirst: 3}
	audit := &memAuditRepo{}
	notifier := newTestNotifier(notifRepo, audit)
	tracker := newTestTracker(repo, notifier, audit)

	res := tracker.TrackAcceptance(context.Background(), testEvent())
	if res.Success {
		t.Fatal("success must be false when the alert was lost")
	}
	if res.CommissionID == "" {
		t.Fatal("the commission record itself should still have been created")
	}
	found := false
	for _, e := range res.Errors {
		if strings.Contains(e, "undelivered after 3 attempts") {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v, want the delivery failure listed", res.Errors)
	}
}

func TestTrackAcceptanceInvalidEvent(t *testing.T) {
	repo := newMemCommissionRepo()
	notifRepo := &memNotificationRepo{}
	audit := &memAuditRepo{}
	notifier := newTestNotifier(notifRepo, audit)
	tracker := newTestTracker(repo, notifier, audit)

	res := tracker.TrackAcceptance(context.Background(), models.BookingAcceptedEvent{})
	if res.Success {
		t.Fatal("an event with no ids must not succeed")
	}
	if len(repo.records) != 0 {
		t.Fatal("no record should be created for an invalid event")
	}
}

type panicLifecycle struct {
	LifecycleService
}

func (panicLifecycle) Create(ctx context.Context, event models.BookingAcceptedEvent) (*models.CommissionRecord, bool, error) {
	panic("index out of range in pricing table")
}

func TestTrackAcceptanceNeverPanics(t *testing.T) {
	notifRepo := &memNotificationRepo{}
	audit := &memAuditRepo{}
	tracker := &DefaultAcceptanceTracker{
		Lifecycle:   panicLifecycle{},
		Notifier:    newTestNotifier(notifRepo, audit),
		Audit:       audit,
		Logger:      zap.NewNop(),
		RatePercent: 30,
	}

	res := tracker.TrackAcceptance(context.Background(), testEvent())
	if res.Success {
		t.Fatal("a panic inside tracking must surface as a failed result")
	}
	found := false
	for _, e := range res.Errors {
		if strings.Contains(e, "internal panic") {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v, want the panic listed", res.Errors)
	}
}
