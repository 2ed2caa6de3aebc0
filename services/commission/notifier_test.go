package commission

import (
	"context"
	"errors"
	"testing"

	"santai/models"
	"santai/services/channel"

	"go.uber.org/zap"
)

func newTestNotifier(repo *memNotificationRepo, audit *memAuditRepo, channels ...channel.Channel) *DefaultAdminNotifier {
	return &DefaultAdminNotifier{
		Repo:     repo,
		Audit:    audit,
		Channels: channels,
		Retry:    fastRetry,
		Logger:   zap.NewNop(),
	}
}

func overdueEvent() AlertEvent {
	return AlertEvent{
		Type:         models.NotifOverdue,
		CommissionID: "comm-1",
		BookingID:    "book-1",
		ProviderID:   "prov-1",
		ProviderName: "Budi Santoso",
		Amount:       140000,
	}
}

func TestNotifyStoresAndPushes(t *testing.T) {
	repo := &memNotificationRepo{}
	audit := &memAuditRepo{}
	ch := &fakeChannel{name: "fcm"}
	n := newTestNotifier(repo, audit, ch)

	alert, err := n.Notify(context.Background(), overdueEvent())
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if alert.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", alert.Attempts)
	}
	if alert.Priority != models.PriorityUrgent {
		t.Fatalf("priority = %s, want urgent for overdue", alert.Priority)
	}
	if ch.sent != 1 {
		t.Fatalf("channel sends = %d, want 1", ch.sent)
	}
	if len(audit.entries) != 0 {
		t.Fatalf("no audit entries expected on the happy path, got %d", len(audit.entries))
	}
}

func TestNotifyRetriesTransientFailures(t *testing.T) {
	repo := &memNotificationRepo{failFirst: 2}
	audit := &memAuditRepo{}
	n := newTestNotifier(repo, audit)

	alert, err := n.Notify(context.Background(), overdueEvent())
	if err != nil {
		t.Fatalf("notify should recover within the retry budget: %v", err)
	}
	if alert.Attempts != 3 {
		t.Fatalf("stored attempts = %d, want 3", alert.Attempts)
	}
	if len(repo.alerts) != 1 {
		t.Fatalf("stored alerts = %d, want exactly 1", len(repo.alerts))
	}
}

func TestNotifyExhaustionAuditsAndReports(t *testing.T) {
	repo := &memNotificationRepo{failFirst: 3}
	audit := &memAuditRepo{}
	n := newTestNotifier(repo, audit)

	alert, err := n.Notify(context.Background(), overdueEvent())
	if alert != nil {
		t.Fatal("no alert should be returned on exhaustion")
	}
	var dErr *DeliveryError
	if !errors.As(err, &dErr) {
		t.Fatalf("error = %T %v, want *DeliveryError", err, err)
	}
	if dErr.Attempts != 3 {
		t.Fatalf("delivery error attempts = %d, want 3", dErr.Attempts)
	}
	if len(repo.alerts) != 0 {
		t.Fatalf("stored alerts = %d, want 0", len(repo.alerts))
	}

	failures := audit.byKind(models.AuditNotificationFailure)
	if len(failures) != 1 {
		t.Fatalf("exhaustion audit entries = %d, want 1", len(failures))
	}
	if failures[0].Success {
		t.Fatal("exhaustion audit entry must record failure")
	}
	if failures[0].BookingID != "book-1" {
		t.Fatalf("audit bookingId = %s", failures[0].BookingID)
	}
}

func TestNotifyDeduplicatesPerBookingAndType(t *testing.T) {
	repo := &memNotificationRepo{}
	audit := &memAuditRepo{}
	n := newTestNotifier(repo, audit)
	ctx := context.Background()

	first, err := n.Notify(ctx, overdueEvent())
	if err != nil {
		t.Fatalf("first notify: %v", err)
	}
	second, err := n.Notify(ctx, overdueEvent())
	if err != nil {
		t.Fatalf("second notify: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("duplicate notify returned %s, want existing %s", second.ID, first.ID)
	}
	if len(repo.alerts) != 1 {
		t.Fatalf("stored alerts = %d, want 1", len(repo.alerts))
	}

	// A different type for the same booking is a distinct alert.
	proofEvent := overdueEvent()
	proofEvent.Type = models.NotifProofUploaded
	if _, err := n.Notify(ctx, proofEvent); err != nil {
		t.Fatalf("proof notify: %v", err)
	}
	if len(repo.alerts) != 2 {
		t.Fatalf("stored alerts = %d, want 2", len(repo.alerts))
	}
}

func TestNotifySurvivesChannelBlackout(t *testing.T) {
	repo := &memNotificationRepo{}
	audit := &memAuditRepo{}
	down := errors.New("push gateway down")
	n := newTestNotifier(repo, audit,
		&fakeChannel{name: "fcm", err: down},
		&fakeChannel{name: "redis", err: down},
	)

	alert, err := n.Notify(context.Background(), overdueEvent())
	if err != nil {
		t.Fatalf("persisted alert satisfies the guarantee, notify must not fail: %v", err)
	}
	if alert == nil {
		t.Fatal("stored alert expected")
	}
	failures := audit.byKind(models.AuditNotificationFailure)
	if len(failures) != 1 {
		t.Fatalf("blackout audit entries = %d, want 1", len(failures))
	}
}

func TestBuildAlertMessages(t *testing.T) {
	newComm := buildAlert(AlertEvent{
		Type:         models.NotifNewCommission,
		BookingID:    "book-9",
		ProviderName: "Budi Santoso",
		Amount:       90000,
	})
	if newComm.Priority != models.PriorityHigh {
		t.Fatalf("new commission priority = %s, want high", newComm.Priority)
	}
	if newComm.Message != "Budi Santoso accepted booking book-9. Commission due: Rp 90.000." {
		t.Fatalf("message = %q", newComm.Message)
	}

	verified := buildAlert(AlertEvent{
		Type:         models.NotifVerified,
		ProviderName: "Budi Santoso",
		Amount:       140000,
	})
	if verified.Priority != models.PriorityNormal {
		t.Fatalf("verified priority = %s, want normal", verified.Priority)
	}
}

func TestFormatIDR(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{50000, "Rp 50.000"},
		{1234567, "Rp 1.234.567"},
		{-50000, "Rp -50.000"},
	}
	for _, tc := range cases {
		if got := formatIDR(tc.amount); got != tc.want {
			t.Errorf("formatIDR(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
