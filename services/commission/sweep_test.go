package commission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"santai/models"

	"go.uber.org/zap"
)

func newTestSweeper(repo *memCommissionRepo, gate *fakeGate, audit *memAuditRepo) *Sweeper {
	lifecycle := newTestLifecycle(repo, gate, &recordingNotifier{})
	return &Sweeper{
		Repo:      repo,
		Lifecycle: lifecycle,
		Audit:     audit,
		Logger:    zap.NewNop(),
	}
}

func seedCommissions(t *testing.T, repo *memCommissionRepo, n int, deadline time.Time) []string {
	t.Helper()
	svc := newTestLifecycle(repo, &fakeGate{}, &recordingNotifier{})
	svc.Now = func() time.Time { return deadline.Add(-5 * time.Hour) }
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		event := testEvent()
		event.BookingID = fmt.Sprintf("book-%d", i)
		rec, _, err := svc.Create(context.Background(), event)
		if err != nil {
			t.Fatalf("seed create: %v", err)
		}
		ids = append(ids, rec.ID)
	}
	return ids
}

func TestSweepOverdueMarksOnlyPastDeadline(t *testing.T) {
	repo := newMemCommissionRepo()
	gate := &fakeGate{}
	audit := &memAuditRepo{}
	sweeper := newTestSweeper(repo, gate, audit)

	deadline := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	ids := seedCommissions(t, repo, 3, deadline)

	// One record is already awaiting verification; the sweep must not
	// touch it.
	repo.setStatus(ids[2], models.CommissionAwaitingVerification)

	swept, err := sweeper.SweepOverdue(context.Background(), deadline.Add(time.Minute))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(swept) != 2 {
		t.Fatalf("swept %d, want 2", len(swept))
	}
	for _, rec := range swept {
		if rec.Status != models.CommissionOverdue {
			t.Fatalf("swept record status = %s", rec.Status)
		}
	}
	untouched, _ := repo.GetByID(context.Background(), ids[2])
	if untouched.Status != models.CommissionAwaitingVerification {
		t.Fatalf("awaiting record was swept to %s", untouched.Status)
	}
	if len(gate.deactivated) != 2 {
		t.Fatalf("gate deactivations = %d, want 2", len(gate.deactivated))
	}
	if entries := audit.byKind(models.AuditSweep); len(entries) != 2 {
		t.Fatalf("sweep audit entries = %d, want 2", len(entries))
	}
}

func TestSweepOverdueNothingDue(t *testing.T) {
	repo := newMemCommissionRepo()
	audit := &memAuditRepo{}
	sweeper := newTestSweeper(repo, &fakeGate{}, audit)

	deadline := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	seedCommissions(t, repo, 2, deadline)

	swept, err := sweeper.SweepOverdue(context.Background(), deadline.Add(-time.Hour))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(swept) != 0 {
		t.Fatalf("swept %d, want 0 before the deadline", len(swept))
	}
}

func TestSweepOverduePagesThroughLargeBacklog(t *testing.T) {
	repo := newMemCommissionRepo()
	audit := &memAuditRepo{}
	sweeper := newTestSweeper(repo, &fakeGate{}, audit)

	deadline := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	seedCommissions(t, repo, sweepBatchSize+50, deadline)

	swept, err := sweeper.SweepOverdue(context.Background(), deadline.Add(time.Minute))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(swept) != sweepBatchSize+50 {
		t.Fatalf("swept %d, want %d across pages", len(swept), sweepBatchSize+50)
	}
}

func TestSweepOverdueSkipsConcurrentlyMovedRecords(t *testing.T) {
	repo := newMemCommissionRepo()
	audit := &memAuditRepo{}
	sweeper := newTestSweeper(repo, &fakeGate{}, audit)

	deadline := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	ids := seedCommissions(t, repo, 2, deadline)

	// A proof upload lands between the candidate scan and the transition.
	moved := false
	repo.afterList = func() {
		if !moved {
			moved = true
			repo.setStatus(ids[0], models.CommissionAwaitingVerification)
		}
	}

	swept, err := sweeper.SweepOverdue(context.Background(), deadline.Add(time.Minute))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(swept) != 1 {
		t.Fatalf("swept %d, want 1 with the moved record skipped", len(swept))
	}
	if swept[0].ID != ids[1] {
		t.Fatalf("swept %s, want %s", swept[0].ID, ids[1])
	}
	// A quiet skip, not a failure: no failed sweep audit entry.
	for _, e := range audit.byKind(models.AuditSweep) {
		if !e.Success {
			t.Fatalf("skip recorded as failure: %+v", e)
		}
	}
}
