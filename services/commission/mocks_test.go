package commission

import (
	"context"
	"fmt"
	"sync"
	"time"

	commissionRepo "santai/database/repository/commission"
	"santai/models"

	"go.mongodb.org/mongo-driver/bson"
)

// memCommissionRepo is an in-memory CommissionRepository that honors the
// conditional-transition contract, so the state-machine tests exercise the
// same race semantics the Mongo implementation provides.
type memCommissionRepo struct {
	mu      sync.Mutex
	seq     int
	records map[string]*models.CommissionRecord
	byBook  map[string]string

	createErr error
	// afterList runs after each ListOverdueCandidates call, letting a test
	// move records between the scan and the transition.
	afterList func()
}

func newMemCommissionRepo() *memCommissionRepo {
	return &memCommissionRepo{
		records: make(map[string]*models.CommissionRecord),
		byBook:  make(map[string]string),
	}
}

func (m *memCommissionRepo) Create(ctx context.Context, rec models.CommissionRecord) (*models.CommissionRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, false, m.createErr
	}
	if id, ok := m.byBook[rec.BookingID]; ok {
		existing := *m.records[id]
		return &existing, false, nil
	}
	m.seq++
	rec.ID = fmt.Sprintf("comm-%d", m.seq)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	m.records[rec.ID] = &rec
	m.byBook[rec.BookingID] = rec.ID
	stored := rec
	return &stored, true, nil
}

func (m *memCommissionRepo) GetByID(ctx context.Context, id string) (*models.CommissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, commissionRepo.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (m *memCommissionRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.CommissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byBook[bookingID]
	if !ok {
		return nil, commissionRepo.ErrNotFound
	}
	out := *m.records[id]
	return &out, nil
}

func (m *memCommissionRepo) ConditionalTransition(ctx context.Context, id string, expected models.CommissionStatus, patch bson.M) (*models.CommissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, commissionRepo.ErrNotFound
	}
	if rec.Status != expected {
		return nil, commissionRepo.ErrConcurrentModification
	}
	applyPatch(rec, patch)
	rec.UpdatedAt = time.Now()
	out := *rec
	return &out, nil
}

func applyPatch(rec *models.CommissionRecord, patch bson.M) {
	for k, v := range patch {
		switch k {
		case "status":
			rec.Status = v.(models.CommissionStatus)
		case "proofRef":
			rec.ProofRef = v.(string)
		case "paymentMethod":
			rec.PaymentMethod = v.(string)
		case "proofUploadedAt":
			t := v.(time.Time)
			rec.ProofUploadedAt = &t
		case "verifiedBy":
			rec.VerifiedBy = v.(string)
		case "verifiedAt":
			t := v.(time.Time)
			rec.VerifiedAt = &t
		case "rejectionReason":
			rec.RejectionReason = v.(string)
		case "lateFee":
			fee := v.(int64)
			rec.LateFee = &fee
		case "totalDue":
			rec.TotalDue = v.(int64)
		default:
			panic(fmt.Sprintf("unhandled patch key %q", k))
		}
	}
}

func (m *memCommissionRepo) ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.CommissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CommissionRecord
	for _, rec := range m.records {
		if rec.ProviderID == providerID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *memCommissionRepo) ListByStatus(ctx context.Context, statuses ...models.CommissionStatus) ([]models.CommissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CommissionRecord
	for _, rec := range m.records {
		for _, st := range statuses {
			if rec.Status == st {
				out = append(out, *rec)
				break
			}
		}
	}
	return out, nil
}

func (m *memCommissionRepo) ListOverdueCandidates(ctx context.Context, now time.Time, afterID string, limit int64) ([]models.CommissionRecord, error) {
	m.mu.Lock()
	var ids []string
	for id := range m.records {
		ids = append(ids, id)
	}
	sortStrings(ids)
	var out []models.CommissionRecord
	for _, id := range ids {
		if afterID != "" && id <= afterID {
			continue
		}
		rec := m.records[id]
		eligible := rec.Status == models.CommissionPending || rec.Status == models.CommissionRejected
		if eligible && rec.PaymentDeadline.Before(now) {
			out = append(out, *rec)
			if int64(len(out)) == limit {
				break
			}
		}
	}
	m.mu.Unlock()
	if m.afterList != nil {
		m.afterList()
	}
	return out, nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func (m *memCommissionRepo) UnpaidSummary(ctx context.Context, providerID string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count, amount int64
	for _, rec := range m.records {
		if rec.ProviderID == providerID && rec.Unpaid() {
			count++
			amount += rec.TotalDue
		}
	}
	return count, amount, nil
}

func (m *memCommissionRepo) EnsureIndexes() error { return nil }

// setStatus moves a record directly, bypassing the state machine, for
// arranging test fixtures.
func (m *memCommissionRepo) setStatus(id string, status models.CommissionStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id].Status = status
}

// memNotificationRepo deduplicates per (bookingId, type) like the unique
// index does, and can fail the first N Create calls.
type memNotificationRepo struct {
	mu        sync.Mutex
	seq       int
	alerts    []models.AdminNotification
	failFirst int
	calls     int
}

func (m *memNotificationRepo) Create(ctx context.Context, n models.AdminNotification) (*models.AdminNotification, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failFirst {
		return nil, false, fmt.Errorf("notification store unavailable (call %d)", m.calls)
	}
	for i := range m.alerts {
		if m.alerts[i].BookingID == n.BookingID && m.alerts[i].Type == n.Type {
			out := m.alerts[i]
			return &out, false, nil
		}
	}
	m.seq++
	n.ID = fmt.Sprintf("notif-%d", m.seq)
	n.CreatedAt = time.Now()
	m.alerts = append(m.alerts, n)
	out := n
	return &out, true, nil
}

func (m *memNotificationRepo) GetByID(ctx context.Context, id string) (*models.AdminNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if m.alerts[i].ID == id {
			out := m.alerts[i]
			return &out, nil
		}
	}
	return nil, fmt.Errorf("notification %s not found", id)
}

func (m *memNotificationRepo) List(ctx context.Context, unreadOnly bool, limit int64) ([]models.AdminNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AdminNotification
	for _, a := range m.alerts {
		if unreadOnly && a.Read {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memNotificationRepo) MarkRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if m.alerts[i].ID == id {
			m.alerts[i].Read = true
			return nil
		}
	}
	return fmt.Errorf("notification %s not found", id)
}

func (m *memNotificationRepo) EnsureIndexes() error { return nil }

// memAuditRepo is an append-only in-memory audit log.
type memAuditRepo struct {
	mu        sync.Mutex
	seq       int
	entries   []models.AuditEntry
	appendErr error
}

func (m *memAuditRepo) Append(ctx context.Context, entry models.AuditEntry) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return "", m.appendErr
	}
	m.seq++
	entry.ID = fmt.Sprintf("audit-%d", m.seq)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, entry)
	return entry.ID, nil
}

func (m *memAuditRepo) ListRecent(ctx context.Context, kind string, limit int64) ([]models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AuditEntry
	for _, e := range m.entries {
		if kind == "" || e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memAuditRepo) ListByCommission(ctx context.Context, commissionID string) ([]models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AuditEntry
	for _, e := range m.entries {
		if e.CommissionID == commissionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memAuditRepo) EnsureIndexes() error { return nil }

func (m *memAuditRepo) byKind(kind string) []models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AuditEntry
	for _, e := range m.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// fakeGate records eligibility flips.
type fakeGate struct {
	mu          sync.Mutex
	activated   []string
	deactivated []string
	reasons     []string
	err         error
}

func (g *fakeGate) Activate(ctx context.Context, providerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.activated = append(g.activated, providerID)
	return nil
}

func (g *fakeGate) Deactivate(ctx context.Context, providerID, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.deactivated = append(g.deactivated, providerID)
	g.reasons = append(g.reasons, reason)
	return nil
}

// recordingNotifier captures alerts without any persistence, for lifecycle
// tests that only care that the right event fired.
type recordingNotifier struct {
	mu     sync.Mutex
	events []AlertEvent
	err    error
}

func (n *recordingNotifier) Notify(ctx context.Context, event AlertEvent) (*models.AdminNotification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	if n.err != nil {
		return nil, n.err
	}
	return &models.AdminNotification{ID: fmt.Sprintf("notif-%d", len(n.events)), Type: event.Type}, nil
}

func (n *recordingNotifier) typesSeen() []models.NotificationType {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.NotificationType
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeChannel is an outbound channel with switchable failure.
type fakeChannel struct {
	name string
	err  error
	sent int
}

func (c *fakeChannel) Send(ctx context.Context, n models.AdminNotification) error {
	if c.err != nil {
		return c.err
	}
	c.sent++
	return nil
}

func (c *fakeChannel) Name() string { return c.name }

// fastRetry keeps test runs quick.
var fastRetry = RetryPolicy{
	MaxAttempts:    3,
	InitialBackoff: time.Millisecond,
	MaxBackoff:     5 * time.Millisecond,
}
