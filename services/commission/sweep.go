package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	auditRepo "santai/database/repository/audit"
	commissionRepo "santai/database/repository/commission"
	"santai/models"

	"go.uber.org/zap"
)

const sweepBatchSize = 100

// Sweeper runs the server-side deadline pass. It pages through overdue
// candidates and delegates each to the lifecycle; a record another writer
// got to first is simply skipped and picked up (or not) next tick.
type Sweeper struct {
	Repo      commissionRepo.CommissionRepository
	Lifecycle LifecycleService
	Audit     auditRepo.AuditRepository
	Logger    *zap.Logger
}

// SweepOverdue marks every deadline-passed record overdue and returns the
// ones this run transitioned. Restartable mid-scan and safe to run
// concurrently with itself.
func (s *Sweeper) SweepOverdue(ctx context.Context, now time.Time) ([]models.CommissionRecord, error) {
	var swept []models.CommissionRecord
	afterID := ""

	for {
		batch, err := s.Repo.ListOverdueCandidates(ctx, now, afterID, sweepBatchSize)
		if err != nil {
			return swept, fmt.Errorf("overdue sweep: failed to list candidates after %q: %w", afterID, err)
		}
		if len(batch) == 0 {
			break
		}

		for _, candidate := range batch {
			afterID = candidate.ID
			updated, err := s.Lifecycle.ApplyOverdue(ctx, candidate.ID, now)

			switch {
			case err == nil:
				swept = append(swept, *updated)
				s.auditItem(ctx, candidate, true, "marked overdue, late fee applied, provider deactivated", nil)
			case errors.Is(err, commissionRepo.ErrConcurrentModification), errors.Is(err, ErrNotOverdue):
				// Someone else moved the record first (a proof upload, a
				// verify, or an overlapping sweep tick). Not a failure.
				s.Logger.Debug("sweep skipped record",
					zap.String("commissionId", candidate.ID),
					zap.Error(err),
				)
			default:
				s.Logger.Error("sweep failed to transition record",
					zap.String("commissionId", candidate.ID),
					zap.Error(err),
				)
				s.auditItem(ctx, candidate, false, "overdue transition failed", err)
			}
		}

		if len(batch) < sweepBatchSize {
			break
		}
	}

	s.Logger.Info("overdue sweep completed",
		zap.Time("asOf", now),
		zap.Int("transitioned", len(swept)),
	)
	return swept, nil
}

func (s *Sweeper) auditItem(ctx context.Context, rec models.CommissionRecord, success bool, detail string, itemErr error) {
	entry := models.AuditEntry{
		Kind:         models.AuditSweep,
		CommissionID: rec.ID,
		BookingID:    rec.BookingID,
		ProviderID:   rec.ProviderID,
		Success:      success,
		Detail:       detail,
	}
	if itemErr != nil {
		entry.Errors = []string{itemErr.Error()}
	}
	if _, err := s.Audit.Append(ctx, entry); err != nil {
		s.Logger.Error("failed to audit sweep item",
			zap.String("commissionId", rec.ID),
			zap.Error(err),
		)
	}
}
