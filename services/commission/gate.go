package commission

import (
	"context"
	"fmt"

	providerRepo "santai/database/repository/provider"

	"go.uber.org/zap"
)

// DeactivationReasonOverdue is what the provider sees on their dashboard
// while the gate is closed.
const DeactivationReasonOverdue = "Payment overdue - upload payment proof to reactivate"

// DefaultAccountGate flips the eligibility fields on the provider document.
// It is constructed once and handed only to the lifecycle service, which is
// what keeps Activate unreachable from any other code path: an uploaded
// proof image alone can never reopen the gate.
type DefaultAccountGate struct {
	Providers providerRepo.ProviderRepository
	Logger    *zap.Logger
}

// Activate re-enables booking for a provider and clears the reason.
func (g *DefaultAccountGate) Activate(ctx context.Context, providerID string) error {
	if err := g.Providers.SetEligibility(ctx, providerID, true, ""); err != nil {
		return fmt.Errorf("account gate: failed to activate provider %s: %w", providerID, err)
	}
	g.Logger.Info("provider eligibility restored", zap.String("providerId", providerID))
	return nil
}

// Deactivate disables booking for a provider and records why.
func (g *DefaultAccountGate) Deactivate(ctx context.Context, providerID, reason string) error {
	if err := g.Providers.SetEligibility(ctx, providerID, false, reason); err != nil {
		return fmt.Errorf("account gate: failed to deactivate provider %s: %w", providerID, err)
	}
	g.Logger.Warn("provider eligibility revoked",
		zap.String("providerId", providerID),
		zap.String("reason", reason),
	)
	return nil
}
