// Package channel carries operator alerts out of the process. The stored
// AdminNotification is the source of truth; channels are the redundant
// delivery paths layered on top of it.
package channel

import (
	"context"

	"santai/models"
)

// Channel is one outbound delivery path for operator alerts.
type Channel interface {
	// Send pushes the alert to the operator. An error means this path
	// failed; the caller decides whether other paths cover for it.
	Send(ctx context.Context, n models.AdminNotification) error
	// Name identifies the path in logs and audit entries.
	Name() string
}
