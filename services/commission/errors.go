package commission

import (
	"errors"
	"fmt"

	"santai/models"
)

// State-machine errors. ErrConcurrentModification lives in the repository
// package; submitProof losers are remapped to ErrAlreadySubmitted so the
// provider sees one consistent answer.
var (
	// ErrAlreadySubmitted: proof exists and is waiting on an admin.
	ErrAlreadySubmitted = errors.New("payment proof already submitted and awaiting admin verification")
	// ErrAlreadyVerified: the commission cycle is closed; nothing to upload.
	ErrAlreadyVerified = errors.New("commission has already been verified, no further uploads are allowed")
	// ErrInvalidTransition: the operation is not legal from the record's
	// current status.
	ErrInvalidTransition = errors.New("invalid commission state transition")
	// ErrNotOverdue: the record has not passed its payment deadline, or is
	// no longer in a state the sweep acts on.
	ErrNotOverdue = errors.New("commission record is not eligible for overdue transition")
)

// DeliveryError reports that an operator alert could not be persisted after
// exhausting every retry. It is raised loudly on purpose: the business
// tolerates a late or duplicated alert far better than a missing one.
type DeliveryError struct {
	Type      models.NotificationType
	BookingID string
	Attempts  int
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("operator alert %s for booking %s undelivered after %d attempts: %v",
		e.Type, e.BookingID, e.Attempts, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
