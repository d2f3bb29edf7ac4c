package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivationParams carries everything the activation transaction writes.
type ActivationParams struct {
	AttemptID     uuid.UUID
	ActiveUntil   time.Time
	PaidAt        time.Time
	ReceiptNumber string
	ResultCode    string
	ResultDesc    string
}

// ActivationRepository is the single choke-point that turns a confirmed
// payment into an active verification. Activate runs one transaction that
// marks the attempt completed, sets the request active with its expiry and
// flips the identity verified flag. A second call for an already-completed
// attempt is a no-op; any mid-transaction failure rolls everything back and
// leaves the attempt pending so a later signal can retry.
type ActivationRepository interface {
	Activate(ctx context.Context, params ActivationParams) error
}
