package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fundilink/verification-service/internal/domain/model"
)

// PaymentAttemptRepository owns payment attempt persistence. Creation is
// idempotent per verification request (one pending attempt at a time) and
// MarkTerminal writes the terminal state exactly once.
type PaymentAttemptRepository interface {
	// Create inserts a new pending attempt. When a pending attempt already
	// exists for the same verification request, the existing attempt is
	// returned with created=false and nothing is inserted.
	Create(ctx context.Context, attempt *model.PaymentAttempt) (existing *model.PaymentAttempt, created bool, err error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.PaymentAttempt, error)
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*model.PaymentAttempt, error)

	// GetPendingByRequest returns nil, nil when the request has no pending attempt
	GetPendingByRequest(ctx context.Context, verificationRequestID uuid.UUID) (*model.PaymentAttempt, error)

	// SetCorrelationIDs stores the gateway ids returned at initiation
	SetCorrelationIDs(ctx context.Context, id uuid.UUID, merchantRequestID, checkoutRequestID string) error

	// Delete removes an attempt whose initiation failed, so a retry starts clean
	Delete(ctx context.Context, id uuid.UUID) error

	// MarkTerminal transitions pending→completed or pending→failed exactly
	// once. When the attempt is already terminal the stored row is returned
	// unchanged regardless of the outcome passed in.
	MarkTerminal(ctx context.Context, id uuid.UUID, status model.PaymentAttemptStatus, resultCode, resultDesc string) (*model.PaymentAttempt, error)
}
