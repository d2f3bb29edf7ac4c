package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fundilink/verification-service/internal/domain/model"
)

// VerificationRequestRepository owns verification request persistence.
// Review applies the pending→approved/rejected transition; Revoke is the
// one path that deactivates a verification without payment involvement
// and clears the identity verified flag in the same transaction.
type VerificationRequestRepository interface {
	Create(ctx context.Context, req *model.VerificationRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.VerificationRequest, error)

	// GetPendingByProvider returns nil, nil when the provider has no pending request
	GetPendingByProvider(ctx context.Context, providerID uuid.UUID) (*model.VerificationRequest, error)

	// GetLatestByProvider returns the provider's most recent request, nil, nil when none exist
	GetLatestByProvider(ctx context.Context, providerID uuid.UUID) (*model.VerificationRequest, error)

	// GetActiveByProvider returns nil, nil when the provider has no active verification
	GetActiveByProvider(ctx context.Context, providerID uuid.UUID) (*model.VerificationRequest, error)

	ListByStatus(ctx context.Context, status model.VerificationStatus, limit, offset int) ([]*model.VerificationRequest, error)

	// Review transitions pending→approved or pending→rejected, recording
	// reviewer and timestamp. Returns a NotFound or InvalidState error when
	// the request is missing or not pending.
	Review(ctx context.Context, id uuid.UUID, status model.VerificationStatus, reviewerID uuid.UUID, note *string) (*model.VerificationRequest, error)

	// Revoke transitions active→revoked and clears the identity store's
	// verified flag atomically. Returns InvalidState when the request is not active.
	Revoke(ctx context.Context, id uuid.UUID, note string) error

	// ListExpiredActive returns active requests whose activeUntil has passed
	ListExpiredActive(ctx context.Context, asOf time.Time, limit int) ([]*model.VerificationRequest, error)
}
