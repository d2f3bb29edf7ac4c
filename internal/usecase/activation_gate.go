package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainRepo "github.com/fundilink/verification-service/internal/domain/repository"
)

// ActivationGate is the single choke-point that flips a provider's verified
// flag. It only ever runs on a confirmed payment signal, computes the badge
// expiry from policy and delegates the atomic write to the activation
// repository. Re-entrant: a repeat call for an already-completed attempt is
// a no-op.
type ActivationGate struct {
	activationRepo domainRepo.ActivationRepository
	activePeriod   time.Duration
	logger         *zap.Logger
}

// NewActivationGate creates a new activation gate with the configured
// badge duration.
func NewActivationGate(
	activationRepo domainRepo.ActivationRepository,
	activePeriod time.Duration,
	logger *zap.Logger,
) *ActivationGate {
	return &ActivationGate{
		activationRepo: activationRepo,
		activePeriod:   activePeriod,
		logger:         logger,
	}
}

// Activate marks the attempt completed, sets the verification active with
// expiry now+period and flips the verified flag, all in one transaction.
// paidAt defaults to now when the signal carried no transaction timestamp.
func (g *ActivationGate) Activate(ctx context.Context, attemptID uuid.UUID, resultCode, resultDesc, receiptNumber string, paidAt *time.Time) error {
	now := time.Now()

	paid := now
	if paidAt != nil {
		paid = *paidAt
	}

	params := domainRepo.ActivationParams{
		AttemptID:     attemptID,
		ActiveUntil:   now.Add(g.activePeriod),
		PaidAt:        paid,
		ReceiptNumber: receiptNumber,
		ResultCode:    resultCode,
		ResultDesc:    resultDesc,
	}

	if err := g.activationRepo.Activate(ctx, params); err != nil {
		g.logger.Warn("Activation did not apply",
			zap.String("attempt_id", attemptID.String()),
			zap.Error(err))
		return err
	}

	return nil
}
