package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	domainRepo "github.com/fundilink/verification-service/internal/domain/repository"
)

const sweepBatchSize = 100

// ExpirySweeper periodically revokes active verifications whose paid
// period has lapsed, clearing the identity verified flag through the same
// transactional path admin revocation uses. Lapse handling is an explicit
// policy here rather than an implicit decay: a badge stays on until the
// sweep revokes it.
type ExpirySweeper struct {
	verificationRepo domainRepo.VerificationRequestRepository
	interval         time.Duration
	logger           *zap.Logger
}

// NewExpirySweeper creates a new expiry sweeper
func NewExpirySweeper(
	verificationRepo domainRepo.VerificationRequestRepository,
	interval time.Duration,
	logger *zap.Logger,
) *ExpirySweeper {
	return &ExpirySweeper{
		verificationRepo: verificationRepo,
		interval:         interval,
		logger:           logger,
	}
}

// Run sweeps once immediately and then at every interval until the context
// is cancelled.
func (s *ExpirySweeper) Run(ctx context.Context) {
	s.logger.Info("Expiry sweeper started", zap.Duration("interval", s.interval))

	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("Expiry sweep failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Expiry sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("Expiry sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep revokes all lapsed active verifications and returns how many were
// revoked. Individual revocation failures are logged and skipped so one
// bad row cannot stall the rest of the batch.
func (s *ExpirySweeper) Sweep(ctx context.Context) (int, error) {
	expired, err := s.verificationRepo.ListExpiredActive(ctx, time.Now(), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	revoked := 0
	for _, req := range expired {
		if err := s.verificationRepo.Revoke(ctx, req.ID, "verification period lapsed"); err != nil {
			s.logger.Error("Failed to revoke lapsed verification",
				zap.String("request_id", req.ID.String()),
				zap.Error(err))
			continue
		}
		revoked++
	}

	if revoked > 0 {
		s.logger.Info("Lapsed verifications revoked", zap.Int("count", revoked))
	}

	return revoked, nil
}
