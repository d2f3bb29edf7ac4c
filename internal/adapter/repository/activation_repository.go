package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domainErrors "github.com/fundilink/verification-service/internal/domain/errors"
	"github.com/fundilink/verification-service/internal/domain/model"
	domainRepo "github.com/fundilink/verification-service/internal/domain/repository"
)

type activationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewActivationRepository creates a new activation repository
func NewActivationRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ActivationRepository {
	return &activationRepository{db: db, logger: logger}
}

// Activate performs the single transaction that turns a confirmed payment
// into an active verification: attempt→completed, request→active with
// expiry, identity verified flag→true. The attempt update is the idempotency
// guard: when another reconciliation path already completed it, the whole
// call is a no-op; when anything else fails the transaction rolls back and
// the attempt stays pending for the next poll or callback to retry.
func (r *activationRepository) Activate(ctx context.Context, params domainRepo.ActivationParams) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		attemptUpdates := map[string]interface{}{
			"status":      model.PaymentAttemptStatusCompleted,
			"result_code": params.ResultCode,
			"result_desc": params.ResultDesc,
			"paid_at":     params.PaidAt,
			"updated_at":  now,
		}
		if params.ReceiptNumber != "" {
			attemptUpdates["receipt_number"] = params.ReceiptNumber
		}

		res := tx.Model(&model.PaymentAttempt{}).
			Where("id = ? AND status = ?", params.AttemptID, model.PaymentAttemptStatusPending).
			Updates(attemptUpdates)
		if res.Error != nil {
			return fmt.Errorf("failed to complete payment attempt: %w", res.Error)
		}

		var attempt model.PaymentAttempt
		if err := tx.Where("id = ?", params.AttemptID).First(&attempt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.ErrAttemptNotFound
			}
			return fmt.Errorf("failed to load payment attempt: %w", err)
		}

		if res.RowsAffected == 0 {
			// Another path won the race. Completed means activation already
			// happened; failed means a conflicting terminal outcome.
			if attempt.Status == model.PaymentAttemptStatusCompleted {
				r.logger.Debug("Attempt already completed, activation is a no-op",
					zap.String("attempt_id", params.AttemptID.String()))
				return nil
			}
			return domainErrors.ErrAttemptAlreadyFailed
		}

		reqRes := tx.Model(&model.VerificationRequest{}).
			Where("id = ? AND status = ?", attempt.VerificationRequestID, model.VerificationStatusApproved).
			Updates(map[string]interface{}{
				"status":       model.VerificationStatusActive,
				"active_until": params.ActiveUntil,
				"updated_at":   now,
			})
		if reqRes.Error != nil {
			return fmt.Errorf("failed to activate verification request: %w", reqRes.Error)
		}
		if reqRes.RowsAffected == 0 {
			// The request left the approved state underneath us (admin
			// rejection race or data drift). Roll everything back; the
			// attempt stays pending for a later signal.
			r.logger.Warn("Verification request not in approved state during activation",
				zap.String("attempt_id", params.AttemptID.String()),
				zap.String("verification_request_id", attempt.VerificationRequestID.String()))
			return domainErrors.ErrActivationConflict
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", attempt.ProviderID).
			Updates(map[string]interface{}{
				"verified":       true,
				"verified_until": params.ActiveUntil,
				"updated_at":     now,
			}).Error; err != nil {
			return fmt.Errorf("failed to set verified flag: %w", err)
		}

		r.logger.Info("Verification activated",
			zap.String("attempt_id", params.AttemptID.String()),
			zap.String("verification_request_id", attempt.VerificationRequestID.String()),
			zap.String("provider_id", attempt.ProviderID.String()),
			zap.Time("active_until", params.ActiveUntil))

		return nil
	})
}
