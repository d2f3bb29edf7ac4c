package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domainErrors "github.com/fundilink/verification-service/internal/domain/errors"
	"github.com/fundilink/verification-service/internal/domain/model"
	domainRepo "github.com/fundilink/verification-service/internal/domain/repository"
)

type paymentAttemptRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentAttemptRepository creates a new payment attempt repository
func NewPaymentAttemptRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentAttemptRepository {
	return &paymentAttemptRepository{db: db, logger: logger}
}

// Create inserts a pending attempt unless one already exists for the same
// verification request. The pre-check handles the common retry/double-click
// case; the partial unique index closes the race between two concurrent
// initiations, in which case the loser fetches and returns the winner's row.
func (r *paymentAttemptRepository) Create(ctx context.Context, attempt *model.PaymentAttempt) (*model.PaymentAttempt, bool, error) {
	existing, err := r.GetPendingByRequest(ctx, attempt.VerificationRequestID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	err = r.db.WithContext(ctx).Create(attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, getErr := r.GetPendingByRequest(ctx, attempt.VerificationRequestID)
			if getErr != nil {
				return nil, false, getErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		r.logger.Error("Failed to create payment attempt",
			zap.String("verification_request_id", attempt.VerificationRequestID.String()),
			zap.Error(err))
		return nil, false, fmt.Errorf("failed to create payment attempt: %w", err)
	}

	return attempt, true, nil
}

func (r *paymentAttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PaymentAttempt, error) {
	var attempt model.PaymentAttempt
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get payment attempt: %w", err)
	}
	return &attempt, nil
}

func (r *paymentAttemptRepository) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*model.PaymentAttempt, error) {
	var attempt model.PaymentAttempt
	err := r.db.WithContext(ctx).Where("checkout_request_id = ?", checkoutRequestID).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get payment attempt by checkout id: %w", err)
	}
	return &attempt, nil
}

func (r *paymentAttemptRepository) GetPendingByRequest(ctx context.Context, verificationRequestID uuid.UUID) (*model.PaymentAttempt, error) {
	var attempt model.PaymentAttempt
	err := r.db.WithContext(ctx).
		Where("verification_request_id = ? AND status = ?", verificationRequestID, model.PaymentAttemptStatusPending).
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending payment attempt: %w", err)
	}
	return &attempt, nil
}

func (r *paymentAttemptRepository) SetCorrelationIDs(ctx context.Context, id uuid.UUID, merchantRequestID, checkoutRequestID string) error {
	err := r.db.WithContext(ctx).
		Model(&model.PaymentAttempt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"merchant_request_id": merchantRequestID,
			"checkout_request_id": checkoutRequestID,
			"updated_at":          time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to store correlation ids: %w", err)
	}
	return nil
}

// Delete removes an attempt whose push initiation failed so the row never
// blocks a clean retry. Only pending rows without correlation ids qualify.
func (r *paymentAttemptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, model.PaymentAttemptStatusPending).
		Delete(&model.PaymentAttempt{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete payment attempt: %w", err)
	}
	return nil
}

// MarkTerminal is the idempotent sink both reconciliation paths race into.
// The guarded update only touches pending rows; when zero rows are affected
// the stored terminal row is returned unchanged, whatever outcome was asked for.
func (r *paymentAttemptRepository) MarkTerminal(ctx context.Context, id uuid.UUID, status model.PaymentAttemptStatus, resultCode, resultDesc string) (*model.PaymentAttempt, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("mark terminal called with non-terminal status %q", status)
	}

	updates := map[string]interface{}{
		"status":      status,
		"result_code": resultCode,
		"result_desc": resultDesc,
		"updated_at":  time.Now(),
	}

	res := r.db.WithContext(ctx).
		Model(&model.PaymentAttempt{}).
		Where("id = ? AND status = ?", id, model.PaymentAttemptStatusPending).
		Updates(updates)
	if res.Error != nil {
		r.logger.Error("Failed to mark payment attempt terminal",
			zap.String("attempt_id", id.String()),
			zap.String("status", string(status)),
			zap.Error(res.Error))
		return nil, fmt.Errorf("failed to mark payment attempt terminal: %w", res.Error)
	}

	attempt, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if res.RowsAffected == 0 {
		r.logger.Debug("Payment attempt already terminal, keeping stored outcome",
			zap.String("attempt_id", id.String()),
			zap.String("stored_status", string(attempt.Status)),
			zap.String("requested_status", string(status)))
	}

	return attempt, nil
}
