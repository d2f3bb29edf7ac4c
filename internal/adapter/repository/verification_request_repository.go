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

type verificationRequestRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewVerificationRequestRepository creates a new verification request repository
func NewVerificationRequestRepository(db *gorm.DB, logger *zap.Logger) domainRepo.VerificationRequestRepository {
	return &verificationRequestRepository{db: db, logger: logger}
}

func (r *verificationRequestRepository) Create(ctx context.Context, req *model.VerificationRequest) error {
	err := r.db.WithContext(ctx).Create(req).Error
	if err != nil {
		// The partial unique index on (provider_id) WHERE status='pending'
		// catches concurrent double-submits that the pre-check missed.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.NewDuplicatePendingRequestError(req.ProviderID.String())
		}
		r.logger.Error("Failed to create verification request",
			zap.String("provider_id", req.ProviderID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create verification request: %w", err)
	}
	return nil
}

func (r *verificationRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.VerificationRequest, error) {
	var req model.VerificationRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewVerificationNotFoundError("", id.String())
		}
		return nil, fmt.Errorf("failed to get verification request: %w", err)
	}
	return &req, nil
}

func (r *verificationRequestRepository) GetPendingByProvider(ctx context.Context, providerID uuid.UUID) (*model.VerificationRequest, error) {
	return r.getOneByProviderAndStatus(ctx, providerID, model.VerificationStatusPending)
}

func (r *verificationRequestRepository) GetActiveByProvider(ctx context.Context, providerID uuid.UUID) (*model.VerificationRequest, error) {
	return r.getOneByProviderAndStatus(ctx, providerID, model.VerificationStatusActive)
}

func (r *verificationRequestRepository) getOneByProviderAndStatus(ctx context.Context, providerID uuid.UUID, status model.VerificationStatus) (*model.VerificationRequest, error) {
	var req model.VerificationRequest
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND status = ?", providerID, status).
		Order("created_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get verification request by provider",
			zap.String("provider_id", providerID.String()),
			zap.String("status", string(status)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get verification request: %w", err)
	}
	return &req, nil
}

func (r *verificationRequestRepository) GetLatestByProvider(ctx context.Context, providerID uuid.UUID) (*model.VerificationRequest, error) {
	var req model.VerificationRequest
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest verification request: %w", err)
	}
	return &req, nil
}

func (r *verificationRequestRepository) ListByStatus(ctx context.Context, status model.VerificationStatus, limit, offset int) ([]*model.VerificationRequest, error) {
	var reqs []*model.VerificationRequest

	query := r.db.WithContext(ctx).Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Find(&reqs).Error; err != nil {
		r.logger.Error("Failed to list verification requests",
			zap.String("status", string(status)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list verification requests: %w", err)
	}
	return reqs, nil
}

// Review applies pending→approved or pending→rejected with a guarded update;
// zero rows affected means the request was missing or not pending.
func (r *verificationRequestRepository) Review(ctx context.Context, id uuid.UUID, status model.VerificationStatus, reviewerID uuid.UUID, note *string) (*model.VerificationRequest, error) {
	if status != model.VerificationStatusApproved && status != model.VerificationStatusRejected {
		return nil, domainErrors.NewInvalidStateError(id.String(), string(status), "approved or rejected")
	}

	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.VerificationRequest{}).
		Where("id = ? AND status = ?", id, model.VerificationStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": &now,
			"note":        note,
			"updated_at":  now,
		})
	if res.Error != nil {
		r.logger.Error("Failed to review verification request",
			zap.String("request_id", id.String()),
			zap.Error(res.Error))
		return nil, fmt.Errorf("failed to review verification request: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, domainErrors.NewInvalidStateError(id.String(), string(existing.Status), string(model.VerificationStatusPending))
	}

	return r.GetByID(ctx, id)
}

// Revoke flips active→revoked and clears the identity verified flag in one
// transaction, keeping search/listing reads from seeing a half-applied state.
func (r *verificationRequestRepository) Revoke(ctx context.Context, id uuid.UUID, note string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req model.VerificationRequest
		err := tx.Where("id = ?", id).First(&req).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.NewVerificationNotFoundError("", id.String())
			}
			return fmt.Errorf("failed to load verification request: %w", err)
		}

		now := time.Now()
		res := tx.Model(&model.VerificationRequest{}).
			Where("id = ? AND status = ?", id, model.VerificationStatusActive).
			Updates(map[string]interface{}{
				"status":       model.VerificationStatusRevoked,
				"note":         note,
				"active_until": nil,
				"updated_at":   now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to revoke verification request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domainErrors.NewInvalidStateError(id.String(), string(req.Status), string(model.VerificationStatusActive))
		}

		err = tx.Model(&model.User{}).
			Where("id = ?", req.ProviderID).
			Updates(map[string]interface{}{
				"verified":       false,
				"verified_until": nil,
				"updated_at":     now,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to clear verified flag: %w", err)
		}

		r.logger.Info("Verification revoked",
			zap.String("request_id", id.String()),
			zap.String("provider_id", req.ProviderID.String()),
			zap.String("note", note))

		return nil
	})
}

func (r *verificationRequestRepository) ListExpiredActive(ctx context.Context, asOf time.Time, limit int) ([]*model.VerificationRequest, error) {
	var reqs []*model.VerificationRequest
	query := r.db.WithContext(ctx).
		Where("status = ? AND active_until IS NOT NULL AND active_until < ?", model.VerificationStatusActive, asOf).
		Order("active_until ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list expired verifications: %w", err)
	}
	return reqs, nil
}
