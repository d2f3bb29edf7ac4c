package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fundilink/verification-service/internal/domain/model"
	domainRepo "github.com/fundilink/verification-service/internal/domain/repository"
)

type callbackEventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCallbackEventRepository creates a new callback event repository
func NewCallbackEventRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CallbackEventRepository {
	return &callbackEventRepository{db: db, logger: logger}
}

func (r *callbackEventRepository) Save(ctx context.Context, event *model.GatewayCallbackEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		r.logger.Error("Failed to journal gateway callback",
			zap.String("checkout_request_id", event.CheckoutRequestID),
			zap.Error(err))
		return fmt.Errorf("failed to save callback event: %w", err)
	}
	return nil
}

func (r *callbackEventRepository) MarkProcessed(ctx context.Context, id int64, status model.CallbackStatus, lastError *string) error {
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&model.GatewayCallbackEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"processed_at": &now,
			"last_error":   lastError,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark callback event processed: %w", err)
	}
	return nil
}

func (r *callbackEventRepository) ListByCheckoutRequestID(ctx context.Context, checkoutRequestID string) ([]*model.GatewayCallbackEvent, error) {
	var events []*model.GatewayCallbackEvent
	err := r.db.WithContext(ctx).
		Where("checkout_request_id = ?", checkoutRequestID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list callback events: %w", err)
	}
	return events, nil
}
