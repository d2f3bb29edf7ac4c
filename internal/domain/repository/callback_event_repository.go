package repository

import (
	"context"

	"github.com/fundilink/verification-service/internal/domain/model"
)

// CallbackEventRepository journals inbound gateway callbacks for audit and
// replay. The journal has no uniqueness guarantee; idempotency lives in the
// payment attempt's terminal write, not here.
type CallbackEventRepository interface {
	Save(ctx context.Context, event *model.GatewayCallbackEvent) error
	MarkProcessed(ctx context.Context, id int64, status model.CallbackStatus, lastError *string) error
	ListByCheckoutRequestID(ctx context.Context, checkoutRequestID string) ([]*model.GatewayCallbackEvent, error)
}
