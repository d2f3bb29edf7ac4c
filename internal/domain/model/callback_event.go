package model

import (
	"database/sql/driver"
	"time"
)

// CallbackStatus represents the processing status of an inbound gateway callback
type CallbackStatus string

const (
	CallbackStatusPending   CallbackStatus = "pending"
	CallbackStatusCompleted CallbackStatus = "completed"
	CallbackStatusFailed    CallbackStatus = "failed"
)

// Scan implements sql.Scanner interface
func (s *CallbackStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = CallbackStatus(v)
	case []byte:
		*s = CallbackStatus(v)
	default:
		*s = CallbackStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s CallbackStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// GatewayCallbackEvent journals every inbound push-payment callback before
// it is processed. The gateway does not guarantee at-most-once delivery,
// so rows here may repeat a checkout id; processing stays idempotent.
type GatewayCallbackEvent struct {
	ID                int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	MerchantRequestID string         `gorm:"size:100" json:"merchant_request_id"`
	CheckoutRequestID string         `gorm:"size:100;index" json:"checkout_request_id"`
	ResultCode        string         `gorm:"size:20" json:"result_code"`
	ResultDesc        string         `json:"result_desc"`
	Payload           JSONB          `gorm:"type:jsonb;not null" json:"payload"`
	Status            CallbackStatus `gorm:"type:callback_status;default:'pending';index" json:"status"`
	ProcessedAt       *time.Time     `json:"processed_at,omitempty"`
	LastError         *string        `json:"last_error,omitempty"`
	CreatedAt         time.Time      `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (GatewayCallbackEvent) TableName() string {
	return "gateway_callback_events"
}
