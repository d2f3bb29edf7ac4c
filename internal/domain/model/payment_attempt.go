package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentAttemptStatus represents the state of a push-payment attempt
type PaymentAttemptStatus string

const (
	PaymentAttemptStatusPending   PaymentAttemptStatus = "pending"
	PaymentAttemptStatusCompleted PaymentAttemptStatus = "completed"
	PaymentAttemptStatusFailed    PaymentAttemptStatus = "failed"
)

// Scan implements sql.Scanner interface
func (s *PaymentAttemptStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = PaymentAttemptStatus(v)
	case []byte:
		*s = PaymentAttemptStatus(v)
	default:
		*s = PaymentAttemptStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s PaymentAttemptStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Terminal reports whether the attempt reached a final outcome.
func (s PaymentAttemptStatus) Terminal() bool {
	return s == PaymentAttemptStatusCompleted || s == PaymentAttemptStatusFailed
}

// PaymentAttempt records one push-payment prompt sent for a verification
// request. At most one attempt per request is pending at a time (partial
// unique index); terminal status is written exactly once and later writers
// no-op, which is what makes concurrent poll/callback reconciliation safe.
type PaymentAttempt struct {
	ID                    uuid.UUID            `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ProviderID            uuid.UUID            `gorm:"type:uuid;not null;index" json:"provider_id"`
	VerificationRequestID uuid.UUID            `gorm:"type:uuid;not null;index" json:"verification_request_id"`
	PhoneNumber           string               `gorm:"size:12;not null" json:"phone_number"`
	Amount                decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency              string               `gorm:"size:3;not null" json:"currency"`
	MerchantRequestID     *string              `gorm:"size:100" json:"merchant_request_id,omitempty"`
	CheckoutRequestID     *string              `gorm:"size:100;uniqueIndex" json:"checkout_request_id,omitempty"`
	Status                PaymentAttemptStatus `gorm:"type:payment_attempt_status;not null;default:'pending';index" json:"status"`
	ResultCode            *string              `gorm:"size:20" json:"result_code,omitempty"`
	ResultDesc            *string              `json:"result_desc,omitempty"`
	ReceiptNumber         *string              `gorm:"size:50" json:"receipt_number,omitempty"`
	PaidAt                *time.Time           `json:"paid_at,omitempty"`
	CreatedAt             time.Time            `gorm:"default:now()" json:"created_at"`
	UpdatedAt             time.Time            `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PaymentAttempt) TableName() string {
	return "payment_attempts"
}
